package model

type AuditActor struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	IP    string `json:"ip,omitempty"`
}

type AuditEntry struct {
	Action     string     `json:"action"`
	OccurredAt string     `json:"occurred_at"`
	Actor      AuditActor `json:"actor"`
	Status     string     `json:"status"`
	Resource   string     `json:"resource,omitempty"`
	Error      string     `json:"error,omitempty"`
}

type AuditQuery struct {
	Action     string
	ActorEmail string
	Status     string
	Page       int
	Limit      int
}

// Normalize clamps paging to 1-based pages of at most 200 entries.
func (q AuditQuery) Normalize() AuditQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
	return q
}

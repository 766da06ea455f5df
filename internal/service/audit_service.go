package service

import (
	"context"
	"log/slog"
	"time"

	"go-insurance-admin/internal/model"
)

const (
	auditSuccess = "success"
	auditFailed  = "failed"
)

type AuditService struct {
	store AuditStore
	now   func() time.Time
}

func NewAuditService(store AuditStore) *AuditService {
	return &AuditService{store: store, now: time.Now}
}

// Log records an entry. Storage failures are logged and swallowed so an
// audit outage never fails the audited operation.
func (s *AuditService) Log(ctx context.Context, action string, actor model.AuditActor, resource string, err error) {
	if s == nil || s.store == nil {
		return
	}

	entry := model.AuditEntry{
		Action:     action,
		OccurredAt: s.now().UTC().Format(time.RFC3339Nano),
		Actor:      actor,
		Status:     auditSuccess,
		Resource:   resource,
	}
	if err != nil {
		entry.Status = auditFailed
		entry.Error = err.Error()
	}

	if logErr := s.store.Log(context.WithoutCancel(ctx), entry); logErr != nil {
		slog.Error("audit write failed", "action", action, "resource", resource, "error", logErr)
	}
}

func (s *AuditService) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	return s.store.Query(ctx, query.Normalize())
}

package model

type APIResponse struct {
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	Data         any       `json:"data,omitempty"`
	AccessToken  string    `json:"access_token,omitempty"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	Error        *APIError `json:"error,omitempty"`
	*Meta
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Meta is inlined into paginated responses.
type Meta struct {
	CurrentPage            int  `json:"current_page"`
	PageSize               int  `json:"page_size"`
	TotalPages             int  `json:"total_pages"`
	TotalRecords           int  `json:"total_records"`
	TotalPurchasedPolicies *int `json:"total_purchased_policies,omitempty"`
}

type PaymentReceipt struct {
	PaymentID int64 `json:"payment_id"`
}

func NewMeta(page int, size int, total int) Meta {
	return Meta{
		CurrentPage:  page,
		PageSize:     size,
		TotalPages:   TotalPages(total, size),
		TotalRecords: total,
	}
}

// TotalPages is ceil(total/size); zero records means zero pages.
func TotalPages(total int, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

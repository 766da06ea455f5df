package middleware

import (
	"encoding/json"
	"net/http"

	"go-insurance-admin/internal/model"
)

func errorEnvelope(code string, message string) model.APIResponse {
	return model.APIResponse{
		Status:  "error",
		Message: message,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	}
}

func writeJSONError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorEnvelope(code, message))
}

package handler

import (
	"net/http"

	"go-insurance-admin/internal/middleware"
	"go-insurance-admin/internal/model"
)

func actorFromRequest(r *http.Request) model.AuditActor {
	actor := model.AuditActor{IP: middleware.ClientIP(r)}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		return actor
	}

	actor.Email = caller.Email
	actor.Role = string(caller.Role)
	return actor
}

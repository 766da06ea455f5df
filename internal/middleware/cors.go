package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// CORS allows the browser clients listed in origins. Credentials are only
// allowed for an explicit origin list, never for "*".
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
		// receipts are downloaded as attachments; Retry-After accompanies 429s
		ExposedHeaders:   []string{"Content-Disposition", "Content-Length", "Retry-After", requestIDHeader},
		MaxAge:           3600,
		AllowCredentials: !slices.Contains(origins, "*"),
	})

	return handler.Handler
}

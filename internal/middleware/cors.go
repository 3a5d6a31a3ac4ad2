package middleware

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// Cors lets browsers call the API from the listed origins, or from any
// origin when the list is empty. Session tokens travel in the Authorization
// header, so it must be allowed through.
func Cors(allowedOrigins []string) Middleware {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, origin)
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}

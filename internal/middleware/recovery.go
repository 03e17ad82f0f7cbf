package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/awesomegusS/agentic-data-explorer/internal/models"
)

func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Str("path", r.URL.Path).
					Msg("panic recovered")
				models.WriteErrorDetail(w, http.StatusInternalServerError,
					"internal server error", models.ErrTypeUnexpected, nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

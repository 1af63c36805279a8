package callbacktoken

import (
	"crypto/subtle"
	"github.com/go-chi/render"
	"imageLocator/internal/lib/api/response"
	"net/http"
	"strings"
)

// New guards the callback endpoint with a shared bearer secret.
// An empty token leaves the endpoint open.
func New(token string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}

		fn := func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

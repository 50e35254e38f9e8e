package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/smg-ev/vendor-portal/internal/platform/httpx"
)

// HeaderAdminToken is the alternative to an Authorization bearer token.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdmin guards destructive and queueing routes.
func RequireAdmin(service *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := service.Authenticate(tokenFromRequest(r)); err != nil {
				if logger != nil {
					logger.Warn("admin request rejected",
						slog.String("path", r.URL.Path),
						slog.String("remote", r.RemoteAddr),
						slog.Any("error", err))
				}
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(HeaderAdminToken))
}

package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/opentransit/stationwatch/pkg/sessionx"
	"github.com/opentransit/stationwatch/pkg/slogx"
)

// SessionMiddleware verifies the bearer session token and injects the
// decoded user id and email into the request context. Verification is
// purely local (signature plus expiry); no store lookup happens here.
func SessionMiddleware(codec *sessionx.Codec) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			sess, err := codec.Verify(raw)
			if err != nil {
				switch {
				case errors.Is(err, sessionx.ErrExpired):
					writeBearerError(w, "session expired")
				case errors.Is(err, sessionx.ErrTampered):
					// Worth a log line: an invalid signature means someone
					// presented a token we never issued.
					log.Warn("session token signature invalid")
					writeBearerError(w, "invalid session token")
				default:
					writeBearerError(w, "invalid session token")
				}
				return
			}

			ctx = context.WithValue(ctx, CtxKeyUserID, sess.UserID)
			ctx = context.WithValue(ctx, CtxKeyEmail, sess.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-style error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}

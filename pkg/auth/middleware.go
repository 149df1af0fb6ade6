package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/chainsafe/mint-permit-oracle/pkg/app/errors"
	apphttp "github.com/chainsafe/mint-permit-oracle/pkg/app/http"
)

const bearerPrefix = "Bearer "

// Middleware rejects requests without a valid admin bearer token and stores
// the token subject in the request context.
func Middleware(v *JWTValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(nil, "missing bearer token"))
				return
			}

			claims, err := v.ValidateToken(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
			if err != nil {
				logger.Warn("admin token rejected",
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(err, "invalid token"))
				return
			}

			ctx := WithSubject(r.Context(), claims.Subject)
			ctx = WithTokenID(ctx, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

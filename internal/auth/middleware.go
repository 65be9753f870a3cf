package auth

import (
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	apperrors "yoyaku/pkg/errors"
	httputil "yoyaku/pkg/http"
	"yoyaku/pkg/logger"
)

// Guard wraps a route handler with an access check.
type Guard func(httprouter.Handle) httprouter.Handle

// AdminOnly guards a route behind a valid admin bearer token.
func AdminOnly(service AuthService, log *logger.Logger) Guard {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			token, ok := bearerToken(r)
			if !ok {
				writeAuthError(w, log, apperrors.Unauthorized("Missing bearer token"))
				return
			}

			claims, err := service.VerifyToken(token)
			if err != nil {
				writeAuthError(w, log, err)
				return
			}
			if !claims.IsAdmin {
				writeAuthError(w, log, apperrors.Forbidden("Admin access required"))
				return
			}

			next(w, r, ps)
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func writeAuthError(w http.ResponseWriter, log *logger.Logger, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		log.Error("failed to write auth error response", "error", writeErr)
	}
}

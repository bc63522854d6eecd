package auth

import (
	"net/http"

	"github.com/go-chi/render"
	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/kubev2v/job-tracker/internal/config"
	"github.com/kubev2v/job-tracker/pkg/metrics"
	"github.com/kubev2v/job-tracker/pkg/requestid"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticator(next http.Handler) http.Handler
}

func NewAuthenticator(authConfig config.Auth) (Authenticator, error) {
	zap.S().Named("auth").Infof("authentication: '%s'", authConfig.AuthenticationType)

	switch authConfig.AuthenticationType {
	case config.JWTAuthentication:
		return NewJWTAuthenticator(authConfig.JwkCertURL)
	default:
		return NewHeaderAuthenticator(), nil
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, api.Error{Error: "Unauthorized", RequestId: requestid.FromRequest(r)})
}

func serveAuthenticated(next http.Handler, w http.ResponseWriter, r *http.Request, user User) {
	metrics.ActiveUsersPerWeek.Observe(user.ID)
	next.ServeHTTP(w, r.WithContext(NewTokenContext(r.Context(), user)))
}

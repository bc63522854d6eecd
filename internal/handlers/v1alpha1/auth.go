package v1alpha1

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/kubev2v/job-tracker/internal/auth"
	"github.com/kubev2v/job-tracker/internal/handlers/v1alpha1/mappers"
	"github.com/kubev2v/job-tracker/pkg/log"
	"github.com/kubev2v/job-tracker/pkg/metrics"
	"golang.org/x/oauth2"
)

const (
	StateCookie    = "job_tracker_oauth_state"
	VerifierCookie = "job_tracker_oauth_verifier"

	oauthCookiePath   = "/api/auth/google"
	oauthCookieMaxAge = 10 * time.Minute

	msgAuthFailed = "Authentication failed"
)

// (POST /api/auth/google)
func (h *ServiceHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.identity.(auth.SignInProvider)
	if !ok {
		renderError(w, r, http.StatusNotFound, "Sign-in flow not available")
		return
	}

	logger := log.NewDebugLogger("auth_handler").WithContext(r.Context()).Operation("sign_in").WithParam("provider", provider.Name()).Build()

	user, err := provider.SignIn(r.Context())
	if err != nil {
		metrics.IncreaseSignInsMetric(provider.Name(), metrics.ResultError)
		logger.Error(err).Log()
		renderServerError(w, r, msgAuthFailed, err)
		return
	}

	metrics.IncreaseSignInsMetric(provider.Name(), metrics.ResultSuccess)
	logger.Success().WithParam("user_id", user.ID).Log()
	render.JSON(w, r, api.SignInResponse{User: mappers.UserToApi(user)})
}

// (GET /api/auth/google/login)
func (h *ServiceHandler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.identity.(auth.OAuthProvider)
	if !ok {
		renderError(w, r, http.StatusNotFound, "OAuth flow not available")
		return
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	setOAuthCookie(w, r, StateCookie, state, oauthCookieMaxAge)
	setOAuthCookie(w, r, VerifierCookie, verifier, oauthCookieMaxAge)

	http.Redirect(w, r, provider.AuthCodeURL(state, verifier), http.StatusFound)
}

// (GET /api/auth/google/callback)
func (h *ServiceHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.identity.(auth.OAuthProvider)
	if !ok {
		renderError(w, r, http.StatusNotFound, "OAuth flow not available")
		return
	}

	logger := log.NewDebugLogger("auth_handler").WithContext(r.Context()).Operation("oauth_callback").WithParam("provider", provider.Name()).Build()

	state, stateErr := r.Cookie(StateCookie)
	verifier, verifierErr := r.Cookie(VerifierCookie)
	// the cookies are single use
	setOAuthCookie(w, r, StateCookie, "", -time.Second)
	setOAuthCookie(w, r, VerifierCookie, "", -time.Second)

	query := r.URL.Query()
	if reason := query.Get("error"); reason != "" {
		metrics.IncreaseSignInsMetric(provider.Name(), metrics.ResultInvalid)
		logger.Error(errOAuthDenied(reason)).Log()
		renderError(w, r, http.StatusUnauthorized, msgAuthFailed)
		return
	}

	if stateErr != nil || verifierErr != nil || query.Get("state") == "" ||
		subtle.ConstantTimeCompare([]byte(state.Value), []byte(query.Get("state"))) != 1 {
		metrics.IncreaseSignInsMetric(provider.Name(), metrics.ResultInvalid)
		renderError(w, r, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	code := query.Get("code")
	if code == "" {
		metrics.IncreaseSignInsMetric(provider.Name(), metrics.ResultInvalid)
		renderError(w, r, http.StatusBadRequest, "Authorization code is required")
		return
	}

	user, err := provider.Exchange(r.Context(), code, verifier.Value)
	if err != nil {
		metrics.IncreaseSignInsMetric(provider.Name(), metrics.ResultError)
		logger.Error(err).Log()
		renderServerError(w, r, msgAuthFailed, err)
		return
	}

	metrics.IncreaseSignInsMetric(provider.Name(), metrics.ResultSuccess)
	logger.Success().WithParam("user_id", user.ID).Log()
	render.JSON(w, r, api.SignInResponse{User: mappers.UserToApi(user)})
}

func setOAuthCookie(w http.ResponseWriter, r *http.Request, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     oauthCookiePath,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

type errOAuthDenied string

func (e errOAuthDenied) Error() string {
	return "oauth provider returned error: " + string(e)
}

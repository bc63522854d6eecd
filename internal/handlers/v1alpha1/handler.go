package v1alpha1

import (
	"net/http"

	"github.com/go-chi/render"
	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/kubev2v/job-tracker/internal/api/server"
	"github.com/kubev2v/job-tracker/internal/auth"
	"github.com/kubev2v/job-tracker/internal/handlers/validator"
	"github.com/kubev2v/job-tracker/internal/service"
	"github.com/kubev2v/job-tracker/pkg/requestid"
	"go.uber.org/zap"
)

// maxBodyBytes bounds every request body the handlers decode.
const maxBodyBytes = 1 << 20

type ServiceHandler struct {
	jobSrv    *service.JobService
	identity  auth.IdentityProvider
	validator *validator.Validator
}

var _ server.ServerInterface = (*ServiceHandler)(nil)

func NewServiceHandler(jobService *service.JobService, identity auth.IdentityProvider) *ServiceHandler {
	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)

	return &ServiceHandler{
		jobSrv:    jobService,
		identity:  identity,
		validator: v,
	}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, api.Error{Error: msg, RequestId: requestid.FromRequest(r)})
}

// renderServerError hides the cause from the caller and logs it instead.
func renderServerError(w http.ResponseWriter, r *http.Request, msg string, cause error) {
	zap.S().Named("handler").Errorw(msg,
		"error", cause,
		"request_id", requestid.FromRequest(r),
		"method", r.Method,
		"path", r.URL.Path,
	)
	renderError(w, r, http.StatusInternalServerError, msg)
}

func renderValidationError(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, api.Error{
		Error:     "Validation failed",
		Fields:    fields,
		RequestId: requestid.FromRequest(r),
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return render.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), v)
}

package v1alpha1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/kubev2v/job-tracker/internal/auth"
	"github.com/kubev2v/job-tracker/internal/handlers/v1alpha1/mappers"
	"github.com/kubev2v/job-tracker/internal/handlers/validator"
	"github.com/kubev2v/job-tracker/internal/service"
)

const (
	msgJobIDRequired = "Job ID is required"
	msgJobNotFound   = "Job not found"
)

// (GET /api/jobs)
func (h *ServiceHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	user := auth.MustHaveUser(r.Context())

	jobs, err := h.jobSrv.ListJobs(r.Context(), user.ID)
	if err != nil {
		renderServerError(w, r, "Failed to list jobs", err)
		return
	}

	render.JSON(w, r, mappers.JobListToApi(jobs))
}

// (POST /api/jobs)
func (h *ServiceHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	const failed = "Failed to create job"
	user := auth.MustHaveUser(r.Context())

	var form api.JobCreate
	if err := decodeJSON(w, r, &form); err != nil {
		renderServerError(w, r, failed, err)
		return
	}
	if !h.validate(w, r, form) {
		return
	}

	job, err := h.jobSrv.CreateJob(r.Context(), user.ID, mappers.JobFormFromApi(form))
	if err != nil {
		var invalid *service.ErrInvalidInput
		if errors.As(err, &invalid) {
			renderValidationError(w, r, map[string]string{"status": err.Error()})
			return
		}
		renderServerError(w, r, failed, err)
		return
	}

	render.JSON(w, r, api.JobResponse{Job: mappers.JobToApi(*job)})
}

// (PUT /api/jobs/{id})
func (h *ServiceHandler) UpdateJob(w http.ResponseWriter, r *http.Request, id string) {
	const failed = "Failed to update job"
	user := auth.MustHaveUser(r.Context())

	id = strings.TrimSpace(id)
	if id == "" {
		renderError(w, r, http.StatusBadRequest, msgJobIDRequired)
		return
	}

	var update api.JobUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		renderServerError(w, r, failed, err)
		return
	}
	if !h.validate(w, r, update) {
		return
	}

	job, err := h.jobSrv.UpdateJob(r.Context(), user.ID, id, mappers.JobPatchFromApi(update))
	if err != nil {
		var notFound *service.ErrResourceNotFound
		var invalid *service.ErrInvalidInput
		switch {
		case errors.As(err, &notFound):
			renderError(w, r, http.StatusNotFound, msgJobNotFound)
		case errors.As(err, &invalid):
			renderValidationError(w, r, map[string]string{"status": err.Error()})
		default:
			renderServerError(w, r, failed, err)
		}
		return
	}

	render.JSON(w, r, api.JobResponse{Job: mappers.JobToApi(*job)})
}

// (DELETE /api/jobs/{id})
func (h *ServiceHandler) DeleteJob(w http.ResponseWriter, r *http.Request, id string) {
	user := auth.MustHaveUser(r.Context())

	id = strings.TrimSpace(id)
	if id == "" {
		renderError(w, r, http.StatusBadRequest, msgJobIDRequired)
		return
	}

	if err := h.jobSrv.DeleteJob(r.Context(), user.ID, id); err != nil {
		var notFound *service.ErrResourceNotFound
		if errors.As(err, &notFound) {
			renderError(w, r, http.StatusNotFound, msgJobNotFound)
			return
		}
		renderServerError(w, r, "Failed to delete job", err)
		return
	}

	render.JSON(w, r, api.DeleteResponse{Success: true})
}

// validate renders the 400 itself and reports whether the handler may continue.
func (h *ServiceHandler) validate(w http.ResponseWriter, r *http.Request, v any) bool {
	err := h.validator.Struct(v)
	if err == nil {
		return true
	}

	var invalid *validator.ErrInvalidFields
	if errors.As(err, &invalid) {
		renderValidationError(w, r, invalid.Fields)
		return false
	}
	renderServerError(w, r, "Validation failed", err)
	return false
}

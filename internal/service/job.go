package service

import (
	"context"
	"errors"
	"strings"

	"github.com/kubev2v/job-tracker/internal/store"
	"github.com/kubev2v/job-tracker/internal/store/model"
	"github.com/kubev2v/job-tracker/pkg/log"
	"github.com/kubev2v/job-tracker/pkg/metrics"
)

const (
	opListJobs  = "list_jobs"
	opCreateJob = "create_job"
	opUpdateJob = "update_job"
	opDeleteJob = "delete_job"
)

type JobService struct {
	store  store.Store
	logger *log.StructuredLogger
}

func NewJobService(store store.Store) *JobService {
	return &JobService{
		store:  store,
		logger: log.NewDebugLogger("job_service"),
	}
}

func (s *JobService) ListJobs(ctx context.Context, userID string) ([]model.Job, error) {
	tracer := s.logger.WithContext(ctx).Operation(opListJobs).WithParam("user_id", userID).Build()

	jobs, err := s.store.Job().List(ctx, userID)
	if err != nil {
		metrics.IncreaseJobOperationsMetric(opListJobs, metrics.ResultError)
		tracer.Error(err).Log()
		return nil, err
	}

	metrics.IncreaseJobOperationsMetric(opListJobs, metrics.ResultSuccess)
	tracer.Success().WithParam("count", len(jobs)).Log()
	return jobs, nil
}

func (s *JobService) CreateJob(ctx context.Context, userID string, form model.JobForm) (*model.Job, error) {
	tracer := s.logger.WithContext(ctx).Operation(opCreateJob).WithParam("user_id", userID).Build()

	if !form.Status.Valid() {
		metrics.IncreaseJobOperationsMetric(opCreateJob, metrics.ResultInvalid)
		return nil, NewErrInvalidInput("unknown job status %q", form.Status)
	}
	form.CompanyName = strings.TrimSpace(form.CompanyName)
	form.JobRole = strings.TrimSpace(form.JobRole)
	form.JobURL = strings.TrimSpace(form.JobURL)

	job, err := s.store.Job().Create(ctx, userID, form)
	if err != nil {
		metrics.IncreaseJobOperationsMetric(opCreateJob, metrics.ResultError)
		tracer.Error(err).Log()
		return nil, err
	}

	metrics.IncreaseJobOperationsMetric(opCreateJob, metrics.ResultSuccess)
	tracer.Success().WithParam("job_id", job.ID).Log()
	return job, nil
}

func (s *JobService) UpdateJob(ctx context.Context, userID, id string, patch model.JobPatch) (*model.Job, error) {
	tracer := s.logger.WithContext(ctx).Operation(opUpdateJob).WithParam("user_id", userID).WithParam("job_id", id).Build()

	if patch.Status != nil && !patch.Status.Valid() {
		metrics.IncreaseJobOperationsMetric(opUpdateJob, metrics.ResultInvalid)
		return nil, NewErrInvalidInput("unknown job status %q", *patch.Status)
	}
	patch.CompanyName = trimmed(patch.CompanyName)
	patch.JobRole = trimmed(patch.JobRole)
	patch.JobURL = trimmed(patch.JobURL)

	job, err := s.store.Job().Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			metrics.IncreaseJobOperationsMetric(opUpdateJob, metrics.ResultNotFound)
			return nil, NewErrJobNotFound(id)
		}
		metrics.IncreaseJobOperationsMetric(opUpdateJob, metrics.ResultError)
		tracer.Error(err).Log()
		return nil, err
	}

	metrics.IncreaseJobOperationsMetric(opUpdateJob, metrics.ResultSuccess)
	tracer.Success().Log()
	return job, nil
}

func (s *JobService) DeleteJob(ctx context.Context, userID, id string) error {
	tracer := s.logger.WithContext(ctx).Operation(opDeleteJob).WithParam("user_id", userID).WithParam("job_id", id).Build()

	deleted, err := s.store.Job().Delete(ctx, userID, id)
	if err != nil {
		metrics.IncreaseJobOperationsMetric(opDeleteJob, metrics.ResultError)
		tracer.Error(err).Log()
		return err
	}
	if !deleted {
		metrics.IncreaseJobOperationsMetric(opDeleteJob, metrics.ResultNotFound)
		return NewErrJobNotFound(id)
	}

	metrics.IncreaseJobOperationsMetric(opDeleteJob, metrics.ResultSuccess)
	tracer.Success().Log()
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

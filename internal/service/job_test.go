package service_test

import (
	"context"
	"errors"

	"github.com/kubev2v/job-tracker/internal/service"
	"github.com/kubev2v/job-tracker/internal/store"
	"github.com/kubev2v/job-tracker/internal/store/model"
	"github.com/kubev2v/job-tracker/pkg/slot"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var errBackend = errors.New("backend down")

// brokenStore fails every job operation.
type brokenStore struct{}

func (brokenStore) Job() store.Job { return brokenJobs{} }
func (brokenStore) InitialMigration(ctx context.Context) error { return nil }
func (brokenStore) Close() error { return nil }

type brokenJobs struct{}

func (brokenJobs) List(context.Context, string) ([]model.Job, error) { return nil, errBackend }
func (brokenJobs) Create(context.Context, string, model.JobForm) (*model.Job, error) {
	return nil, errBackend
}
func (brokenJobs) Update(context.Context, string, string, model.JobPatch) (*model.Job, error) {
	return nil, errBackend
}
func (brokenJobs) Delete(context.Context, string, string) (bool, error) { return false, errBackend }

func ptr[T any](v T) *T {
	return &v
}

var _ = Describe("job service", func() {
	var (
		srv *service.JobService
		ctx context.Context
	)

	BeforeEach(func() {
		s, err := store.NewLocalStore(slot.NewFileSlot(GinkgoT().TempDir(), "jobs_db"))
		Expect(err).To(BeNil())
		srv = service.NewJobService(s)
		ctx = context.TODO()
	})

	Context("create", func() {
		It("trims the text fields", func() {
			job, err := srv.CreateJob(ctx, "u1", model.JobForm{
				CompanyName: "  Acme ",
				JobRole:     "SWE\n",
				JobURL:      " https://acme.test ",
				Notes:       "  keep my spacing  ",
				Status:      model.JobStatusApplied,
			})
			Expect(err).To(BeNil())
			Expect(job.CompanyName).To(Equal("Acme"))
			Expect(job.JobRole).To(Equal("SWE"))
			Expect(job.JobURL).To(Equal("https://acme.test"))
			Expect(job.Notes).To(Equal("  keep my spacing  "))
		})

		It("rejects an unknown status", func() {
			_, err := srv.CreateJob(ctx, "u1", model.JobForm{CompanyName: "Acme", JobRole: "SWE", Status: "ghosted"})
			var invalid *service.ErrInvalidInput
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})
	})

	Context("update", func() {
		It("does not touch the caller's patch", func() {
			job, err := srv.CreateJob(ctx, "u1", model.JobForm{CompanyName: "Acme", JobRole: "SWE", Status: model.JobStatusApplied})
			Expect(err).To(BeNil())

			company := " Globex "
			patch := model.JobPatch{CompanyName: &company}
			updated, err := srv.UpdateJob(ctx, "u1", job.ID, patch)
			Expect(err).To(BeNil())
			Expect(updated.CompanyName).To(Equal("Globex"))
			Expect(company).To(Equal(" Globex "))
		})

		It("reports another owner's job as not found", func() {
			job, err := srv.CreateJob(ctx, "u1", model.JobForm{CompanyName: "Acme", JobRole: "SWE", Status: model.JobStatusApplied})
			Expect(err).To(BeNil())

			_, err = srv.UpdateJob(ctx, "u2", job.ID, model.JobPatch{Status: ptr(model.JobStatusRejected)})
			var notFound *service.ErrResourceNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})

		It("rejects an unknown status", func() {
			_, err := srv.UpdateJob(ctx, "u1", "1", model.JobPatch{Status: ptr(model.JobStatus("ghosted"))})
			var invalid *service.ErrInvalidInput
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})
	})

	Context("delete", func() {
		It("reports a missing job as not found", func() {
			err := srv.DeleteJob(ctx, "u1", "1")
			var notFound *service.ErrResourceNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})

		It("deletes the caller's job", func() {
			job, err := srv.CreateJob(ctx, "u1", model.JobForm{CompanyName: "Acme", JobRole: "SWE", Status: model.JobStatusApplied})
			Expect(err).To(BeNil())

			Expect(srv.DeleteJob(ctx, "u1", job.ID)).To(Succeed())
			jobs, err := srv.ListJobs(ctx, "u1")
			Expect(err).To(BeNil())
			Expect(jobs).To(BeEmpty())
		})
	})

	Context("backend failure", func() {
		BeforeEach(func() {
			srv = service.NewJobService(brokenStore{})
		})

		It("passes the cause through", func() {
			_, err := srv.ListJobs(ctx, "u1")
			Expect(err).To(MatchError(errBackend))

			_, err = srv.CreateJob(ctx, "u1", model.JobForm{CompanyName: "Acme", JobRole: "SWE", Status: model.JobStatusApplied})
			Expect(err).To(MatchError(errBackend))

			_, err = srv.UpdateJob(ctx, "u1", "1", model.JobPatch{})
			Expect(err).To(MatchError(errBackend))

			Expect(srv.DeleteJob(ctx, "u1", "1")).To(MatchError(errBackend))
		})
	})
})

package store_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/kubev2v/job-tracker/internal/store"
	"github.com/kubev2v/job-tracker/internal/store/model"
	"github.com/kubev2v/job-tracker/pkg/slot"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// flakySlot fails every Save while broken is set.
type flakySlot struct {
	slot.Slot
	broken bool
}

func (f *flakySlot) Save(v any) error {
	if f.broken {
		return errors.New("disk full")
	}
	return f.Slot.Save(v)
}

var _ = Describe("local job store", func() {
	Context("contract", func() {
		describeJobStore(func() store.Job {
			s, err := store.NewLocalStore(slot.NewFileSlot(GinkgoT().TempDir(), "jobs_db"))
			Expect(err).To(BeNil())
			return s.Job()
		})
	})

	Context("persistence", func() {
		var dir string

		BeforeEach(func() {
			dir = GinkgoT().TempDir()
		})

		It("reloads the jobs written by a previous instance", func() {
			first, err := store.NewLocalJobStore(slot.NewFileSlot(dir, "jobs_db"))
			Expect(err).To(BeNil())
			created, err := first.Create(context.TODO(), "u1", acmeForm())
			Expect(err).To(BeNil())

			second, err := store.NewLocalJobStore(slot.NewFileSlot(dir, "jobs_db"))
			Expect(err).To(BeNil())
			list, err := second.List(context.TODO(), "u1")
			Expect(err).To(BeNil())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(created.ID))
			Expect(list[0].CreatedAt.Equal(created.CreatedAt)).To(BeTrue())

			// a reloaded store never reuses an existing id
			next, err := second.Create(context.TODO(), "u1", acmeForm())
			Expect(err).To(BeNil())
			Expect(next.ID).ToNot(Equal(created.ID))
		})

		It("starts empty when the slot file is missing", func() {
			s, err := store.NewLocalJobStore(slot.NewFileSlot(dir, "jobs_db"))
			Expect(err).To(BeNil())
			list, err := s.List(context.TODO(), "u1")
			Expect(err).To(BeNil())
			Expect(list).To(BeEmpty())
		})

		It("refuses to start on a corrupt slot", func() {
			fs := slot.NewFileSlot(dir, "jobs_db")
			Expect(os.WriteFile(fs.Path(), []byte("{not json"), 0o644)).To(Succeed())

			_, err := store.NewLocalJobStore(fs)
			Expect(err).ToNot(BeNil())
		})

		It("keeps memory and slot in step when a write fails", func() {
			fs := &flakySlot{Slot: slot.NewFileSlot(dir, "jobs_db")}
			s, err := store.NewLocalJobStore(fs)
			Expect(err).To(BeNil())
			created, err := s.Create(context.TODO(), "u1", acmeForm())
			Expect(err).To(BeNil())

			fs.broken = true
			_, err = s.Create(context.TODO(), "u1", acmeForm())
			Expect(err).ToNot(BeNil())
			_, err = s.Update(context.TODO(), "u1", created.ID, model.JobPatch{Notes: ptr("changed")})
			Expect(err).ToNot(BeNil())
			_, err = s.Delete(context.TODO(), "u1", created.ID)
			Expect(err).ToNot(BeNil())

			list, err := s.List(context.TODO(), "u1")
			Expect(err).To(BeNil())
			Expect(list).To(HaveLen(1))
			Expect(list[0].Notes).To(Equal("met at meetup"))
		})
	})

	Context("concurrency", func() {
		var s *store.LocalJobStore

		BeforeEach(func() {
			var err error
			s, err = store.NewLocalJobStore(slot.NewFileSlot(GinkgoT().TempDir(), "jobs_db"))
			Expect(err).To(BeNil())
		})

		It("hands out distinct ids under concurrent creates", func() {
			const n = 20
			ids := make(chan string, n)
			var wg sync.WaitGroup
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					job, err := s.Create(context.TODO(), "u1", acmeForm())
					Expect(err).To(BeNil())
					ids <- job.ID
				}()
			}
			wg.Wait()
			close(ids)

			seen := map[string]struct{}{}
			for id := range ids {
				seen[id] = struct{}{}
			}
			Expect(seen).To(HaveLen(n))
		})
	})

	Context("latency", func() {
		It("gives up when the caller's context ends first", func() {
			s, err := store.NewLocalJobStore(slot.NewFileSlot(GinkgoT().TempDir(), "jobs_db"), store.WithLatency(time.Hour))
			Expect(err).To(BeNil())

			ctx, cancel := context.WithTimeout(context.TODO(), 10*time.Millisecond)
			defer cancel()
			_, err = s.List(ctx, "u1")
			Expect(err).To(MatchError(context.DeadlineExceeded))
		})
	})
})

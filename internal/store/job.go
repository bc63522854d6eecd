package store

import (
	"context"
	"sort"

	"github.com/kubev2v/job-tracker/internal/store/model"
)

// Job is the ownership-scoped job capability. Every call is keyed by the
// owner; a job owned by someone else behaves exactly like a missing one.
type Job interface {
	// List returns the owner's jobs, newest first. Never nil.
	List(ctx context.Context, userID string) ([]model.Job, error)
	Create(ctx context.Context, userID string, form model.JobForm) (*model.Job, error)
	// Update merges the supplied fields. ErrRecordNotFound when (id, userID) has no match.
	Update(ctx context.Context, userID, id string, patch model.JobPatch) (*model.Job, error)
	// Delete reports false, not an error, when (id, userID) has no match.
	Delete(ctx context.Context, userID, id string) (bool, error)
}

func sortNewestFirst(jobs []model.Job) {
	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].CreatedAt.Equal(jobs[j].CreatedAt) {
			return jobs[i].ID > jobs[j].ID
		}
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
}

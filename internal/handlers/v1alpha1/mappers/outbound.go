package mappers

import (
	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/kubev2v/job-tracker/internal/store/model"
)

func JobToApi(j model.Job) api.Job {
	return api.Job{
		Id:          j.ID,
		CompanyName: j.CompanyName,
		JobRole:     j.JobRole,
		JobUrl:      j.JobURL,
		Notes:       j.Notes,
		Status:      api.JobStatus(j.Status),
		CreatedAt:   j.CreatedAt.UTC(),
	}
}

// JobListToApi never returns nil so an empty list encodes as [].
func JobListToApi(jobs []model.Job) api.JobList {
	list := api.JobList{Jobs: make([]api.Job, 0, len(jobs))}
	for _, j := range jobs {
		list.Jobs = append(list.Jobs, JobToApi(j))
	}
	return list
}

func UserToApi(u model.User) api.User {
	return api.User{
		Id:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Image: u.Image,
	}
}

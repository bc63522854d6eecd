package mappers

import (
	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/kubev2v/job-tracker/internal/store/model"
)

func JobFormFromApi(c api.JobCreate) model.JobForm {
	return model.JobForm{
		CompanyName: c.CompanyName,
		JobRole:     c.JobRole,
		JobURL:      c.JobUrl,
		Notes:       c.Notes,
		Status:      model.JobStatus(c.Status),
	}
}

func JobPatchFromApi(u api.JobUpdate) model.JobPatch {
	patch := model.JobPatch{
		CompanyName: u.CompanyName,
		JobRole:     u.JobRole,
		JobURL:      u.JobUrl,
		Notes:       u.Notes,
	}
	if u.Status != nil {
		s := model.JobStatus(*u.Status)
		patch.Status = &s
	}
	return patch
}

// Package v1alpha1 holds the wire types of the job tracker REST api.
package v1alpha1

import "time"

type JobStatus string

const (
	JobStatusWaitingForReferral  JobStatus = "waiting-for-referral"
	JobStatusApplied             JobStatus = "applied"
	JobStatusAppliedWithReferral JobStatus = "applied-with-referral"
	JobStatusRejected            JobStatus = "rejected"
	JobStatusSelected            JobStatus = "selected"
)

// Job is returned by every job endpoint. The owner id is never part of it.
type Job struct {
	Id          string    `json:"id"`
	CompanyName string    `json:"companyName"`
	JobRole     string    `json:"jobRole"`
	JobUrl      string    `json:"jobUrl"`
	Notes       string    `json:"notes"`
	Status      JobStatus `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type JobCreate struct {
	CompanyName string    `json:"companyName" validate:"required,not_blank,max=200"`
	JobRole     string    `json:"jobRole" validate:"required,not_blank,max=200"`
	JobUrl      string    `json:"jobUrl,omitempty" validate:"omitempty,job_url,max=2048"`
	Notes       string    `json:"notes,omitempty" validate:"max=10000"`
	Status      JobStatus `json:"status" validate:"required,job_status"`
}

// JobUpdate carries only the fields the caller wants to change.
type JobUpdate struct {
	CompanyName *string    `json:"companyName,omitempty" validate:"omitnil,not_blank,max=200"`
	JobRole     *string    `json:"jobRole,omitempty" validate:"omitnil,not_blank,max=200"`
	JobUrl      *string    `json:"jobUrl,omitempty" validate:"omitnil,job_url,max=2048"`
	Notes       *string    `json:"notes,omitempty" validate:"omitnil,max=10000"`
	Status      *JobStatus `json:"status,omitempty" validate:"omitnil,job_status"`
}

type JobList struct {
	Jobs []Job `json:"jobs"`
}

type JobResponse struct {
	Job Job `json:"job"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

type User struct {
	Id    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type SignInResponse struct {
	User User `json:"user"`
}

// Error is the body of every non-2xx response. Fields maps a json field name
// to the rule it failed and is only set on validation failures.
type Error struct {
	Error     string            `json:"error"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestId string            `json:"requestId,omitempty"`
}

type Health struct {
	Status string `json:"status"`
}

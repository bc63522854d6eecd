package model

import (
	"fmt"
	"time"
)

type JobStatus string

const (
	JobStatusWaitingForReferral  JobStatus = "waiting-for-referral"
	JobStatusApplied             JobStatus = "applied"
	JobStatusAppliedWithReferral JobStatus = "applied-with-referral"
	JobStatusRejected            JobStatus = "rejected"
	JobStatusSelected            JobStatus = "selected"
)

var jobStatusLabels = map[JobStatus]string{
	JobStatusWaitingForReferral:  "Waiting for Referral",
	JobStatusApplied:             "Applied",
	JobStatusAppliedWithReferral: "Applied with Referral",
	JobStatusRejected:            "Rejected",
	JobStatusSelected:            "Selected",
}

// JobStatuses lists every status in display order.
func JobStatuses() []JobStatus {
	return []JobStatus{
		JobStatusWaitingForReferral,
		JobStatusApplied,
		JobStatusAppliedWithReferral,
		JobStatusRejected,
		JobStatusSelected,
	}
}

func (s JobStatus) Valid() bool {
	_, ok := jobStatusLabels[s]
	return ok
}

func (s JobStatus) Label() string {
	if l, ok := jobStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

func ParseJobStatus(s string) (JobStatus, error) {
	status := JobStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("unknown job status %q", s)
	}
	return status, nil
}

// Job is the owner-less view of a job application.
type Job struct {
	ID          string    `json:"id" bson:"id" gorm:"primaryKey;column:id"`
	CompanyName string    `json:"companyName" bson:"companyName" gorm:"column:company_name;not null"`
	JobRole     string    `json:"jobRole" bson:"jobRole" gorm:"column:job_role;not null"`
	JobURL      string    `json:"jobUrl" bson:"jobUrl" gorm:"column:job_url"`
	Notes       string    `json:"notes" bson:"notes" gorm:"column:notes"`
	Status      JobStatus `json:"status" bson:"status" gorm:"column:status;not null"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" gorm:"column:created_at;autoCreateTime:false;index:idx_jobs_user_created,priority:2,sort:desc"`
}

// JobRecord is a Job as persisted, carrying its owner.
type JobRecord struct {
	Job    `bson:",inline" gorm:"embedded"`
	UserID string `json:"userId" bson:"userId" gorm:"column:user_id;not null;index:idx_jobs_user_created,priority:1"`
}

func (JobRecord) TableName() string {
	return "jobs"
}

// JobForm holds the caller-supplied fields of a new job.
type JobForm struct {
	CompanyName string
	JobRole     string
	JobURL      string
	Notes       string
	Status      JobStatus
}

// JobPatch is a partial update: nil fields are left untouched.
type JobPatch struct {
	CompanyName *string
	JobRole     *string
	JobURL      *string
	Notes       *string
	Status      *JobStatus
}

func (p JobPatch) IsEmpty() bool {
	return p.CompanyName == nil && p.JobRole == nil && p.JobURL == nil && p.Notes == nil && p.Status == nil
}

// Apply merges the supplied fields into j. Identity fields are never touched.
func (p JobPatch) Apply(j *Job) {
	if p.CompanyName != nil {
		j.CompanyName = *p.CompanyName
	}
	if p.JobRole != nil {
		j.JobRole = *p.JobRole
	}
	if p.JobURL != nil {
		j.JobURL = *p.JobURL
	}
	if p.Notes != nil {
		j.Notes = *p.Notes
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
}

// Fields returns the supplied fields keyed by their persisted names.
func (p JobPatch) Fields(naming func(field string) string) map[string]any {
	fields := map[string]any{}
	if p.CompanyName != nil {
		fields[naming("companyName")] = *p.CompanyName
	}
	if p.JobRole != nil {
		fields[naming("jobRole")] = *p.JobRole
	}
	if p.JobURL != nil {
		fields[naming("jobUrl")] = *p.JobURL
	}
	if p.Notes != nil {
		fields[naming("notes")] = *p.Notes
	}
	if p.Status != nil {
		fields[naming("status")] = string(*p.Status)
	}
	return fields
}

func NewJobRecord(id, userID string, createdAt time.Time, form JobForm) JobRecord {
	return JobRecord{
		Job: Job{
			ID:          id,
			CompanyName: form.CompanyName,
			JobRole:     form.JobRole,
			JobURL:      form.JobURL,
			Notes:       form.Notes,
			Status:      form.Status,
			CreatedAt:   createdAt,
		},
		UserID: userID,
	}
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/kubev2v/job-tracker/internal/store/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var jobColumns = map[string]string{
	"companyName": "company_name",
	"jobRole":     "job_role",
	"jobUrl":      "job_url",
	"notes":       "notes",
	"status":      "status",
}

func jobColumn(field string) string {
	return jobColumns[field]
}

type SqlJobStore struct {
	db  *gorm.DB
	ids *IDGenerator
}

var _ Job = (*SqlJobStore)(nil)

func NewSqlJobStore(db *gorm.DB) *SqlJobStore {
	return &SqlJobStore{db: db, ids: NewIDGenerator()}
}

func (s *SqlJobStore) List(ctx context.Context, userID string) ([]model.Job, error) {
	var records []model.JobRecord
	tx := s.db.WithContext(ctx).
		Scopes(NewJobQueryFilter().ByUserID(userID).QueryFn...).
		Scopes(NewJobQueryOptions().NewestFirst().QueryFn...)
	if err := tx.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	jobs := make([]model.Job, 0, len(records))
	for _, r := range records {
		jobs = append(jobs, r.Job)
	}
	return jobs, nil
}

func (s *SqlJobStore) Create(ctx context.Context, userID string, form model.JobForm) (*model.Job, error) {
	for attempt := 1; ; attempt++ {
		id, createdAt := s.ids.Next()
		record := model.NewJobRecord(id, userID, createdAt, form)

		err := s.db.WithContext(ctx).Create(&record).Error
		if err == nil {
			return &record.Job, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("creating job: %w", err)
		}
		if attempt == maxCreateAttempts {
			return nil, fmt.Errorf("creating job: %w", ErrDuplicateKey)
		}
		zap.S().Named("sql_store").Warnw("job id already taken, retrying", "id", id)
	}
}

func (s *SqlJobStore) Update(ctx context.Context, userID, id string, patch model.JobPatch) (*model.Job, error) {
	var record model.JobRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Scopes(NewJobQueryFilter().ByID(id).ByUserID(userID).QueryFn...)
		if err := q.First(&record).Error; err != nil {
			return err
		}
		if patch.IsEmpty() {
			return nil
		}
		if err := tx.Model(&model.JobRecord{}).
			Scopes(NewJobQueryFilter().ByID(id).ByUserID(userID).QueryFn...).
			Updates(patch.Fields(jobColumn)).Error; err != nil {
			return err
		}
		patch.Apply(&record.Job)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("updating job: %w", err)
	}
	return &record.Job, nil
}

func (s *SqlJobStore) Delete(ctx context.Context, userID, id string) (bool, error) {
	result := s.db.WithContext(ctx).
		Scopes(NewJobQueryFilter().ByID(id).ByUserID(userID).QueryFn...).
		Delete(&model.JobRecord{})
	if result.Error != nil {
		return false, fmt.Errorf("deleting job: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

type SqlStore struct {
	db   *gorm.DB
	jobs *SqlJobStore
}

var _ Store = (*SqlStore)(nil)

func NewSqlStore(db *gorm.DB) *SqlStore {
	return &SqlStore{db: db, jobs: NewSqlJobStore(db)}
}

func (s *SqlStore) Job() Job {
	return s.jobs
}

func (s *SqlStore) InitialMigration(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&model.JobRecord{})
}

func (s *SqlStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

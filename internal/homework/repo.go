package homework

import (
	"context"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, job *Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *Repo) GetByID(ctx context.Context, id string) (*Job, error) {
	var j Job
	if err := r.db.WithContext(ctx).First(&j, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

// MarkProcessing claims a pending job. Returns true when this call made the
// transition; false means the job was already claimed (e.g. a redelivery).
func (r *Repo) MarkProcessing(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, JobPending).
		Update("status", JobProcessing)
	return res.RowsAffected == 1, res.Error
}

func (r *Repo) MarkCompleted(ctx context.Context, id string, solution string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, JobProcessing).
		Updates(map[string]any{
			"status":         JobCompleted,
			"solution":       solution,
			"failure_reason": nil,
		}).Error
}

func (r *Repo) MarkFailed(ctx context.Context, id string, reason string) error {
	return r.db.WithContext(ctx).Model(&Job{}).
		Where("id = ? AND status = ?", id, JobProcessing).
		Updates(map[string]any{
			"status":         JobFailed,
			"failure_reason": reason,
			"solution":       nil,
		}).Error
}

package skill

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

func (r *Repo) Get(ctx context.Context, userID, lessonID uint64) (*Record, error) {
	var rec Record
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *Repo) Save(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

func (r *Repo) Create(ctx context.Context, rec *Record) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

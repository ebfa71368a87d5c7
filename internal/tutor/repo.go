package tutor

import (
	"context"

	"gorm.io/gorm"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/models"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) GetLesson(ctx context.Context, id uint64) (*models.Lesson, error) {
	var l models.Lesson
	if err := r.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repo) CreateLesson(ctx context.Context, l *models.Lesson) error {
	return r.db.WithContext(ctx).Create(l).Error
}

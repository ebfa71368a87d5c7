package handlers

import (
	"gorm.io/gorm"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/config"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/homework"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/skill"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/tutor"
)

// Handler carries the explicitly constructed services. Everything is wired
// at startup in cmd/api; handlers never build their own dependencies.
type Handler struct {
	DB          *gorm.DB
	Cfg         config.Config
	TutorSvc    *tutor.Service
	HomeworkSvc *homework.Service
	SkillSvc    *skill.Service
	LessonRepo  *tutor.Repo
}

func NewHandler(db *gorm.DB, cfg config.Config, tutorSvc *tutor.Service,
	homeworkSvc *homework.Service, skillSvc *skill.Service, lessonRepo *tutor.Repo) *Handler {
	return &Handler{
		DB:          db,
		Cfg:         cfg,
		TutorSvc:    tutorSvc,
		HomeworkSvc: homeworkSvc,
		SkillSvc:    skillSvc,
		LessonRepo:  lessonRepo,
	}
}

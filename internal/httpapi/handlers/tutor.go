package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/ai"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/common"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/models"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/quota"
)

func lessonIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("lesson_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// failGeneration maps the pipeline error taxonomy onto the envelope:
// quota -> 402, unknown lesson -> 404, provider/malformed output -> 502.
func failGeneration(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quota.ErrQuotaExceeded):
		common.Fail(c, http.StatusPaymentRequired, 40201, "quota exceeded")
	case errors.Is(err, gorm.ErrRecordNotFound):
		common.Fail(c, http.StatusNotFound, 40403, "lesson not found")
	case ai.IsProviderError(err):
		common.Fail(c, http.StatusBadGateway, 50201, "generation failed")
	default:
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
	}
}

func (h *Handler) ExplainLesson(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	lessonID, okk := lessonIDParam(c)
	if !okk {
		common.Fail(c, http.StatusBadRequest, 10005, "invalid lesson id")
		return
	}

	content, cached, err := h.TutorSvc.ExplainLesson(c.Request.Context(), uid, lessonID)
	if err != nil {
		failGeneration(c, err)
		return
	}

	common.OK(c, gin.H{
		"lesson_id": lessonID,
		"content":   content.Content,
		"keywords":  content.Keywords,
		"cached":    cached,
	})
}

type quizReq struct {
	NumQuestions int `json:"num_questions"`
}

func (h *Handler) GenerateQuiz(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	lessonID, okk := lessonIDParam(c)
	if !okk {
		common.Fail(c, http.StatusBadRequest, 10005, "invalid lesson id")
		return
	}

	var req quizReq
	_ = c.ShouldBindJSON(&req) // allow empty {}

	questions, cached, err := h.TutorSvc.GenerateQuiz(c.Request.Context(), uid, lessonID, req.NumQuestions)
	if err != nil {
		failGeneration(c, err)
		return
	}

	common.OK(c, gin.H{
		"lesson_id": lessonID,
		"questions": questions,
		"cached":    cached,
	})
}

type createLessonReq struct {
	Unit    string `json:"unit" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Summary string `json:"summary"`
}

func (h *Handler) CreateLesson(c *gin.Context) {
	var req createLessonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	lesson := &models.Lesson{Unit: req.Unit, Title: req.Title, Summary: req.Summary}
	if err := h.LessonRepo.CreateLesson(c.Request.Context(), lesson); err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{"id": lesson.ID})
}

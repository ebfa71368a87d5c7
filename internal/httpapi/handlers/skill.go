package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/common"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/skill"
)

type updateSkillReq struct {
	LessonID       uint64 `json:"lesson_id" binding:"required"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions" binding:"required"`
}

func (h *Handler) UpdateSkill(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req updateSkillReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	rec, err := h.SkillSvc.Update(c.Request.Context(), uid, req.LessonID, req.Score, req.TotalQuestions)
	if err != nil {
		if errors.Is(err, skill.ErrInvalidAssessment) {
			common.Fail(c, http.StatusBadRequest, 10008, "invalid assessment result")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	common.OK(c, gin.H{
		"lesson_id":     rec.LessonID,
		"mastery_score": rec.MasteryScore,
		"confidence":    rec.Confidence,
		"last_attempt":  rec.LastAttempt,
	})
}

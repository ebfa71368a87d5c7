package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/common"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/homework"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/quota"
)

type submitHomeworkReq struct {
	ImageBase64    string `json:"image_base64" binding:"required"`
	ImageMediaType string `json:"image_media_type"`
	Note           string `json:"note"`
}

// SubmitHomework records the job and returns its id immediately; solving
// happens in the worker process.
func (h *Handler) SubmitHomework(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req submitHomeworkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	job, err := h.HomeworkSvc.Submit(c.Request.Context(), uid, req.ImageBase64, req.ImageMediaType, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, quota.ErrQuotaExceeded):
			common.Fail(c, http.StatusPaymentRequired, 40201, "quota exceeded")
		case errors.Is(err, homework.ErrMissingImage):
			common.Fail(c, http.StatusBadRequest, 10006, "image required")
		default:
			common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		}
		return
	}

	common.OK(c, gin.H{
		"job_id": job.ID,
		"status": job.Status,
	})
}

func (h *Handler) GetHomeworkJob(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	jobID := c.Param("job_id")
	if jobID == "" {
		common.Fail(c, http.StatusBadRequest, 10007, "job_id required")
		return
	}

	j, err := h.HomeworkSvc.Status(c.Request.Context(), uid, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40402, "job not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
		return
	}

	common.OK(c, gin.H{
		"job_id":         j.ID,
		"status":         j.Status,
		"solution":       j.Solution,
		"failure_reason": j.FailureReason,
		"created_at":     j.CreatedAt,
		"updated_at":     j.UpdatedAt,
	})
}

package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/common"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/config"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/httpapi/handlers"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/httpapi/middleware"
)

func NewRouter(cfg config.Config, h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	r.GET("/ping", func(c *gin.Context) { common.OK(c, gin.H{"pong": true}) })

	// users register
	r.POST("/users", h.CreateUser)
	r.GET("/users/:id", h.GetUserByID)

	// auth
	r.POST("/login", h.Login)
	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret))
	authGroup.GET("/me", h.Me)

	// curriculum (seed surface)
	authGroup.POST("/lessons", h.CreateLesson)

	// tutoring (JWT required, quota gated)
	authGroup.POST("/lessons/:lesson_id/explain", h.ExplainLesson)
	authGroup.POST("/lessons/:lesson_id/quiz", h.GenerateQuiz)

	// homework (async)
	authGroup.POST("/homework", h.SubmitHomework)
	authGroup.GET("/homework/:job_id", h.GetHomeworkJob)

	// mastery profile
	authGroup.POST("/skills", h.UpdateSkill)

	return r
}

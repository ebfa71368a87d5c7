package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/auth"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/common"
)

const UserIDKey = "auth_user_id"

func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}
		uid, err := auth.ParseJWT(strings.TrimPrefix(h, "Bearer "), secret)
		if err != nil {
			common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
			c.Abort()
			return
		}
		c.Set(UserIDKey, uid)
		c.Next()
	}
}

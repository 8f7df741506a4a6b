package middleware

import (
	"net/http"

	"github.com/DaniilYevlanov/serverwok/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Audit 在每个成功的写请求后记录一条审计日志（谁、什么操作、哪个路径）。
// 日志写入失败不影响请求本身。
func Audit(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet {
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		user, ok := CurrentUser(c)
		if !ok {
			return
		}

		_ = db.Create(&models.AuditLog{
			UserID: user.ID,
			Action: c.Request.Method,
			Path:   c.FullPath(),
		}).Error
	}
}

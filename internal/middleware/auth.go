package middleware

import (
	"net/http"
	"strings"

	"github.com/DaniilYevlanov/serverwok/internal/models"
	"github.com/DaniilYevlanov/serverwok/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Auth 校验会话 token，并在 context 里放入当前用户。
// redirectToLogin 为 true 时（页面路由）失败跳转到 /login，
// 否则（API 路由）返回 401 JSON。
func Auth(jwtSecret string, db *gorm.DB, redirectToLogin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) http-only Cookie "token"（浏览器端的主要途径）
		if cookie, err := c.Cookie("token"); err == nil {
			tokenStr = cookie
		}

		// 2) Header: Authorization: Bearer xxx（API 客户端备用）
		if tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
					tokenStr = parts[1]
				}
			}
		}

		if tokenStr == "" {
			deny(c, redirectToLogin, "authentication required")
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			deny(c, redirectToLogin, "session expired, please log in again")
			return
		}

		var user models.User
		if err := db.Where("username = ?", claims.Username).First(&user).Error; err != nil {
			deny(c, redirectToLogin, "unknown user")
			return
		}

		c.Set("currentUser", &user)
		c.Next()
	}
}

func deny(c *gin.Context, redirectToLogin bool, msg string) {
	if redirectToLogin {
		c.Redirect(http.StatusFound, "/login")
	} else {
		util.Error(c, http.StatusUnauthorized, msg)
	}
	c.Abort()
}

// CurrentUser 取出 Auth 放入 context 的用户
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

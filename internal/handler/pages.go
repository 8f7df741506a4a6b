package handler

import (
	"net/http"

	"github.com/DaniilYevlanov/serverwok/internal/middleware"
	"github.com/DaniilYevlanov/serverwok/internal/progress"

	"github.com/gin-gonic/gin"
)

// PageHandler renders the HTML pages.
type PageHandler struct {
	Engine *progress.Engine
}

func NewPageHandler(engine *progress.Engine) *PageHandler {
	return &PageHandler{Engine: engine}
}

func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": "Math Quiz",
	})
}

func (h *PageHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"title": "Registration",
	})
}

func (h *PageHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"title": "Log in",
	})
}

// Profile shows the user card with the level table.
func (h *PageHandler) Profile(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	levels, err := h.Engine.GetLevels(user.Username)
	if err != nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.HTML(http.StatusOK, "profile.html", gin.H{
		"title":            "Profile",
		"username":         user.Username,
		"registrationDate": user.RegistrationDate,
		"levels":           levels,
	})
}

func (h *PageHandler) Game(c *gin.Context) {
	c.HTML(http.StatusOK, "game.html", gin.H{
		"title": "Math Game",
	})
}

package handler

import (
	"errors"
	"net/http"

	"github.com/DaniilYevlanov/serverwok/internal/auth"
	"github.com/DaniilYevlanov/serverwok/internal/util"

	"github.com/gin-gonic/gin"
)

// AuthHandler 负责注册/登录相关接口
type AuthHandler struct {
	Svc         *auth.Service
	ExpireHours int
}

func NewAuthHandler(svc *auth.Service, expireHours int) *AuthHandler {
	return &AuthHandler{Svc: svc, ExpireHours: expireHours}
}

// 注册/登录同时接受表单和 JSON
type credentialsReq struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Register 创建新用户，成功后跳转到登录页
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "username and password are required")
		return
	}

	if err := h.Svc.Register(req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			util.Error(c, http.StatusBadRequest, "user already exists")
		case errors.Is(err, auth.ErrEmptyField):
			util.Error(c, http.StatusBadRequest, "username and password are required")
		default:
			util.Error(c, http.StatusInternalServerError, "server error")
		}
		return
	}

	c.Redirect(http.StatusFound, "/login")
}

// Login 校验密码，签发会话 cookie，跳转到个人页面
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsReq
	if err := c.ShouldBind(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := h.Svc.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			util.Error(c, http.StatusBadRequest, "invalid username or password")
		} else {
			util.Error(c, http.StatusInternalServerError, "server error")
		}
		return
	}

	// ExpireHours = 0 时发不过期的会话 cookie
	maxAge := h.ExpireHours * 3600
	c.SetCookie("token", token, maxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, "/profile")
}

// Logout 清除会话 cookie，回到首页
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

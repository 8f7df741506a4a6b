package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/DaniilYevlanov/serverwok/internal/middleware"
	"github.com/DaniilYevlanov/serverwok/internal/progress"
	"github.com/DaniilYevlanov/serverwok/internal/util"

	"github.com/gin-gonic/gin"
)

// LevelHandler 负责关卡进度相关接口
type LevelHandler struct {
	Engine *progress.Engine
}

func NewLevelHandler(engine *progress.Engine) *LevelHandler {
	return &LevelHandler{Engine: engine}
}

type completeLevelReq struct {
	Level          int    `json:"level"`
	CompletionTime string `json:"completionTime"`
}

// UserLevels 返回当前用户的 10 个关卡记录
func (h *LevelHandler) UserLevels(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	levels, err := h.Engine.GetLevels(user.Username)
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	util.Success(c, util.Response{"levels": levels})
}

// CompleteLevel 标记一个关卡为已完成。耗时文本由客户端计算并原样保存。
func (h *LevelHandler) CompleteLevel(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req completeLevelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	completedAt, err := h.Engine.CompleteLevel(user.Username, req.Level, req.CompletionTime)
	if err != nil {
		switch {
		case errors.Is(err, progress.ErrInvalidLevel):
			util.Error(c, http.StatusBadRequest, "invalid level number")
		case errors.Is(err, progress.ErrAlreadyCompleted):
			util.Error(c, http.StatusBadRequest, "level already completed")
		case errors.Is(err, progress.ErrNotFound):
			util.Error(c, http.StatusNotFound, "user or level not found")
		default:
			util.Error(c, http.StatusInternalServerError, "failed to save progress")
		}
		return
	}

	util.Success(c, util.Response{
		"message":        "level completed",
		"completionDate": completedAt.UTC().Format(time.RFC3339),
		"completionTime": req.CompletionTime,
	})
}

// ResetLevels 把当前用户的所有关卡恢复为未完成
func (h *LevelHandler) ResetLevels(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.Engine.ResetLevels(user.Username); err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to save progress")
		}
		return
	}

	util.Success(c, util.Response{})
}

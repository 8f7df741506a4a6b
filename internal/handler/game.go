package handler

import (
	"net/http"

	"github.com/DaniilYevlanov/serverwok/internal/game"

	"github.com/gin-gonic/gin"
)

// GameHandler 提供服务端出题接口。答案随题目一起返回，
// 对错仍由客户端判断（与浏览器端出题保持同一信任模型）。
type GameHandler struct {
	Gen *game.Generator
}

func NewGameHandler(gen *game.Generator) *GameHandler {
	return &GameHandler{Gen: gen}
}

// Problem 返回一道随机算术题
func (h *GameHandler) Problem(c *gin.Context) {
	c.JSON(http.StatusOK, h.Gen.Next())
}

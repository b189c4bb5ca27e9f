package controller

import (
	"deep_card_backend/internal/service"
	"deep_card_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	gameService *service.GameService
}

func NewHealthController(gameService *service.GameService) *HealthController {
	return &HealthController{gameService: gameService}
}

// @Summary 健康检查
// @Description 检查服务状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	aiStatus := "disabled"
	if c.gameService.AIEnabled() {
		aiStatus = "enabled"
	}

	util.Success(ctx, gin.H{
		"status":   "ok",
		"sessions": c.gameService.SessionCount(),
		"components": gin.H{
			"ai":            aiStatus,
			"question_bank": "up",
		},
	})
}

package controller

import (
	"deep_card_backend/internal/middleware"
	"deep_card_backend/internal/service"
	"deep_card_backend/internal/util"
	"deep_card_backend/pkg/logger"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

// Start 开始一局游戏
// @Summary 开始游戏
// @Description 建立一个新的会话，relationship 为空时默认为「朋友」
// @Tags Game
// @Accept json
// @Produce json
// @Param request body service.StartRequest true "关系/情境"
// @Success 200 {object} service.StartResponse
// @Failure 400 {object} util.Response
// @Router /start [post]
func (c *GameController) Start(ctx *gin.Context) {
	var req service.StartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, err.Error())
		return
	}

	ctx.JSON(http.StatusOK, c.gameService.Start(ctx.Request.Context(), req))
}

// Question 抽下一题
// @Summary 取得下一题
// @Description 优先由 AI 出题，失败或未配置密钥时从题库抽题；该接口总是返回 200
// @Tags Game
// @Accept json
// @Produce json
// @Param request body service.QuestionRequest true "会话、等级与历史"
// @Success 200 {object} service.QuestionResponse
// @Router /question [post]
func (c *GameController) Question(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		// 请求体坏掉也照样出题
		logger.Log.Warn("malformed question request, using defaults",
			zap.String("request_id", middleware.GetRequestID(ctx)), zap.Error(err))
		req = service.QuestionRequest{}
	}

	res := c.gameService.NextQuestion(ctx.Request.Context(), req)
	ctx.JSON(http.StatusOK, res.QuestionResponse)
}

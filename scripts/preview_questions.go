// 手动预览出题效果的脚本
//
// 按配置（含 OPENAI_API_KEY 等环境变量）走一遍完整出题流程，逐题打印来源，
// 方便调整模型或 prompt 后人工检查题目质量。
//
// 用法: go run scripts/preview_questions.go -relationship 情侶 -level C -n 5

package main

import (
	"context"
	"deep_card_backend/internal/config"
	"deep_card_backend/internal/model"
	"deep_card_backend/internal/repository"
	"deep_card_backend/internal/service"
	"deep_card_backend/pkg/logger"
	"flag"
	"fmt"
	"log"
	"time"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录")
	relationship := flag.String("relationship", config.DefaultContext, "关系/情境")
	level := flag.String("level", "", "只预览某个等级（A-D），为空则全部")
	n := flag.Int("n", 3, "每个等级出题数量")
	mode := flag.String("mode", string(service.ModeNormal), "normal 或 direct")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	cfg.Log.File = ""
	logger.InitLogger(cfg)

	aiService := service.NewAIService(cfg.AI)
	fallback := service.NewFallbackService(model.DefaultQuestionBank(), cfg.Game.DecorateFallback)
	game := service.NewGameService(repository.NewSessionRepository(), aiService, fallback)

	if aiService.Enabled() {
		log.Printf("使用模型 %s 出题", aiService.Model())
	} else {
		log.Println("未配置 API Key，只会从题库抽题")
	}

	levels := model.Levels
	if *level != "" {
		levels = []model.Level{model.NormalizeLevel(*level)}
	}

	sess := game.Start(context.Background(), service.StartRequest{Relationship: *relationship})
	for _, lv := range levels {
		fmt.Printf("== %s ==\n", lv)
		for i := 0; i < *n; i++ {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.AI.Timeout+5*time.Second)
			res := game.NextQuestion(ctx, service.QuestionRequest{
				SessionID: sess.SessionID,
				Level:     lv.String(),
				Mode:      *mode,
			})
			cancel()

			tag := res.Source
			if res.Reason != "" {
				tag += "/" + res.Reason
			}
			fmt.Printf("%d. [%s] %s\n", i+1, tag, res.Question)
		}
	}
}

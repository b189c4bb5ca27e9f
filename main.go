// @title Deep Card Game API
// @version 1.0
// @description 关系对话卡牌游戏的后端服务：按等级出题，AI 不可用时从题库抽题。

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api

package main

import (
	"deep_card_backend/internal/app"
	"deep_card_backend/internal/config"
	"deep_card_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	configDir := flag.String("config", "configs", "配置文件目录（读取其中的 config.yaml）")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg, *configDir)
	defer logger.Log.Sync()

	application.Run()
}

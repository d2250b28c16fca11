package main

import (
	"flag"
	"log"
	"path/filepath"

	_ "language_gems_backend/docs"
	"language_gems_backend/internal/app"
	"language_gems_backend/internal/config"
	"language_gems_backend/pkg/configwatcher"
)

// @title Language Gems 后端服务
// @version 1.0
// @description 词汇学习平台后端：词库、作业、游戏会话上报与活动完成判定
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "./configs", "配置文件目录")
	migrateOnly := flag.Bool("migrate", false, "仅执行数据库迁移后退出")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	cfg.MigrateOnly = *migrateOnly

	if !cfg.MigrateOnly {
		go configwatcher.WatchConfig(filepath.Join(*configPath, "config.yaml"), cfg, func(newCfg interface{}) {
			log.Println("Config file changed, restart to apply non-threshold changes")
		})
	}

	if err := app.Run(cfg); err != nil {
		log.Fatal("Server error: ", err)
	}
}

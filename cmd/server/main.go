package main

import (
	"github.com/gin-gonic/gin"
	"github.com/seox/internal/config"
	"github.com/seox/internal/db"
	"github.com/seox/internal/logger"
	"github.com/seox/internal/router"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}

	// 保证至少存在一个 owner 账号，便于首次登录
	if cfg.SuperRootUserName != "" && cfg.SuperRootPassword != "" {
		if err := db.EnsureRootUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
			logger.Fatal("failed to ensure root user", "error", err)
		}
	}

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(db.DB, cfg)
	logger.Info("server starting", "addr", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("failed to run server", "error", err)
	}
}

package main

import (
	"log"

	"gorm.io/gorm"

	"github.com/yockii/surat_hub/internal/model"
	"github.com/yockii/surat_hub/internal/server"
	"github.com/yockii/surat_hub/pkg/config"
	"github.com/yockii/surat_hub/pkg/database"
	"github.com/yockii/surat_hub/pkg/logger"
	"github.com/yockii/surat_hub/pkg/util"
)

func main() {
	// 初始化配置
	if err := config.Init(); err != nil {
		log.Fatalf("初始化配置失败: %v", err)
	}

	if err := util.InitNode(config.GetUint64("server.node_id")); err != nil {
		log.Fatalf("初始化ID生成器失败: %v", err)
	}

	// 初始化日志
	logger.Init()
	defer logger.Sync()

	// 连接数据库，未配置时只导出不存档
	var db *gorm.DB
	if database.Enabled() {
		if err := database.Init(); err != nil {
			log.Fatalf("连接数据库失败: %v", err)
		}
		defer database.Close()
		db = database.GetDB()

		// 数据库迁移
		if err := model.AutoMigrate(db); err != nil {
			log.Fatalf("数据库迁移失败: %v", err)
		}
	}

	// 创建服务器实例
	srv := server.New(db)

	// 启动服务器
	if err := srv.Start(); err != nil {
		log.Fatalf("服务停止: %v", err)
	}
}

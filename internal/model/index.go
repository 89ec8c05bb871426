package model

import (
	"fmt"
	"time"

	"github.com/yockii/surat_hub/pkg/logger"
	"github.com/yockii/surat_hub/pkg/util"
	"gorm.io/gorm"
)

type Model interface {
	TableComment() string
	GetID() uint64
}

type BaseModel struct {
	ID        uint64    `json:"id,string" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt,omitzero" gorm:"type:timestamp;not null"`
}

func (b *BaseModel) TableComment() string {
	return "基础模型"
}

func (b *BaseModel) GetID() uint64 {
	return b.ID
}

// BeforeCreate 创建前钩子，补全雪花ID
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == 0 {
		b.ID = util.NewID()
	}
	return nil
}

var models []Model

// AutoMigrate 按数据库方言迁移已注册的模型
func AutoMigrate(db *gorm.DB) error {
	switch dialect := db.Dialector.Name(); dialect {
	case "mysql":
		migrator := db.Migrator()
		for _, m := range models {
			if migrator.HasTable(m) {
				if err := migrator.AutoMigrate(m); err != nil {
					return fmt.Errorf("迁移表失败: %w", err)
				}
				continue
			}
			opts := fmt.Sprintf("ENGINE=innoDB DEFAULT CHARSET=utf8mb4 COMMENT='%s';", m.TableComment())
			if err := db.Set("gorm:table_options", opts).AutoMigrate(m); err != nil {
				return fmt.Errorf("创建表失败: %w", err)
			}
		}
	case "postgres", "sqlite":
		if err := db.AutoMigrate(modelList()...); err != nil {
			return fmt.Errorf("迁移表失败: %w", err)
		}
		if dialect == "postgres" {
			commentTables(db)
		}
	default:
		logger.Error("不支持的数据库类型", logger.F("type", dialect))
		return fmt.Errorf("不支持的数据库类型: %s", dialect)
	}
	return nil
}

func modelList() []interface{} {
	list := make([]interface{}, 0, len(models))
	for _, m := range models {
		list = append(list, m)
	}
	return list
}

// commentTables 添加表注释，失败只记日志
func commentTables(db *gorm.DB) {
	for _, m := range models {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(m); err != nil {
			logger.Error("解析模型失败", logger.F("error", err))
			continue
		}
		if err := db.Exec(fmt.Sprintf("COMMENT ON TABLE %s IS '%s';", stmt.Table, m.TableComment())).Error; err != nil {
			logger.Error("添加表注释失败", logger.F("error", err))
		}
	}
}

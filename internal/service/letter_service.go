package service

import (
	"gorm.io/gorm"

	"github.com/yockii/surat_hub/internal/model"
)

type letterService struct {
	*BaseService[*model.Letter]
}

// NewLetterService 信件存档服务，db 为 nil 时存档关闭
func NewLetterService(db *gorm.DB) LetterService {
	s := &letterService{BaseService: NewBaseService[*model.Letter](db)}
	s.condition = func(query *gorm.DB, condition *model.Letter) *gorm.DB {
		if condition == nil {
			return query
		}
		if condition.NoSurat != "" {
			query = query.Where("no_surat LIKE ?", "%"+condition.NoSurat+"%")
		}
		if condition.TemplateID != "" {
			query = query.Where("template_id = ?", condition.TemplateID)
		}
		if condition.Format != "" {
			query = query.Where("format = ?", condition.Format)
		}
		return query
	}
	return s
}

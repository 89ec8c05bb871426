package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"gorm.io/gorm"

	"github.com/yockii/surat_hub/internal/constant"
	"github.com/yockii/surat_hub/internal/model"
)

// BaseService 通用的增查服务，db 为空时所有操作返回 ErrDatabaseDisabled
type BaseService[T model.Model] struct {
	db        *gorm.DB
	condition func(query *gorm.DB, condition T) *gorm.DB
	order     string
}

func NewBaseService[T model.Model](db *gorm.DB) *BaseService[T] {
	return &BaseService[T]{
		db:    db,
		order: "created_at DESC",
	}
}

func (s *BaseService[T]) NewModel() T {
	var t T
	tType := reflect.TypeOf(t)

	// 如果 T 是指针类型，则需要创建指针指向的对象
	if tType.Kind() == reflect.Ptr {
		return reflect.New(tType.Elem()).Interface().(T)
	}
	return reflect.New(tType).Elem().Interface().(T)
}

func (s *BaseService[T]) Enabled() bool {
	return s.db != nil
}

func (s *BaseService[T]) BuildCondition(query *gorm.DB, condition T) *gorm.DB {
	if s.condition == nil {
		return query
	}
	return s.condition(query, condition)
}

// Create 创建记录
func (s *BaseService[T]) Create(ctx context.Context, record T) error {
	if !s.Enabled() {
		return constant.ErrDatabaseDisabled
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("%w: 创建记录失败: %v", constant.ErrDatabaseError, err)
	}
	return nil
}

// Get 查询记录
func (s *BaseService[T]) Get(ctx context.Context, id uint64) (T, error) {
	record := s.NewModel()
	if !s.Enabled() {
		return record, constant.ErrDatabaseDisabled
	}
	if err := s.db.WithContext(ctx).First(record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record, constant.ErrRecordNotFound
		}
		return record, fmt.Errorf("%w: 查询记录失败: %v", constant.ErrDatabaseError, err)
	}
	return record, nil
}

// List 查询记录列表
func (s *BaseService[T]) List(ctx context.Context, condition T, offset, limit int) ([]T, int64, error) {
	var records []T
	var total int64
	if !s.Enabled() {
		return records, 0, constant.ErrDatabaseDisabled
	}

	query := s.db.WithContext(ctx).Model(s.NewModel())

	// 构建查询条件
	query = s.BuildCondition(query, condition)

	// 查询记录总数
	if err := query.Count(&total).Error; err != nil {
		return records, 0, fmt.Errorf("%w: 查询记录总数失败: %v", constant.ErrDatabaseError, err)
	}

	// 查询记录列表
	if err := query.Offset(offset).Limit(limit).Order(s.order).Find(&records).Error; err != nil {
		return records, 0, fmt.Errorf("%w: 查询记录失败: %v", constant.ErrDatabaseError, err)
	}

	return records, total, nil
}

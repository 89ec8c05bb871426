package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yockii/surat_hub/internal/constant"
	"github.com/yockii/surat_hub/internal/model"
	"github.com/yockii/surat_hub/pkg/config"
	"github.com/yockii/surat_hub/pkg/logger"
)

const (
	SequenceStoreMemory   = "memory"
	SequenceStoreDatabase = "database"
	SequenceStoreRedis    = "redis"

	// key前缀
	sequencePrefix = "surat:seq:"
	// 过期时间，覆盖一个完整月份之后再清理
	sequenceExpire = 62 * 24 * time.Hour
)

// PeriodKey 流水号所属的月份，如 2026-3
func PeriodKey(t time.Time) string {
	return fmt.Sprintf("%d-%d", t.Year(), int(t.Month()))
}

// memorySequence 进程内计数，只保留当前月份
type memorySequence struct {
	mu     sync.Mutex
	period string
	value  int
}

func NewMemorySequenceService() SequenceService {
	return &memorySequence{}
}

func (s *memorySequence) roll(t time.Time) {
	if key := PeriodKey(t); key != s.period {
		s.period = key
		s.value = 0
	}
}

func (s *memorySequence) ClaimNext(_ context.Context, t time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roll(t)
	s.value++
	return s.value, nil
}

func (s *memorySequence) PeekNext(_ context.Context, t time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roll(t)
	return s.value + 1, nil
}

// databaseSequence 每个月一行，在事务内自增
type databaseSequence struct {
	db *gorm.DB
}

func NewDatabaseSequenceService(db *gorm.DB) SequenceService {
	return &databaseSequence{db: db}
}

func (s *databaseSequence) ClaimNext(ctx context.Context, t time.Time) (int, error) {
	period := PeriodKey(t)
	var seq model.LetterSequence
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &model.LetterSequence{Period: period}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "period"}},
			DoNothing: true,
		}).Create(row).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.LetterSequence{}).
			Where("period = ?", period).
			Update("value", gorm.Expr("value + 1")).Error; err != nil {
			return err
		}
		return tx.Where("period = ?", period).First(&seq).Error
	})
	if err != nil {
		logger.Error("占用流水号失败", logger.F("period", period), logger.F("err", err))
		return 0, fmt.Errorf("%w: %v", constant.ErrSequenceError, err)
	}
	return seq.Value, nil
}

func (s *databaseSequence) PeekNext(ctx context.Context, t time.Time) (int, error) {
	var seq model.LetterSequence
	err := s.db.WithContext(ctx).Where("period = ?", PeriodKey(t)).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", constant.ErrSequenceError, err)
	}
	return seq.Value + 1, nil
}

// redisSequence 每个月一个计数key，INCR 保证多实例下不重号
type redisSequence struct {
	rdb *redis.Client
}

func NewRedisSequenceService(rdb *redis.Client) SequenceService {
	return &redisSequence{rdb: rdb}
}

// NewRedisClient 按配置创建Redis客户端
func NewRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         config.GetRedisAddress(),
		Password:     config.GetString("cache.redis.password"),
		DB:           config.GetInt("cache.redis.db"),
		PoolSize:     config.GetInt("cache.redis.pool_size"),
		MinIdleConns: config.GetInt("cache.redis.pool_size") / 2,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func (s *redisSequence) ClaimNext(ctx context.Context, t time.Time) (int, error) {
	key := sequencePrefix + PeriodKey(t)
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		logger.Error("占用流水号失败", logger.F("key", key), logger.F("err", err))
		return 0, fmt.Errorf("%w: %v", constant.ErrCacheError, err)
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, key, sequenceExpire).Err(); err != nil {
			logger.Warn("设置流水号过期时间失败", logger.F("key", key), logger.F("err", err))
		}
	}
	return int(n), nil
}

func (s *redisSequence) PeekNext(ctx context.Context, t time.Time) (int, error) {
	v, err := s.rdb.Get(ctx, sequencePrefix+PeriodKey(t)).Int()
	if err == redis.Nil {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", constant.ErrCacheError, err)
	}
	return v + 1, nil
}

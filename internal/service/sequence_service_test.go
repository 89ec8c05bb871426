package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yockii/surat_hub/internal/constant"
	"github.com/yockii/surat_hub/internal/model"
)

func TestPeriodKey(t *testing.T) {
	assert.Equal(t, "2026-3", PeriodKey(time.Date(2026, time.March, 31, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2026-12", PeriodKey(time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)))
}

func testSequence(t *testing.T, seq SequenceService) {
	ctx := context.Background()
	march := time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)
	april := time.Date(2026, time.April, 1, 8, 0, 0, 0, time.UTC)

	next, err := seq.PeekNext(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	for want := 1; want <= 3; want++ {
		got, err := seq.ClaimNext(ctx, march)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	next, err = seq.PeekNext(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, 4, next)

	// 换月后重新从1开始
	got, err := seq.ClaimNext(ctx, april)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestMemorySequence(t *testing.T) {
	testSequence(t, NewMemorySequenceService())
}

func TestMemorySequence_Concurrent(t *testing.T) {
	seq := NewMemorySequenceService()
	now := time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int]bool)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := seq.ClaimNext(context.Background(), now)
			assert.NoError(t, err)
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 50)
	for i := 1; i <= 50; i++ {
		assert.True(t, seen[i], "missing %d", i)
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只在单个连接内可见
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, model.AutoMigrate(db))
	return db
}

func TestDatabaseSequence(t *testing.T) {
	testSequence(t, NewDatabaseSequenceService(openTestDB(t)))
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisSequence(t *testing.T) {
	mr, rdb := newTestRedis(t)
	testSequence(t, NewRedisSequenceService(rdb))

	// 每个月一个key，首次占用时设置过期时间
	value, err := mr.Get(sequencePrefix + "2026-3")
	require.NoError(t, err)
	assert.Equal(t, "3", value)
	assert.Equal(t, sequenceExpire, mr.TTL(sequencePrefix+"2026-3"))
	assert.True(t, mr.Exists(sequencePrefix+"2026-4"))
}

func TestRedisSequence_Concurrent(t *testing.T) {
	_, rdb := newTestRedis(t)
	seq := NewRedisSequenceService(rdb)
	now := time.Date(2026, time.May, 5, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int]bool)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := seq.ClaimNext(context.Background(), now)
			assert.NoError(t, err)
			mu.Lock()
			seen[n] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 20)
}

func TestRedisSequence_Unavailable(t *testing.T) {
	mr, rdb := newTestRedis(t)
	mr.Close()

	_, err := NewRedisSequenceService(rdb).ClaimNext(context.Background(), time.Now())
	assert.ErrorIs(t, err, constant.ErrCacheError)
	_, err = NewRedisSequenceService(rdb).PeekNext(context.Background(), time.Now())
	assert.ErrorIs(t, err, constant.ErrCacheError)
}

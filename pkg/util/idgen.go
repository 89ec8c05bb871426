package util

import (
	"sync"

	snowflake "github.com/yockii/snowflake_ext"
)

var (
	idGenerator *snowflake.Worker
	idMu        sync.Mutex
)

// InitNode 初始化ID生成器
func InitNode(nodeID uint64) error {
	idMu.Lock()
	defer idMu.Unlock()
	w, err := snowflake.NewSnowflake(nodeID)
	if err != nil {
		return err
	}
	idGenerator = w
	return nil
}

// NewID 生成新的ID，未初始化时使用节点1
func NewID() uint64 {
	idMu.Lock()
	if idGenerator == nil {
		idGenerator, _ = snowflake.NewSnowflake(1)
	}
	w := idGenerator
	idMu.Unlock()
	return w.NextId()
}

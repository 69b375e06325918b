package room

import (
	"context"
	"time"

	"github.com/palemoky/sevens/internal/logger"
)

func (rm *RoomManager) reapLoop(ctx context.Context) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.LogPanic(rec)
		}
	}()

	ticker := time.NewTicker(rm.opts.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rm.Reap()
		}
	}
}

// Reap 清扫一次：连续两个周期无人访问的房间被移除，其余房间清除标记。
// 返回被移除的房间号。
func (rm *RoomManager) Reap() []string {
	rm.mu.Lock()
	var idle []*Room
	for id, r := range rm.rooms {
		if r.touched.Swap(false) {
			continue
		}
		r.cancelWatch()
		delete(rm.rooms, id)
		idle = append(idle, r)
	}
	rm.mu.Unlock()

	ids := make([]string, 0, len(idle))
	for _, r := range idle {
		r.shutdown()
		r.deleteSnapshot()
		ids = append(ids, r.ID)
	}
	if len(ids) > 0 {
		logger.LogInfo("🧹 回收空闲房间 %d 个: %v", len(ids), ids)
	}
	return ids
}

package room

import (
	"context"
	"time"

	"github.com/palemoky/sevens/internal/logger"
)

// watchLoop 每个房间一个巡检协程，房间移除或管理器关闭时退出
func (rm *RoomManager) watchLoop(ctx context.Context, r *Room) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.LogPanic(rec)
		}
	}()

	ticker := time.NewTicker(rm.opts.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if rm.CheckRoom(r) {
				return
			}
		}
	}
}

// CheckRoom 执行一次巡检，返回房间是否已被移除。
// 上个周期内有访问则只清除标记；否则等待准备时踢掉未准备的座位，
// 牌局中踢掉当前轮到的座位。
func (rm *RoomManager) CheckRoom(r *Room) bool {
	if r.alive.Swap(false) {
		return false
	}

	log := logger.WithRoom(r.ID)
	switch r.State() {
	case RoomStateWaitReady:
		removed, empty := r.KillUnready()
		if len(removed) > 0 {
			log.Warnf("⏰ 长时间未准备，移除座位 %v", removed)
		}
		if empty {
			return rm.dropIfEmpty(r)
		}
	case RoomStateGaming:
		seat, empty := r.EvictTurn()
		if seat >= 0 {
			log.Warnf("⏰ 座位 %d 长时间未出牌，已移除", seat)
		}
		if empty {
			return rm.dropIfEmpty(r)
		}
	}
	return false
}

package room

import (
	"context"
	"math"
	"time"

	"github.com/palemoky/sevens/internal/logger"
	"github.com/palemoky/sevens/internal/server/storage"
)

// ToRoomData 房间快照
func (r *Room) ToRoomData() *storage.RoomData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.toRoomDataLocked()
}

func (r *Room) toRoomDataLocked() *storage.RoomData {
	names := r.game.PlayerNames()
	ready := r.game.ReadyList()
	holds := r.game.HoldCounts()

	data := &storage.RoomData{
		ID:        r.ID,
		State:     r.state.String(),
		Players:   make([]storage.PlayerData, len(names)),
		Turn:      r.game.Turn(),
		PlayCount: r.game.PlayCount(),
		Version:   r.version,
		UpdatedAt: time.Now().Unix(),
	}
	for seat, name := range names {
		data.Players[seat] = storage.PlayerData{
			Seat:  seat,
			Name:  name,
			Ready: ready[seat],
			Holds: holds[seat],
		}
	}
	return data
}

// saveLocked 异步保存快照，需持有写锁
func (r *Room) saveLocked() {
	if r.store == nil {
		return
	}
	r.version++
	data := r.toRoomDataLocked()
	go r.persist(data)
}

// persist 晚到的旧版本直接丢弃
func (r *Room) persist(data *storage.RoomData) {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()

	if data.Version <= r.savedVersion {
		return
	}
	if err := r.store.SaveRoom(context.Background(), data); err != nil {
		logger.WithRoom(r.ID).Warnf("⚠️ 保存房间快照失败: %v", err)
		return
	}
	r.savedVersion = data.Version
}

// deleteSnapshot 异步删除快照，之后的保存全部作废
func (r *Room) deleteSnapshot() {
	if r.store == nil {
		return
	}
	go func() {
		r.saveMu.Lock()
		defer r.saveMu.Unlock()

		r.savedVersion = math.MaxUint64
		if err := r.store.DeleteRoom(context.Background(), r.ID); err != nil {
			logger.WithRoom(r.ID).Warnf("⚠️ 删除房间快照失败: %v", err)
		}
	}()
}

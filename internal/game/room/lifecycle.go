package room

import (
	"context"
	"slices"

	"github.com/palemoky/sevens/internal/apperrors"
	"github.com/palemoky/sevens/internal/game/card"
	"github.com/palemoky/sevens/internal/game/session"
	"github.com/palemoky/sevens/internal/logger"
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/protocol/convert"
	"github.com/palemoky/sevens/internal/server/storage"
)

// AddPlayer 入座，返回座位号。第四人入座时进入 WaitReady。
func (r *Room) AddPlayer(name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return -1, errRoomGone(r.ID)
	}
	if name == "" {
		return -1, apperrors.New(apperrors.ErrInvalidArgument, "玩家名不能为空")
	}
	if r.state != RoomStateNotFull {
		return -1, apperrors.New(apperrors.ErrResourceExhausted, "房间 %s 已满", r.ID)
	}

	seat, err := r.game.AddPlayer(name)
	if err != nil {
		return -1, translate(err)
	}
	r.router.Add()

	if r.game.PlayerCount() == session.SeatCount {
		r.state = RoomStateWaitReady
	}

	logger.WithRoom(r.ID).Infof("👤 %s 入座 %d (%d/%d)", name, seat, r.game.PlayerCount(), session.SeatCount)
	r.broadcast(protocol.MsgRoomInfo, r.infoLocked())
	r.saveLocked()
	return seat, nil
}

// PlayerReady 座位准备，返回还差几人。最后一人准备后立即发牌。
func (r *Room) PlayerReady(seat int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, errRoomGone(r.ID)
	}
	if r.state != RoomStateWaitReady {
		return 0, apperrors.New(apperrors.ErrPermissionDenied, "房间 %s 当前状态 %s 不能准备", r.ID, r.state)
	}

	remaining, err := r.game.PlayerReady(seat)
	if err != nil {
		return 0, translate(err)
	}
	r.broadcast(protocol.MsgWhoReady, protocol.WhoReadyPayload{Seat: seat, Remaining: remaining})

	if remaining == 0 {
		if err := r.game.NewGame(r.newDeck()); err != nil {
			return 0, translate(err)
		}
		r.state = RoomStateGaming
		logger.WithRoom(r.ID).Infof("🃏 发牌完成，座位 %d 先出", r.game.FirstSeat())
		r.broadcast(protocol.MsgGameStart, protocol.GameStartPayload{FirstSeat: r.game.FirstSeat()})
	}
	r.saveLocked()
	return remaining, nil
}

// PlayCard 出牌或扣牌，返回本局是否结束
func (r *Room) PlayCard(play card.Play) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false, errRoomGone(r.ID)
	}
	if r.state != RoomStateGaming {
		return false, apperrors.New(apperrors.ErrPermissionDenied, "房间 %s 不在牌局中", r.ID)
	}

	ended, err := r.game.PlayCard(play)
	if err != nil {
		return false, translate(err)
	}
	r.broadcastPlay(play)

	if ended {
		if err := r.endGameLocked(); err != nil {
			return true, err
		}
	}
	r.saveLocked()
	return ended, nil
}

// endGameLocked 结算并广播
func (r *Room) endGameLocked() error {
	ending, err := r.game.EndGame()
	if err != nil {
		return translate(err)
	}
	r.state = RoomStateEndGame
	r.confirmed = make([]bool, r.game.PlayerCount())

	names := r.game.PlayerNames()
	logger.WithRoom(r.ID).Infof("🏆 本局结束，%s 获胜", names[ending.Winner])
	r.broadcast(protocol.MsgGameOver, convert.EndingToPayload(ending, names))
	r.recordLocked(ending, names)
	return nil
}

// ExitGame 退出本局。牌局中：整局作废回到 WaitReady；
// 结算后：记录该座位已确认，全部确认后回到 WaitReady。
func (r *Room) ExitGame(seat int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return errRoomGone(r.ID)
	}
	if _, err := r.game.Player(seat); err != nil {
		return translate(err)
	}

	switch r.state {
	case RoomStateGaming:
		if err := r.game.PlayerExitGame(seat); err != nil {
			return translate(err)
		}
		r.state = RoomStateWaitReady
		logger.WithRoom(r.ID).Infof("🚪 座位 %d 退出本局，牌局作废", seat)
		r.broadcast(protocol.MsgPlayerExitGame, protocol.SeatEventPayload{Seat: seat})

	case RoomStateEndGame:
		if r.confirmed[seat] {
			return nil
		}
		r.confirmed[seat] = true
		r.broadcast(protocol.MsgPlayerExitGame, protocol.SeatEventPayload{Seat: seat})
		if !slices.Contains(r.confirmed, false) {
			r.game.Reset()
			r.state = RoomStateWaitReady
			r.confirmed = nil
		}

	default:
		return apperrors.New(apperrors.ErrPermissionDenied, "房间 %s 当前状态 %s 不能退出本局", r.ID, r.state)
	}

	r.saveLocked()
	return nil
}

// ExitRoom 永久离开，之后的座位号依次前移。返回房间是否已空。
// 结算后等待确认期间不允许离开。
func (r *Room) ExitRoom(seat int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false, errRoomGone(r.ID)
	}
	if r.state == RoomStateEndGame {
		return false, apperrors.New(apperrors.ErrPermissionDenied, "请先确认本局结果再离开")
	}
	if err := r.removeSeatLocked(seat); err != nil {
		return false, err
	}

	logger.WithRoom(r.ID).Infof("👋 座位 %d 离开 (剩余 %d)", seat, r.game.PlayerCount())
	r.broadcast(protocol.MsgPlayerExitRoom, protocol.PlayerExitRoomPayload{Seat: seat, Room: r.infoLocked()})
	r.saveLocked()
	return r.game.PlayerCount() == 0, nil
}

func (r *Room) removeSeatLocked(seat int) error {
	if err := r.game.PlayerExit(seat); err != nil {
		return translate(err)
	}
	if err := r.router.Remove(seat); err != nil {
		return apperrors.New(apperrors.ErrInternal, "%s", err)
	}
	r.state = RoomStateNotFull
	r.confirmed = nil
	return nil
}

// KillUnready 移除所有未准备的座位，返回被移除的座位号（移除前的编号）
func (r *Room) KillUnready() ([]int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.state != RoomStateWaitReady {
		return nil, false
	}
	removed := r.game.KillUnready()
	// 从后往前删，前面的座位号不受影响
	for _, seat := range slices.Backward(removed) {
		if err := r.router.Remove(seat); err != nil {
			logger.WithRoom(r.ID).Errorf("❌ 移除座位 %d 的消息队列失败: %v", seat, err)
		}
	}
	if len(removed) == 0 {
		return nil, false
	}
	r.state = RoomStateNotFull
	r.broadcast(protocol.MsgLoseConnection, protocol.LoseConnectionPayload{Seats: removed, Room: r.infoLocked()})
	r.saveLocked()
	return removed, r.game.PlayerCount() == 0
}

// EvictTurn 移除当前轮到的座位，返回它的座位号
func (r *Room) EvictTurn() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.state != RoomStateGaming {
		return -1, false
	}
	seat := r.game.Turn()
	if err := r.removeSeatLocked(seat); err != nil {
		logger.WithRoom(r.ID).Errorf("❌ 移除座位 %d 失败: %v", seat, err)
		return -1, false
	}
	r.broadcast(protocol.MsgLoseConnection, protocol.LoseConnectionPayload{Seats: []int{seat}, Room: r.infoLocked()})
	r.saveLocked()
	return seat, r.game.PlayerCount() == 0
}

// recordLocked 异步记录战绩
func (r *Room) recordLocked(ending *session.GameEnding, names []string) {
	if r.recorder == nil {
		return
	}
	holds := make([]int, len(ending.Holds))
	for seat, h := range ending.Holds {
		holds[seat] = len(h)
	}
	result := storage.GameResult{
		RoomID:      r.ID,
		Names:       names,
		Holds:       holds,
		Winner:      ending.Winner,
		ClearedSeat: ending.ClearedSeat,
	}
	go func() {
		if err := r.recorder.RecordGameResult(context.Background(), result); err != nil {
			logger.WithRoom(r.ID).Errorf("❌ 记录战绩失败: %v", err)
		}
	}()
}

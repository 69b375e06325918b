package room

import (
	"github.com/palemoky/sevens/internal/game/card"
	"github.com/palemoky/sevens/internal/logger"
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/protocol/codec"
	"github.com/palemoky/sevens/internal/protocol/convert"
)

// 以下方法都要求调用方持有写锁。投递失败只记录警告。

func (r *Room) broadcast(msgType protocol.MessageType, payload any) {
	if err := r.router.Broadcast(codec.MustNewMessage(msgType, payload)); err != nil {
		logger.WithRoom(r.ID).Warnf("⚠️ 广播 %s 失败: %v", msgType, err)
	}
}

func (r *Room) sendTo(seat int, msgType protocol.MessageType, payload any) {
	if err := r.router.SendTo(seat, codec.MustNewMessage(msgType, payload)); err != nil {
		logger.WithRoom(r.ID).Warnf("⚠️ 发送 %s 失败: %v", msgType, err)
	}
}

func (r *Room) broadcastExcept(seat int, msgType protocol.MessageType, payload any) {
	if err := r.router.BroadcastExcept(seat, codec.MustNewMessage(msgType, payload)); err != nil {
		logger.WithRoom(r.ID).Warnf("⚠️ 广播 %s 失败: %v", msgType, err)
	}
}

// broadcastPlay 明牌直接广播；扣牌只让本人看到真牌，其他座位收到占位牌。
// 两次发送在同一次持锁内完成，不会和后续事件交错。
func (r *Room) broadcastPlay(play card.Play) {
	if !play.IsHold() {
		r.broadcast(protocol.MsgCardPlayed, convert.PlayToPayload(play))
		return
	}
	r.sendTo(play.Seat, protocol.MsgCardPlayed, convert.PlayToPayload(play))
	r.broadcastExcept(play.Seat, protocol.MsgCardPlayed, convert.PlayToPayload(play.Concealed()))
}

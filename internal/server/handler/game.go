package handler

import (
	"github.com/palemoky/sevens/internal/apperrors"
	"github.com/palemoky/sevens/internal/fanout"
	"github.com/palemoky/sevens/internal/logger"
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/protocol/convert"
	"github.com/palemoky/sevens/internal/types"
)

// handleGameReady 处理准备
func (h *Handler) handleGameReady(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.SeatPayload](client, msg)
	if !ok {
		return
	}

	r, err := h.roomManager.GetRoom(payload.RoomID)
	if err != nil {
		sendError(client, err)
		return
	}
	remaining, err := r.PlayerReady(payload.Seat)
	if err != nil {
		sendError(client, err)
		return
	}
	reply(client, protocol.MsgReadyResult, protocol.ReadyResultPayload{Remaining: remaining})
}

// handleGameStatus 查询座位视角的牌局
func (h *Handler) handleGameStatus(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.SeatPayload](client, msg)
	if !ok {
		return
	}

	r, err := h.roomManager.GetRoom(payload.RoomID)
	if err != nil {
		sendError(client, err)
		return
	}
	status, err := r.GameStatus(payload.Seat)
	if err != nil {
		sendError(client, err)
		return
	}
	reply(client, protocol.MsgGameStatusResult, status)
}

// handlePlayCard 处理出牌/扣牌
func (h *Handler) handlePlayCard(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.PlayCardPayload](client, msg)
	if !ok {
		return
	}

	play, err := convert.PayloadToPlay(*payload)
	if err != nil {
		sendError(client, apperrors.New(apperrors.ErrInvalidArgument, "%s", err))
		return
	}

	r, err := h.roomManager.GetRoom(payload.RoomID)
	if err != nil {
		sendError(client, err)
		return
	}
	ended, err := r.PlayCard(play)
	if err != nil {
		sendError(client, err)
		return
	}
	reply(client, protocol.MsgPlayResult, protocol.PlayResultPayload{Ended: ended})
}

// handleExitGame 退出本局（牌局中作废，结算后确认）
func (h *Handler) handleExitGame(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.SeatPayload](client, msg)
	if !ok {
		return
	}

	r, err := h.roomManager.GetRoom(payload.RoomID)
	if err != nil {
		sendError(client, err)
		return
	}
	if err := r.ExitGame(payload.Seat); err != nil {
		sendError(client, err)
		return
	}
	reply(client, protocol.MsgExitGameResult, protocol.AckPayload{RoomID: payload.RoomID, Seat: payload.Seat})
}

// handleGameStream 领取座位的消息队列并持续推送到这条连接，
// 直到座位离开、房间销毁或连接断开
func (h *Handler) handleGameStream(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.SeatPayload](client, msg)
	if !ok {
		return
	}

	r, err := h.roomManager.GetRoom(payload.RoomID)
	if err != nil {
		sendError(client, err)
		return
	}
	mb, err := r.Subscribe(payload.Seat)
	if err != nil {
		sendError(client, err)
		return
	}

	reply(client, protocol.MsgStreamStarted, protocol.StreamStartedPayload{RoomID: payload.RoomID, Seat: payload.Seat})
	logger.WithRoom(payload.RoomID).Debugf("📡 座位 %d 开始订阅 (连接 %s)", payload.Seat, client.GetID())
	go pump(client, mb)
}

// pump 把队列里的事件按顺序转发给客户端
func pump(client types.ClientInterface, mb *fanout.Mailbox) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		mb.Release()
	}()

	for {
		select {
		case msg, ok := <-mb.C():
			if !ok {
				return
			}
			client.SendMessage(msg)
		case <-client.Done():
			return
		}
	}
}

package handler

import (
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/types"
)

// handleNewRoom 处理创建房间
func (h *Handler) handleNewRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.RoomPayload](client, msg)
	if !ok {
		return
	}

	if _, err := h.roomManager.NewRoom(payload.RoomID); err != nil {
		sendError(client, err)
		return
	}
	reply(client, protocol.MsgRoomCreated, protocol.RoomCreatedPayload{RoomID: payload.RoomID})
}

// handleJoinRoom 处理加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.JoinRoomPayload](client, msg)
	if !ok {
		return
	}

	seat, err := h.roomManager.JoinRoom(payload.RoomID, payload.Name)
	if err != nil {
		sendError(client, err)
		return
	}
	reply(client, protocol.MsgRoomJoined, protocol.RoomJoinedPayload{RoomID: payload.RoomID, Seat: seat})
}

// handleRoomStatus 查询房间概况，不改变任何状态
func (h *Handler) handleRoomStatus(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.RoomPayload](client, msg)
	if !ok {
		return
	}

	r, err := h.roomManager.GetRoom(payload.RoomID)
	if err != nil {
		sendError(client, err)
		return
	}
	info, err := r.Info()
	if err != nil {
		sendError(client, err)
		return
	}
	reply(client, protocol.MsgRoomStatusResult, info)
}

// handleExitRoom 处理离开房间
func (h *Handler) handleExitRoom(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.SeatPayload](client, msg)
	if !ok {
		return
	}

	if err := h.roomManager.ExitRoom(payload.RoomID, payload.Seat); err != nil {
		sendError(client, err)
		return
	}
	reply(client, protocol.MsgExitRoomResult, protocol.AckPayload{RoomID: payload.RoomID, Seat: payload.Seat})
}

package handler

import (
	"time"

	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/types"
)

// handlePing 处理心跳。带房间号时顺便标记房间活跃，避免只订阅不操作的房间被巡检协程踢人。
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.RoomPayload](client, msg)
	if !ok {
		return
	}

	if payload.RoomID != "" {
		if _, err := h.roomManager.GetRoom(payload.RoomID); err != nil {
			sendError(client, err)
			return
		}
	}

	reply(client, protocol.MsgPong, protocol.PongPayload{
		ServerTimestamp: time.Now().UnixMilli(),
	})
}

package handler

import (
	"errors"

	"github.com/palemoky/sevens/internal/apperrors"
	"github.com/palemoky/sevens/internal/game/room"
	"github.com/palemoky/sevens/internal/logger"
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/protocol/codec"
	"github.com/palemoky/sevens/internal/types"
)

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	RoomManager *room.RoomManager
	Leaderboard types.Leaderboard // 可为 nil，此时排行榜请求返回 Internal
}

// Handler 消息处理器：每个请求恰好回一条 *_result 或 error
type Handler struct {
	roomManager *room.RoomManager
	leaderboard types.Leaderboard
	handlers    map[protocol.MessageType]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		roomManager: deps.RoomManager,
		leaderboard: deps.Leaderboard,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接
		protocol.MsgPing: h.handlePing,

		// 房间
		protocol.MsgNewRoom:    h.handleNewRoom,
		protocol.MsgJoinRoom:   h.handleJoinRoom,
		protocol.MsgRoomStatus: h.handleRoomStatus,
		protocol.MsgExitRoom:   h.handleExitRoom,

		// 牌局
		protocol.MsgGameReady:  h.handleGameReady,
		protocol.MsgGameStatus: h.handleGameStatus,
		protocol.MsgPlayCard:   h.handlePlayCard,
		protocol.MsgExitGame:   h.handleExitGame,
		protocol.MsgGameStream: h.handleGameStream,

		// 战绩
		protocol.MsgGetLeaderboard: h.handleGetLeaderboard,
		protocol.MsgGetStats:       h.handleGetStats,
	}
}

// Handle 处理消息
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	logger.WithClient(client.GetID()).Warnf("⚠️ 未知消息类型: '%s' (Payload %d bytes)", msg.Type, len(msg.Payload))
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// sendError 把错误转成 error 消息
func sendError(client types.ClientInterface, err error) {
	var gameErr *apperrors.GameError
	if errors.As(err, &gameErr) {
		client.SendMessage(codec.NewErrorMessageWithText(gameErr.Code, gameErr.Message))
		return
	}
	logger.WithClient(client.GetID()).Errorf("❌ 未分类的错误: %v", err)
	client.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeInternal, err.Error()))
}

// parse 解析请求体，失败时直接回复 InvalidMsg
func parse[T any](client types.ClientInterface, msg *protocol.Message) (*T, bool) {
	payload, err := codec.ParsePayload[T](msg)
	if err != nil {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
		return nil, false
	}
	return payload, true
}

// reply 发送成功响应
func reply(client types.ClientInterface, msgType protocol.MessageType, payload any) {
	client.SendMessage(codec.MustNewMessage(msgType, payload))
}

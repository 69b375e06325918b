// 命令行机器人：加入房间、准备，轮到自己时能出就出，不能出就扣。
package main

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/palemoky/sevens/internal/logger"
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/protocol/codec"
	"github.com/palemoky/sevens/internal/transport"
)

const callTimeout = 5 * time.Second

func main() {
	serverAddr := flag.String("server", "localhost:1777", "服务器地址")
	roomID := flag.String("room", "lobby", "房间号")
	name := flag.String("name", "bot", "玩家名")
	create := flag.Bool("create", false, "房间不存在时先创建")
	logLevel := flag.String("log-level", "info", "日志级别")
	flag.Parse()

	if err := logger.Init(logger.Options{Level: *logLevel}); err != nil {
		logger.L().Fatalf("❌ %v", err)
	}

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)
	if err := run(serverURL, *roomID, *name, *create); err != nil {
		logger.L().Fatalf("❌ %v", err)
	}
}

type bot struct {
	rpc    *transport.Client
	stream *transport.Client
	roomID string
	seat   int
}

func run(serverURL, roomID, name string, create bool) error {
	rpc, err := transport.Dial(serverURL)
	if err != nil {
		return fmt.Errorf("连接服务器失败: %w", err)
	}
	defer rpc.Close()

	b := &bot{rpc: rpc, roomID: roomID}

	if create {
		msg, err := rpc.Call(protocol.MsgNewRoom, protocol.RoomPayload{RoomID: roomID}, protocol.MsgRoomCreated, callTimeout)
		if err := check(msg, err); err != nil && !isCode(msg, protocol.ErrCodeAlreadyExists) {
			return err
		}
	}

	joined, err := call[protocol.RoomJoinedPayload](rpc, protocol.MsgJoinRoom,
		protocol.JoinRoomPayload{RoomID: roomID, Name: name}, protocol.MsgRoomJoined)
	if err != nil {
		return err
	}
	b.seat = joined.Seat
	logger.LogInfo("👤 %s 坐在 %d 号座位", name, b.seat)

	b.stream, err = transport.Dial(serverURL)
	if err != nil {
		return err
	}
	defer b.stream.Close()
	if _, err := call[protocol.StreamStartedPayload](b.stream, protocol.MsgGameStream, b.seatPayload(), protocol.MsgStreamStarted); err != nil {
		return err
	}
	if _, err := call[protocol.ReadyResultPayload](rpc, protocol.MsgGameReady, b.seatPayload(), protocol.MsgReadyResult); err != nil {
		return err
	}

	return b.loop()
}

func (b *bot) seatPayload() protocol.SeatPayload {
	return protocol.SeatPayload{RoomID: b.roomID, Seat: b.seat}
}

// loop 处理推送事件，直到本局结束
func (b *bot) loop() error {
	for {
		msg, err := b.stream.Receive()
		if err != nil {
			return err
		}

		switch msg.Type {
		case protocol.MsgGameStart, protocol.MsgCardPlayed:
			if err := b.maybePlay(); err != nil {
				return err
			}
		case protocol.MsgLoseConnection, protocol.MsgPlayerExitGame:
			logger.LogWarn("⚠️ %s", msg.Type)
		case protocol.MsgGameOver:
			over, err := codec.ParsePayload[protocol.GameOverPayload](msg)
			if err != nil {
				return err
			}
			logger.LogInfo("🏆 %s 获胜，排名 %v", over.Names[over.Winner], over.Ranking)
			_, err = call[protocol.AckPayload](b.rpc, protocol.MsgExitGame, b.seatPayload(), protocol.MsgExitGameResult)
			return err
		}
	}
}

// maybePlay 轮到自己时出第一张能接上的牌，否则依次尝试扣牌
func (b *bot) maybePlay() error {
	status, err := call[protocol.GameStatusPayload](b.rpc, protocol.MsgGameStatus, b.seatPayload(), protocol.MsgGameStatusResult)
	if err != nil {
		return err
	}
	if status.Turn != b.seat || len(status.Hand) == 0 {
		return nil
	}

	for i, c := range status.Hand {
		if status.Hints[i] {
			return b.play("discard", c)
		}
	}
	for _, c := range status.Hand {
		err := b.play("hold", c)
		if err == nil || !errors.Is(err, errRejected) {
			return err
		}
	}
	return errors.New("没有可以扣的牌")
}

var errRejected = errors.New("出牌被拒绝")

func (b *bot) play(kind string, c protocol.CardInfo) error {
	msg, err := b.rpc.Call(protocol.MsgPlayCard, protocol.PlayCardPayload{
		RoomID: b.roomID, Seat: b.seat, Kind: kind, Card: c,
	}, protocol.MsgPlayResult, callTimeout)
	if isCode(msg, protocol.ErrCodePermissionDenied) {
		return errRejected
	}
	return check(msg, err)
}

// call 发送请求并解析响应
func call[T any](c *transport.Client, t protocol.MessageType, payload any, want protocol.MessageType) (*T, error) {
	msg, err := c.Call(t, payload, want, callTimeout)
	if err := check(msg, err); err != nil {
		return nil, err
	}
	return codec.ParsePayload[T](msg)
}

func check(msg *protocol.Message, err error) error {
	if err != nil {
		return err
	}
	if msg.Type == protocol.MsgError {
		e, perr := codec.ParsePayload[protocol.ErrorPayload](msg)
		if perr != nil {
			return perr
		}
		return fmt.Errorf("服务器错误 %d: %s", e.Code, e.Message)
	}
	return nil
}

func isCode(msg *protocol.Message, code int) bool {
	if msg == nil || msg.Type != protocol.MsgError {
		return false
	}
	e, err := codec.ParsePayload[protocol.ErrorPayload](msg)
	return err == nil && e.Code == code
}

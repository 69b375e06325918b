package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/sevens/internal/config"
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/protocol/codec"
	"github.com/palemoky/sevens/internal/transport"
)

const callTimeout = 2 * time.Second

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *httptest.Server) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	s := New(cfg, rdb)
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(func() {
		ts.Close()
		s.roomManager.Close()
		_ = rdb.Close()
	})
	return s, ts
}

func dial(t *testing.T, ts *httptest.Server) *transport.Client {
	t.Helper()
	c, err := transport.Dial("ws" + strings.TrimPrefix(ts.URL, "http") + "/ws")
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func mustCall[T any](t *testing.T, c *transport.Client, msgType protocol.MessageType, payload any, want protocol.MessageType) *T {
	t.Helper()
	msg, err := c.Call(msgType, payload, want, callTimeout)
	require.NoError(t, err)
	if msg.Type == protocol.MsgError {
		e, _ := codec.ParsePayload[protocol.ErrorPayload](msg)
		require.Failf(t, "unexpected error", "%s: %+v", msgType, e)
	}
	p, err := codec.ParsePayload[T](msg)
	require.NoError(t, err)
	return p
}

func TestHealth(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", string(body))
}

// playTurn 当前轮到的座位出第一张能接的牌，没有就依次尝试扣牌
func playTurn(t *testing.T, c *transport.Client, roomID string) bool {
	t.Helper()

	status := mustCall[protocol.GameStatusPayload](t, c, protocol.MsgGameStatus,
		protocol.SeatPayload{RoomID: roomID}, protocol.MsgGameStatusResult)
	seat := status.Turn
	status = mustCall[protocol.GameStatusPayload](t, c, protocol.MsgGameStatus,
		protocol.SeatPayload{RoomID: roomID, Seat: seat}, protocol.MsgGameStatusResult)

	for i, ok := range status.Hints {
		if ok {
			res := mustCall[protocol.PlayResultPayload](t, c, protocol.MsgPlayCard,
				protocol.PlayCardPayload{RoomID: roomID, Seat: seat, Kind: "discard", Card: status.Hand[i]}, protocol.MsgPlayResult)
			return res.Ended
		}
	}

	for _, card := range status.Hand {
		msg, err := c.Call(protocol.MsgPlayCard,
			protocol.PlayCardPayload{RoomID: roomID, Seat: seat, Kind: "hold", Card: card}, protocol.MsgPlayResult, callTimeout)
		require.NoError(t, err)
		if msg.Type == protocol.MsgPlayResult {
			res, err := codec.ParsePayload[protocol.PlayResultPayload](msg)
			require.NoError(t, err)
			return res.Ended
		}
	}
	require.FailNow(t, "座位没有任何合法的牌", "seat %d", seat)
	return false
}

func TestEndToEnd_FullGame(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.MessageRate = -1
	})

	c := dial(t, ts)
	stream := dial(t, ts)

	mustCall[protocol.RoomCreatedPayload](t, c, protocol.MsgNewRoom, protocol.RoomPayload{RoomID: "e2e"}, protocol.MsgRoomCreated)
	for i := range 4 {
		joined := mustCall[protocol.RoomJoinedPayload](t, c, protocol.MsgJoinRoom,
			protocol.JoinRoomPayload{RoomID: "e2e", Name: fmt.Sprintf("P%d", i)}, protocol.MsgRoomJoined)
		require.Equal(t, i, joined.Seat)
	}

	mustCall[protocol.StreamStartedPayload](t, stream, protocol.MsgGameStream,
		protocol.SeatPayload{RoomID: "e2e", Seat: 1}, protocol.MsgStreamStarted)

	for seat := range 4 {
		mustCall[protocol.ReadyResultPayload](t, c, protocol.MsgGameReady,
			protocol.SeatPayload{RoomID: "e2e", Seat: seat}, protocol.MsgReadyResult)
	}
	start, err := stream.ReceiveType(protocol.MsgGameStart, callTimeout)
	require.NoError(t, err)
	require.Equal(t, protocol.MsgGameStart, start.Type)

	plays := 0
	for !playTurn(t, c, "e2e") {
		plays++
		require.Less(t, plays, 52)
	}

	msg, err := stream.ReceiveType(protocol.MsgGameOver, callTimeout)
	require.NoError(t, err)
	over, err := codec.ParsePayload[protocol.GameOverPayload](msg)
	require.NoError(t, err)
	assert.Len(t, over.Ranking, 4)
	assert.Equal(t, []string{"P0", "P1", "P2", "P3"}, over.Names)

	info := mustCall[protocol.RoomInfo](t, c, protocol.MsgRoomStatus, protocol.RoomPayload{RoomID: "e2e"}, protocol.MsgRoomStatusResult)
	assert.Equal(t, "end_game", info.State)

	for seat := range 4 {
		mustCall[protocol.AckPayload](t, c, protocol.MsgExitGame,
			protocol.SeatPayload{RoomID: "e2e", Seat: seat}, protocol.MsgExitGameResult)
	}
	info = mustCall[protocol.RoomInfo](t, c, protocol.MsgRoomStatus, protocol.RoomPayload{RoomID: "e2e"}, protocol.MsgRoomStatusResult)
	assert.Equal(t, "wait_ready", info.State)

	// 战绩异步写入
	assert.Eventually(t, func() bool {
		msg, err := c.Call(protocol.MsgGetStats, protocol.GetStatsPayload{Name: "P0"}, protocol.MsgStatsResult, callTimeout)
		if err != nil || msg.Type != protocol.MsgStatsResult {
			return false
		}
		stats, err := codec.ParsePayload[protocol.StatsResultPayload](msg)
		return err == nil && stats.Games == 1
	}, 3*time.Second, 50*time.Millisecond)

	board := mustCall[protocol.LeaderboardResultPayload](t, c, protocol.MsgGetLeaderboard,
		protocol.GetLeaderboardPayload{}, protocol.MsgLeaderboardResult)
	assert.NotEmpty(t, board.Entries)
}

func TestEndToEnd_InvalidMessage(t *testing.T) {
	t.Parallel()
	_, ts := newTestServer(t, nil)
	c := dial(t, ts)

	msg, err := c.Call("bid", nil, protocol.MsgError, callTimeout)
	require.NoError(t, err)
	e, err := codec.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeInvalidMsg, e.Code)

	// 连接仍然可用
	mustCall[protocol.PongPayload](t, c, protocol.MsgPing, protocol.RoomPayload{}, protocol.MsgPong)
}

func TestEndToEnd_RateLimit(t *testing.T) {
	t.Parallel()
	s, ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.MessageRate = 2
	})
	c := dial(t, ts)

	for range 10 {
		require.NoError(t, c.Send(protocol.MsgPing, protocol.RoomPayload{}))
	}

	for range 2 {
		msg, err := c.ReceiveWithTimeout(callTimeout)
		require.NoError(t, err)
		assert.Equal(t, protocol.MsgPong, msg.Type)
	}
	msg, err := c.ReceiveWithTimeout(callTimeout)
	require.NoError(t, err)
	e, err := codec.ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeServerBusy, e.Code)

	// 超速次数过多被断开
	select {
	case <-c.Done():
	case <-time.After(callTimeout):
		t.Fatal("连接没有被断开")
	}
	assert.Eventually(t, func() bool {
		return s.GetOnlineCount() == 0
	}, callTimeout, 10*time.Millisecond)
}

func TestEndToEnd_MaxConnections(t *testing.T) {
	t.Parallel()
	s, ts := newTestServer(t, func(cfg *config.Config) {
		cfg.Server.MaxConnections = 1
	})

	first := dial(t, ts)
	mustCall[protocol.PongPayload](t, first, protocol.MsgPing, protocol.RoomPayload{}, protocol.MsgPong)

	_, err := transport.Dial("ws" + strings.TrimPrefix(ts.URL, "http") + "/ws")
	assert.Error(t, err)

	// 断开后名额释放
	first.Close()
	assert.Eventually(t, func() bool {
		return s.GetOnlineCount() == 0 && len(s.semaphore) == 0
	}, callTimeout, 10*time.Millisecond)
	second := dial(t, ts)
	mustCall[protocol.PongPayload](t, second, protocol.MsgPing, protocol.RoomPayload{}, protocol.MsgPong)
}

func TestShutdown(t *testing.T) {
	t.Parallel()
	s, ts := newTestServer(t, nil)
	c := dial(t, ts)

	mustCall[protocol.RoomCreatedPayload](t, c, protocol.MsgNewRoom, protocol.RoomPayload{RoomID: "r1"}, protocol.MsgRoomCreated)
	require.Equal(t, 1, s.GetOnlineCount())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case <-c.Done():
	case <-time.After(callTimeout):
		t.Fatal("连接没有被断开")
	}
	assert.Zero(t, s.RoomManager().Count())
}

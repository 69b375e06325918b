package room

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/sevens/internal/apperrors"
	"github.com/palemoky/sevens/internal/game/session"
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/protocol/codec"
	"github.com/palemoky/sevens/internal/server/storage"
	"github.com/palemoky/sevens/internal/testutil"
)

func TestNewRoom(t *testing.T) {
	t.Parallel()

	rm := NewTestManager(nil, nil)
	defer rm.Close()

	_, err := rm.NewRoom("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	r, err := rm.NewRoom("r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, RoomStateNotFull, r.State())

	_, err = rm.NewRoom("r1")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Equal(t, 1, rm.Count())
}

func TestGetRoom(t *testing.T) {
	t.Parallel()

	rm := NewTestManager(nil, nil)
	defer rm.Close()

	_, err := rm.GetRoom("nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	created, err := rm.NewRoom("r1")
	require.NoError(t, err)
	got, err := rm.GetRoom("r1")
	require.NoError(t, err)
	assert.Same(t, created, got)
}

func TestDelRoom(t *testing.T) {
	t.Parallel()

	rm := NewTestManager(nil, nil)
	defer rm.Close()
	r, err := FillRoom(rm, "r1")
	require.NoError(t, err)
	mb, err := r.Subscribe(0)
	require.NoError(t, err)

	require.NoError(t, rm.DelRoom("r1"))
	assert.ErrorIs(t, rm.DelRoom("r1"), apperrors.ErrNotFound)

	_, err = rm.GetRoom("r1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// 已移除的房间拒绝所有操作
	_, err = r.AddPlayer("late")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = r.Info()
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	drain(mb)
	assert.True(t, mb.Closed())
}

func TestJoinAndExitRoom_LastSeatRemovesRoom(t *testing.T) {
	t.Parallel()

	rm := NewTestManager(nil, nil)
	defer rm.Close()
	_, err := rm.NewRoom("r1")
	require.NoError(t, err)

	for i := range session.SeatCount {
		seat, err := rm.JoinRoom("r1", "P")
		require.NoError(t, err)
		assert.Equal(t, i, seat)
	}
	_, err = rm.JoinRoom("r1", "late")
	assert.ErrorIs(t, err, apperrors.ErrResourceExhausted)
	_, err = rm.JoinRoom("nope", "P")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// 每次都离开 0 号座位，后面的座位依次前移
	for range session.SeatCount {
		require.NoError(t, rm.ExitRoom("r1", 0))
	}

	_, err = rm.GetRoom("r1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Zero(t, rm.Count())
	assert.ErrorIs(t, rm.ExitRoom("r1", 0), apperrors.ErrNotFound)
}

func TestCheckRoom_KillsUnready(t *testing.T) {
	t.Parallel()

	rm := NewTestManager(nil, nil)
	defer rm.Close()
	r, err := FillRoom(rm, "r1")
	require.NoError(t, err)
	mb, err := r.Subscribe(0)
	require.NoError(t, err)
	_, err = r.PlayerReady(0)
	require.NoError(t, err)
	drain(mb)

	// 刚有过访问，第一次巡检只清除标记
	assert.False(t, rm.CheckRoom(r))
	assert.Equal(t, session.SeatCount, r.PlayerCount())

	assert.False(t, rm.CheckRoom(r))
	assert.Equal(t, 1, r.PlayerCount())
	assert.Equal(t, RoomStateNotFull, r.State())

	msgs := drain(mb)
	require.Len(t, msgs, 1)
	assert.Equal(t, protocol.MsgLoseConnection, msgs[0].Type)
	p, err := codec.ParsePayload[protocol.LoseConnectionPayload](msgs[0])
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, p.Seats)
	assert.Len(t, p.Room.Players, 1)
}

func TestCheckRoom_TouchKeepsRoomAlive(t *testing.T) {
	t.Parallel()

	rm := NewTestManager(nil, nil)
	defer rm.Close()
	r, err := FillRoom(rm, "r1")
	require.NoError(t, err)

	for range 3 {
		_, err := rm.GetRoom("r1")
		require.NoError(t, err)
		assert.False(t, rm.CheckRoom(r))
	}
	assert.Equal(t, session.SeatCount, r.PlayerCount())
}

func TestCheckRoom_EvictsTurnSeat(t *testing.T) {
	t.Parallel()

	rm := NewTestManager(nil, nil)
	defer rm.Close()
	r, err := FillRoom(rm, "r1")
	require.NoError(t, err)
	mb, err := r.Subscribe(3)
	require.NoError(t, err)
	require.NoError(t, StartGame(r))
	drain(mb)

	rm.CheckRoom(r)
	assert.False(t, rm.CheckRoom(r))

	assert.Equal(t, RoomStateNotFull, r.State())
	assert.Equal(t, 3, r.PlayerCount())

	msgs := drain(mb)
	require.Len(t, msgs, 1)
	p, err := codec.ParsePayload[protocol.LoseConnectionPayload](msgs[0])
	require.NoError(t, err)
	assert.Equal(t, []int{0}, p.Seats) // 红心 7 在 0 号座位，轮到它
}

func TestCheckRoom_RemovesEmptiedRoom(t *testing.T) {
	t.Parallel()

	rm := NewTestManager(nil, nil)
	defer rm.Close()
	r, err := FillRoom(rm, "r1")
	require.NoError(t, err)

	rm.CheckRoom(r)
	assert.True(t, rm.CheckRoom(r))

	_, err = rm.GetRoom("r1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWatchLoop(t *testing.T) {
	t.Parallel()

	rm := NewRoomManager(Options{CheckInterval: 10 * time.Millisecond})
	defer rm.Close()
	_, err := FillRoom(rm, "r1")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return rm.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestReap_TwoStrikes(t *testing.T) {
	t.Parallel()

	rm := NewTestManager(nil, nil)
	defer rm.Close()
	_, err := rm.NewRoom("busy")
	require.NoError(t, err)
	idle, err := rm.NewRoom("idle")
	require.NoError(t, err)

	// 新房间算作刚访问过
	assert.Empty(t, rm.Reap())

	_, err = rm.GetRoom("busy")
	require.NoError(t, err)
	assert.Equal(t, []string{"idle"}, rm.Reap())

	_, err = idle.Info()
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, 1, rm.Count())

	assert.Equal(t, []string{"busy"}, rm.Reap())
	assert.Zero(t, rm.Count())
}

func TestReapLoop(t *testing.T) {
	t.Parallel()

	rm := NewRoomManager(Options{ReapInterval: 10 * time.Millisecond})
	defer rm.Close()
	_, err := rm.NewRoom("r1")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return rm.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClose_RejectsNewRooms(t *testing.T) {
	t.Parallel()

	rm := NewRoomManager(Options{CheckInterval: time.Hour, ReapInterval: time.Hour})
	r, err := FillRoom(rm, "r1")
	require.NoError(t, err)

	rm.Close()

	assert.Zero(t, rm.Count())
	_, err = r.Info()
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = rm.NewRoom("r2")
	assert.Error(t, err)
}

func TestGetActiveGamesCount(t *testing.T) {
	t.Parallel()

	rm := NewTestManager(nil, nil)
	defer rm.Close()
	r, err := FillRoom(rm, "r1")
	require.NoError(t, err)
	_, err = FillRoom(rm, "r2")
	require.NoError(t, err)

	assert.Zero(t, rm.GetActiveGamesCount())
	require.NoError(t, StartGame(r))
	assert.Equal(t, 1, rm.GetActiveGamesCount())
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestSnapshots(t *testing.T) {
	t.Parallel()

	store := storage.NewRedisStore(newRedis(t))
	rm := NewTestManager(store, nil)
	defer rm.Close()
	ctx := context.Background()

	r, err := FillRoom(rm, "r1")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		data, err := store.LoadRoom(ctx, "r1")
		return err == nil && data != nil && data.State == "wait_ready" && len(data.Players) == session.SeatCount
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, StartGame(r))
	assert.Eventually(t, func() bool {
		data, err := store.LoadRoom(ctx, "r1")
		return err == nil && data != nil && data.State == "gaming"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, rm.DelRoom("r1"))
	assert.Eventually(t, func() bool {
		data, err := store.LoadRoom(ctx, "r1")
		return err == nil && data == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGameResultRecorded(t *testing.T) {
	t.Parallel()

	results := make(chan storage.GameResult, 1)
	recorder := &testutil.MockLeaderboard{}
	recorder.On("RecordGameResult", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { results <- args.Get(1).(storage.GameResult) }).
		Return(nil).Once()

	rm := NewTestManager(nil, recorder)
	defer rm.Close()
	r, err := FillRoom(rm, "r1")
	require.NoError(t, err)
	require.NoError(t, StartGame(r))
	require.NoError(t, PlayOut(r))

	select {
	case result := <-results:
		assert.Equal(t, "r1", result.RoomID)
		assert.Equal(t, []string{"P0", "P1", "P2", "P3"}, result.Names)
		assert.Len(t, result.Holds, session.SeatCount)
	case <-time.After(2 * time.Second):
		t.Fatal("战绩未记录")
	}
	recorder.AssertExpectations(t)
}

func TestPurgeStale(t *testing.T) {
	t.Parallel()

	store := &testutil.MockRoomStore{}
	store.On("PurgeRooms", mock.Anything).Return(3, nil).Once()

	rm := NewRoomManager(Options{Store: store})
	defer rm.Close()

	n, err := rm.PurgeStale(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	store.AssertExpectations(t)

	// 没有存储时什么都不做
	n, err = NewTestManager(nil, nil).PurgeStale(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

package handler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/sevens/internal/game/room"
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/server/storage"
)

func TestHandler_GetLeaderboard_Limit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"默认", 0, defaultLeaderboardLimit},
		{"负数", -3, defaultLeaderboardLimit},
		{"正常", 5, 5},
		{"上限", maxLeaderboardLimit, maxLeaderboardLimit},
		{"超出上限", maxLeaderboardLimit + 1, defaultLeaderboardLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, _, lb := newTestHandler(t)
			lb.On("GetLeaderboard", mock.Anything, tt.want).Return([]storage.LeaderboardEntry{}, nil).Once()

			res := requireReply[protocol.LeaderboardResultPayload](t,
				call(t, h, protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{Limit: tt.limit}), protocol.MsgLeaderboardResult)
			assert.Empty(t, res.Entries)
			lb.AssertExpectations(t)
		})
	}
}

func TestHandler_GetLeaderboard(t *testing.T) {
	t.Parallel()
	h, _, lb := newTestHandler(t)

	lb.On("GetLeaderboard", mock.Anything, 10).Return([]storage.LeaderboardEntry{
		{Rank: 1, Name: "alice", Wins: 5, Games: 8},
		{Rank: 2, Name: "bob", Wins: 3, Games: 9},
	}, nil).Once()

	res := requireReply[protocol.LeaderboardResultPayload](t,
		call(t, h, protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{}), protocol.MsgLeaderboardResult)
	assert.Equal(t, []protocol.LeaderboardEntry{
		{Rank: 1, Name: "alice", Wins: 5, Games: 8},
		{Rank: 2, Name: "bob", Wins: 3, Games: 9},
	}, res.Entries)

	lb.On("GetLeaderboard", mock.Anything, 3).Return(nil, errors.New("redis down")).Once()
	assert.Equal(t, protocol.ErrCodeInternal,
		errCode(t, call(t, h, protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{Limit: 3})))
	lb.AssertExpectations(t)
}

func TestHandler_GetStats(t *testing.T) {
	t.Parallel()
	h, _, lb := newTestHandler(t)

	assert.Equal(t, protocol.ErrCodeInvalidArgument,
		errCode(t, call(t, h, protocol.MsgGetStats, protocol.GetStatsPayload{})))

	lb.On("GetPlayerStats", mock.Anything, "alice").Return(&storage.PlayerStats{
		Name: "alice", Games: 8, Wins: 5, HeldCards: 12, Clears: 2,
	}, nil).Once()
	lb.On("GetPlayerRank", mock.Anything, "alice").Return(int64(1), nil).Once()

	stats := requireReply[protocol.StatsResultPayload](t,
		call(t, h, protocol.MsgGetStats, protocol.GetStatsPayload{Name: "alice"}), protocol.MsgStatsResult)
	assert.Equal(t, protocol.StatsResultPayload{
		Name: "alice", Games: 8, Wins: 5, HeldCards: 12, Clears: 2, Rank: 1,
	}, *stats)

	// 没打过牌的玩家
	lb.On("GetPlayerStats", mock.Anything, "nobody").Return(nil, nil).Once()
	stats = requireReply[protocol.StatsResultPayload](t,
		call(t, h, protocol.MsgGetStats, protocol.GetStatsPayload{Name: "nobody"}), protocol.MsgStatsResult)
	assert.Equal(t, protocol.StatsResultPayload{Name: "nobody"}, *stats)

	lb.On("GetPlayerStats", mock.Anything, "broken").Return(nil, errors.New("redis down")).Once()
	assert.Equal(t, protocol.ErrCodeInternal,
		errCode(t, call(t, h, protocol.MsgGetStats, protocol.GetStatsPayload{Name: "broken"})))

	lb.AssertExpectations(t)
}

func TestHandler_StatsWithoutLeaderboard(t *testing.T) {
	t.Parallel()

	rm := room.NewTestManager(nil, nil)
	defer rm.Close()
	h := NewHandler(HandlerDeps{RoomManager: rm})

	for _, tt := range []struct {
		msgType protocol.MessageType
		payload any
	}{
		{protocol.MsgGetLeaderboard, protocol.GetLeaderboardPayload{}},
		{protocol.MsgGetStats, protocol.GetStatsPayload{Name: "alice"}},
	} {
		msg := call(t, h, tt.msgType, tt.payload)
		require.Equal(t, protocol.MsgError, msg.Type)
		assert.Equal(t, protocol.ErrCodeInternal, errCode(t, msg))
	}
}

package handler

import (
	"context"
	"time"

	"github.com/palemoky/sevens/internal/apperrors"
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/types"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 50
	queryTimeout            = 3 * time.Second
)

// --- 排行榜处理 ---

// handleGetLeaderboard 获取排行榜
func (h *Handler) handleGetLeaderboard(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.GetLeaderboardPayload](client, msg)
	if !ok {
		return
	}
	if h.leaderboard == nil {
		sendError(client, apperrors.New(apperrors.ErrInternal, "排行榜不可用"))
		return
	}

	// 限制请求数量
	limit := payload.Limit
	if limit <= 0 || limit > maxLeaderboardLimit {
		limit = defaultLeaderboardLimit
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	entries, err := h.leaderboard.GetLeaderboard(ctx, limit)
	if err != nil {
		sendError(client, apperrors.New(apperrors.ErrInternal, "获取排行榜失败: %s", err))
		return
	}

	protocolEntries := make([]protocol.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		protocolEntries = append(protocolEntries, protocol.LeaderboardEntry{
			Rank:  entry.Rank,
			Name:  entry.Name,
			Wins:  entry.Wins,
			Games: entry.Games,
		})
	}
	reply(client, protocol.MsgLeaderboardResult, protocol.LeaderboardResultPayload{Entries: protocolEntries})
}

// handleGetStats 获取个人统计，没打过牌的玩家返回全零
func (h *Handler) handleGetStats(client types.ClientInterface, msg *protocol.Message) {
	payload, ok := parse[protocol.GetStatsPayload](client, msg)
	if !ok {
		return
	}
	if payload.Name == "" {
		sendError(client, apperrors.New(apperrors.ErrInvalidArgument, "玩家名不能为空"))
		return
	}
	if h.leaderboard == nil {
		sendError(client, apperrors.New(apperrors.ErrInternal, "排行榜不可用"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	stats, err := h.leaderboard.GetPlayerStats(ctx, payload.Name)
	if err != nil {
		sendError(client, apperrors.New(apperrors.ErrInternal, "获取统计失败: %s", err))
		return
	}
	if stats == nil {
		reply(client, protocol.MsgStatsResult, protocol.StatsResultPayload{Name: payload.Name})
		return
	}

	rank, _ := h.leaderboard.GetPlayerRank(ctx, payload.Name)
	reply(client, protocol.MsgStatsResult, protocol.StatsResultPayload{
		Name:      stats.Name,
		Games:     stats.Games,
		Wins:      stats.Wins,
		HeldCards: stats.HeldCards,
		Clears:    stats.Clears,
		Rank:      rank,
	})
}

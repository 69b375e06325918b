package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// Redis key
	playerStatsKey = "sevens:stats:"
	leaderboardKey = "sevens:leaderboard:wins"
)

// 统计字段
const (
	fieldGames     = "games"
	fieldWins      = "wins"
	fieldHeldCards = "held_cards"
	fieldClears    = "clears"
	fieldLastPlay  = "last_played_at"
)

// GameResult 一局的结算，按座位顺序
type GameResult struct {
	RoomID      string
	Names       []string
	Holds       []int // 每个座位的扣牌数
	Winner      int
	ClearedSeat int // -1 表示无人清牌
}

// PlayerStats 玩家统计
type PlayerStats struct {
	Name         string `json:"name"`
	Games        int    `json:"games"`
	Wins         int    `json:"wins"`
	HeldCards    int    `json:"held_cards"`
	Clears       int    `json:"clears"`
	LastPlayedAt int64  `json:"last_played_at"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank  int
	Name  string
	Wins  int
	Games int
}

// LeaderboardManager 排行榜管理器
type LeaderboardManager struct {
	redis *redis.Client
}

// NewLeaderboardManager 创建排行榜管理器
func NewLeaderboardManager(client *redis.Client) *LeaderboardManager {
	return &LeaderboardManager{redis: client}
}

// RecordGameResult 记录一局结果：每个座位的统计加一局，胜者进排行榜
func (lm *LeaderboardManager) RecordGameResult(ctx context.Context, result GameResult) error {
	now := time.Now().Unix()
	_, err := lm.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for seat, name := range result.Names {
			key := playerStatsKey + name
			pipe.HIncrBy(ctx, key, fieldGames, 1)
			if seat < len(result.Holds) {
				pipe.HIncrBy(ctx, key, fieldHeldCards, int64(result.Holds[seat]))
			}
			if seat == result.Winner {
				pipe.HIncrBy(ctx, key, fieldWins, 1)
				pipe.ZIncrBy(ctx, leaderboardKey, 1, name)
			} else {
				// 保证每个参与者都在榜上
				pipe.ZIncrBy(ctx, leaderboardKey, 0, name)
			}
			if seat == result.ClearedSeat {
				pipe.HIncrBy(ctx, key, fieldClears, 1)
			}
			pipe.HSet(ctx, key, fieldLastPlay, now)
		}
		return nil
	})
	return err
}

// GetPlayerStats 获取玩家统计，没有记录时返回 nil, nil
func (lm *LeaderboardManager) GetPlayerStats(ctx context.Context, name string) (*PlayerStats, error) {
	data, err := lm.redis.HGetAll(ctx, playerStatsKey+name).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	atoi := func(k string) int {
		n, _ := strconv.Atoi(data[k])
		return n
	}
	last, _ := strconv.ParseInt(data[fieldLastPlay], 10, 64)
	return &PlayerStats{
		Name:         name,
		Games:        atoi(fieldGames),
		Wins:         atoi(fieldWins),
		HeldCards:    atoi(fieldHeldCards),
		Clears:       atoi(fieldClears),
		LastPlayedAt: last,
	}, nil
}

// GetLeaderboard 按胜场从高到低取前 limit 名
func (lm *LeaderboardManager) GetLeaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		return nil, nil
	}
	results, err := lm.redis.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, z := range results {
		name, _ := z.Member.(string)
		entry := LeaderboardEntry{Rank: i + 1, Name: name, Wins: int(z.Score)}
		if games, err := lm.redis.HGet(ctx, playerStatsKey+name, fieldGames).Int(); err == nil {
			entry.Games = games
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// GetPlayerRank 获取玩家排名，未上榜返回 0
func (lm *LeaderboardManager) GetPlayerRank(ctx context.Context, name string) (int64, error) {
	rank, err := lm.redis.ZRevRank(ctx, leaderboardKey, name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return rank + 1, nil // Redis 排名从 0 开始
}

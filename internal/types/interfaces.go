package types

import (
	"context"

	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/server/storage"
)

// RoomStore 房间快照存储（用于打破 room 与 storage 的直接依赖）
type RoomStore interface {
	SaveRoom(ctx context.Context, data *storage.RoomData) error
	DeleteRoom(ctx context.Context, id string) error
	PurgeRooms(ctx context.Context) (int, error)
}

// ResultRecorder 战绩记录
type ResultRecorder interface {
	RecordGameResult(ctx context.Context, result storage.GameResult) error
}

// Leaderboard 排行榜查询
type Leaderboard interface {
	GetLeaderboard(ctx context.Context, limit int) ([]storage.LeaderboardEntry, error)
	GetPlayerStats(ctx context.Context, name string) (*storage.PlayerStats, error)
	GetPlayerRank(ctx context.Context, name string) (int64, error)
}

// ClientInterface 一条 WebSocket 连接
type ClientInterface interface {
	GetID() string
	SendMessage(msg *protocol.Message)
	Close()
	Done() <-chan struct{} // 连接断开后关闭
}

package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	// 房间操作
	MsgNewRoom    MessageType = "new_room"    // 创建房间
	MsgJoinRoom   MessageType = "join_room"   // 加入房间
	MsgRoomStatus MessageType = "room_status" // 查询房间
	MsgExitRoom   MessageType = "exit_room"   // 离开房间

	// 游戏操作
	MsgGameReady  MessageType = "game_ready"  // 准备
	MsgGameStatus MessageType = "game_status" // 查询牌局
	MsgPlayCard   MessageType = "play_card"   // 出牌或扣牌
	MsgExitGame   MessageType = "exit_game"   // 退出本局
	MsgGameStream MessageType = "game_stream" // 订阅房间事件

	// 连接
	MsgPing MessageType = "ping" // 心跳

	// 排行榜
	MsgGetLeaderboard MessageType = "get_leaderboard" // 获取排行榜
	MsgGetStats       MessageType = "get_stats"       // 获取个人统计
)

// 服务端 → 客户端 响应类型
const (
	MsgRoomCreated       MessageType = "room_created"
	MsgRoomJoined        MessageType = "room_joined"
	MsgRoomStatusResult  MessageType = "room_status_result"
	MsgReadyResult       MessageType = "ready_result"
	MsgGameStatusResult  MessageType = "game_status_result"
	MsgPlayResult        MessageType = "play_result"
	MsgExitGameResult    MessageType = "exit_game_result"
	MsgExitRoomResult    MessageType = "exit_room_result"
	MsgStreamStarted     MessageType = "stream_started"
	MsgPong              MessageType = "pong"
	MsgLeaderboardResult MessageType = "leaderboard_result"
	MsgStatsResult       MessageType = "stats_result"

	// 错误
	MsgError MessageType = "error"
)

// 服务端 → 客户端 推送事件，只经 game_stream 下发
const (
	MsgRoomInfo       MessageType = "room_info"        // 有人入座
	MsgWhoReady       MessageType = "who_ready"        // 有人准备
	MsgGameStart      MessageType = "game_start"       // 发牌完成
	MsgCardPlayed     MessageType = "card_played"      // 有人出牌或扣牌
	MsgGameOver       MessageType = "game_over"        // 结算
	MsgPlayerExitGame MessageType = "player_exit_game" // 有人退出本局
	MsgPlayerExitRoom MessageType = "player_exit_room" // 有人离开房间
	MsgLoseConnection MessageType = "lose_connection"  // 有人被判定掉线
)

// IsEvent 是否为推送事件
func (t MessageType) IsEvent() bool {
	switch t {
	case MsgRoomInfo, MsgWhoReady, MsgGameStart, MsgCardPlayed, MsgGameOver,
		MsgPlayerExitGame, MsgPlayerExitRoom, MsgLoseConnection:
		return true
	}
	return false
}

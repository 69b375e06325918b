package protocol

// --- 公共结构 ---

// CardInfo 牌的线上表示；Suit 与 Rank 都为 0 表示被扣下看不见的牌
type CardInfo struct {
	Suit int `json:"suit"`
	Rank int `json:"rank"`
}

// PlayerInfo 房间中的座位
type PlayerInfo struct {
	Seat  int    `json:"seat"`
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
}

// RoomInfo 房间概况
type RoomInfo struct {
	RoomID  string       `json:"room_id"`
	State   string       `json:"state"`
	Players []PlayerInfo `json:"players"`
}

// ChainEnds 一条牌链的两端；Empty 时 Low/High 无意义
type ChainEnds struct {
	Suit  int  `json:"suit"`
	Empty bool `json:"empty"`
	Low   int  `json:"low"`
	High  int  `json:"high"`
}

// DeskEntry 桌面上的一张牌
type DeskEntry struct {
	Card CardInfo `json:"card"`
	Seat int      `json:"seat"`
}

// LastPlayInfo 最近一手；扣牌时 Card 为空
type LastPlayInfo struct {
	Seat int       `json:"seat"`
	Card *CardInfo `json:"card,omitempty"`
}

// --- 客户端请求 Payloads ---

// RoomPayload 只带房间号的请求：new_room / room_status / ping
type RoomPayload struct {
	RoomID string `json:"room_id"`
}

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
}

// SeatPayload 带座位号的请求：game_ready / game_status / exit_game / exit_room / game_stream
type SeatPayload struct {
	RoomID string `json:"room_id"`
	Seat   int    `json:"seat"`
}

// PlayCardPayload 出牌请求
type PlayCardPayload struct {
	RoomID string   `json:"room_id"`
	Seat   int      `json:"seat"`
	Kind   string   `json:"kind"` // discard/hold
	Card   CardInfo `json:"card"`
}

// GetLeaderboardPayload 获取排行榜请求
type GetLeaderboardPayload struct {
	Limit int `json:"limit"`
}

// GetStatsPayload 获取个人统计请求
type GetStatsPayload struct {
	Name string `json:"name"`
}

// --- 服务端响应 Payloads ---

// RoomCreatedPayload 创建房间成功
type RoomCreatedPayload struct {
	RoomID string `json:"room_id"`
}

// RoomJoinedPayload 加入房间成功
type RoomJoinedPayload struct {
	RoomID string `json:"room_id"`
	Seat   int    `json:"seat"`
}

// ReadyResultPayload 准备结果
type ReadyResultPayload struct {
	Remaining int `json:"remaining"` // 还差几人
}

// GameStatusPayload 某个座位视角的牌局
type GameStatusPayload struct {
	State          string        `json:"state"`
	Seat           int           `json:"seat"`
	Hand           []CardInfo    `json:"hand"`
	Hints          []bool        `json:"hints"` // 与 Hand 一一对应
	Holds          []CardInfo    `json:"holds"`
	HoldCounts     []int         `json:"hold_counts"`
	Desk           []ChainEnds   `json:"desk"`
	Turn           int           `json:"turn"`
	FirstSeat      int           `json:"first_seat"`
	PlayCount      int           `json:"play_count"`
	SomeoneCleared bool          `json:"someone_cleared"`
	Last           *LastPlayInfo `json:"last,omitempty"`
}

// PlayResultPayload 出牌结果
type PlayResultPayload struct {
	Ended bool `json:"ended"`
}

// AckPayload exit_game / exit_room 的确认
type AckPayload struct {
	RoomID string `json:"room_id"`
	Seat   int    `json:"seat"`
}

// StreamStartedPayload 订阅成功，之后的事件都从这条连接推送
type StreamStartedPayload struct {
	RoomID string `json:"room_id"`
	Seat   int    `json:"seat"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ServerTimestamp int64 `json:"server_timestamp"`
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Wins  int    `json:"wins"`
	Games int    `json:"games"`
}

// LeaderboardResultPayload 排行榜结果
type LeaderboardResultPayload struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// StatsResultPayload 个人统计
type StatsResultPayload struct {
	Name      string `json:"name"`
	Games     int    `json:"games"`
	Wins      int    `json:"wins"`
	HeldCards int    `json:"held_cards"` // 累计扣牌数
	Clears    int    `json:"clears"`
	Rank      int64  `json:"rank"` // 0 表示未上榜
}

// ErrorPayload 错误
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// --- 推送事件 Payloads ---

// WhoReadyPayload 有人准备
type WhoReadyPayload struct {
	Seat      int `json:"seat"`
	Remaining int `json:"remaining"`
}

// GameStartPayload 发牌完成
type GameStartPayload struct {
	FirstSeat int `json:"first_seat"`
}

// CardPlayedPayload 一手牌；扣牌时非本人收到的 Card 为零值
type CardPlayedPayload struct {
	Seat int      `json:"seat"`
	Kind string   `json:"kind"`
	Card CardInfo `json:"card"`
}

// GameOverPayload 结算
type GameOverPayload struct {
	Winner      int           `json:"winner"`
	Ranking     []int         `json:"ranking"`
	FirstSeat   int           `json:"first_seat"`
	Names       []string      `json:"names"`
	Holds       [][]CardInfo  `json:"holds"`
	Desk        [][]DeskEntry `json:"desk"` // 按花色的完整牌链
	ClearedSeat int           `json:"cleared_seat"`
	TheSeven    bool          `json:"the_seven"`
}

// SeatEventPayload 与单个座位相关的事件
type SeatEventPayload struct {
	Seat int `json:"seat"`
}

// PlayerExitRoomPayload 有人离开房间
type PlayerExitRoomPayload struct {
	Seat int      `json:"seat"`
	Room RoomInfo `json:"room"`
}

// LoseConnectionPayload 被巡检移出的座位（移出前的座位号）与之后的房间
type LoseConnectionPayload struct {
	Seats []int    `json:"seats"`
	Room  RoomInfo `json:"room"`
}

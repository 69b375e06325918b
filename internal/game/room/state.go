package room

// RoomState 房间状态
type RoomState int

const (
	RoomStateNotFull   RoomState = iota // 不足四人
	RoomStateWaitReady                  // 四人到齐，等待准备
	RoomStateGaming                     // 牌局进行中
	RoomStateEndGame                    // 已结算，等待所有人确认
)

func (s RoomState) String() string {
	switch s {
	case RoomStateNotFull:
		return "not_full"
	case RoomStateWaitReady:
		return "wait_ready"
	case RoomStateGaming:
		return "gaming"
	case RoomStateEndGame:
		return "end_game"
	default:
		return "unknown"
	}
}

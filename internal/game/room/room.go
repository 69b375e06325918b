package room

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/palemoky/sevens/internal/apperrors"
	"github.com/palemoky/sevens/internal/fanout"
	"github.com/palemoky/sevens/internal/game/card"
	"github.com/palemoky/sevens/internal/game/session"
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/protocol/convert"
	"github.com/palemoky/sevens/internal/types"
)

// Room 一局牌七的房间：一个 Game、每个座位的消息队列和活性标记
type Room struct {
	ID string

	mu        sync.RWMutex
	state     RoomState
	game      *session.Game
	router    *fanout.Router
	confirmed []bool // EndGame 中已确认退出本局的座位
	closed    bool   // 已从管理器移除，后续操作一律 NotFound

	touched     atomic.Bool // 回收器：上次清扫后是否被访问
	alive       atomic.Bool // 巡检协程：上个周期内是否被访问
	cancelWatch context.CancelFunc

	newDeck  func() card.Deck
	store    types.RoomStore
	recorder types.ResultRecorder

	// 快照异步写入，按版本号丢弃过期的写
	version      uint64 // 受 mu 保护
	saveMu       sync.Mutex
	savedVersion uint64 // 受 saveMu 保护
}

func newRoom(id string, mailboxSize int) *Room {
	r := &Room{
		ID:          id,
		state:       RoomStateNotFull,
		game:        session.New(),
		router:      fanout.NewRouter(mailboxSize),
		newDeck:     card.NewShuffledDeck,
		cancelWatch: func() {},
	}
	r.Touch()
	return r
}

// Touch 标记房间有活动
func (r *Room) Touch() {
	r.touched.Store(true)
	r.alive.Store(true)
}

// State 当前状态
func (r *Room) State() RoomState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// PlayerCount 座位数
func (r *Room) PlayerCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.game.PlayerCount()
}

// Info 房间概况，只读
func (r *Room) Info() (protocol.RoomInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return protocol.RoomInfo{}, errRoomGone(r.ID)
	}
	return r.infoLocked(), nil
}

func (r *Room) infoLocked() protocol.RoomInfo {
	return protocol.RoomInfo{
		RoomID:  r.ID,
		State:   r.state.String(),
		Players: convert.PlayersToInfos(r.game.PlayerNames(), r.game.ReadyList()),
	}
}

// GameStatus 某个座位视角的牌局，只读
func (r *Room) GameStatus(seat int) (*protocol.GameStatusPayload, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, errRoomGone(r.ID)
	}
	p, err := r.game.Player(seat)
	if err != nil {
		return nil, translate(err)
	}
	hints, err := r.game.MyHint(seat)
	if err != nil {
		return nil, translate(err)
	}

	return &protocol.GameStatusPayload{
		State:          r.state.String(),
		Seat:           seat,
		Hand:           convert.CardsToInfos(p.Hand()),
		Hints:          hints,
		Holds:          convert.CardsToInfos(p.Holds()),
		HoldCounts:     r.game.HoldCounts(),
		Desk:           convert.DeskToEnds(r.game.Desk()),
		Turn:           r.game.Turn(),
		FirstSeat:      r.game.FirstSeat(),
		PlayCount:      r.game.PlayCount(),
		SomeoneCleared: r.game.SomeoneCleared(),
		Last:           convert.LastPlayToInfo(r.game.Last()),
	}, nil
}

// Subscribe 领取座位的消息队列，每个座位同时只能有一个订阅者。
// 调用方读完后需调用 Mailbox.Release。
func (r *Room) Subscribe(seat int) (*fanout.Mailbox, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, errRoomGone(r.ID)
	}
	mb, err := r.router.Get(seat)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrNotFound, "座位 %d 不存在", seat)
	}
	if err := mb.Claim(); err != nil {
		if errors.Is(err, fanout.ErrClaimed) {
			return nil, apperrors.New(apperrors.ErrAlreadyExists, "座位 %d 已有订阅", seat)
		}
		return nil, apperrors.New(apperrors.ErrNotFound, "座位 %d 已离开", seat)
	}
	return mb, nil
}

// shutdown 关闭所有消息队列，之后的操作返回 NotFound
func (r *Room) shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.router.CloseAll()
}

func errRoomGone(id string) error {
	return apperrors.New(apperrors.ErrNotFound, "房间 %s 不存在", id)
}

// translate 把规则引擎的错误映射到对外的错误类别
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, session.ErrNotFound):
		return apperrors.New(apperrors.ErrNotFound, "%s", err)
	case errors.Is(err, session.ErrAlreadyDone):
		return apperrors.New(apperrors.ErrAlreadyExists, "%s", err)
	case errors.Is(err, session.ErrPermissionDenied):
		return apperrors.New(apperrors.ErrPermissionDenied, "%s", err)
	default:
		return apperrors.New(apperrors.ErrInternal, "%s", err)
	}
}

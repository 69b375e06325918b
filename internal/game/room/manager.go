package room

import (
	"context"
	"sync"
	"time"

	"github.com/palemoky/sevens/internal/apperrors"
	"github.com/palemoky/sevens/internal/fanout"
	"github.com/palemoky/sevens/internal/game/card"
	"github.com/palemoky/sevens/internal/logger"
	"github.com/palemoky/sevens/internal/types"
)

// Options 房间管理器配置；间隔为 0 时不启动对应的后台任务
type Options struct {
	CheckInterval time.Duration
	ReapInterval  time.Duration
	MailboxSize   int
	Store         types.RoomStore      // 可为 nil
	Recorder      types.ResultRecorder // 可为 nil
	NewDeck       func() card.Deck     // 为 nil 时洗一副新牌
}

// RoomManager 房间管理器。锁顺序固定为先管理器后房间。
type RoomManager struct {
	opts  Options
	rooms map[string]*Room
	mu    sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRoomManager 创建房间管理器并启动空闲房间回收
func NewRoomManager(opts Options) *RoomManager {
	if opts.MailboxSize <= 0 {
		opts.MailboxSize = fanout.DefaultSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	rm := &RoomManager{
		opts:   opts,
		rooms:  make(map[string]*Room),
		ctx:    ctx,
		cancel: cancel,
	}

	if opts.ReapInterval > 0 {
		rm.wg.Go(func() { rm.reapLoop(ctx) })
	}
	return rm
}

// NewRoom 创建房间并启动它的巡检协程
func (rm *RoomManager) NewRoom(id string) (*Room, error) {
	if id == "" {
		return nil, apperrors.New(apperrors.ErrInvalidArgument, "房间号不能为空")
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.ctx.Err() != nil {
		return nil, apperrors.New(apperrors.ErrPermissionDenied, "服务器正在关闭")
	}
	if _, exists := rm.rooms[id]; exists {
		return nil, apperrors.New(apperrors.ErrAlreadyExists, "房间 %s 已存在", id)
	}

	r := newRoom(id, rm.opts.MailboxSize)
	r.store = rm.opts.Store
	r.recorder = rm.opts.Recorder
	if rm.opts.NewDeck != nil {
		r.newDeck = rm.opts.NewDeck
	}
	rm.rooms[id] = r

	if rm.opts.CheckInterval > 0 {
		ctx, cancel := context.WithCancel(rm.ctx)
		r.cancelWatch = cancel
		rm.wg.Go(func() { rm.watchLoop(ctx, r) })
	}

	logger.WithRoom(id).Info("🏠 房间已创建")
	return r, nil
}

// GetRoom 查找房间并标记活动
func (rm *RoomManager) GetRoom(id string) (*Room, error) {
	rm.mu.RLock()
	r, exists := rm.rooms[id]
	rm.mu.RUnlock()

	if !exists {
		return nil, errRoomGone(id)
	}
	r.Touch()
	return r, nil
}

// DelRoom 移除房间：先停巡检协程，再关闭所有消息队列
func (rm *RoomManager) DelRoom(id string) error {
	rm.mu.Lock()
	r, exists := rm.rooms[id]
	if !exists {
		rm.mu.Unlock()
		return errRoomGone(id)
	}
	rm.removeLocked(r)
	rm.mu.Unlock()

	r.shutdown()
	r.deleteSnapshot()
	return nil
}

// removeLocked 需持有管理器写锁
func (rm *RoomManager) removeLocked(r *Room) {
	r.cancelWatch()
	delete(rm.rooms, r.ID)
}

// dropIfEmpty 房间没人时移除。持锁重新检查，避免删掉刚有人加入的房间。
func (rm *RoomManager) dropIfEmpty(r *Room) bool {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if rm.rooms[r.ID] != r {
		return false
	}
	r.mu.Lock()
	empty := r.game.PlayerCount() == 0
	if empty {
		r.closed = true
		r.router.CloseAll()
	}
	r.mu.Unlock()

	if !empty {
		return false
	}
	rm.removeLocked(r)
	r.deleteSnapshot()
	logger.WithRoom(r.ID).Info("🏠 房间已解散")
	return true
}

// JoinRoom 加入房间，返回座位号
func (rm *RoomManager) JoinRoom(id, name string) (int, error) {
	r, err := rm.GetRoom(id)
	if err != nil {
		return -1, err
	}
	return r.AddPlayer(name)
}

// ExitRoom 离开房间，最后一人离开时销毁房间
func (rm *RoomManager) ExitRoom(id string, seat int) error {
	r, err := rm.GetRoom(id)
	if err != nil {
		return err
	}
	empty, err := r.ExitRoom(seat)
	if err != nil {
		return err
	}
	if empty {
		rm.dropIfEmpty(r)
	}
	return nil
}

// Count 房间数
func (rm *RoomManager) Count() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}

// GetActiveGamesCount 进行中的牌局数
func (rm *RoomManager) GetActiveGamesCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	count := 0
	for _, r := range rm.rooms {
		if r.State() == RoomStateGaming {
			count++
		}
	}
	return count
}

// PurgeStale 启动时清理上一个进程遗留的房间快照
func (rm *RoomManager) PurgeStale(ctx context.Context) (int, error) {
	if rm.opts.Store == nil {
		return 0, nil
	}
	n, err := rm.opts.Store.PurgeRooms(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.LogInfo("🧹 清理了 %d 个遗留房间快照", n)
	}
	return n, nil
}

// Close 停止回收器和所有巡检协程，关闭全部房间
func (rm *RoomManager) Close() {
	rm.mu.Lock()
	rm.cancel()
	rooms := make([]*Room, 0, len(rm.rooms))
	for _, r := range rm.rooms {
		rooms = append(rooms, r)
	}
	clear(rm.rooms)
	rm.mu.Unlock()

	for _, r := range rooms {
		r.shutdown()
	}
	rm.wg.Wait()
}

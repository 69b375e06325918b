package fanout

import (
	"errors"
	"fmt"
	"slices"

	"github.com/palemoky/sevens/internal/protocol"
)

// ErrNoSeat 座位不存在
var ErrNoSeat = errors.New("fanout: 座位不存在")

// Router 按座位号索引的一组 Mailbox。
// 不自带锁，由持有它的房间在自己的锁内调用。
type Router struct {
	size  int
	boxes []*Mailbox
}

// NewRouter 创建路由，新队列的长度为 size
func NewRouter(size int) *Router {
	return &Router{size: size}
}

// Add 追加一个座位的队列，返回座位号
func (r *Router) Add() (int, *Mailbox) {
	mb := NewMailbox(r.size)
	r.boxes = append(r.boxes, mb)
	return len(r.boxes) - 1, mb
}

// Get 返回座位的队列
func (r *Router) Get(seat int) (*Mailbox, error) {
	if seat < 0 || seat >= len(r.boxes) {
		return nil, fmt.Errorf("%w: %d", ErrNoSeat, seat)
	}
	return r.boxes[seat], nil
}

// Remove 关闭并移除座位，之后的座位号依次前移
func (r *Router) Remove(seat int) error {
	mb, err := r.Get(seat)
	if err != nil {
		return err
	}
	mb.Close()
	r.boxes = slices.Delete(r.boxes, seat, seat+1)
	return nil
}

// Len 座位数
func (r *Router) Len() int {
	return len(r.boxes)
}

// SendTo 发给单个座位
func (r *Router) SendTo(seat int, msg *protocol.Message) error {
	mb, err := r.Get(seat)
	if err != nil {
		return err
	}
	if err := mb.Send(msg); err != nil {
		return fmt.Errorf("座位 %d: %w", seat, err)
	}
	return nil
}

// Broadcast 发给所有座位，返回每个失败座位的错误
func (r *Router) Broadcast(msg *protocol.Message) error {
	return r.BroadcastExcept(-1, msg)
}

// BroadcastExcept 发给除 except 以外的座位
func (r *Router) BroadcastExcept(except int, msg *protocol.Message) error {
	var errs []error
	for seat, mb := range r.boxes {
		if seat == except {
			continue
		}
		if err := mb.Send(msg); err != nil {
			errs = append(errs, fmt.Errorf("座位 %d: %w", seat, err))
		}
	}
	return errors.Join(errs...)
}

// CloseAll 关闭全部队列
func (r *Router) CloseAll() {
	for _, mb := range r.boxes {
		mb.Close()
	}
	r.boxes = nil
}

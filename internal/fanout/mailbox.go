// Package fanout 把房间事件分发到每个座位的消息队列。
//
// 每个座位一个 Mailbox，由该座位唯一的 game_stream 连接消费。
// 发送永不阻塞：队列满或已关闭时返回错误，由调用方记录后丢弃。
package fanout

import (
	"errors"
	"sync"

	"github.com/palemoky/sevens/internal/protocol"
)

// DefaultSize 默认队列长度
const DefaultSize = 256

var (
	ErrMailboxFull   = errors.New("fanout: 消息队列已满")
	ErrMailboxClosed = errors.New("fanout: 消息队列已关闭")
	ErrClaimed       = errors.New("fanout: 已有订阅者")
)

// Mailbox 单个座位的有界 FIFO 队列
type Mailbox struct {
	ch chan *protocol.Message

	mu      sync.Mutex
	closed  bool
	claimed bool
}

// NewMailbox 创建队列，size <= 0 时使用默认长度
func NewMailbox(size int) *Mailbox {
	if size <= 0 {
		size = DefaultSize
	}
	return &Mailbox{ch: make(chan *protocol.Message, size)}
}

// Send 非阻塞入队
func (m *Mailbox) Send(msg *protocol.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrMailboxClosed
	}
	select {
	case m.ch <- msg:
		return nil
	default:
		return ErrMailboxFull
	}
}

// C 消费端通道，关闭后会被 close
func (m *Mailbox) C() <-chan *protocol.Message {
	return m.ch
}

// Len 排队中的消息数
func (m *Mailbox) Len() int {
	return len(m.ch)
}

// Close 关闭队列，已入队的消息仍可读出；重复调用无副作用
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	close(m.ch)
}

// Closed 是否已关闭
func (m *Mailbox) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Claim 声明唯一的消费者
func (m *Mailbox) Claim() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case m.closed:
		return ErrMailboxClosed
	case m.claimed:
		return ErrClaimed
	}
	m.claimed = true
	return nil
}

// Release 消费者退出，允许重新订阅
func (m *Mailbox) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claimed = false
}

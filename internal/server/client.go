package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/palemoky/sevens/internal/logger"
	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/protocol/codec"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 4096

	// 超速次数超过此值断开连接
	maxRateWarnings = 5
)

// Client 一条客户端连接。座位与连接无关，一条连接可以操作多个房间。
type Client struct {
	ID string
	IP string

	server  *Server
	conn    *websocket.Conn
	send    chan []byte
	done    chan struct{}
	limiter *rate.Limiter
	strikes int // 超速次数，只在 ReadPump 中读写

	mu     sync.RWMutex
	closed bool
}

// NewClient 创建新客户端
func NewClient(s *Server, conn *websocket.Conn) *Client {
	return &Client{
		ID:      uuid.New().String(),
		server:  s,
		conn:    conn,
		send:    make(chan []byte, 256),
		done:    make(chan struct{}),
		limiter: newMessageLimiter(s.config.Server.MessageRate),
	}
}

// GetID 连接 ID
func (c *Client) GetID() string { return c.ID }

// Done 连接关闭后关闭
func (c *Client) Done() <-chan struct{} { return c.done }

// ReadPump 从 WebSocket 读取消息并交给处理器，返回时连接已断开
func (c *Client) ReadPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		c.server.unregisterClient(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	log := logger.WithClient(c.ID)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Warnf("⚠️ 读取错误: %v", err)
			}
			return
		}

		// 消息速率限制
		if !c.limiter.Allow() {
			c.strikes++
			log.Warnf("⚠️ 客户端 (IP: %s) 消息过于频繁 (%d 次)", c.IP, c.strikes)
			c.SendMessage(codec.NewErrorMessageWithText(protocol.ErrCodeServerBusy, "消息发送过于频繁"))
			if c.strikes > maxRateWarnings {
				log.Warn("🚫 多次超速，断开连接")
				return
			}
			continue
		}

		msg, err := codec.Decode(data)
		if err != nil {
			log.Warnf("⚠️ 消息解析错误: %v", err)
			c.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
			continue
		}

		c.server.handler.Handle(c, msg)
		codec.PutMessage(msg)
	}
}

// WritePump 向 WebSocket 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.flush()
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// flush 关闭前尽量写完已排队的消息
func (c *Client) flush() {
	for {
		select {
		case data := <-c.send:
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}

// SendMessage 发送消息给客户端，缓冲区满时断开
func (c *Client) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	if err != nil {
		logger.WithClient(c.ID).Errorf("❌ 消息编码错误: %v", err)
		return
	}

	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return
	}
	full := false
	select {
	case c.send <- data:
	default:
		full = true
	}
	c.mu.RUnlock()

	if full {
		logger.WithClient(c.ID).Warn("⚠️ 发送缓冲区已满，断开连接")
		c.Close()
	}
}

// Close 关闭客户端连接，重复调用无副作用
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.done)
	}
}

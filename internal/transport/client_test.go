package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/sevens/internal/protocol"
	"github.com/palemoky/sevens/internal/protocol/codec"
)

// newPongServer 每收到一条消息先推一条事件，再回复 pong
func newPongServer(t *testing.T) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if _, err := codec.Decode(data); err != nil {
				return
			}
			for _, msg := range []*protocol.Message{
				codec.MustNewMessage(protocol.MsgWhoReady, protocol.WhoReadyPayload{Seat: 1}),
				codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{ServerTimestamp: 42}),
			} {
				out, _ := codec.Encode(msg)
				if err := conn.WriteMessage(websocket.BinaryMessage, out); err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http")
}

func TestClient_Call(t *testing.T) {
	t.Parallel()

	c, err := Dial(newPongServer(t))
	require.NoError(t, err)
	defer c.Close()

	msg, err := c.Call(protocol.MsgPing, protocol.RoomPayload{}, protocol.MsgPong, time.Second)
	require.NoError(t, err)
	require.Equal(t, protocol.MsgPong, msg.Type)

	pong, err := codec.ParsePayload[protocol.PongPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, int64(42), pong.ServerTimestamp)

	// 事件在 pong 之前，已被 ReceiveType 丢弃
	_, err = c.ReceiveWithTimeout(50 * time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_ReceiveInOrder(t *testing.T) {
	t.Parallel()

	c, err := Dial(newPongServer(t))
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Send(protocol.MsgPing, nil))

	first, err := c.Receive()
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgWhoReady, first.Type)

	second, err := c.ReceiveWithTimeout(time.Second)
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgPong, second.Type)
}

func TestClient_Closed(t *testing.T) {
	t.Parallel()

	c, err := Dial(newPongServer(t))
	require.NoError(t, err)

	c.Close()
	c.Close()

	assert.ErrorIs(t, c.Send(protocol.MsgPing, nil), ErrClosed)
	_, err = c.Receive()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = c.ReceiveType(protocol.MsgPong, time.Second)
	assert.ErrorIs(t, err, ErrClosed)

	select {
	case <-c.Done():
	default:
		t.Fatal("Done 应当已关闭")
	}
}

func TestDial_Unreachable(t *testing.T) {
	t.Parallel()

	_, err := Dial("ws://127.0.0.1:1/ws")
	assert.Error(t, err)
}

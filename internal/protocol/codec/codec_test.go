package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/sevens/internal/protocol"
)

func TestEncodeDecode_PreservesPayload(t *testing.T) {
	t.Parallel()

	want := protocol.GameStatusPayload{
		State:      "gaming",
		Seat:       2,
		Hand:       []protocol.CardInfo{{Suit: 1, Rank: 7}, {Suit: 3, Rank: 13}},
		Hints:      []bool{true, false},
		HoldCounts: []int{0, 1, 0, 2},
		Turn:       3,
		Last:       &protocol.LastPlayInfo{Seat: 1},
	}
	msg := MustNewMessage(protocol.MsgGameStatusResult, want)

	data, err := Encode(msg)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	defer PutMessage(decoded)
	assert.Equal(t, protocol.MsgGameStatusResult, decoded.Type)

	got, err := ParsePayload[protocol.GameStatusPayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestEncodeDecode_NoPayload(t *testing.T) {
	t.Parallel()

	data, err := Encode(MustNewMessage(protocol.MsgExitGameResult, nil))
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, protocol.MsgExitGameResult, decoded.Type)
	assert.Empty(t, decoded.Payload)

	p, err := ParsePayload[protocol.AckPayload](decoded)
	require.NoError(t, err)
	assert.Equal(t, protocol.AckPayload{}, *p)
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte{0xff, 0xff, 0xff})
	assert.Error(t, err)

	_, err = Decode(nil)
	assert.ErrorIs(t, err, ErrMissingType)
}

func TestEncode_InvalidPayload(t *testing.T) {
	t.Parallel()

	_, err := Encode(&protocol.Message{Type: protocol.MsgPing, Payload: []byte("{nope")})
	assert.Error(t, err)
}

func TestParsePayload_WrongShape(t *testing.T) {
	t.Parallel()

	msg := &protocol.Message{Type: protocol.MsgJoinRoom, Payload: []byte(`{"room_id": 5}`)}
	_, err := ParsePayload[protocol.JoinRoomPayload](msg)
	assert.Error(t, err)
}

func TestNewErrorMessage(t *testing.T) {
	t.Parallel()

	msg := NewErrorMessage(protocol.ErrCodeResourceExhausted)
	assert.Equal(t, protocol.MsgError, msg.Type)
	p, err := ParsePayload[protocol.ErrorPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, protocol.ErrCodeResourceExhausted, p.Code)
	assert.Equal(t, protocol.ErrorMessages[protocol.ErrCodeResourceExhausted], p.Message)
}

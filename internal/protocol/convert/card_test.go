package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/sevens/internal/game/card"
	"github.com/palemoky/sevens/internal/protocol"
)

func TestCardsRoundTrip(t *testing.T) {
	t.Parallel()

	originals := []card.Card{
		{Suit: card.Spade, Rank: card.RankA},
		card.HeartSeven,
		{Suit: card.Diamond, Rank: card.RankK},
	}

	results, err := InfosToCards(CardsToInfos(originals))
	require.NoError(t, err)
	assert.Equal(t, originals, results)
}

func TestInfoToCard_Rejects(t *testing.T) {
	t.Parallel()

	tests := []protocol.CardInfo{
		{Suit: 0, Rank: 0},  // 占位牌不能出
		{Suit: 4, Rank: 7},  // 没有第五种花色
		{Suit: 1, Rank: 14}, // 没有 14
		{Suit: -1, Rank: 3},
	}
	for _, info := range tests {
		_, err := InfoToCard(info)
		assert.Error(t, err, "%+v", info)
	}

	_, err := InfosToCards([]protocol.CardInfo{{Suit: 1, Rank: 7}, {Suit: 9, Rank: 1}})
	assert.ErrorContains(t, err, "第 1 张")
}

func TestDummyOnTheWire(t *testing.T) {
	t.Parallel()

	assert.Equal(t, protocol.CardInfo{}, CardToInfo(card.Dummy))
}

func TestPayloadToPlay(t *testing.T) {
	t.Parallel()

	play, err := PayloadToPlay(protocol.PlayCardPayload{
		Seat: 3, Kind: "hold", Card: protocol.CardInfo{Suit: int(card.Club), Rank: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, card.Hold(3, card.Card{Suit: card.Club, Rank: 2}), play)

	_, err = PayloadToPlay(protocol.PlayCardPayload{Kind: "fold", Card: protocol.CardInfo{Suit: 1, Rank: 7}})
	assert.Error(t, err)
	_, err = PayloadToPlay(protocol.PlayCardPayload{Kind: "discard"})
	assert.Error(t, err)
}

func TestPlayToPayload_Concealed(t *testing.T) {
	t.Parallel()

	hold := card.Hold(1, card.Card{Suit: card.Club, Rank: 9})
	assert.Equal(t, protocol.CardPlayedPayload{
		Seat: 1, Kind: "hold", Card: protocol.CardInfo{Suit: int(card.Club), Rank: 9},
	}, PlayToPayload(hold))
	assert.Equal(t, protocol.CardPlayedPayload{Seat: 1, Kind: "hold"}, PlayToPayload(hold.Concealed()))
}

//go:build !production

package session

import (
	"fmt"

	"github.com/palemoky/sevens/internal/game/card"
)

// SuggestPlay 为当前座位挑一手合法的牌：能明牌就明牌，否则扣第一张允许扣的牌
func (g *Game) SuggestPlay(seat int) (card.Play, error) {
	p, err := g.player(seat)
	if err != nil {
		return card.Play{}, err
	}
	for _, c := range p.Hand() {
		if play := card.Discard(seat, c); g.CheckPlay(play) == nil {
			return play, nil
		}
	}
	for _, c := range p.Hand() {
		if play := card.Hold(seat, c); g.CheckPlay(play) == nil {
			return play, nil
		}
	}
	return card.Play{}, fmt.Errorf("%w: 座位 %d 没有合法的牌", ErrPermissionDenied, seat)
}

// DeckWithHeartSevenAt 返回一副固定顺序的牌，红心 7 发给指定座位
func DeckWithHeartSevenAt(seat int) card.Deck {
	deck := card.NewDeck()
	for i, c := range deck {
		if c == card.HeartSeven {
			target := seat*CardsPerSeat + i%CardsPerSeat
			deck[i], deck[target] = deck[target], deck[i]
			break
		}
	}
	return deck
}

// ReadyGame 返回四人均已准备的游戏
func ReadyGame(names ...string) *Game {
	g := New()
	for i := range SeatCount {
		name := fmt.Sprintf("P%d", i)
		if i < len(names) {
			name = names[i]
		}
		_, _ = g.AddPlayer(name)
		_, _ = g.PlayerReady(i)
	}
	return g
}

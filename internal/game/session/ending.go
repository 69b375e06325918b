package session

import (
	"fmt"
	"slices"

	"github.com/palemoky/sevens/internal/game/card"
	"github.com/palemoky/sevens/internal/game/desk"
)

// GameEnding 一局的结算结果
type GameEnding struct {
	Winner      int                        // 获胜座位
	Ranking     []int                      // 按名次排列的座位
	FirstSeat   int                        // 首个出牌的座位
	Holds       [][]card.Card              // 每个座位的扣牌
	Desk        [card.SuitCount]desk.Chain // 完整牌链
	ClearedSeat int                        // 清牌的座位，没有时为 -1
	TheSeven    bool                       // 是否以 7 清牌
}

// EndGame 结算。扣牌最少者获胜；扣牌数相同时，按出牌顺序离首个出牌座位越近越优先。
func (g *Game) EndGame() (*GameEnding, error) {
	if !g.Finished() {
		return nil, fmt.Errorf("%w: 牌局未结束 (%d/%d)", ErrInternal, g.playCnt, TotalPlays)
	}
	for seat, p := range g.players {
		if p.HandSize() != 0 {
			panic(fmt.Sprintf("session: 52 手后座位 %d 仍有 %d 张手牌", seat, p.HandSize()))
		}
	}

	ending := &GameEnding{
		FirstSeat:   g.firstSeat,
		Holds:       make([][]card.Card, len(g.players)),
		Desk:        g.desk.History(),
		ClearedSeat: g.clearedSeat,
		TheSeven:    g.clearedResult == ResultTheSeven,
	}
	for seat, p := range g.players {
		ending.Holds[seat] = p.Holds()
		ending.Ranking = append(ending.Ranking, seat)
	}

	distance := func(seat int) int {
		return (seat - g.firstSeat + SeatCount) % SeatCount
	}
	slices.SortFunc(ending.Ranking, func(a, b int) int {
		if d := len(ending.Holds[a]) - len(ending.Holds[b]); d != 0 {
			return d
		}
		return distance(a) - distance(b)
	})
	ending.Winner = ending.Ranking[0]
	return ending, nil
}

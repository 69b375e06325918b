// Package desk 维护桌面上的四条牌链。
//
// 每个花色一条链，以 7 为起点向两端延伸：6 及以下接在低端，8 及以上接在高端。
// 链上的点数永远是包含 7 的连续区间。
package desk

import (
	"fmt"

	"github.com/palemoky/sevens/internal/game/card"
)

// Entry 链上的一张牌
type Entry struct {
	Card      card.Card
	Seat      int  // 出这张牌的座位
	ThisRound bool // 是否在本轮（4 手）内打出
}

// Chain 单个花色的牌链，按点数升序
type Chain []Entry

// Low 低端
func (c Chain) Low() (Entry, bool) {
	if len(c) == 0 {
		return Entry{}, false
	}
	return c[0], true
}

// High 高端
func (c Chain) High() (Entry, bool) {
	if len(c) == 0 {
		return Entry{}, false
	}
	return c[len(c)-1], true
}

// Desk 桌面
type Desk struct {
	chains [card.SuitCount]Chain
	count  int
}

// New 创建空桌面
func New() *Desk {
	return &Desk{}
}

// Reset 清空桌面
func (d *Desk) Reset() {
	*d = Desk{}
}

// Len 桌面上的牌数
func (d *Desk) Len() int {
	return d.count
}

// Empty 桌面是否为空
func (d *Desk) Empty() bool {
	return d.count == 0
}

// Add 将牌接到对应链的一端。调用方必须先校验合法性。
func (d *Desk) Add(c card.Card, seat int) {
	if !d.IsDiscardCandidate(c, d.Empty()) {
		panic(fmt.Sprintf("desk: %s 不能接在当前牌链上", c))
	}

	e := Entry{Card: c, Seat: seat, ThisRound: true}
	chain := d.chains[c.Suit]
	switch {
	case len(chain) == 0 || c.Rank > chain[len(chain)-1].Card.Rank:
		chain = append(chain, e)
	default:
		chain = append(Chain{e}, chain...)
	}
	d.chains[c.Suit] = chain
	d.count++
}

// NewRound 清除所有本轮标记
func (d *Desk) NewRound() {
	for s := range d.chains {
		for i := range d.chains[s] {
			d.chains[s][i].ThisRound = false
		}
	}
}

// candidates 返回某花色可接的牌（0-2 张）
func (d *Desk) candidates(s card.Suit) []card.Card {
	chain := d.chains[s]
	if len(chain) == 0 {
		return []card.Card{{Suit: s, Rank: card.Rank7}}
	}

	var out []card.Card
	if low := chain[0].Card.Rank; low > card.RankA {
		out = append(out, card.Card{Suit: s, Rank: low - 1})
	}
	if high := chain[len(chain)-1].Card.Rank; high < card.RankK {
		out = append(out, card.Card{Suit: s, Rank: high + 1})
	}
	return out
}

// DiscardCandidates 当前所有可以明牌的牌。首手只能出红心 7，空桌面总是按首手处理。
func (d *Desk) DiscardCandidates(firstPlay bool) []card.Card {
	if firstPlay || d.Empty() {
		return []card.Card{card.HeartSeven}
	}

	out := make([]card.Card, 0, 2*card.SuitCount)
	for _, s := range card.Suits {
		out = append(out, d.candidates(s)...)
	}
	return out
}

// IsDiscardCandidate 该牌当前能否明牌
func (d *Desk) IsDiscardCandidate(c card.Card, firstPlay bool) bool {
	if !c.Valid() {
		return false
	}
	if firstPlay || d.Empty() {
		return c == card.HeartSeven
	}
	for _, cand := range d.candidates(c.Suit) {
		if cand == c {
			return true
		}
	}
	return false
}

// SomeoneHasDiscardCandidates 给定的牌中是否有任意一张可以明牌
func (d *Desk) SomeoneHasDiscardCandidates(cards []card.Card, firstPlay bool) bool {
	for _, c := range cards {
		if d.IsDiscardCandidate(c, firstPlay) {
			return true
		}
	}
	return false
}

// Chain 返回某花色牌链的副本
func (d *Desk) Chain(s card.Suit) Chain {
	return append(Chain(nil), d.chains[s]...)
}

// Ends 返回某花色链的两端，链为空时 ok 为 false
func (d *Desk) Ends(s card.Suit) (low, high Entry, ok bool) {
	chain := d.chains[s]
	if len(chain) == 0 {
		return Entry{}, Entry{}, false
	}
	return chain[0], chain[len(chain)-1], true
}

// ThisRound 本轮打出的牌
func (d *Desk) ThisRound() []Entry {
	var out []Entry
	for _, chain := range d.chains {
		for _, e := range chain {
			if e.ThisRound {
				out = append(out, e)
			}
		}
	}
	return out
}

// History 全部牌链的副本，用于结算
func (d *Desk) History() [card.SuitCount]Chain {
	var out [card.SuitCount]Chain
	for s := range d.chains {
		out[s] = d.Chain(card.Suit(s))
	}
	return out
}

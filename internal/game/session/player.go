package session

import (
	"fmt"
	"slices"

	"github.com/palemoky/sevens/internal/game/card"
)

// PlayResult 出牌后的结果
type PlayResult int

const (
	ResultNormal   PlayResult = iota
	ResultClear               // 手牌与扣牌同时清空
	ResultTheSeven            // 以 7 清空
)

func (r PlayResult) String() string {
	switch r {
	case ResultClear:
		return "clear"
	case ResultTheSeven:
		return "the_seven"
	default:
		return "normal"
	}
}

// Player 游戏中的一个座位
type Player struct {
	Name  string
	Ready bool

	hand             []card.Card // 始终有序
	holds            []card.Card // 扣牌，按扣下的顺序
	firstHoldPending bool
}

// NewPlayer 创建座位
func NewPlayer(name string) *Player {
	return &Player{Name: name, firstHoldPending: true}
}

// reset 清空牌，保留名字和准备状态
func (p *Player) reset() {
	p.hand = nil
	p.holds = nil
	p.firstHoldPending = true
}

// AddCard 发一张牌
func (p *Player) AddCard(c card.Card) {
	if p.HasCard(c) || p.IsHolding(c) {
		panic(fmt.Sprintf("session: %s 被重复发给 %s", c, p.Name))
	}
	i, _ := slices.BinarySearchFunc(p.hand, c, card.Compare)
	p.hand = slices.Insert(p.hand, i, c)
}

// InitCards 用一手新牌替换当前的牌
func (p *Player) InitCards(cards []card.Card) {
	p.reset()
	for _, c := range cards {
		p.AddCard(c)
	}
}

// HasCard 手牌中是否有这张牌
func (p *Player) HasCard(c card.Card) bool {
	_, ok := slices.BinarySearchFunc(p.hand, c, card.Compare)
	return ok
}

// IsHolding 是否已扣下这张牌
func (p *Player) IsHolding(c card.Card) bool {
	return slices.Contains(p.holds, c)
}

// PlayCard 从手牌中移除这张牌，扣牌时加入扣牌列表。
// 只修改手牌和扣牌，结果由 Game 解释。
func (p *Player) PlayCard(play card.Play) PlayResult {
	i, ok := slices.BinarySearchFunc(p.hand, play.Card, card.Compare)
	if !ok {
		panic(fmt.Sprintf("session: %s 手中没有 %s", p.Name, play.Card))
	}
	p.hand = slices.Delete(p.hand, i, i+1)

	if play.IsHold() {
		p.holds = append(p.holds, play.Card)
		p.firstHoldPending = false
	}

	if len(p.hand) > 0 || len(p.holds) > 0 {
		return ResultNormal
	}
	if play.Card.Rank == card.Rank7 {
		return ResultTheSeven
	}
	return ResultClear
}

// Hand 手牌副本（有序）
func (p *Player) Hand() []card.Card {
	return slices.Clone(p.hand)
}

// Holds 扣牌副本
func (p *Player) Holds() []card.Card {
	return slices.Clone(p.holds)
}

// HandSize 手牌数
func (p *Player) HandSize() int {
	return len(p.hand)
}

// HoldCount 扣牌数
func (p *Player) HoldCount() int {
	return len(p.holds)
}

// FirstHoldPending 是否还没有扣过牌
func (p *Player) FirstHoldPending() bool {
	return p.firstHoldPending
}

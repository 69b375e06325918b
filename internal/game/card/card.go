package card

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
)

// Suit 定义花色
type Suit int

// Rank 定义点数 (1-13)
type Rank int

const (
	Spade   Suit = iota // 黑桃
	Heart               // 红心
	Club                // 梅花
	Diamond             // 方块
)

// SuitCount 花色数量
const SuitCount = 4

// Suits 按顺序排列的全部花色
var Suits = [SuitCount]Suit{Spade, Heart, Club, Diamond}

// suitSymbols 花色符号映射表
var suitSymbols = map[Suit]string{
	Spade:   "♠",
	Heart:   "♥",
	Club:    "♣",
	Diamond: "♦",
}

func (s Suit) String() string {
	if symbol, ok := suitSymbols[s]; ok {
		return symbol
	}
	return "?"
}

// Valid 是否为合法花色
func (s Suit) Valid() bool {
	return s >= Spade && s <= Diamond
}

const (
	RankA Rank = 1
	Rank7 Rank = 7
	RankK Rank = 13
)

// rankNames 牌面值字符串映射表
var rankNames = map[Rank]string{
	1:  "A",
	11: "J",
	12: "Q",
	13: "K",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return strconv.Itoa(int(r))
}

// Card 定义一张牌
type Card struct {
	Suit Suit
	Rank Rank
}

// Dummy 占位牌：向非持有者广播扣牌时用它代替真实的牌
var Dummy = Card{}

// HeartSeven 红心 7，持有者首先出牌
var HeartSeven = Card{Suit: Heart, Rank: Rank7}

// New 创建一张牌，点数或花色非法时返回错误
func New(s Suit, r Rank) (Card, error) {
	c := Card{Suit: s, Rank: r}
	if !c.Valid() {
		return Card{}, fmt.Errorf("无效的牌: 花色=%d 点数=%d", s, r)
	}
	return c, nil
}

// Valid 是否为 52 张实牌之一
func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Rank >= RankA && c.Rank <= RankK
}

// IsDummy 是否为占位牌
func (c Card) IsDummy() bool {
	return c.Rank == 0
}

func (c Card) String() string {
	if c.IsDummy() {
		return "🂠"
	}
	return c.Suit.String() + c.Rank.String()
}

// Compare 先比较花色再比较点数
func Compare(a, b Card) int {
	if c := cmp.Compare(a.Suit, b.Suit); c != 0 {
		return c
	}
	return cmp.Compare(a.Rank, b.Rank)
}

// Less 排序用
func (c Card) Less(o Card) bool {
	return Compare(c, o) < 0
}

// Sort 按花色、点数升序排序
func Sort(cards []Card) {
	slices.SortFunc(cards, Compare)
}

// Deck 定义一副牌
type Deck []Card

// DeckSize 一副牌的张数
const DeckSize = 52

// NewDeck 返回按顺序排列的 52 张牌
func NewDeck() Deck {
	deck := make(Deck, 0, DeckSize)
	for _, s := range Suits {
		for r := RankA; r <= RankK; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// NewShuffledDeck 返回洗好的一副牌
func NewShuffledDeck() Deck {
	d := NewDeck()
	d.Shuffle()
	return d
}

func (d Deck) Shuffle() {
	rand.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

package session

import (
	"fmt"
	"slices"

	"github.com/palemoky/sevens/internal/game/card"
	"github.com/palemoky/sevens/internal/game/desk"
)

const (
	SeatCount    = 4                        // 座位数
	CardsPerSeat = card.DeckSize / SeatCount // 每人 13 张
	TotalPlays   = card.DeckSize             // 一局共 52 手
	roundSize    = SeatCount                 // 每轮 4 手
)

// LastPlay 最近一手，对所有座位可见的部分
type LastPlay struct {
	Seat int
	Card *card.Card // 扣牌时为 nil
}

// Game 规则引擎：一张桌面、最多四个座位、回合指针与计分
type Game struct {
	desk    *desk.Desk
	players []*Player

	turn      int
	firstSeat int
	readyCnt  int
	playCnt   int
	dealt     bool

	thisRound []card.Play // 本轮的明牌
	last      *card.Play

	someoneCleared bool
	clearedSeat    int
	clearedResult  PlayResult
}

// New 创建一局空游戏
func New() *Game {
	return &Game{desk: desk.New(), clearedSeat: -1}
}

// AddPlayer 追加一个座位，返回座位号
func (g *Game) AddPlayer(name string) (int, error) {
	if len(g.players) >= SeatCount {
		return -1, fmt.Errorf("%w: 座位已满", ErrPermissionDenied)
	}
	g.players = append(g.players, NewPlayer(name))
	return len(g.players) - 1, nil
}

func (g *Game) player(seat int) (*Player, error) {
	if seat < 0 || seat >= len(g.players) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, seat)
	}
	return g.players[seat], nil
}

// PlayerReady 座位准备，返回仍未准备的人数
func (g *Game) PlayerReady(seat int) (int, error) {
	p, err := g.player(seat)
	if err != nil {
		return 0, err
	}
	if p.Ready {
		return 0, fmt.Errorf("%w: %s 已经准备", ErrAlreadyDone, p.Name)
	}
	p.Ready = true
	g.readyCnt++
	return SeatCount - g.readyCnt, nil
}

// NewGame 发牌。要求四个座位都已准备；每人按座位顺序拿 13 张，红心 7 的持有者先出。
func (g *Game) NewGame(deck card.Deck) error {
	if len(g.players) != SeatCount || g.readyCnt != SeatCount {
		return fmt.Errorf("%w: 需要 %d 名玩家全部准备 (当前 %d/%d)",
			ErrPermissionDenied, SeatCount, g.readyCnt, len(g.players))
	}
	if len(deck) != card.DeckSize {
		return fmt.Errorf("%w: 牌数 %d", ErrInternal, len(deck))
	}
	mustBeFullDeck(deck)

	g.Reset()
	for s, p := range g.players {
		p.InitCards(deck[s*CardsPerSeat : (s+1)*CardsPerSeat])
		if p.HasCard(card.HeartSeven) {
			g.turn = s
			g.firstSeat = s
		}
	}
	g.dealt = true
	return nil
}

// mustBeFullDeck 牌堆必须恰好是 52 张互不相同的合法牌，否则是调用方的程序错误
func mustBeFullDeck(deck card.Deck) {
	seen := make(map[card.Card]int, len(deck))
	for i, c := range deck {
		if !c.Valid() {
			panic(fmt.Sprintf("牌堆第 %d 张不合法: %v", i, c))
		}
		if j, ok := seen[c]; ok {
			panic(fmt.Sprintf("牌堆第 %d 张与第 %d 张重复: %v", i, j, c))
		}
		seen[c] = i
	}
}

// Reset 回到发牌前的状态，保留座位
func (g *Game) Reset() {
	g.desk.Reset()
	for _, p := range g.players {
		p.reset()
		p.Ready = false
	}
	g.turn = 0
	g.firstSeat = 0
	g.readyCnt = 0
	g.playCnt = 0
	g.dealt = false
	g.thisRound = nil
	g.last = nil
	g.someoneCleared = false
	g.clearedSeat = -1
	g.clearedResult = ResultNormal
}

// CheckPlay 校验一手牌是否合法，不修改状态
func (g *Game) CheckPlay(play card.Play) error {
	p, err := g.player(play.Seat)
	if err != nil {
		return err
	}
	if !g.InProgress() {
		return fmt.Errorf("%w: 当前没有进行中的牌局", ErrPermissionDenied)
	}
	if play.Seat != g.turn {
		return fmt.Errorf("%w: 还没轮到座位 %d", ErrPermissionDenied, play.Seat)
	}
	if !p.HasCard(play.Card) {
		return fmt.Errorf("%w: 手中没有 %s", ErrPermissionDenied, play.Card)
	}

	firstPlay := g.desk.Empty()
	switch play.Kind {
	case card.KindDiscard:
		if g.someoneCleared {
			return fmt.Errorf("%w: 已有玩家清牌，只能扣牌", ErrPermissionDenied)
		}
		if !g.desk.IsDiscardCandidate(play.Card, firstPlay) {
			return fmt.Errorf("%w: %s 接不上牌链", ErrPermissionDenied, play.Card)
		}
	case card.KindHold:
		if p.IsHolding(play.Card) {
			return fmt.Errorf("%w: %s 已经扣下", ErrPermissionDenied, play.Card)
		}
		if !g.someoneCleared && g.desk.SomeoneHasDiscardCandidates(p.hand, firstPlay) {
			return fmt.Errorf("%w: 有牌可出时不能扣牌", ErrPermissionDenied)
		}
		if p.FirstHoldPending() && play.Card.Rank == card.RankA && hasNonAce(p.hand) {
			return fmt.Errorf("%w: 第一张扣牌不能是 A", ErrPermissionDenied)
		}
	default:
		return fmt.Errorf("%w: 未知的出牌方式 %d", ErrPermissionDenied, play.Kind)
	}
	return nil
}

// 手里只剩 A 时允许首扣 A，否则该座位无牌可出
func hasNonAce(hand []card.Card) bool {
	return slices.ContainsFunc(hand, func(c card.Card) bool { return c.Rank != card.RankA })
}

// PlayCardNoCheck 不做校验直接执行一手牌
func (g *Game) PlayCardNoCheck(play card.Play) PlayResult {
	if g.playCnt > 0 && g.playCnt%roundSize == 0 {
		g.desk.NewRound()
		g.thisRound = nil
	}

	result := g.players[play.Seat].PlayCard(play)
	if !play.IsHold() {
		g.desk.Add(play.Card, play.Seat)
		g.thisRound = append(g.thisRound, play)
	}

	g.last = &play
	g.playCnt++
	g.turn = (g.turn + 1) % SeatCount

	if result != ResultNormal {
		if g.someoneCleared {
			panic(fmt.Sprintf("session: 座位 %d 与座位 %d 重复清牌", g.clearedSeat, play.Seat))
		}
		g.someoneCleared = true
		g.clearedSeat = play.Seat
		g.clearedResult = result
	}
	return result
}

// PlayCard 校验并执行一手牌，返回本局是否结束
func (g *Game) PlayCard(play card.Play) (bool, error) {
	if err := g.CheckPlay(play); err != nil {
		return false, err
	}
	g.PlayCardNoCheck(play)
	return g.playCnt == TotalPlays, nil
}

// Last 最近一手；尚未出牌时返回 nil
func (g *Game) Last() *LastPlay {
	if g.last == nil {
		return nil
	}
	lp := &LastPlay{Seat: g.last.Seat}
	if !g.last.IsHold() {
		c := g.last.Card
		lp.Card = &c
	}
	return lp
}

// MyHint 按有序手牌返回每张牌能否明牌；有人清牌后全部为 false
func (g *Game) MyHint(seat int) ([]bool, error) {
	p, err := g.player(seat)
	if err != nil {
		return nil, err
	}
	hints := make([]bool, len(p.hand))
	if !g.InProgress() || g.someoneCleared {
		return hints, nil
	}
	firstPlay := g.desk.Empty()
	for i, c := range p.hand {
		hints[i] = g.desk.IsDiscardCandidate(c, firstPlay)
	}
	return hints, nil
}

// PlayerExitGame 座位退出本局但保留座位，游戏回到发牌前
func (g *Game) PlayerExitGame(seat int) error {
	if _, err := g.player(seat); err != nil {
		return err
	}
	g.Reset()
	return nil
}

// PlayerExit 永久移除座位并重置
func (g *Game) PlayerExit(seat int) error {
	if _, err := g.player(seat); err != nil {
		return err
	}
	g.players = slices.Delete(g.players, seat, seat+1)
	g.Reset()
	return nil
}

// KillUnready 移除所有未准备的座位并重置，返回被移除的座位号（升序）
func (g *Game) KillUnready() []int {
	var removed []int
	kept := g.players[:0]
	for seat, p := range g.players {
		if p.Ready {
			kept = append(kept, p)
		} else {
			removed = append(removed, seat)
		}
	}
	clear(g.players[len(kept):])
	g.players = kept
	g.Reset()
	return removed
}

// --- 只读访问 ---

// Desk 桌面，调用方只读
func (g *Game) Desk() *desk.Desk { return g.desk }

// Turn 当前轮到的座位
func (g *Game) Turn() int { return g.turn }

// FirstSeat 本局首个出牌的座位
func (g *Game) FirstSeat() int { return g.firstSeat }

// PlayCount 已出的手数
func (g *Game) PlayCount() int { return g.playCnt }

// PlayerCount 座位数
func (g *Game) PlayerCount() int { return len(g.players) }

// SomeoneCleared 是否已有人清牌
func (g *Game) SomeoneCleared() bool { return g.someoneCleared }

// InProgress 已发牌且未打完
func (g *Game) InProgress() bool { return g.dealt && g.playCnt < TotalPlays }

// Finished 52 手已全部打出
func (g *Game) Finished() bool { return g.dealt && g.playCnt == TotalPlays }

// ThisRound 本轮的明牌
func (g *Game) ThisRound() []card.Play { return slices.Clone(g.thisRound) }

// Player 返回座位
func (g *Game) Player(seat int) (*Player, error) { return g.player(seat) }

// PlayerNames 按座位顺序的玩家名
func (g *Game) PlayerNames() []string {
	names := make([]string, len(g.players))
	for i, p := range g.players {
		names[i] = p.Name
	}
	return names
}

// ReadyList 按座位顺序的准备状态
func (g *Game) ReadyList() []bool {
	ready := make([]bool, len(g.players))
	for i, p := range g.players {
		ready[i] = p.Ready
	}
	return ready
}

// HoldCounts 每个座位的扣牌数
func (g *Game) HoldCounts() []int {
	counts := make([]int, len(g.players))
	for i, p := range g.players {
		counts[i] = p.HoldCount()
	}
	return counts
}

package convert

import (
	"github.com/palemoky/sevens/internal/game/card"
	"github.com/palemoky/sevens/internal/game/desk"
	"github.com/palemoky/sevens/internal/game/session"
	"github.com/palemoky/sevens/internal/protocol"
)

// --- Desk ---

// DeskToEnds 每个花色牌链的两端，按花色顺序
func DeskToEnds(d *desk.Desk) []protocol.ChainEnds {
	ends := make([]protocol.ChainEnds, 0, card.SuitCount)
	for _, s := range card.Suits {
		ce := protocol.ChainEnds{Suit: int(s), Empty: true}
		if low, high, ok := d.Ends(s); ok {
			ce.Empty = false
			ce.Low = int(low.Card.Rank)
			ce.High = int(high.Card.Rank)
		}
		ends = append(ends, ce)
	}
	return ends
}

// ChainsToEntries 完整牌链
func ChainsToEntries(chains [card.SuitCount]desk.Chain) [][]protocol.DeskEntry {
	out := make([][]protocol.DeskEntry, len(chains))
	for s, chain := range chains {
		out[s] = make([]protocol.DeskEntry, len(chain))
		for i, e := range chain {
			out[s][i] = protocol.DeskEntry{Card: CardToInfo(e.Card), Seat: e.Seat}
		}
	}
	return out
}

// --- Session ---

// LastPlayToInfo 最近一手；nil 表示还没有人出牌
func LastPlayToInfo(lp *session.LastPlay) *protocol.LastPlayInfo {
	if lp == nil {
		return nil
	}
	info := &protocol.LastPlayInfo{Seat: lp.Seat}
	if lp.Card != nil {
		c := CardToInfo(*lp.Card)
		info.Card = &c
	}
	return info
}

// EndingToPayload 结算推送
func EndingToPayload(e *session.GameEnding, names []string) protocol.GameOverPayload {
	holds := make([][]protocol.CardInfo, len(e.Holds))
	for seat, h := range e.Holds {
		holds[seat] = CardsToInfos(h)
	}
	return protocol.GameOverPayload{
		Winner:      e.Winner,
		Ranking:     append([]int(nil), e.Ranking...),
		FirstSeat:   e.FirstSeat,
		Names:       append([]string(nil), names...),
		Holds:       holds,
		Desk:        ChainsToEntries(e.Desk),
		ClearedSeat: e.ClearedSeat,
		TheSeven:    e.TheSeven,
	}
}

// PlayersToInfos 按座位顺序的玩家信息
func PlayersToInfos(names []string, ready []bool) []protocol.PlayerInfo {
	infos := make([]protocol.PlayerInfo, len(names))
	for seat, name := range names {
		infos[seat] = protocol.PlayerInfo{Seat: seat, Name: name}
		if seat < len(ready) {
			infos[seat].Ready = ready[seat]
		}
	}
	return infos
}

package convert

import (
	"fmt"

	"github.com/palemoky/sevens/internal/game/card"
	"github.com/palemoky/sevens/internal/protocol"
)

// CardToInfo 将 card.Card 转换为 protocol.CardInfo
func CardToInfo(c card.Card) protocol.CardInfo {
	return protocol.CardInfo{
		Suit: int(c.Suit),
		Rank: int(c.Rank),
	}
}

// CardsToInfos 将 []card.Card 转换为 []protocol.CardInfo
func CardsToInfos(cards []card.Card) []protocol.CardInfo {
	infos := make([]protocol.CardInfo, len(cards))
	for i, c := range cards {
		infos[i] = CardToInfo(c)
	}
	return infos
}

// InfoToCard 将 protocol.CardInfo 转换为 card.Card，拒绝不存在的牌
func InfoToCard(info protocol.CardInfo) (card.Card, error) {
	return card.New(card.Suit(info.Suit), card.Rank(info.Rank))
}

// InfosToCards 将 []protocol.CardInfo 转换为 []card.Card
func InfosToCards(infos []protocol.CardInfo) ([]card.Card, error) {
	cards := make([]card.Card, len(infos))
	for i, info := range infos {
		c, err := InfoToCard(info)
		if err != nil {
			return nil, fmt.Errorf("第 %d 张: %w", i, err)
		}
		cards[i] = c
	}
	return cards, nil
}

// PayloadToPlay 解析出牌请求
func PayloadToPlay(p protocol.PlayCardPayload) (card.Play, error) {
	kind, err := card.ParseKind(p.Kind)
	if err != nil {
		return card.Play{}, err
	}
	c, err := InfoToCard(p.Card)
	if err != nil {
		return card.Play{}, err
	}
	return card.Play{Seat: p.Seat, Kind: kind, Card: c}, nil
}

// PlayToPayload 一手牌的推送内容；扣牌需先调用 Concealed 再发给其他座位
func PlayToPayload(play card.Play) protocol.CardPlayedPayload {
	return protocol.CardPlayedPayload{
		Seat: play.Seat,
		Kind: play.Kind.String(),
		Card: CardToInfo(play.Card),
	}
}

package card

import "fmt"

// PlayKind 出牌方式
type PlayKind int

const (
	KindDiscard PlayKind = iota // 明牌：接到桌面牌链上
	KindHold                    // 扣牌：背面朝下收回
)

func (k PlayKind) String() string {
	switch k {
	case KindDiscard:
		return "discard"
	case KindHold:
		return "hold"
	default:
		return "unknown"
	}
}

// ParseKind 解析出牌方式
func ParseKind(s string) (PlayKind, error) {
	switch s {
	case "discard":
		return KindDiscard, nil
	case "hold":
		return KindHold, nil
	}
	return 0, fmt.Errorf("无法识别的出牌方式: %q", s)
}

// Play 某个座位的一次出牌
type Play struct {
	Seat int
	Kind PlayKind
	Card Card
}

// Discard 创建明牌动作
func Discard(seat int, c Card) Play {
	return Play{Seat: seat, Kind: KindDiscard, Card: c}
}

// Hold 创建扣牌动作
func Hold(seat int, c Card) Play {
	return Play{Seat: seat, Kind: KindHold, Card: c}
}

// IsHold 是否为扣牌
func (p Play) IsHold() bool {
	return p.Kind == KindHold
}

// Concealed 返回对其他座位可见的版本：扣牌替换为占位牌
func (p Play) Concealed() Play {
	if p.IsHold() {
		p.Card = Dummy
	}
	return p
}

func (p Play) String() string {
	return fmt.Sprintf("seat%d %s %s", p.Seat, p.Kind, p.Card)
}

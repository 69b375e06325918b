//go:build !production

package room

import (
	"fmt"

	"github.com/palemoky/sevens/internal/game/card"
	"github.com/palemoky/sevens/internal/game/session"
	"github.com/palemoky/sevens/internal/types"
)

// NewTestManager 不启动后台任务、红心 7 固定发给 0 号座位的管理器
func NewTestManager(store types.RoomStore, recorder types.ResultRecorder) *RoomManager {
	return NewRoomManager(Options{
		MailboxSize: 512,
		Store:       store,
		Recorder:    recorder,
		NewDeck:     func() card.Deck { return session.DeckWithHeartSevenAt(0) },
	})
}

// FillRoom 创建房间并坐满四人
func FillRoom(rm *RoomManager, id string) (*Room, error) {
	r, err := rm.NewRoom(id)
	if err != nil {
		return nil, err
	}
	for i := range session.SeatCount {
		if _, err := r.AddPlayer(fmt.Sprintf("P%d", i)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// StartGame 四人全部准备并发牌
func StartGame(r *Room) error {
	for seat := range session.SeatCount {
		if _, err := r.PlayerReady(seat); err != nil {
			return err
		}
	}
	return nil
}

// SuggestPlay 为当前轮到的座位挑一手合法的牌
func (r *Room) SuggestPlay() (card.Play, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.game.SuggestPlay(r.game.Turn())
}

// PlayOut 一直出牌直到本局结束
func PlayOut(r *Room) error {
	for {
		play, err := r.SuggestPlay()
		if err != nil {
			return err
		}
		ended, err := r.PlayCard(play)
		if err != nil {
			return err
		}
		if ended {
			return nil
		}
	}
}

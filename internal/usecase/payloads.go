package usecase

import (
	"time"

	"github.com/rocketscienceinc/bingo-backend/internal/entity"
)

// RoomState is the public projection of a room used by room-wide
// broadcasts. It deliberately omits the item pool and every board mapping;
// those travel only in private per-connection payloads.
type RoomState struct {
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	GridSize      int              `json:"gridSize"`
	Mode          string           `json:"mode"`
	Status        string           `json:"status"`
	StartTime     *time.Time       `json:"startTime,omitempty"`
	WinnerID      string           `json:"winnerId,omitempty"`
	CalledSquares []int            `json:"calledSquares"`
	Players       []*entity.Player `json:"players"`
	MarkedSquares map[string][]int `json:"markedSquares,omitempty"`
}

type RoomCreatedPayload struct {
	Room RoomState `json:"room"`
	// Items is the full pool, visible to the creator because they are the
	// host.
	Items []string `json:"items"`
}

type RoomCheckedPayload struct {
	Code        string `json:"code"`
	Exists      bool   `json:"exists"`
	Name        string `json:"name,omitempty"`
	Status      string `json:"status,omitempty"`
	GridSize    int    `json:"gridSize,omitempty"`
	PlayerCount int    `json:"playerCount,omitempty"`
}

// RoomJoinedPayload is sent privately to the joining connection so its
// snapshot cannot race the room-wide broadcast against its own
// subscription.
type RoomJoinedPayload struct {
	Room        RoomState      `json:"room"`
	Player      *entity.Player `json:"player"`
	Board       []int          `json:"board,omitempty"`
	BoardItems  []string       `json:"boardItems,omitempty"`
	Items       []string       `json:"items,omitempty"`
	Reconnected bool           `json:"reconnected,omitempty"`
}

type RoomUpdatedPayload struct {
	Room RoomState `json:"room"`
}

// GameStartedPayload is projected per recipient: Board and BoardItems
// describe only that connection's board, and Items is populated for the
// host alone.
type GameStartedPayload struct {
	Room       RoomState `json:"room"`
	Board      []int     `json:"board"`
	BoardItems []string  `json:"boardItems"`
	Items      []string  `json:"items,omitempty"`
}

type GameEndedPayload struct {
	Code        string            `json:"code"`
	WinnerID    string            `json:"winnerId"`
	WinnerName  string            `json:"winnerName"`
	Reason      string            `json:"reason"`
	Leaderboard []entity.Standing `json:"leaderboard"`
}

type BingoAnnouncedPayload struct {
	Code       string `json:"code"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type ErrorPayload struct {
	Action string `json:"action"`
	Error  string `json:"error"`
}

func snapshot(room *entity.Room) RoomState {
	state := RoomState{
		Code:          room.Code,
		Name:          room.Name,
		GridSize:      room.GridSize,
		Mode:          room.Mode,
		Status:        room.Status,
		WinnerID:      room.WinnerID,
		CalledSquares: room.CalledList(),
		Players:       room.Players,
		MarkedSquares: room.Marked,
	}

	if !room.StartTime.IsZero() {
		startTime := room.StartTime
		state.StartTime = &startTime
	}

	return state
}

// boardItems resolves a board mapping to the item strings the recipient
// will render.
func boardItems(room *entity.Room, boardMapping []int) []string {
	items := make([]string, len(boardMapping))
	for local, master := range boardMapping {
		items[local] = room.Items[master]
	}

	return items
}

package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/bingo-backend/internal/usecase"
)

// Message is the wire envelope: an action name plus a JSON payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CodePayload struct {
	Code string `json:"code"`
}

type CreateRoomPayload struct {
	Room   *usecase.RoomConfig    `json:"roomData"`
	Player *usecase.PlayerProfile `json:"player"`
}

type JoinRoomPayload struct {
	Code   string                 `json:"code"`
	Player *usecase.PlayerProfile `json:"player"`
}

type MarkedUpdatePayload struct {
	Code          string `json:"code"`
	MarkedSquares []int  `json:"markedSquares"`
}

type HostMarkPayload struct {
	Code        string `json:"code"`
	MasterIndex *int   `json:"masterIndex"`
}

type RoomUpdatePayload struct {
	Code    string            `json:"code"`
	Updates usecase.RoomPatch `json:"updates"`
}

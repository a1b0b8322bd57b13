package entity

// Player is a participant of a single room. ConnectionID always points at
// the live connection and is replaced in place when the player reconnects;
// PersistentID is the stable identity supplied by the caller and survives
// reconnects.
type Player struct {
	ConnectionID string `json:"connectionId"`
	PersistentID string `json:"persistentId,omitempty"`
	Name         string `json:"name"`
	IsHost       bool   `json:"isHost"`

	// BoardMapping is assigned at game start: BoardMapping[local] is the
	// master index shown at that board cell. It is never serialized with
	// the player itself, only delivered privately to its owner.
	BoardMapping []int `json:"-"`
}

func (that *Player) HasBoard() bool {
	return len(that.BoardMapping) > 0
}

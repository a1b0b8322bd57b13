package entity

import (
	"sort"
	"time"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

const (
	// ModeLine finishes the game on the first completed row, column or diagonal.
	ModeLine = "line"
	// ModeBlackout finishes the game when one player's whole board is called.
	ModeBlackout = "blackout"
)

// Room is one in-memory game session, keyed by a short shareable code.
// All mutation happens on the coordinator goroutine; the struct itself
// carries no locking.
type Room struct {
	Code     string
	Name     string
	GridSize int
	Items    []string
	Mode     string

	// Called holds the master indices the host has announced so far.
	Called map[int]struct{}

	Status    string
	StartTime time.Time
	WinnerID  string

	// Players keeps insertion order; it is the tie-break order for win
	// detection.
	Players []*Player

	// Marked holds each player's self-reported local marks, keyed by
	// connection ID. Non-authoritative, never used for win detection.
	Marked map[string][]int
}

func NewRoom(code, name string, gridSize int, items []string, mode string) *Room {
	if mode == "" {
		mode = ModeLine
	}

	return &Room{
		Code:     code,
		Name:     name,
		GridSize: gridSize,
		Items:    items,
		Mode:     mode,
		Called:   make(map[int]struct{}),
		Status:   StatusWaiting,
		Marked:   make(map[string][]int),
	}
}

func (that *Room) IsWaiting() bool  { return that.Status == StatusWaiting }
func (that *Room) IsPlaying() bool  { return that.Status == StatusPlaying }
func (that *Room) IsFinished() bool { return that.Status == StatusFinished }

func (that *Room) IsEmpty() bool { return len(that.Players) == 0 }

// BoardCells is the number of cells on every player's board.
func (that *Room) BoardCells() int {
	return that.GridSize * that.GridSize
}

func (that *Room) HostPlayer() *Player {
	for _, player := range that.Players {
		if player.IsHost {
			return player
		}
	}
	return nil
}

func (that *Room) PlayerByConnection(connID string) *Player {
	for _, player := range that.Players {
		if player.ConnectionID == connID {
			return player
		}
	}
	return nil
}

// PlayerByPersistentID matches a roster entry by its stable identity.
func (that *Room) PlayerByPersistentID(persistentID string) *Player {
	if persistentID == "" {
		return nil
	}

	for _, player := range that.Players {
		if player.PersistentID == persistentID {
			return player
		}
	}

	return nil
}

// PlayerByNameFallback is the degraded reconnection match for clients that
// never supplied a persistent ID. It only considers entries without one,
// and callers gate it on room status: while the room is waiting, a shared
// name means a new player, not a reconnect.
func (that *Room) PlayerByNameFallback(name string) *Player {
	for _, player := range that.Players {
		if player.PersistentID == "" && player.Name == name {
			return player
		}
	}

	return nil
}

func (that *Room) AddPlayer(player *Player) {
	that.Players = append(that.Players, player)
}

// RemovePlayerByConnection drops the matching player, keeping roster order.
// Returns the removed player or nil.
func (that *Room) RemovePlayerByConnection(connID string) *Player {
	for i, player := range that.Players {
		if player.ConnectionID == connID {
			that.Players = append(that.Players[:i], that.Players[i+1:]...)
			delete(that.Marked, connID)
			return player
		}
	}
	return nil
}

// EnsureHost restores the "exactly one host while non-empty" invariant by
// promoting the first remaining player when no host is left.
func (that *Room) EnsureHost() *Player {
	if that.IsEmpty() || that.HostPlayer() != nil {
		return nil
	}

	promoted := that.Players[0]
	promoted.IsHost = true

	return promoted
}

// ToggleCall flips one master index in the called set, so a wrong call can
// be undone by repeating it. Reports whether the index is called afterwards.
func (that *Room) ToggleCall(masterIndex int) bool {
	if _, ok := that.Called[masterIndex]; ok {
		delete(that.Called, masterIndex)
		return false
	}

	that.Called[masterIndex] = struct{}{}

	return true
}

// CalledList returns the called master indices in ascending order, for
// payloads and deterministic tests.
func (that *Room) CalledList() []int {
	list := make([]int, 0, len(that.Called))
	for idx := range that.Called {
		list = append(list, idx)
	}
	sort.Ints(list)

	return list
}

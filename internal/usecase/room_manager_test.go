package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/rocketscienceinc/bingo-backend/internal/apperror"
	"github.com/rocketscienceinc/bingo-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEvent struct {
	ConnID  string
	Event   string
	Payload any
}

// fakeMessenger records everything the coordinator sends. Handlers are
// invoked directly on the test goroutine, so no locking is needed.
type fakeMessenger struct {
	events []sentEvent
}

func (that *fakeMessenger) Send(connID, event string, payload any) {
	that.events = append(that.events, sentEvent{ConnID: connID, Event: event, Payload: payload})
}

func (that *fakeMessenger) reset() {
	that.events = nil
}

func (that *fakeMessenger) byEvent(event string) []sentEvent {
	var matched []sentEvent
	for _, sent := range that.events {
		if sent.Event == event {
			matched = append(matched, sent)
		}
	}
	return matched
}

func newTestManager() (*RoomManager, *fakeMessenger) {
	messenger := &fakeMessenger{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRoomManager(logger, messenger, nil), messenger
}

func testPool(size int) []string {
	items := make([]string, size)
	for i := range items {
		items[i] = fmt.Sprintf("item-%d", i)
	}
	return items
}

// createTestRoom runs the create handler and returns the generated code.
func createTestRoom(t *testing.T, manager *RoomManager, messenger *fakeMessenger, connID string, config RoomConfig, profile PlayerProfile) string {
	t.Helper()

	manager.handleCreateRoom(connID, config, profile)

	created := messenger.byEvent(EventRoomCreated)
	require.Len(t, created, 1)

	payload, ok := created[0].Payload.(RoomCreatedPayload)
	require.True(t, ok)
	require.NotEmpty(t, payload.Room.Code)

	messenger.reset()

	return payload.Room.Code
}

func TestRoomManager_CreateRoom(t *testing.T) {
	t.Run("CreateRoom", func(t *testing.T) {
		manager, messenger := newTestManager()

		// When: a room is created
		manager.handleCreateRoom("c1", RoomConfig{Name: "friday", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})

		// Then: the creator is the host and gets the only acknowledgment
		created := messenger.byEvent(EventRoomCreated)
		require.Len(t, created, 1)
		require.Equal(t, "c1", created[0].ConnID)
		require.Len(t, messenger.events, 1)

		payload, ok := created[0].Payload.(RoomCreatedPayload)
		require.True(t, ok)
		assert.Equal(t, entity.StatusWaiting, payload.Room.Status)
		assert.Equal(t, testPool(9), payload.Items)

		room := manager.rooms[payload.Room.Code]
		require.NotNil(t, room)
		require.Len(t, room.Players, 1)
		assert.True(t, room.Players[0].IsHost)
	})

	t.Run("Error on pool too small for grid", func(t *testing.T) {
		manager, messenger := newTestManager()

		// When: the pool cannot fill a 3×3 board
		manager.handleCreateRoom("c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(8)}, PlayerProfile{Name: "alice"})

		// Then: an invalid-configuration error and no partial room
		errs := messenger.byEvent(EventError)
		require.Len(t, errs, 1)
		payload, ok := errs[0].Payload.(ErrorPayload)
		require.True(t, ok)
		assert.Equal(t, apperror.ErrInvalidConfiguration.Error(), payload.Error)
		assert.Empty(t, manager.rooms)
	})

	t.Run("Error on grid size below minimum", func(t *testing.T) {
		manager, messenger := newTestManager()

		manager.handleCreateRoom("c1", RoomConfig{Name: "r", GridSize: 2, Items: testPool(9)}, PlayerProfile{Name: "alice"})

		require.Len(t, messenger.byEvent(EventError), 1)
		assert.Empty(t, manager.rooms)
	})
}

func TestRoomManager_JoinRoom(t *testing.T) {
	t.Run("Error on unknown code", func(t *testing.T) {
		manager, messenger := newTestManager()

		manager.handleJoinRoom("c1", "NOSUCH", PlayerProfile{Name: "bob"})

		errs := messenger.byEvent(EventError)
		require.Len(t, errs, 1)
		assert.Equal(t, apperror.ErrRoomNotFound.Error(), errs[0].Payload.(ErrorPayload).Error)
	})

	t.Run("Join broadcasts update and sends private snapshot", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})

		// When: a second player joins
		manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob"})

		// Then: the joiner gets a private snapshot
		joined := messenger.byEvent(EventRoomJoined)
		require.Len(t, joined, 1)
		require.Equal(t, "c2", joined[0].ConnID)
		assert.False(t, joined[0].Payload.(RoomJoinedPayload).Reconnected)

		// And: every subscriber gets the room-wide update
		updated := messenger.byEvent(EventRoomUpdated)
		require.Len(t, updated, 2)

		room := manager.rooms[code]
		require.Len(t, room.Players, 2)
		assert.False(t, room.Players[1].IsHost)
	})

	t.Run("Duplicate name in lobby joins as a new player", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})
		manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob"})
		messenger.reset()

		// When: another bob joins while the room is still waiting
		manager.handleJoinRoom("c3", code, PlayerProfile{Name: "bob"})

		// Then: the connected bob keeps their seat and the newcomer is appended
		room := manager.rooms[code]
		require.Len(t, room.Players, 3)
		assert.Equal(t, "c2", room.Players[1].ConnectionID)
		assert.Equal(t, "c3", room.Players[2].ConnectionID)

		joined := messenger.byEvent(EventRoomJoined)
		require.Len(t, joined, 1)
		assert.False(t, joined[0].Payload.(RoomJoinedPayload).Reconnected)
	})

	t.Run("Name fallback still reconnects mid-game", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})
		manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob"})
		manager.handleStartGame("c1", code)

		room := manager.rooms[code]
		bobBoard := room.Players[1].BoardMapping
		require.NotEmpty(t, bobBoard)
		messenger.reset()

		// When: bob rejoins by name alone after the game started
		manager.handleJoinRoom("c9", code, PlayerProfile{Name: "bob"})

		// Then: the existing seat is rebound, board intact
		require.Len(t, room.Players, 2)
		assert.Equal(t, "c9", room.Players[1].ConnectionID)
		assert.Equal(t, bobBoard, room.Players[1].BoardMapping)

		joined := messenger.byEvent(EventRoomJoined)
		require.Len(t, joined, 1)
		assert.True(t, joined[0].Payload.(RoomJoinedPayload).Reconnected)
	})

	t.Run("Error on fresh join after start", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})
		manager.handleStartGame("c1", code)
		messenger.reset()

		// When: a genuinely new player joins mid-game
		manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob"})

		// Then: GameInProgress, roster untouched
		errs := messenger.byEvent(EventError)
		require.Len(t, errs, 1)
		assert.Equal(t, apperror.ErrGameInProgress.Error(), errs[0].Payload.(ErrorPayload).Error)
		assert.Len(t, manager.rooms[code].Players, 1)
	})
}

func TestRoomManager_Reconnection(t *testing.T) {
	manager, messenger := newTestManager()
	code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice", PersistentID: "p-alice"})
	manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob", PersistentID: "p-bob"})
	manager.handleStartGame("c1", code)

	room := manager.rooms[code]
	originalBoard := room.Players[0].BoardMapping
	require.NotEmpty(t, originalBoard)
	messenger.reset()

	// When: the host rejoins mid-game on a new connection
	manager.handleJoinRoom("c9", code, PlayerProfile{Name: "alice", PersistentID: "p-alice"})

	// Then: the same roster entry is rebound, board and host flag intact
	require.Len(t, room.Players, 2)
	rebound := room.Players[0]
	assert.Equal(t, "c9", rebound.ConnectionID)
	assert.True(t, rebound.IsHost)
	assert.Equal(t, originalBoard, rebound.BoardMapping)

	// And: the private snapshot carries their board and the host pool view
	joined := messenger.byEvent(EventRoomJoined)
	require.Len(t, joined, 1)
	require.Equal(t, "c9", joined[0].ConnID)

	payload := joined[0].Payload.(RoomJoinedPayload)
	assert.True(t, payload.Reconnected)
	assert.Equal(t, originalBoard, payload.Board)
	assert.Equal(t, testPool(9), payload.Items)

	// And: the stale connection is no longer subscribed
	_, stale := manager.subs[code]["c1"]
	assert.False(t, stale)
}

func TestRoomManager_StartGame(t *testing.T) {
	t.Run("Error when caller is not host", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})
		manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob"})
		messenger.reset()

		manager.handleStartGame("c2", code)

		errs := messenger.byEvent(EventError)
		require.Len(t, errs, 1)
		assert.Equal(t, apperror.ErrNotHost.Error(), errs[0].Payload.(ErrorPayload).Error)
		assert.True(t, manager.rooms[code].IsWaiting())
	})

	t.Run("Boards are private per recipient", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(12)}, PlayerProfile{Name: "alice"})
		manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob"})
		messenger.reset()

		// When: the host starts the game
		manager.handleStartGame("c1", code)

		room := manager.rooms[code]
		require.True(t, room.IsPlaying())
		require.False(t, room.StartTime.IsZero())

		// Then: each player receives exactly their own board
		started := messenger.byEvent(EventGameStarted)
		require.Len(t, started, 2)

		for _, sent := range started {
			payload := sent.Payload.(GameStartedPayload)
			owner := room.PlayerByConnection(sent.ConnID)
			require.NotNil(t, owner)
			assert.Equal(t, owner.BoardMapping, payload.Board)
			assert.Len(t, payload.BoardItems, 9)

			// Only the host sees the full pool
			if owner.IsHost {
				assert.Equal(t, testPool(12), payload.Items)
			} else {
				assert.Empty(t, payload.Items)
			}
		}
	})

	t.Run("Error on second start", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})
		manager.handleStartGame("c1", code)
		messenger.reset()

		manager.handleStartGame("c1", code)

		errs := messenger.byEvent(EventError)
		require.Len(t, errs, 1)
		assert.Equal(t, apperror.ErrGameInProgress.Error(), errs[0].Payload.(ErrorPayload).Error)
	})
}

func TestRoomManager_ToggleCall(t *testing.T) {
	t.Run("Toggle is its own inverse", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(10), Mode: entity.ModeBlackout}, PlayerProfile{Name: "alice"})
		manager.handleStartGame("c1", code)
		messenger.reset()

		// When: the same master index is called twice
		manager.handleToggleCall("c1", code, 7)
		require.Equal(t, []int{7}, manager.rooms[code].CalledList())

		manager.handleToggleCall("c1", code, 7)

		// Then: the call set is back to its original state
		assert.Empty(t, manager.rooms[code].CalledList())

		// And: every call broadcast the routine update
		assert.Len(t, messenger.byEvent(EventRoomUpdated), 2)
	})

	t.Run("Error when caller is not host", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})
		manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob"})
		manager.handleStartGame("c1", code)
		messenger.reset()

		manager.handleToggleCall("c2", code, 0)

		errs := messenger.byEvent(EventError)
		require.Len(t, errs, 1)
		assert.Equal(t, apperror.ErrNotHost.Error(), errs[0].Payload.(ErrorPayload).Error)
		assert.Empty(t, manager.rooms[code].Called)
	})

	t.Run("Error before start", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})

		manager.handleToggleCall("c1", code, 0)

		errs := messenger.byEvent(EventError)
		require.Len(t, errs, 1)
		assert.Equal(t, apperror.ErrGameNotStarted.Error(), errs[0].Payload.(ErrorPayload).Error)
	})
}

func TestRoomManager_HostMigration(t *testing.T) {
	t.Run("Disconnect of the host promotes the next player", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})
		manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob"})
		messenger.reset()

		// When: the sole host's connection drops
		manager.handleDisconnect("c1")

		// Then: the remaining player is host
		room := manager.rooms[code]
		require.Len(t, room.Players, 1)
		assert.True(t, room.Players[0].IsHost)
		assert.Equal(t, "bob", room.Players[0].Name)

		// And: exactly one room_updated goes out
		assert.Len(t, messenger.byEvent(EventRoomUpdated), 1)
	})

	t.Run("Explicit leave migrates host the same way", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})
		manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob"})
		messenger.reset()

		manager.handleLeaveRoom("c1", code)

		room := manager.rooms[code]
		require.Len(t, room.Players, 1)
		assert.True(t, room.Players[0].IsHost)
	})

	t.Run("Room is deleted when the last player leaves", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})

		manager.handleLeaveRoom("c1", code)

		assert.Empty(t, manager.rooms)
		assert.Empty(t, manager.subs)
	})

	t.Run("Disconnect of an unknown connection is a no-op", func(t *testing.T) {
		manager, messenger := newTestManager()
		createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})

		manager.handleDisconnect("c9")

		assert.Empty(t, messenger.events)
		assert.Len(t, manager.rooms, 1)
	})
}

func TestRoomManager_UpdateRoom(t *testing.T) {
	name := "renamed"
	badGrid := 2

	t.Run("Host renames while waiting", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})

		manager.handleUpdateRoom("c1", code, RoomPatch{Name: &name})

		assert.Equal(t, "renamed", manager.rooms[code].Name)
		assert.Len(t, messenger.byEvent(EventRoomUpdated), 1)
	})

	t.Run("Error when caller is not host", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})
		manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob"})
		messenger.reset()

		manager.handleUpdateRoom("c2", code, RoomPatch{Name: &name})

		errs := messenger.byEvent(EventError)
		require.Len(t, errs, 1)
		assert.Equal(t, apperror.ErrNotHost.Error(), errs[0].Payload.(ErrorPayload).Error)
		assert.Equal(t, "r", manager.rooms[code].Name)
	})

	t.Run("Rejected patch leaves the room untouched", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})

		// When: the patch shrinks the grid below the minimum
		manager.handleUpdateRoom("c1", code, RoomPatch{Name: &name, GridSize: &badGrid})

		// Then: nothing was applied, not even the valid field
		errs := messenger.byEvent(EventError)
		require.Len(t, errs, 1)
		assert.Equal(t, "r", manager.rooms[code].Name)
		assert.Equal(t, 3, manager.rooms[code].GridSize)
	})

	t.Run("Error after start", func(t *testing.T) {
		manager, messenger := newTestManager()
		code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})
		manager.handleStartGame("c1", code)
		messenger.reset()

		manager.handleUpdateRoom("c1", code, RoomPatch{Name: &name})

		errs := messenger.byEvent(EventError)
		require.Len(t, errs, 1)
		assert.Equal(t, apperror.ErrGameInProgress.Error(), errs[0].Payload.(ErrorPayload).Error)
	})
}

func TestRoomManager_UpdateMarked(t *testing.T) {
	manager, messenger := newTestManager()
	code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})
	manager.handleStartGame("c1", code)
	messenger.reset()

	// When: a player reports marks, some of them off the board
	manager.handleUpdateMarked("c1", code, []int{0, 4, 8, 99, -1})

	// Then: only valid local indices are stored, and nothing finishes
	room := manager.rooms[code]
	assert.Equal(t, []int{0, 4, 8}, room.Marked["c1"])
	assert.True(t, room.IsPlaying())
	assert.Empty(t, messenger.byEvent(EventGameEnded))
	assert.Len(t, messenger.byEvent(EventRoomUpdated), 1)
}

func TestRoomManager_CheckRoom(t *testing.T) {
	manager, messenger := newTestManager()
	code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "friday", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})

	t.Run("Existing room", func(t *testing.T) {
		messenger.reset()

		manager.handleCheckRoom("c9", code)

		checked := messenger.byEvent(EventRoomChecked)
		require.Len(t, checked, 1)
		require.Equal(t, "c9", checked[0].ConnID)

		payload := checked[0].Payload.(RoomCheckedPayload)
		assert.True(t, payload.Exists)
		assert.Equal(t, "friday", payload.Name)
		assert.Equal(t, 1, payload.PlayerCount)
	})

	t.Run("Unknown room", func(t *testing.T) {
		messenger.reset()

		manager.handleCheckRoom("c9", "NOSUCH")

		checked := messenger.byEvent(EventRoomChecked)
		require.Len(t, checked, 1)
		assert.False(t, checked[0].Payload.(RoomCheckedPayload).Exists)
	})
}

func TestRoomManager_AnnounceBingo(t *testing.T) {
	manager, messenger := newTestManager()
	code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "r", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})
	manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob"})
	messenger.reset()

	// When: bob announces bingo
	manager.handleAnnounceBingo("c2", code)

	// Then: every subscriber hears it with bob's name attached
	announced := messenger.byEvent(EventBingoAnnounced)
	require.Len(t, announced, 2)
	payload := announced[0].Payload.(BingoAnnouncedPayload)
	assert.Equal(t, "bob", payload.PlayerName)
}

func TestRoomManager_EndToEnd(t *testing.T) {
	manager, messenger := newTestManager()

	// Given: a 3×3 room with a 9-item pool and two players
	code := createTestRoom(t, manager, messenger, "c1", RoomConfig{Name: "night", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice", PersistentID: "p1"})
	manager.handleJoinRoom("c2", code, PlayerProfile{Name: "bob", PersistentID: "p2"})
	manager.handleStartGame("c1", code)

	room := manager.rooms[code]
	require.True(t, room.IsPlaying())
	require.Len(t, room.Players[0].BoardMapping, 9)
	require.Len(t, room.Players[1].BoardMapping, 9)

	// Boards are drawn independently: two identical permutations of nine
	// indices happen once in 9! draws
	assert.NotEqual(t, room.Players[0].BoardMapping, room.Players[1].BoardMapping)
	messenger.reset()

	// When: the host calls master indices 0..8 in order
	for master := 0; master < 9 && !room.IsFinished(); master++ {
		manager.handleToggleCall("c1", code, master)
	}

	// Then: the game finished the moment a line completed
	require.True(t, room.IsFinished())
	require.NotEmpty(t, room.WinnerID)

	ended := messenger.byEvent(EventGameEnded)
	require.Len(t, ended, 2) // both subscribers, exactly once

	payload := ended[0].Payload.(GameEndedPayload)
	assert.Equal(t, room.WinnerID, payload.WinnerID)
	assert.Equal(t, reasonLineComplete, payload.Reason)

	// And: the leaderboard holds both players sorted by score descending
	require.Len(t, payload.Leaderboard, 2)
	assert.GreaterOrEqual(t, payload.Leaderboard[0].Score, payload.Leaderboard[1].Score)

	// The winner flag sits on the declared winner, whatever their rank
	for _, standing := range payload.Leaderboard {
		assert.Equal(t, standing.PlayerID == room.WinnerID, standing.IsWinner)
	}

	// And: further calls are rejected
	messenger.reset()
	manager.handleToggleCall("c1", code, 0)
	errs := messenger.byEvent(EventError)
	require.Len(t, errs, 1)
	assert.Equal(t, apperror.ErrGameFinished.Error(), errs[0].Payload.(ErrorPayload).Error)
}

func TestRoomManager_Directory(t *testing.T) {
	manager, messenger := newTestManager()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	go manager.Run(ctx)

	// Given: a room created through the command loop
	manager.CreateRoom("c1", RoomConfig{Name: "looped", GridSize: 3, Items: testPool(9)}, PlayerProfile{Name: "alice"})

	// When: the directory is requested (queued behind the create)
	summaries, err := manager.Directory(ctx)
	require.NoError(t, err)

	// Then: the room shows up with its player count
	require.Len(t, summaries, 1)
	assert.Equal(t, "looped", summaries[0].Name)
	assert.Equal(t, 1, summaries[0].PlayerCount)
	assert.Equal(t, entity.StatusWaiting, summaries[0].Status)

	_ = messenger // events are delivered on the loop goroutine here
}

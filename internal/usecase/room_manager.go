package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/rocketscienceinc/bingo-backend/internal/entity"
)

// Outbound event names, part of the client contract.
const (
	EventRoomCreated    = "room_created"
	EventRoomChecked    = "room_checked"
	EventRoomJoined     = "room_joined"
	EventRoomUpdated    = "room_updated"
	EventGameStarted    = "game_started"
	EventGameEnded      = "game_ended"
	EventBingoAnnounced = "bingo_announced"
	EventError          = "error"
)

// Room codes avoid ambiguous characters so they survive being read aloud.
const (
	codeAlphabet    = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength      = 5
	codeGenAttempts = 10
)

const commandQueueSize = 256

// Messenger delivers outbound events to live connections. Implemented by
// the websocket transport.
type Messenger interface {
	Send(connID, event string, payload any)
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.GameResult) error
}

// RoomConfig is the caller-supplied room setup.
type RoomConfig struct {
	Name     string   `json:"name"`
	GridSize int      `json:"gridSize"`
	Items    []string `json:"items"`
	Mode     string   `json:"mode,omitempty"`
}

// PlayerProfile identifies a joining player. PersistentID is optional but
// is the only reliable reconnection key.
type PlayerProfile struct {
	Name         string `json:"name"`
	PersistentID string `json:"persistentId,omitempty"`
}

// RoomPatch is the allow-listed subset of room fields a host may rewrite
// while the room is still waiting. Nil fields are left untouched.
type RoomPatch struct {
	Name     *string  `json:"name,omitempty"`
	GridSize *int     `json:"gridSize,omitempty"`
	Items    []string `json:"items,omitempty"`
	Mode     *string  `json:"mode,omitempty"`
}

// RoomSummary is one row of the public room directory.
type RoomSummary struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	GridSize    int    `json:"gridSize"`
	PlayerCount int    `json:"playerCount"`
}

// RoomManager is the room lifecycle coordinator. All room state is owned
// by the single goroutine running Run; every operation is enqueued as a
// command and handled to completion before the next one, which is the only
// serialization point in the process.
type RoomManager struct {
	logger  *slog.Logger
	sender  Messenger
	results resultRepo

	rooms map[string]*entity.Room
	// subs maps room code to the connection IDs receiving its broadcasts.
	subs map[string]map[string]struct{}

	commands chan func()
}

func NewRoomManager(logger *slog.Logger, sender Messenger, results resultRepo) *RoomManager {
	return &RoomManager{
		logger:  logger.With("component", "coordinator"),
		sender:  sender,
		results: results,

		rooms: make(map[string]*entity.Room),
		subs:  make(map[string]map[string]struct{}),

		commands: make(chan func(), commandQueueSize),
	}
}

// Run consumes commands until the context is canceled. Room state must only
// be touched from inside commands.
func (that *RoomManager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-that.commands:
			cmd()
		}
	}
}

func (that *RoomManager) CheckRoom(connID, code string) {
	that.commands <- func() { that.handleCheckRoom(connID, code) }
}

func (that *RoomManager) CreateRoom(connID string, config RoomConfig, profile PlayerProfile) {
	that.commands <- func() { that.handleCreateRoom(connID, config, profile) }
}

func (that *RoomManager) JoinRoom(connID, code string, profile PlayerProfile) {
	that.commands <- func() { that.handleJoinRoom(connID, code, profile) }
}

func (that *RoomManager) LeaveRoom(connID, code string) {
	that.commands <- func() { that.handleLeaveRoom(connID, code) }
}

func (that *RoomManager) StartGame(connID, code string) {
	that.commands <- func() { that.handleStartGame(connID, code) }
}

func (that *RoomManager) ToggleCall(connID, code string, masterIndex int) {
	that.commands <- func() { that.handleToggleCall(connID, code, masterIndex) }
}

func (that *RoomManager) UpdateMarked(connID, code string, marked []int) {
	that.commands <- func() { that.handleUpdateMarked(connID, code, marked) }
}

func (that *RoomManager) UpdateRoom(connID, code string, patch RoomPatch) {
	that.commands <- func() { that.handleUpdateRoom(connID, code, patch) }
}

func (that *RoomManager) AnnounceBingo(connID, code string) {
	that.commands <- func() { that.handleAnnounceBingo(connID, code) }
}

func (that *RoomManager) Disconnect(connID string) {
	that.commands <- func() { that.handleDisconnect(connID) }
}

// Directory returns the public room list. It runs on the coordinator
// goroutine like every other operation, so the caller waits for its turn.
func (that *RoomManager) Directory(ctx context.Context) ([]RoomSummary, error) {
	reply := make(chan []RoomSummary, 1)

	select {
	case that.commands <- func() { reply <- that.handleDirectory() }:
	case <-ctx.Done():
		return nil, fmt.Errorf("directory request not accepted: %w", ctx.Err())
	}

	select {
	case summaries := <-reply:
		return summaries, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("directory request canceled: %w", ctx.Err())
	}
}

func (that *RoomManager) handleDirectory() []RoomSummary {
	summaries := make([]RoomSummary, 0, len(that.rooms))
	for _, room := range that.rooms {
		summaries = append(summaries, RoomSummary{
			Code:        room.Code,
			Name:        room.Name,
			Status:      room.Status,
			GridSize:    room.GridSize,
			PlayerCount: len(room.Players),
		})
	}

	return summaries
}

// generateCode draws room codes until one misses the live store. The store
// is tiny compared to the code space, so a handful of attempts is plenty.
func (that *RoomManager) generateCode() (string, error) {
	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		code, err := randomCode()
		if err != nil {
			return "", err
		}

		if _, taken := that.rooms[code]; !taken {
			return code, nil
		}
	}

	return "", fmt.Errorf("could not generate a free room code in %d attempts", codeGenAttempts)
}

func randomCode() (string, error) {
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to draw room code: %w", err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}

	return string(buf), nil
}

func (that *RoomManager) subscribe(code, connID string) {
	if that.subs[code] == nil {
		that.subs[code] = make(map[string]struct{})
	}
	that.subs[code][connID] = struct{}{}
}

func (that *RoomManager) unsubscribe(code, connID string) {
	if conns, ok := that.subs[code]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(that.subs, code)
		}
	}
}

func (that *RoomManager) dropRoom(code string) {
	delete(that.rooms, code)
	delete(that.subs, code)
}

// broadcast fans an event out to every connection subscribed to the room.
func (that *RoomManager) broadcast(code, event string, payload any) {
	for connID := range that.subs[code] {
		that.sender.Send(connID, event, payload)
	}
}

func (that *RoomManager) sendError(connID, action string, err error) {
	that.sender.Send(connID, EventError, ErrorPayload{
		Action: action,
		Error:  err.Error(),
	})
}

// archiveResult stores the final scoreboard outside the coordinator loop so
// a slow Redis never stalls message processing. Best effort only.
func (that *RoomManager) archiveResult(result *entity.GameResult) {
	if that.results == nil {
		return
	}

	log := that.logger.With("method", "archiveResult", "code", result.Code)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := that.results.Save(ctx, result); err != nil {
			log.Error("failed to archive game result", "error", err)
		}
	}()
}

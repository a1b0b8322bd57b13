package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/bingo-backend/internal/usecase"
)

// coordinator is the slice of the room manager the transport needs: fire
// and forget commands, routed through the single processing loop.
type coordinator interface {
	CheckRoom(connID, code string)
	CreateRoom(connID string, config usecase.RoomConfig, profile usecase.PlayerProfile)
	JoinRoom(connID, code string, profile usecase.PlayerProfile)
	LeaveRoom(connID, code string)
	StartGame(connID, code string)
	ToggleCall(connID, code string, masterIndex int)
	UpdateMarked(connID, code string, marked []int)
	UpdateRoom(connID, code string, patch usecase.RoomPatch)
	AnnounceBingo(connID, code string)
	Disconnect(connID string)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type Server struct {
	logger      *slog.Logger
	coordinator coordinator

	mu      sync.RWMutex
	clients map[string]*Client

	handlers map[string]func(connID string, payload json.RawMessage) error
}

func New(logger *slog.Logger) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		clients:  make(map[string]*Client),
		handlers: make(map[string]func(string, json.RawMessage) error),
	}

	server.handlers[usecase.ActionCheckRoom] = server.handleCheckRoom
	server.handlers[usecase.ActionCreateRoom] = server.handleCreateRoom
	server.handlers[usecase.ActionJoinRoom] = server.handleJoinRoom
	server.handlers[usecase.ActionLeaveRoom] = server.handleLeaveRoom
	server.handlers[usecase.ActionStartGame] = server.handleStartGame
	server.handlers[usecase.ActionMarkedUpdate] = server.handleMarkedUpdate
	server.handlers[usecase.ActionHostMark] = server.handleHostMark
	server.handlers[usecase.ActionBingoCall] = server.handleBingoCall
	server.handlers[usecase.ActionRoomUpdate] = server.handleRoomUpdate

	return server
}

// SetCoordinator wires the room manager in after construction — the only
// wiring path; the manager and the transport hold references to each other.
// Must be called before Start.
func (that *Server) SetCoordinator(coordinator coordinator) {
	that.coordinator = coordinator
}

// Start - starts the WebSocket server and shuts it down with the context.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.serveWS)

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 0, // lifetimes are managed per connection by the pumps
		IdleTimeout: 0,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveWS")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(conn, that)

	that.mu.Lock()
	that.clients[client.id] = client
	that.mu.Unlock()

	log.Info("connection established", "connID", client.id)

	go client.writePump()
	go client.readPump()
}

// Send implements usecase.Messenger. It marshals on the caller's goroutine
// and hands the frame to the client's buffered send channel; a slow client
// loses the frame instead of stalling the coordinator.
func (that *Server) Send(connID, event string, payload any) {
	that.mu.RLock()
	client, ok := that.clients[connID]
	that.mu.RUnlock()

	if !ok {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		that.logger.Error("failed to marshal payload", "event", event, "error", err)
		return
	}

	frame, err := json.Marshal(Message{Action: event, Payload: raw})
	if err != nil {
		that.logger.Error("failed to marshal message", "event", event, "error", err)
		return
	}

	select {
	case client.send <- frame:
	default:
		that.logger.Warn("send buffer full, dropping frame", "connID", connID, "event", event)
	}
}

// dispatch routes one inbound message to its action handler.
func (that *Server) dispatch(connID string, raw []byte) {
	log := that.logger.With("method", "dispatch", "connID", connID)

	var message Message
	if err := json.Unmarshal(raw, &message); err != nil {
		log.Error("failed to unmarshal message", "error", err)
		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action", "action", message.Action)
		return
	}

	if err := handler(connID, message.Payload); err != nil {
		log.Error("failed to handle message", "action", message.Action, "error", err)
	}
}

// drop removes a closed connection and tells the coordinator, which handles
// player removal and host migration.
func (that *Server) drop(client *Client) {
	that.mu.Lock()
	if _, ok := that.clients[client.id]; !ok {
		that.mu.Unlock()
		return
	}
	delete(that.clients, client.id)
	close(client.send)
	that.mu.Unlock()

	that.coordinator.Disconnect(client.id)

	that.logger.Info("connection closed", "connID", client.id)
}

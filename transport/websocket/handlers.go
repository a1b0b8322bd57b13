package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errMissingField = errors.New("required field is missing")

func (that *Server) handleCheckRoom(connID string, payload json.RawMessage) error {
	code, err := decodeCode(payload)
	if err != nil {
		return err
	}

	that.coordinator.CheckRoom(connID, code)

	return nil
}

func (that *Server) handleCreateRoom(connID string, payload json.RawMessage) error {
	var req CreateRoomPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if req.Room == nil || req.Player == nil {
		return fmt.Errorf("%w: room and player", errMissingField)
	}

	that.coordinator.CreateRoom(connID, *req.Room, *req.Player)

	return nil
}

func (that *Server) handleJoinRoom(connID string, payload json.RawMessage) error {
	var req JoinRoomPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if req.Code == "" || req.Player == nil {
		return fmt.Errorf("%w: code and player", errMissingField)
	}

	that.coordinator.JoinRoom(connID, req.Code, *req.Player)

	return nil
}

func (that *Server) handleLeaveRoom(connID string, payload json.RawMessage) error {
	code, err := decodeCode(payload)
	if err != nil {
		return err
	}

	that.coordinator.LeaveRoom(connID, code)

	return nil
}

func (that *Server) handleStartGame(connID string, payload json.RawMessage) error {
	code, err := decodeCode(payload)
	if err != nil {
		return err
	}

	that.coordinator.StartGame(connID, code)

	return nil
}

func (that *Server) handleMarkedUpdate(connID string, payload json.RawMessage) error {
	var req MarkedUpdatePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if req.Code == "" {
		return fmt.Errorf("%w: code", errMissingField)
	}

	that.coordinator.UpdateMarked(connID, req.Code, req.MarkedSquares)

	return nil
}

func (that *Server) handleHostMark(connID string, payload json.RawMessage) error {
	var req HostMarkPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if req.Code == "" || req.MasterIndex == nil {
		return fmt.Errorf("%w: code and masterIndex", errMissingField)
	}

	that.coordinator.ToggleCall(connID, req.Code, *req.MasterIndex)

	return nil
}

func (that *Server) handleBingoCall(connID string, payload json.RawMessage) error {
	code, err := decodeCode(payload)
	if err != nil {
		return err
	}

	that.coordinator.AnnounceBingo(connID, code)

	return nil
}

func (that *Server) handleRoomUpdate(connID string, payload json.RawMessage) error {
	var req RoomUpdatePayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if req.Code == "" {
		return fmt.Errorf("%w: code", errMissingField)
	}

	that.coordinator.UpdateRoom(connID, req.Code, req.Updates)

	return nil
}

// decodeCode accepts both `{"code":"ABC12"}` and a bare `"ABC12"`; clients
// historically sent the start_game payload as a plain string.
func decodeCode(payload json.RawMessage) (string, error) {
	var wrapped CodePayload
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Code != "" {
		return wrapped.Code, nil
	}

	var bare string
	if err := json.Unmarshal(payload, &bare); err == nil && bare != "" {
		return bare, nil
	}

	return "", fmt.Errorf("%w: code", errMissingField)
}

package usecase

import (
	"sort"
	"time"

	"github.com/rocketscienceinc/bingo-backend/internal/apperror"
	"github.com/rocketscienceinc/bingo-backend/internal/bingo"
	"github.com/rocketscienceinc/bingo-backend/internal/entity"
)

// Inbound action names, echoed back on error payloads.
const (
	ActionCheckRoom    = "check_room"
	ActionCreateRoom   = "create_room"
	ActionJoinRoom     = "join_room"
	ActionLeaveRoom    = "leave_room"
	ActionStartGame    = "start_game"
	ActionMarkedUpdate = "marked_update"
	ActionHostMark     = "host_action_mark"
	ActionBingoCall    = "bingo_call"
	ActionRoomUpdate   = "room_update"
)

const (
	reasonLineComplete = "line_complete"
	reasonBlackout     = "blackout"
)

func (that *RoomManager) handleCheckRoom(connID, code string) {
	room, ok := that.rooms[code]
	if !ok {
		that.sender.Send(connID, EventRoomChecked, RoomCheckedPayload{Code: code})
		return
	}

	that.sender.Send(connID, EventRoomChecked, RoomCheckedPayload{
		Code:        room.Code,
		Exists:      true,
		Name:        room.Name,
		Status:      room.Status,
		GridSize:    room.GridSize,
		PlayerCount: len(room.Players),
	})
}

func (that *RoomManager) handleCreateRoom(connID string, config RoomConfig, profile PlayerProfile) {
	log := that.logger.With("method", "handleCreateRoom", "connID", connID)

	if err := validateConfig(config.GridSize, config.Items); err != nil {
		that.sendError(connID, ActionCreateRoom, err)
		return
	}

	code, err := that.generateCode()
	if err != nil {
		log.Error("failed to generate room code", "error", err)
		that.sendError(connID, ActionCreateRoom, err)
		return
	}

	room := entity.NewRoom(code, config.Name, config.GridSize, config.Items, config.Mode)
	room.AddPlayer(&entity.Player{
		ConnectionID: connID,
		PersistentID: profile.PersistentID,
		Name:         profile.Name,
		IsHost:       true,
	})

	that.rooms[code] = room
	that.subscribe(code, connID)

	that.sender.Send(connID, EventRoomCreated, RoomCreatedPayload{
		Room:  snapshot(room),
		Items: room.Items,
	})

	log.Info("room created", "code", code)
}

func (that *RoomManager) handleJoinRoom(connID, code string, profile PlayerProfile) {
	log := that.logger.With("method", "handleJoinRoom", "connID", connID, "code", code)

	room, ok := that.rooms[code]
	if !ok {
		that.sendError(connID, ActionJoinRoom, apperror.ErrRoomNotFound)
		return
	}

	// A persistent ID always reclaims its seat; the name fallback only
	// applies once the game has started — in the lobby a shared name is a
	// second player, not a reconnect.
	returning := room.PlayerByPersistentID(profile.PersistentID)
	if returning == nil && !room.IsWaiting() {
		returning = room.PlayerByNameFallback(profile.Name)
	}
	if returning != nil {
		that.rebindPlayer(room, returning, connID)
		log.Info("player reconnected", "player", returning.Name)
		return
	}

	if !room.IsWaiting() {
		that.sendError(connID, ActionJoinRoom, apperror.ErrGameInProgress)
		return
	}

	player := &entity.Player{
		ConnectionID: connID,
		PersistentID: profile.PersistentID,
		Name:         profile.Name,
	}
	room.AddPlayer(player)
	that.subscribe(code, connID)

	that.sender.Send(connID, EventRoomJoined, RoomJoinedPayload{
		Room:   snapshot(room),
		Player: player,
	})
	that.broadcast(code, EventRoomUpdated, RoomUpdatedPayload{Room: snapshot(room)})

	log.Info("player joined", "player", player.Name)
}

// rebindPlayer moves an existing roster entry onto a new connection,
// keeping board and host flag intact.
func (that *RoomManager) rebindPlayer(room *entity.Room, player *entity.Player, connID string) {
	oldConnID := player.ConnectionID
	player.ConnectionID = connID

	if marks, ok := room.Marked[oldConnID]; ok {
		delete(room.Marked, oldConnID)
		room.Marked[connID] = marks
	}

	that.unsubscribe(room.Code, oldConnID)
	that.subscribe(room.Code, connID)

	joined := RoomJoinedPayload{
		Room:        snapshot(room),
		Player:      player,
		Reconnected: true,
	}
	if player.HasBoard() {
		joined.Board = player.BoardMapping
		joined.BoardItems = boardItems(room, player.BoardMapping)
	}
	if player.IsHost {
		joined.Items = room.Items
	}

	that.sender.Send(connID, EventRoomJoined, joined)
	that.broadcast(room.Code, EventRoomUpdated, RoomUpdatedPayload{Room: snapshot(room)})
}

func (that *RoomManager) handleLeaveRoom(connID, code string) {
	room, ok := that.rooms[code]
	if !ok {
		that.sendError(connID, ActionLeaveRoom, apperror.ErrRoomNotFound)
		return
	}

	if room.PlayerByConnection(connID) == nil {
		that.sendError(connID, ActionLeaveRoom, apperror.ErrPlayerNotFound)
		return
	}

	that.removeFromRoom(room, connID)
}

// removeFromRoom is the shared path for explicit leave and disconnect:
// drop the player, delete the room when it empties, otherwise restore the
// single-host invariant before anyone hears about the change.
func (that *RoomManager) removeFromRoom(room *entity.Room, connID string) {
	log := that.logger.With("method", "removeFromRoom", "code", room.Code, "connID", connID)

	removed := room.RemovePlayerByConnection(connID)
	if removed == nil {
		return
	}

	that.unsubscribe(room.Code, connID)

	if room.IsEmpty() {
		that.dropRoom(room.Code)
		log.Info("room deleted, last player left")
		return
	}

	if promoted := room.EnsureHost(); promoted != nil {
		log.Info("host migrated", "player", promoted.Name)
	}

	that.broadcast(room.Code, EventRoomUpdated, RoomUpdatedPayload{Room: snapshot(room)})
}

func (that *RoomManager) handleStartGame(connID, code string) {
	log := that.logger.With("method", "handleStartGame", "code", code)

	room, ok := that.rooms[code]
	if !ok {
		that.sendError(connID, ActionStartGame, apperror.ErrRoomNotFound)
		return
	}

	caller := room.PlayerByConnection(connID)
	if caller == nil || !caller.IsHost {
		that.sendError(connID, ActionStartGame, apperror.ErrNotHost)
		return
	}

	if !room.IsWaiting() {
		that.sendError(connID, ActionStartGame, apperror.ErrGameInProgress)
		return
	}

	if err := validateConfig(room.GridSize, room.Items); err != nil {
		that.sendError(connID, ActionStartGame, err)
		return
	}

	for _, player := range room.Players {
		board, err := bingo.AssignBoard(len(room.Items), room.GridSize)
		if err != nil {
			that.sendError(connID, ActionStartGame, apperror.ErrInvalidConfiguration)
			return
		}
		player.BoardMapping = board
	}

	room.Status = entity.StatusPlaying
	room.StartTime = time.Now()

	// Each player only ever sees their own mapping; the host additionally
	// gets the full pool for the calling view.
	state := snapshot(room)
	for _, player := range room.Players {
		payload := GameStartedPayload{
			Room:       state,
			Board:      player.BoardMapping,
			BoardItems: boardItems(room, player.BoardMapping),
		}
		if player.IsHost {
			payload.Items = room.Items
		}

		that.sender.Send(player.ConnectionID, EventGameStarted, payload)
	}

	log.Info("game started", "players", len(room.Players))
}

func (that *RoomManager) handleToggleCall(connID, code string, masterIndex int) {
	log := that.logger.With("method", "handleToggleCall", "code", code)

	room, ok := that.rooms[code]
	if !ok {
		that.sendError(connID, ActionHostMark, apperror.ErrRoomNotFound)
		return
	}

	caller := room.PlayerByConnection(connID)
	if caller == nil || !caller.IsHost {
		that.sendError(connID, ActionHostMark, apperror.ErrNotHost)
		return
	}

	switch {
	case room.IsWaiting():
		that.sendError(connID, ActionHostMark, apperror.ErrGameNotStarted)
		return
	case room.IsFinished():
		that.sendError(connID, ActionHostMark, apperror.ErrGameFinished)
		return
	}

	if masterIndex < 0 || masterIndex >= len(room.Items) {
		that.sendError(connID, ActionHostMark, apperror.ErrInvalidConfiguration)
		return
	}

	room.ToggleCall(masterIndex)

	winner := bingo.FindWinner(room.Mode, room.GridSize, room.Players, room.Called)
	if winner != nil {
		that.finishGame(room, winner)
	}

	// The routine update goes out on every call, winning or not.
	that.broadcast(code, EventRoomUpdated, RoomUpdatedPayload{Room: snapshot(room)})

	log.Debug("call toggled", "masterIndex", masterIndex, "called", len(room.Called))
}

// finishGame closes the room on a winning call: terminal status, full
// scoreboard for every player, a terminal event distinct from the routine
// update, and a best-effort archive write.
func (that *RoomManager) finishGame(room *entity.Room, winner *entity.Player) {
	log := that.logger.With("method", "finishGame", "code", room.Code)

	room.Status = entity.StatusFinished
	room.WinnerID = winner.ConnectionID

	leaderboard := buildLeaderboard(room, winner)

	reason := reasonLineComplete
	if room.Mode == entity.ModeBlackout {
		reason = reasonBlackout
	}

	ended := GameEndedPayload{
		Code:        room.Code,
		WinnerID:    winner.ConnectionID,
		WinnerName:  winner.Name,
		Reason:      reason,
		Leaderboard: leaderboard,
	}
	that.broadcast(room.Code, EventGameEnded, ended)

	that.archiveResult(&entity.GameResult{
		Code:        room.Code,
		RoomName:    room.Name,
		WinnerID:    winner.ConnectionID,
		WinnerName:  winner.Name,
		Reason:      reason,
		FinishedAt:  time.Now(),
		Leaderboard: leaderboard,
	})

	log.Info("game finished", "winner", winner.Name)
}

// buildLeaderboard scores every player, not just the winner, so clients can
// render final standings without further queries. Sorted by score
// descending, roster order on ties.
func buildLeaderboard(room *entity.Room, winner *entity.Player) []entity.Standing {
	standings := make([]entity.Standing, 0, len(room.Players))

	for _, player := range room.Players {
		tally := bingo.Evaluate(room.GridSize, player.BoardMapping, room.Called)
		standings = append(standings, entity.Standing{
			PlayerID:       player.ConnectionID,
			Name:           player.Name,
			Score:          tally.Score,
			SquaresHit:     tally.SquaresHit,
			LinesCompleted: tally.LinesCompleted,
			IsWinner:       player == winner,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})

	return standings
}

func (that *RoomManager) handleUpdateMarked(connID, code string, marked []int) {
	room, ok := that.rooms[code]
	if !ok {
		that.sendError(connID, ActionMarkedUpdate, apperror.ErrRoomNotFound)
		return
	}

	if room.PlayerByConnection(connID) == nil {
		that.sendError(connID, ActionMarkedUpdate, apperror.ErrPlayerNotFound)
		return
	}

	// Self-reported marks are a UI convenience: clamp to the board, store,
	// never consult for win detection.
	cells := room.BoardCells()
	valid := make([]int, 0, len(marked))
	for _, local := range marked {
		if local >= 0 && local < cells {
			valid = append(valid, local)
		}
	}
	room.Marked[connID] = valid

	that.broadcast(code, EventRoomUpdated, RoomUpdatedPayload{Room: snapshot(room)})
}

func (that *RoomManager) handleUpdateRoom(connID, code string, patch RoomPatch) {
	room, ok := that.rooms[code]
	if !ok {
		that.sendError(connID, ActionRoomUpdate, apperror.ErrRoomNotFound)
		return
	}

	caller := room.PlayerByConnection(connID)
	if caller == nil || !caller.IsHost {
		that.sendError(connID, ActionRoomUpdate, apperror.ErrNotHost)
		return
	}

	if !room.IsWaiting() {
		that.sendError(connID, ActionRoomUpdate, apperror.ErrGameInProgress)
		return
	}

	// Validate the prospective configuration before touching the room so a
	// rejected patch leaves no partial write behind.
	gridSize := room.GridSize
	if patch.GridSize != nil {
		gridSize = *patch.GridSize
	}
	items := room.Items
	if patch.Items != nil {
		items = patch.Items
	}
	if err := validateConfig(gridSize, items); err != nil {
		that.sendError(connID, ActionRoomUpdate, err)
		return
	}

	if patch.Name != nil {
		room.Name = *patch.Name
	}
	if patch.Mode != nil && (*patch.Mode == entity.ModeLine || *patch.Mode == entity.ModeBlackout) {
		room.Mode = *patch.Mode
	}
	room.GridSize = gridSize
	room.Items = items

	that.broadcast(code, EventRoomUpdated, RoomUpdatedPayload{Room: snapshot(room)})
}

func (that *RoomManager) handleAnnounceBingo(connID, code string) {
	room, ok := that.rooms[code]
	if !ok {
		that.sendError(connID, ActionBingoCall, apperror.ErrRoomNotFound)
		return
	}

	player := room.PlayerByConnection(connID)
	if player == nil {
		that.sendError(connID, ActionBingoCall, apperror.ErrPlayerNotFound)
		return
	}

	that.broadcast(code, EventBingoAnnounced, BingoAnnouncedPayload{
		Code:       code,
		PlayerID:   player.ConnectionID,
		PlayerName: player.Name,
	})
}

// handleDisconnect scans every room for the dropped connection. Removal and
// host migration happen inside this handler, so no broadcast can observe a
// non-empty room without a host.
func (that *RoomManager) handleDisconnect(connID string) {
	for _, room := range that.rooms {
		if room.PlayerByConnection(connID) == nil {
			continue
		}
		that.removeFromRoom(room, connID)
	}
}

func validateConfig(gridSize int, items []string) error {
	if gridSize < 3 || len(items) < gridSize*gridSize {
		return apperror.ErrInvalidConfiguration
	}
	return nil
}

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rocketscienceinc/bingo-backend/internal/entity"
	"github.com/rocketscienceinc/bingo-backend/internal/repository"
	"github.com/rocketscienceinc/bingo-backend/internal/usecase"
)

type Handlers interface {
	Ping(w http.ResponseWriter, _ *http.Request)
	Rooms(w http.ResponseWriter, r *http.Request)
	Result(w http.ResponseWriter, r *http.Request)
}

type roomDirectory interface {
	Directory(ctx context.Context) ([]usecase.RoomSummary, error)
}

type resultGetter interface {
	GetByCode(ctx context.Context, code string) (*entity.GameResult, error)
}

type handlers struct {
	logger  *slog.Logger
	rooms   roomDirectory
	results resultGetter
}

func NewHandlers(logger *slog.Logger, rooms roomDirectory, results resultGetter) Handlers {
	return &handlers{
		logger:  logger.With("component", "rest"),
		rooms:   rooms,
		results: results,
	}
}

func (that *handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("pong")); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
}

// Rooms serves the public room directory.
func (that *handlers) Rooms(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Rooms")

	summaries, err := that.rooms.Directory(r.Context())
	if err != nil {
		log.Error("failed to list rooms", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, summaries, log)
}

// Result serves the archived outcome of a finished room: /results/{code}.
func (that *handlers) Result(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "Result")

	code := strings.TrimPrefix(r.URL.Path, "/results/")
	if code == "" {
		http.Error(w, "room code is required", http.StatusBadRequest)
		return
	}

	result, err := that.results.GetByCode(r.Context(), code)
	if errors.Is(err, repository.ErrResultNotFound) {
		http.Error(w, "result not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error("failed to get result", "code", code, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, result, log)
}

func writeJSON(w http.ResponseWriter, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

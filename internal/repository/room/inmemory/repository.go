package inmemory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/singalong/server/internal/domain"
	"github.com/singalong/server/internal/repository/room"
)

const (
	roomIdLength      = 6
	defaultIdAttempts = 32
)

type iGenerator interface {
	GenerateRandomString(length int) string
}

type repo struct {
	mu         sync.RWMutex
	rooms      map[string]*domain.Room
	generator  iGenerator
	idAttempts int
	logger     *slog.Logger
}

func NewRepo(generator iGenerator, logger *slog.Logger) *repo {
	return &repo{
		rooms:      make(map[string]*domain.Room),
		generator:  generator,
		idAttempts: defaultIdAttempts,
		logger:     logger,
	}
}

// Create registers an empty room hosted by hostConnId under a fresh
// six-digit id. Ids colliding with a live room are redrawn.
func (r *repo) Create(ctx context.Context, hostConnId string) (*domain.Room, error) {
	r.logger.DebugContext(ctx, "called", "host_conn_id", hostConnId)
	r.mu.Lock()
	defer r.mu.Unlock()

	for attempt := 0; attempt < r.idAttempts; attempt++ {
		roomId := r.generator.GenerateRandomString(roomIdLength)
		if _, ok := r.rooms[roomId]; ok {
			r.logger.DebugContext(ctx, "room id collision", "room_id", roomId, "attempt", attempt)
			continue
		}

		newRoom := domain.NewRoom(roomId, hostConnId)
		r.rooms[roomId] = newRoom

		r.logger.DebugContext(ctx, "returned", "room_id", roomId)
		return newRoom, nil
	}

	r.logger.DebugContext(ctx, "returned", "error", room.ErrRoomIdExhausted)
	return nil, room.ErrRoomIdExhausted
}

func (r *repo) Get(ctx context.Context, roomId string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found, ok := r.rooms[roomId]
	if !ok {
		r.logger.DebugContext(ctx, "room lookup missed", "room_id", roomId)
		return nil, room.ErrRoomNotFound
	}

	return found, nil
}

func (r *repo) Delete(ctx context.Context, roomId string) error {
	r.logger.DebugContext(ctx, "called", "room_id", roomId)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[roomId]; !ok {
		return room.ErrRoomNotFound
	}

	delete(r.rooms, roomId)
	return nil
}

func (r *repo) ListByHost(_ context.Context, connId string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var roomIds []string
	for roomId, found := range r.rooms {
		if found.IsHost(connId) {
			roomIds = append(roomIds, roomId)
		}
	}

	return roomIds
}

func (r *repo) Length() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms)
}

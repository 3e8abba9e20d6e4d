package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/singalong/server/internal/domain"
	"github.com/singalong/server/internal/repository/connection"
	roomrepo "github.com/singalong/server/internal/repository/room"
)

var ErrRoomNotFound = errors.New("room not found")

type iRoomRepo interface {
	Create(ctx context.Context, hostConnId string) (*domain.Room, error)
	Get(ctx context.Context, roomId string) (*domain.Room, error)
	Delete(ctx context.Context, roomId string) error
	ListByHost(ctx context.Context, connId string) []string
}

type iConnRepo interface {
	Add(ctx context.Context, conn *connection.Conn) error
	Remove(ctx context.Context, connId string) ([]string, error)
	Join(ctx context.Context, roomId, connId string) error
	RemoveGroup(ctx context.Context, roomId string)
	Send(ctx context.Context, connId string, msg any) error
	Broadcast(ctx context.Context, roomId, exceptConnId string, msg any) error
}

type service struct {
	roomRepo iRoomRepo
	connRepo iConnRepo
	reaper   Reaper
	logger   *slog.Logger
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, reapPolicy ReapPolicy, logger *slog.Logger) *service {
	return &service{
		roomRepo: roomRepo,
		connRepo: connRepo,
		reaper:   newReaper(reapPolicy, roomRepo, connRepo, logger),
		logger:   logger,
	}
}

// withRoom runs fn while holding the room lock. Every output fn enqueues is
// therefore ordered with the room's mutations.
func (s service) withRoom(ctx context.Context, roomId string, fn func(*domain.Room) error) error {
	r, err := s.roomRepo.Get(ctx, roomId)
	if err != nil {
		if errors.Is(err, roomrepo.ErrRoomNotFound) {
			return ErrRoomNotFound
		}

		return fmt.Errorf("failed to get room: %w", err)
	}

	r.Lock()
	defer r.Unlock()

	return fn(r)
}

func (s service) send(ctx context.Context, connId string, output *Output) {
	if err := s.connRepo.Send(ctx, connId, output); err != nil {
		s.logger.WarnContext(ctx, "failed to send", "conn_id", connId, "type", output.Type, "error", err)
	}
}

func (s service) broadcast(ctx context.Context, roomId, exceptConnId string, output *Output) {
	if err := s.connRepo.Broadcast(ctx, roomId, exceptConnId, output); err != nil {
		s.logger.WarnContext(ctx, "failed to broadcast", "room_id", roomId, "type", output.Type, "error", err)
	}
}

// sendToHost delivers a playback control output to the room host. Nothing is
// sent when the sender is the host itself.
func (s service) sendToHost(ctx context.Context, r *domain.Room, senderId string, output *Output) {
	if r.IsHost(senderId) {
		s.logger.DebugContext(ctx, "sender is host, skipping", "room_id", r.Id, "type", output.Type)
		return
	}

	if err := s.connRepo.Send(ctx, r.HostConnId, output); err != nil {
		if errors.Is(err, connection.ErrNotFound) {
			s.logger.InfoContext(ctx, "host is gone", "room_id", r.Id, "type", output.Type)
			return
		}

		s.logger.WarnContext(ctx, "failed to send to host", "room_id", r.Id, "type", output.Type, "error", err)
	}
}

// SendError delivers an error event to a single connection.
func (s service) SendError(ctx context.Context, connId, message string) {
	s.send(ctx, connId, &Output{
		Type:    EventError,
		Payload: message,
	})
}

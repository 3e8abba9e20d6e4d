package room

import (
	"context"
	"fmt"

	"github.com/singalong/server/internal/domain"
	"github.com/singalong/server/internal/repository/connection"
)

func (s service) Connect(ctx context.Context, conn *connection.Conn) error {
	if err := s.connRepo.Add(ctx, conn); err != nil {
		return fmt.Errorf("failed to add connection: %w", err)
	}

	return nil
}

// Disconnect unregisters the connection from every room group and hands the
// rooms over to the reaper.
func (s service) Disconnect(ctx context.Context, connId string) error {
	roomIds, err := s.connRepo.Remove(ctx, connId)
	if err != nil {
		return fmt.Errorf("failed to remove connection: %w", err)
	}

	s.reaper.Reap(ctx, connId, roomIds)

	return nil
}

type CreateRoomParams struct {
	SenderId string
}

type CreateRoomResponse struct {
	RoomId string
}

func (s service) CreateRoom(ctx context.Context, params *CreateRoomParams) (CreateRoomResponse, error) {
	r, err := s.roomRepo.Create(ctx, params.SenderId)
	if err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to create room: %w", err)
	}

	if err := s.connRepo.Join(ctx, r.Id, params.SenderId); err != nil {
		return CreateRoomResponse{}, fmt.Errorf("failed to join room group: %w", err)
	}

	s.logger.InfoContext(ctx, "room created", "room_id", r.Id)
	s.send(ctx, params.SenderId, &Output{
		Type:    EventRoomCreated,
		Payload: r.Id,
	})

	return CreateRoomResponse{
		RoomId: r.Id,
	}, nil
}

type JoinRoomParams struct {
	SenderId string
	RoomId   string
}

func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		if err := s.connRepo.Join(ctx, r.Id, params.SenderId); err != nil {
			return fmt.Errorf("failed to join room group: %w", err)
		}

		s.send(ctx, params.SenderId, &Output{
			Type: EventRoomJoined,
			Payload: RoomJoined{
				RoomId:      r.Id,
				Queue:       r.Items(),
				CurrentSong: r.CurrentSong(),
			},
		})

		return nil
	})
}

type RequestSyncParams struct {
	SenderId string
	RoomId   string
}

func (s service) RequestSync(ctx context.Context, params *RequestSyncParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		s.send(ctx, params.SenderId, &Output{
			Type: EventFullSync,
			Payload: FullSync{
				Queue:       r.Items(),
				CurrentSong: r.CurrentSong(),
			},
		})

		return nil
	})
}

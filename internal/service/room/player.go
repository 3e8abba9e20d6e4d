package room

import (
	"context"

	"github.com/singalong/server/internal/domain"
)

type RelayPlayerStateParams struct {
	SenderId string
	State    PlayerState
}

// RelayPlayerState forwards the sender's player state to the rest of the room.
func (s service) RelayPlayerState(ctx context.Context, params *RelayPlayerStateParams) error {
	return s.withRoom(ctx, params.State.RoomId, func(r *domain.Room) error {
		s.broadcast(ctx, r.Id, params.SenderId, &Output{
			Type:    EventPlayerState,
			Payload: params.State,
		})

		return nil
	})
}

type SkipSongParams struct {
	SenderId string
	RoomId   string
}

func (s service) SkipSong(ctx context.Context, params *SkipSongParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		s.sendToHost(ctx, r, params.SenderId, &Output{
			Type: EventForceSkip,
		})

		return nil
	})
}

type TogglePlayParams struct {
	SenderId string
	RoomId   string
}

func (s service) TogglePlay(ctx context.Context, params *TogglePlayParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		s.sendToHost(ctx, r, params.SenderId, &Output{
			Type: EventTogglePlay,
		})

		return nil
	})
}

type SetVolumeParams struct {
	SenderId string
	RoomId   string
	Volume   float64
}

func (s service) SetVolume(ctx context.Context, params *SetVolumeParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		s.sendToHost(ctx, r, params.SenderId, &Output{
			Type:    EventSetVolume,
			Payload: params.Volume,
		})

		return nil
	})
}

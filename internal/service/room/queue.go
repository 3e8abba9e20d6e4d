package room

import (
	"context"

	"github.com/singalong/server/internal/domain"
)

func (s service) broadcastQueue(ctx context.Context, r *domain.Room) {
	s.broadcast(ctx, r.Id, "", &Output{
		Type:    EventQueueUpdated,
		Payload: r.Items(),
	})
}

func (s service) broadcastPlaySong(ctx context.Context, r *domain.Room, item *domain.Item) {
	s.broadcast(ctx, r.Id, "", &Output{
		Type:    EventPlaySong,
		Payload: item,
	})
}

type AddToQueueParams struct {
	SenderId string
	RoomId   string
	Song     domain.Item
}

func (s service) AddToQueue(ctx context.Context, params *AddToQueueParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		r.Append(params.Song)
		s.broadcastQueue(ctx, r)

		return nil
	})
}

type RequestNextParams struct {
	SenderId string
	RoomId   string
}

// RequestNext advances the queue. When the queue was empty only play-song
// with a null payload is broadcast.
func (s service) RequestNext(ctx context.Context, params *RequestNextParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		item := r.Advance()
		s.broadcastPlaySong(ctx, r, item)
		if item != nil {
			s.broadcastQueue(ctx, r)
		}

		return nil
	})
}

type ClearQueueParams struct {
	SenderId string
	RoomId   string
}

func (s service) ClearQueue(ctx context.Context, params *ClearQueueParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		r.Clear()
		s.broadcastQueue(ctx, r)

		return nil
	})
}

type RemoveFromQueueParams struct {
	SenderId string
	RoomId   string
	Index    int
}

func (s service) RemoveFromQueue(ctx context.Context, params *RemoveFromQueueParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		if !r.RemoveAt(params.Index) {
			s.logger.DebugContext(ctx, "index out of range", "room_id", r.Id, "index", params.Index)
			return nil
		}

		s.broadcastQueue(ctx, r)

		return nil
	})
}

type PlaySpecificParams struct {
	SenderId string
	RoomId   string
	Index    int
}

func (s service) PlaySpecific(ctx context.Context, params *PlaySpecificParams) error {
	return s.withRoom(ctx, params.RoomId, func(r *domain.Room) error {
		item, ok := r.PlayAt(params.Index)
		if !ok {
			s.logger.DebugContext(ctx, "index out of range", "room_id", r.Id, "index", params.Index)
			return nil
		}

		s.broadcastPlaySong(ctx, r, item)
		s.broadcastQueue(ctx, r)

		return nil
	})
}

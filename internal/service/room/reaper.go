package room

import (
	"context"
	"fmt"
	"log/slog"
)

type ReapPolicy string

const (
	// Rooms live for the whole process lifetime.
	ReapPolicyNone ReapPolicy = "none"
	// Rooms are deleted once their host disconnects.
	ReapPolicyHostLeft ReapPolicy = "host-left"
)

func ParseReapPolicy(s string) (ReapPolicy, error) {
	switch p := ReapPolicy(s); p {
	case ReapPolicyNone, ReapPolicyHostLeft:
		return p, nil
	default:
		return "", fmt.Errorf("unknown reap policy %q", s)
	}
}

// Reaper is called after a connection has left all of its room groups.
// roomIds lists the groups it was a member of.
type Reaper interface {
	Reap(ctx context.Context, connId string, roomIds []string)
}

func newReaper(policy ReapPolicy, roomRepo iRoomRepo, connRepo iConnRepo, logger *slog.Logger) Reaper {
	switch policy {
	case ReapPolicyHostLeft:
		return hostLeftReaper{
			roomRepo: roomRepo,
			connRepo: connRepo,
			logger:   logger,
		}
	default:
		return noopReaper{}
	}
}

type noopReaper struct{}

func (noopReaper) Reap(context.Context, string, []string) {}

type hostLeftReaper struct {
	roomRepo iRoomRepo
	connRepo iConnRepo
	logger   *slog.Logger
}

func (r hostLeftReaper) Reap(ctx context.Context, connId string, _ []string) {
	for _, roomId := range r.roomRepo.ListByHost(ctx, connId) {
		if err := r.roomRepo.Delete(ctx, roomId); err != nil {
			r.logger.WarnContext(ctx, "failed to delete room", "room_id", roomId, "error", err)
			continue
		}

		r.connRepo.RemoveGroup(ctx, roomId)
		r.logger.InfoContext(ctx, "room reaped", "room_id", roomId)
	}
}

package inmemory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/singalong/server/internal/repository/connection"
	"golang.org/x/exp/maps"
)

type repo struct {
	mu sync.RWMutex
	// connId -> conn
	conns map[string]*connection.Conn
	// roomId -> set of connIds
	groups map[string]map[string]struct{}
	// connId -> set of roomIds
	memberships map[string]map[string]struct{}
	logger      *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		conns:       make(map[string]*connection.Conn),
		groups:      make(map[string]map[string]struct{}),
		memberships: make(map[string]map[string]struct{}),
		logger:      logger,
	}
}

func (r *repo) Add(ctx context.Context, conn *connection.Conn) error {
	r.logger.DebugContext(ctx, "called", "conn_id", conn.Id)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[conn.Id]; ok {
		r.logger.DebugContext(ctx, "returned", "error", connection.ErrAlreadyExists)
		return connection.ErrAlreadyExists
	}

	r.conns[conn.Id] = conn
	r.memberships[conn.Id] = make(map[string]struct{})

	return nil
}

// Remove unregisters the connection and drops it from every group it joined.
// The connection itself is not closed.
func (r *repo) Remove(ctx context.Context, connId string) ([]string, error) {
	r.logger.DebugContext(ctx, "called", "conn_id", connId)
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[connId]; !ok {
		r.logger.DebugContext(ctx, "returned", "error", connection.ErrNotFound)
		return nil, connection.ErrNotFound
	}

	roomIds := maps.Keys(r.memberships[connId])
	for _, roomId := range roomIds {
		r.leave(roomId, connId)
	}

	delete(r.memberships, connId)
	delete(r.conns, connId)

	return roomIds, nil
}

func (r *repo) Get(connId string) (*connection.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[connId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

func (r *repo) Join(ctx context.Context, roomId, connId string) error {
	r.logger.DebugContext(ctx, "called", "room_id", roomId, "conn_id", connId)
	r.mu.Lock()
	defer r.mu.Unlock()

	memberships, ok := r.memberships[connId]
	if !ok {
		r.logger.DebugContext(ctx, "returned", "error", connection.ErrNotFound)
		return connection.ErrNotFound
	}

	group, ok := r.groups[roomId]
	if !ok {
		group = make(map[string]struct{})
		r.groups[roomId] = group
	}

	group[connId] = struct{}{}
	memberships[roomId] = struct{}{}

	return nil
}

func (r *repo) leave(roomId, connId string) {
	if group, ok := r.groups[roomId]; ok {
		delete(group, connId)
		if len(group) == 0 {
			delete(r.groups, roomId)
		}
	}

	if memberships, ok := r.memberships[connId]; ok {
		delete(memberships, roomId)
	}
}

func (r *repo) Leave(ctx context.Context, roomId, connId string) {
	r.logger.DebugContext(ctx, "called", "room_id", roomId, "conn_id", connId)
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leave(roomId, connId)
}

// RemoveGroup detaches every member from the room group.
func (r *repo) RemoveGroup(ctx context.Context, roomId string) {
	r.logger.DebugContext(ctx, "called", "room_id", roomId)
	r.mu.Lock()
	defer r.mu.Unlock()

	for connId := range r.groups[roomId] {
		if memberships, ok := r.memberships[connId]; ok {
			delete(memberships, roomId)
		}
	}

	delete(r.groups, roomId)
}

func (r *repo) GroupMembers(roomId string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Keys(r.groups[roomId])
}

func (r *repo) deliver(ctx context.Context, conn *connection.Conn, data []byte) error {
	err := conn.TrySend(data)
	if errors.Is(err, connection.ErrSendBufferFull) {
		r.logger.WarnContext(ctx, "dropping slow connection", "conn_id", conn.Id)
		conn.Close()
	}

	return err
}

func (r *repo) Send(ctx context.Context, connId string, msg any) error {
	conn, err := r.Get(connId)
	if err != nil {
		return err
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := r.deliver(ctx, conn, data); err != nil {
		return fmt.Errorf("failed to send to %s: %w", connId, err)
	}

	return nil
}

// Broadcast delivers msg to every member of the room group except
// exceptConnId, which may be empty. Delivery is best effort: a failing member
// does not stop the others, and the joined error is returned.
func (r *repo) Broadcast(ctx context.Context, roomId, exceptConnId string, msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	r.mu.RLock()
	conns := make([]*connection.Conn, 0, len(r.groups[roomId]))
	for connId := range r.groups[roomId] {
		if connId == exceptConnId {
			continue
		}
		conns = append(conns, r.conns[connId])
	}
	r.mu.RUnlock()

	var errs []error
	for _, conn := range conns {
		if err := r.deliver(ctx, conn, data); err != nil {
			errs = append(errs, fmt.Errorf("failed to send to %s: %w", conn.Id, err))
		}
	}

	r.logger.DebugContext(ctx, "broadcast result", "room_id", roomId, "sent_to", len(conns)-len(errs), "dropped", len(errs))

	return errors.Join(errs...)
}

package inmemory

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/singalong/server/internal/repository/connection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func newTestRepo(t *testing.T, ids ...string) (*repo, map[string]*connection.Conn) {
	t.Helper()
	r := NewRepo(slog.Default())
	conns := make(map[string]*connection.Conn, len(ids))
	for _, id := range ids {
		conn := connection.NewConn(id, nil, 4)
		require.NoError(t, r.Add(context.Background(), conn))
		conns[id] = conn
	}
	return r, conns
}

func drain(conn *connection.Conn) []message {
	var res []message
	for {
		select {
		case data := <-conn.Outbox():
			var msg message
			if err := json.Unmarshal(data, &msg); err == nil {
				res = append(res, msg)
			}
		default:
			return res
		}
	}
}

func TestAddRejectsDuplicates(t *testing.T) {
	r, _ := newTestRepo(t, "a")
	err := r.Add(context.Background(), connection.NewConn("a", nil, 1))
	assert.ErrorIs(t, err, connection.ErrAlreadyExists)
}

func TestJoinUnknownConnection(t *testing.T) {
	r, _ := newTestRepo(t)
	assert.ErrorIs(t, r.Join(context.Background(), "123456", "ghost"), connection.ErrNotFound)
}

func TestBroadcastExcludesSender(t *testing.T) {
	ctx := context.Background()
	r, conns := newTestRepo(t, "a", "b", "c", "outsider")
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, r.Join(ctx, "room", id))
	}

	require.NoError(t, r.Broadcast(ctx, "room", "a", message{Type: "player-state"}))

	assert.Empty(t, drain(conns["a"]))
	assert.Empty(t, drain(conns["outsider"]))
	for _, id := range []string{"b", "c"} {
		msgs := drain(conns[id])
		require.Len(t, msgs, 1, id)
		assert.Equal(t, "player-state", msgs[0].Type)
	}
}

func TestBroadcastWithoutExclusionReachesEveryone(t *testing.T) {
	ctx := context.Background()
	r, conns := newTestRepo(t, "a", "b")
	require.NoError(t, r.Join(ctx, "room", "a"))
	require.NoError(t, r.Join(ctx, "room", "b"))

	require.NoError(t, r.Broadcast(ctx, "room", "", message{Type: "queue-updated", Payload: []string{}}))

	assert.Len(t, drain(conns["a"]), 1)
	assert.Len(t, drain(conns["b"]), 1)
}

func TestSendTargetsSingleConnection(t *testing.T) {
	ctx := context.Background()
	r, conns := newTestRepo(t, "a", "b")

	require.NoError(t, r.Send(ctx, "b", message{Type: "force-skip"}))
	assert.Empty(t, drain(conns["a"]))
	assert.Equal(t, []message{{Type: "force-skip"}}, drain(conns["b"]))

	assert.ErrorIs(t, r.Send(ctx, "ghost", message{}), connection.ErrNotFound)
}

func TestRemoveLeavesAllGroups(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t, "a", "b")
	require.NoError(t, r.Join(ctx, "r1", "a"))
	require.NoError(t, r.Join(ctx, "r2", "a"))
	require.NoError(t, r.Join(ctx, "r1", "b"))

	roomIds, err := r.Remove(ctx, "a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, roomIds)

	assert.Equal(t, []string{"b"}, r.GroupMembers("r1"))
	assert.Empty(t, r.GroupMembers("r2"))

	_, err = r.Get("a")
	assert.ErrorIs(t, err, connection.ErrNotFound)
	_, err = r.Remove(ctx, "a")
	assert.ErrorIs(t, err, connection.ErrNotFound)
}

func TestLeaveAndRemoveGroup(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRepo(t, "a", "b")
	require.NoError(t, r.Join(ctx, "room", "a"))
	require.NoError(t, r.Join(ctx, "room", "b"))

	r.Leave(ctx, "room", "a")
	assert.Equal(t, []string{"b"}, r.GroupMembers("room"))

	r.RemoveGroup(ctx, "room")
	assert.Empty(t, r.GroupMembers("room"))

	roomIds, err := r.Remove(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, roomIds)
}

func TestSlowConnectionIsDropped(t *testing.T) {
	ctx := context.Background()
	r := NewRepo(slog.Default())
	conn := connection.NewConn("slow", nil, 1)
	require.NoError(t, r.Add(ctx, conn))
	require.NoError(t, r.Join(ctx, "room", "slow"))

	require.NoError(t, r.Broadcast(ctx, "room", "", message{Type: "one"}))
	err := r.Broadcast(ctx, "room", "", message{Type: "two"})
	assert.ErrorIs(t, err, connection.ErrSendBufferFull)

	select {
	case <-conn.Done():
	default:
		t.Fatal("slow connection was not closed")
	}

	assert.ErrorIs(t, conn.TrySend([]byte("x")), connection.ErrClosed)
}

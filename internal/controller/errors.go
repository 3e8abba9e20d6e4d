package controller

import (
	"context"
	"errors"

	"github.com/gorilla/websocket"
	"github.com/singalong/server/internal/service/room"
	"github.com/singalong/server/pkg/wsrouter"
)

var ErrValidationError = errors.New("validation error")

const roomNotFoundMessage = "Room not found"

func isProtocolError(err error) bool {
	var decodeErr *wsrouter.DecodeError
	return errors.As(err, &decodeErr) ||
		errors.Is(err, wsrouter.ErrUnknownMessageType) ||
		errors.Is(err, ErrValidationError)
}

// handleWSError reports a failed message to its sender. The connection is
// kept open.
func (c controller) handleWSError(ctx context.Context, _ *websocket.Conn, err error) {
	connId := c.getConnIdFromCtx(ctx)

	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		c.logger.InfoContext(ctx, "room not found", "error", err)
		c.roomService.SendError(ctx, connId, roomNotFoundMessage)
	case isProtocolError(err):
		c.logger.InfoContext(ctx, "protocol error", "error", err)
		c.roomService.SendError(ctx, connId, "protocol error: "+err.Error())
	default:
		c.logger.ErrorContext(ctx, "failed to handle message", "error", err)
		c.roomService.SendError(ctx, connId, "internal error")
	}
}

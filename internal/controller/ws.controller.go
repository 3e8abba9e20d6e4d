package controller

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/singalong/server/internal/repository/connection"
	"github.com/singalong/server/pkg/ctxlogger"
)

func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	connId := uuid.NewString()
	ctx := context.WithValue(r.Context(), connIdCtxKey, connId)
	ctx = ctxlogger.AppendCtx(ctx, slog.String("conn_id", connId))

	conn := connection.NewConn(connId, ws, c.cfg.WSSendBuffer)
	if err := c.roomService.Connect(ctx, conn); err != nil {
		c.logger.WarnContext(ctx, "failed to connect", "error", err)
		conn.Close()
		return
	}
	c.logger.InfoContext(ctx, "connected")

	defer func() {
		conn.Close()
		if err := c.roomService.Disconnect(ctx, connId); err != nil {
			c.logger.WarnContext(ctx, "failed to disconnect", "error", err)
			return
		}
		c.logger.InfoContext(ctx, "disconnected")
	}()

	ws.SetReadLimit(c.cfg.WSReadLimit)
	pongWait := c.cfg.WSPingPeriod * 10 / 9
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	go func() {
		if err := conn.WritePump(c.cfg.WSPingPeriod); err != nil {
			c.logger.DebugContext(ctx, "write pump stopped", "error", err)
		}
	}()

	if err := c.wsmux.ServeConn(ctx, ws); err != nil {
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
			return
		}
		c.logger.InfoContext(ctx, "connection closed", "error", err)
	}
}

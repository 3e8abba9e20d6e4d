package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/singalong/server/internal/domain"
	"github.com/singalong/server/internal/repository/connection"
	"github.com/singalong/server/internal/service/lookup"
	"github.com/singalong/server/internal/service/room"
	"github.com/singalong/server/pkg/validator"
	"github.com/singalong/server/pkg/wsrouter"
)

type iRoomService interface {
	Connect(context.Context, *connection.Conn) error
	Disconnect(ctx context.Context, connId string) error
	SendError(ctx context.Context, connId, message string)
	CreateRoom(context.Context, *room.CreateRoomParams) (room.CreateRoomResponse, error)
	JoinRoom(context.Context, *room.JoinRoomParams) error
	RequestSync(context.Context, *room.RequestSyncParams) error
	AddToQueue(context.Context, *room.AddToQueueParams) error
	RelayPlayerState(context.Context, *room.RelayPlayerStateParams) error
	RequestNext(context.Context, *room.RequestNextParams) error
	SkipSong(context.Context, *room.SkipSongParams) error
	ClearQueue(context.Context, *room.ClearQueueParams) error
	RemoveFromQueue(context.Context, *room.RemoveFromQueueParams) error
	PlaySpecific(context.Context, *room.PlaySpecificParams) error
	TogglePlay(context.Context, *room.TogglePlayParams) error
	SetVolume(context.Context, *room.SetVolumeParams) error
}

type iLookupService interface {
	Search(context.Context, *lookup.SearchParams) ([]domain.Item, error)
}

type Config struct {
	WSReadLimit  int64
	WSPingPeriod time.Duration
	WSSendBuffer int
}

type controller struct {
	roomService   iRoomService
	lookupService iLookupService
	upgrader      websocket.Upgrader
	wsmux         *wsrouter.WSRouter
	validate      *validator.Validator
	cfg           Config
	logger        *slog.Logger
}

func NewController(roomService iRoomService, lookupService iLookupService, cfg *Config, logger *slog.Logger) *controller {
	c := &controller{
		roomService:   roomService,
		lookupService: lookupService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		cfg:      *cfg,
		logger:   logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}

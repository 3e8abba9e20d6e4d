package controller

import (
	"github.com/singalong/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdWSMw(), c.loggerWSMw())
	mux.SetErrorHandler(c.handleWSError)

	wsrouter.Handle(mux, "alive", c.handleAlive)

	// room
	wsrouter.Handle(mux, "create-room", c.handleCreateRoom)
	wsrouter.Handle(mux, "join-room", c.handleJoinRoom)
	wsrouter.Handle(mux, "request-sync", c.handleRequestSync)

	// queue
	wsrouter.Handle(mux, "add-to-queue", c.handleAddToQueue)
	wsrouter.Handle(mux, "request-next", c.handleRequestNext)
	wsrouter.Handle(mux, "clear-queue", c.handleClearQueue)
	wsrouter.Handle(mux, "remove-from-queue", c.handleRemoveFromQueue)
	wsrouter.Handle(mux, "play-specific", c.handlePlaySpecific)

	// player
	wsrouter.Handle(mux, "player-state", c.handlePlayerState)
	wsrouter.Handle(mux, "skip-song", c.handleSkipSong)
	wsrouter.Handle(mux, "toggle-play", c.handleTogglePlay)
	wsrouter.Handle(mux, "set-volume", c.handleSetVolume)

	return mux
}

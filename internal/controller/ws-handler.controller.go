package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/singalong/server/internal/domain"
	"github.com/singalong/server/internal/service/room"
	"github.com/singalong/server/pkg/validator"
)

// EmptyStruct accepts any payload.
type EmptyStruct struct{}

func (es *EmptyStruct) UnmarshalJSON([]byte) error {
	return nil
}

func (c controller) validateInput(input any) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %s", ErrValidationError, validator.Summary(validationErrors))
	}

	return nil
}

func validateRoomId(roomId string) error {
	if roomId == "" {
		return fmt.Errorf("%w: roomId is required", ErrValidationError)
	}

	return nil
}

func (c controller) handleAlive(_ context.Context, _ *websocket.Conn, _ EmptyStruct) error {
	return nil
}

func (c controller) handleCreateRoom(ctx context.Context, _ *websocket.Conn, _ EmptyStruct) error {
	if _, err := c.roomService.CreateRoom(ctx, &room.CreateRoomParams{
		SenderId: c.getConnIdFromCtx(ctx),
	}); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

func (c controller) handleJoinRoom(ctx context.Context, _ *websocket.Conn, roomId string) error {
	if err := validateRoomId(roomId); err != nil {
		return err
	}

	if err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   roomId,
	}); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	return nil
}

func (c controller) handleRequestSync(ctx context.Context, _ *websocket.Conn, roomId string) error {
	if err := validateRoomId(roomId); err != nil {
		return err
	}

	if err := c.roomService.RequestSync(ctx, &room.RequestSyncParams{
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   roomId,
	}); err != nil {
		return fmt.Errorf("failed to sync room: %w", err)
	}

	return nil
}

type AddToQueueInput struct {
	RoomId string      `json:"roomId" validate:"required"`
	Song   domain.Item `json:"song" validate:"required"`
}

func (c controller) handleAddToQueue(ctx context.Context, _ *websocket.Conn, input AddToQueueInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.roomService.AddToQueue(ctx, &room.AddToQueueParams{
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   input.RoomId,
		Song:     input.Song,
	}); err != nil {
		return fmt.Errorf("failed to add to queue: %w", err)
	}

	return nil
}

func (c controller) handleRequestNext(ctx context.Context, _ *websocket.Conn, roomId string) error {
	if err := validateRoomId(roomId); err != nil {
		return err
	}

	if err := c.roomService.RequestNext(ctx, &room.RequestNextParams{
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   roomId,
	}); err != nil {
		return fmt.Errorf("failed to advance queue: %w", err)
	}

	return nil
}

func (c controller) handleClearQueue(ctx context.Context, _ *websocket.Conn, roomId string) error {
	if err := validateRoomId(roomId); err != nil {
		return err
	}

	if err := c.roomService.ClearQueue(ctx, &room.ClearQueueParams{
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   roomId,
	}); err != nil {
		return fmt.Errorf("failed to clear queue: %w", err)
	}

	return nil
}

type QueueIndexInput struct {
	RoomId string `json:"roomId" validate:"required"`
	Index  *int   `json:"index" validate:"required"`
}

func (c controller) handleRemoveFromQueue(ctx context.Context, _ *websocket.Conn, input QueueIndexInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.roomService.RemoveFromQueue(ctx, &room.RemoveFromQueueParams{
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   input.RoomId,
		Index:    *input.Index,
	}); err != nil {
		return fmt.Errorf("failed to remove from queue: %w", err)
	}

	return nil
}

func (c controller) handlePlaySpecific(ctx context.Context, _ *websocket.Conn, input QueueIndexInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.roomService.PlaySpecific(ctx, &room.PlaySpecificParams{
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   input.RoomId,
		Index:    *input.Index,
	}); err != nil {
		return fmt.Errorf("failed to play specific: %w", err)
	}

	return nil
}

type PlayerStateInput struct {
	RoomId      string  `json:"roomId" validate:"required"`
	IsPlaying   bool    `json:"isPlaying"`
	Volume      float64 `json:"volume"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
}

func (c controller) handlePlayerState(ctx context.Context, _ *websocket.Conn, input PlayerStateInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.roomService.RelayPlayerState(ctx, &room.RelayPlayerStateParams{
		SenderId: c.getConnIdFromCtx(ctx),
		State: room.PlayerState{
			RoomId:      input.RoomId,
			IsPlaying:   input.IsPlaying,
			Volume:      input.Volume,
			CurrentTime: input.CurrentTime,
			Duration:    input.Duration,
		},
	}); err != nil {
		return fmt.Errorf("failed to relay player state: %w", err)
	}

	return nil
}

func (c controller) handleSkipSong(ctx context.Context, _ *websocket.Conn, roomId string) error {
	if err := validateRoomId(roomId); err != nil {
		return err
	}

	if err := c.roomService.SkipSong(ctx, &room.SkipSongParams{
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   roomId,
	}); err != nil {
		return fmt.Errorf("failed to skip song: %w", err)
	}

	return nil
}

func (c controller) handleTogglePlay(ctx context.Context, _ *websocket.Conn, roomId string) error {
	if err := validateRoomId(roomId); err != nil {
		return err
	}

	if err := c.roomService.TogglePlay(ctx, &room.TogglePlayParams{
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   roomId,
	}); err != nil {
		return fmt.Errorf("failed to toggle play: %w", err)
	}

	return nil
}

type SetVolumeInput struct {
	RoomId string   `json:"roomId" validate:"required"`
	Volume *float64 `json:"volume" validate:"required"`
}

func (c controller) handleSetVolume(ctx context.Context, _ *websocket.Conn, input SetVolumeInput) error {
	if err := c.validateInput(input); err != nil {
		return err
	}

	if err := c.roomService.SetVolume(ctx, &room.SetVolumeParams{
		SenderId: c.getConnIdFromCtx(ctx),
		RoomId:   input.RoomId,
		Volume:   *input.Volume,
	}); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}

	return nil
}

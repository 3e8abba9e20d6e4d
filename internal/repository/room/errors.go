package room

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomIdExhausted = errors.New("no free room id")
)

package domain

import "sync"

// Room is a collaborative session. The embedded mutex serializes every
// operation on the room's queue; rooms never share a lock.
type Room struct {
	sync.Mutex
	Queue

	Id         string
	HostConnId string
}

func NewRoom(id, hostConnId string) *Room {
	return &Room{
		Id:         id,
		HostConnId: hostConnId,
	}
}

func (r *Room) IsHost(connId string) bool {
	return r.HostConnId == connId
}

package room

import "github.com/singalong/server/internal/domain"

const (
	EventRoomCreated  = "room-created"
	EventRoomJoined   = "room-joined"
	EventFullSync     = "full-sync"
	EventQueueUpdated = "queue-updated"
	EventPlayerState  = "player-state"
	EventPlaySong     = "play-song"
	EventForceSkip    = "force-skip"
	EventTogglePlay   = "toggle-play"
	EventSetVolume    = "set-volume"
	EventError        = "error"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type RoomJoined struct {
	RoomId      string        `json:"roomId"`
	Queue       []domain.Item `json:"queue"`
	CurrentSong *domain.Item  `json:"currentSong"`
}

type FullSync struct {
	Queue       []domain.Item `json:"queue"`
	CurrentSong *domain.Item  `json:"currentSong"`
}

type PlayerState struct {
	RoomId      string  `json:"roomId"`
	IsPlaying   bool    `json:"isPlaying"`
	Volume      float64 `json:"volume"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
}

package domain

// Item is a playable media resource as it appears in a room queue.
// Items are values; queues copy them in and out.
type Item struct {
	ExternalId   string `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	Duration     string `json:"duration"`
	ThumbnailRef string `json:"thumbnail"`
}

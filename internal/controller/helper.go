package controller

import "github.com/google/uuid"

// generateTimeBasedId returns a UUIDv7, so ids sort by creation time.
func (c controller) generateTimeBasedId() string {
	return uuid.Must(uuid.NewV7()).String()
}

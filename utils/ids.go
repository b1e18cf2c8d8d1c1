package utils

import "github.com/google/uuid"

// NewID returns a fresh entity id.
func NewID() string {
	return uuid.NewString()
}

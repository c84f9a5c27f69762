package utils

import "github.com/segmentio/ksuid"

// NewID returns a sortable, globally unique string id.
func NewID() string {
	return ksuid.New().String()
}

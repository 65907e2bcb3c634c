package idgen

import "github.com/google/uuid"

// Generator creates random event identifiers.
type Generator struct{}

// NewID returns a UUIDv4 string.
func (Generator) NewID() string {
	return uuid.NewString()
}

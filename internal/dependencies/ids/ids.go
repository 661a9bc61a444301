package ids

import "github.com/google/uuid"

// Generator produces identifiers for new entities and tokens
type Generator interface {
	NewID() string
}

// UUIDGenerator generates random (v4) UUIDs
type UUIDGenerator struct{}

// New creates a new UUIDGenerator
func New() *UUIDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new random UUID string
func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}


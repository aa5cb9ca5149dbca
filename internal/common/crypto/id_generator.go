package crypto

import "github.com/google/uuid"

// IDGenerator produces opaque unique identifiers. Session tokens and
// user ids both come from here, so tests can substitute deterministic
// sequences.
type IDGenerator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

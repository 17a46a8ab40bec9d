package id

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator creates row identifiers. Stores keep them in uuid columns.
type Generator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	value, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}

	return value.String(), nil
}

// IsUUID reports whether value parses as a canonical uuid.
func IsUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

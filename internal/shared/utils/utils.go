package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// ParseStringToUUID parses a path or query parameter into a UUID.
func ParseStringToUUID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid UUID %q: %w", value, err)
	}
	return id, nil
}

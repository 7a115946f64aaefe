package database

import (
	"fmt"

	"github.com/google/uuid"
)

func generateID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// parseID checks that id has the canonical UUID form produced by generateID.
func parseID(id string) (string, error) {
	parsed, err := uuid.Parse(id)
	if err != nil || len(id) != 36 {
		return "", fmt.Errorf("%w: %q is not a valid UUID", ErrInvalidID, id)
	}
	return parsed.String(), nil
}

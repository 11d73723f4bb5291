package reference

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// alphabet drops 0/O and 1/I so codes survive being read aloud.
	alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	length   = 8
	prefix   = "BK-"
)

// New returns a booking reference such as "BK-7QK2M9XA".
func New() (string, error) {
	id, err := gonanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}

	return prefix + id, nil
}

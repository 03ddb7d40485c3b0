package pkg

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const roomIDSpace = 100_000_000

// GenerateRoomID returns an 8-digit shareable room code.
func GenerateRoomID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(roomIDSpace))
	if err != nil {
		return "", fmt.Errorf("failed to read random room id: %w", err)
	}

	return fmt.Sprintf("%08d", n.Int64()), nil
}

// GenerateParticipantID returns a new opaque participant identity.
func GenerateParticipantID() string {
	return uuid.NewString()
}

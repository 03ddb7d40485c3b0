package pkg

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoomID(t *testing.T) {
	for range 100 {
		id, err := GenerateRoomID()

		require.NoError(t, err)
		assert.Len(t, id, 8)
		assert.Regexp(t, `^[0-9]{8}$`, id)
	}
}

func TestGenerateParticipantID(t *testing.T) {
	first := GenerateParticipantID()
	second := GenerateParticipantID()

	_, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

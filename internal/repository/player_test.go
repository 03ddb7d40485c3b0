package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/testing/suite"
)

func TestPlayerRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	playerRepo := NewPlayerRepository(st.Storage)

	// Given: a player with ID
	player := &entity.Player{
		ID:   "123",
		Name: "Alice",
	}

	// When: CreateOrUpdate is called
	err := playerRepo.CreateOrUpdate(ctx, player)

	// Then: no error should be returned, and player is stored
	require.NoError(t, err)
}

func TestPlayerRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a player bound to a room
		player := &entity.Player{
			ID:     "123",
			Name:   "Alice",
			RoomID: "00000042",
		}

		err := playerRepo.CreateOrUpdate(ctx, player)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, player.ID)

		// Then: the retrieved player should match the saved player
		require.NoError(t, err)
		require.Equal(t, player, retrievedPlayer)
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		nonExistentPlayerID := "9999999"

		// When: GetByID is called with non-existent ID
		retrievedPlayer, err := playerRepo.GetByID(ctx, nonExistentPlayerID)

		// Then: an ErrPlayerNotFound error should be returned
		require.Error(t, err)
		assert.Equal(t, ErrPlayerNotFound, err)
		assert.Nil(t, retrievedPlayer)
	})
}

func TestPlayerRepository_ClearRoom(t *testing.T) {
	t.Run("ClearRoom_Bound", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a player bound to a room
		player := &entity.Player{ID: "123", Name: "Alice", RoomID: "00000042"}
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, player))

		// When: the room binding is cleared
		err := playerRepo.ClearRoom(ctx, player.ID, "00000042")

		// Then: the player is no longer in a room
		require.NoError(t, err)

		retrievedPlayer, err := playerRepo.GetByID(ctx, player.ID)
		require.NoError(t, err)
		assert.False(t, retrievedPlayer.InRoom())
		assert.Equal(t, "Alice", retrievedPlayer.Name)
	})

	t.Run("ClearRoom_BoundElsewhere", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a player that already moved on to another room
		player := &entity.Player{ID: "123", RoomID: "00000043"}
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, player))

		// When: the old room is cleared
		err := playerRepo.ClearRoom(ctx, player.ID, "00000042")

		// Then: the new binding survives
		require.NoError(t, err)

		retrievedPlayer, err := playerRepo.GetByID(ctx, player.ID)
		require.NoError(t, err)
		assert.Equal(t, "00000043", retrievedPlayer.RoomID)
	})

	t.Run("ClearRoom_UnknownPlayer", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		err := playerRepo.ClearRoom(ctx, "missing", "00000042")

		require.NoError(t, err)
	})
}

func TestPlayerRepository_TTL(t *testing.T) {
	t.Run("TTL_SetOnWrite", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a freshly written player
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, &entity.Player{ID: "123"}))

		// When: the key expiry is inspected
		ttl, err := st.Storage.TTL(ctx, playerKey("123")).Result()

		// Then: the record expires
		require.NoError(t, err)
		assert.Positive(t, ttl)
		assert.LessOrEqual(t, ttl, PlayerTTL)
	})

	t.Run("TTL_RefreshedOnRead", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		// Given: a player close to expiring
		require.NoError(t, playerRepo.CreateOrUpdate(ctx, &entity.Player{ID: "123"}))
		require.NoError(t, st.Storage.Expire(ctx, playerKey("123"), time.Minute).Err())

		// When: the player is read
		_, err := playerRepo.GetByID(ctx, "123")
		require.NoError(t, err)

		// Then: the expiry is pushed back
		ttl, err := st.Storage.TTL(ctx, playerKey("123")).Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Hour)
	})

	t.Run("TTL_KeptOnClearRoom", func(t *testing.T) {
		ctx, st := suite.New(t)

		playerRepo := NewPlayerRepository(st.Storage)

		require.NoError(t, playerRepo.CreateOrUpdate(ctx, &entity.Player{ID: "123", RoomID: "00000042"}))
		require.NoError(t, playerRepo.ClearRoom(ctx, "123", "00000042"))

		ttl, err := st.Storage.TTL(ctx, playerKey("123")).Result()
		require.NoError(t, err)
		assert.Positive(t, ttl)
	})
}

func TestPlayerRepository_ProtectedStorage(t *testing.T) {
	// Given: a redis that requires a password, used on a non-default database
	ctx, st := suite.NewWithOptions(t, suite.Options{Password: "secret", DB: 2})

	playerRepo := NewPlayerRepository(st.Storage)

	// When: a player is written and read back
	require.NoError(t, playerRepo.CreateOrUpdate(ctx, &entity.Player{ID: "123", Name: "Alice"}))
	retrievedPlayer, err := playerRepo.GetByID(ctx, "123")

	// Then: the repository works through the authenticated connection
	require.NoError(t, err)
	assert.Equal(t, "Alice", retrievedPlayer.Name)
}

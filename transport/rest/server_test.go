package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/room"
)

type mockGame struct {
	mock.Mock
}

func (that *mockGame) ListRooms() []room.Summary {
	args := that.Called()
	return args.Get(0).([]room.Summary)
}

func (that *mockGame) GetResult(ctx context.Context, roomID string) (*entity.GameResult, error) {
	args := that.Called(ctx, roomID)
	result, _ := args.Get(0).(*entity.GameResult)
	return result, args.Error(1)
}

func (that *mockGame) RecentResults(ctx context.Context, limit int) ([]*entity.GameResult, error) {
	args := that.Called(ctx, limit)
	results, _ := args.Get(0).([]*entity.GameResult)
	return results, args.Error(1)
}

type stubStorage struct {
	err error
}

func (that stubStorage) Ping(context.Context) error {
	return that.err
}

func newTestServer(t *testing.T, storageErr error) (*httptest.Server, *mockGame) {
	t.Helper()

	game := &mockGame{}
	game.Test(t)
	t.Cleanup(func() { game.AssertExpectations(t) })

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	srv := httptest.NewServer(New(logger, game, stubStorage{err: storageErr}).Handler())
	t.Cleanup(srv.Close)

	return srv, game
}

func get(t *testing.T, url string) (int, []byte) {
	t.Helper()

	resp, err := http.Get(url) //nolint:noctx // test helper
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, body
}

func TestServer_Ping(t *testing.T) {
	t.Run("Ping_Pong", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)

		status, body := get(t, srv.URL+"/ping")

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "pong", string(body))
	})

	t.Run("Ping_StorageDown", func(t *testing.T) {
		srv, _ := newTestServer(t, errors.New("connection refused"))

		status, _ := get(t, srv.URL+"/ping")

		assert.Equal(t, http.StatusServiceUnavailable, status)
	})
}

func TestServer_Rooms(t *testing.T) {
	// Given: one open lobby
	srv, game := newTestServer(t, nil)
	createdAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	game.On("ListRooms").Return([]room.Summary{
		{RoomID: "00000001", SeatCount: 2, Phase: entity.PhaseLobby, CreatedAt: createdAt},
	})

	// When: the rooms are listed
	status, body := get(t, srv.URL+"/rooms")

	// Then: the summary is returned
	require.Equal(t, http.StatusOK, status)

	var response roomsResponse
	require.NoError(t, json.Unmarshal(body, &response))
	require.Len(t, response.Rooms, 1)
	assert.Equal(t, "00000001", response.Rooms[0].RoomID)
	assert.Equal(t, 2, response.Rooms[0].SeatCount)
	assert.True(t, createdAt.Equal(response.Rooms[0].CreatedAt))
}

func TestServer_Results(t *testing.T) {
	result := &entity.GameResult{
		RoomID:      "00000042",
		WinnerID:    "a",
		WinnerColor: entity.ColorRed,
		FinishedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	t.Run("GetResult_Success", func(t *testing.T) {
		srv, game := newTestServer(t, nil)
		game.On("GetResult", mock.Anything, "00000042").Return(result, nil)

		status, body := get(t, srv.URL+"/results/00000042")

		require.Equal(t, http.StatusOK, status)

		var retrieved entity.GameResult
		require.NoError(t, json.Unmarshal(body, &retrieved))
		assert.Equal(t, "a", retrieved.WinnerID)
		assert.Equal(t, entity.ColorRed, retrieved.WinnerColor)
	})

	t.Run("GetResult_NotFound", func(t *testing.T) {
		srv, game := newTestServer(t, nil)
		game.On("GetResult", mock.Anything, "99999999").Return(nil, apperror.ErrResultNotFound)

		status, body := get(t, srv.URL+"/results/99999999")

		require.Equal(t, http.StatusNotFound, status)

		var response errorResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "RESULT_NOT_FOUND", response.Code)
	})

	t.Run("GetResult_InternalError", func(t *testing.T) {
		srv, game := newTestServer(t, nil)
		game.On("GetResult", mock.Anything, "00000042").Return(nil, errors.New("redis is down"))

		status, body := get(t, srv.URL+"/results/00000042")

		require.Equal(t, http.StatusInternalServerError, status)

		var response errorResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, apperror.CodeInternal, response.Code)
		assert.NotContains(t, response.Message, "redis")
	})

	t.Run("RecentResults_DefaultLimit", func(t *testing.T) {
		srv, game := newTestServer(t, nil)
		game.On("RecentResults", mock.Anything, defaultResultsLimit).Return([]*entity.GameResult{result}, nil)

		status, body := get(t, srv.URL+"/results")

		require.Equal(t, http.StatusOK, status)

		var response resultsResponse
		require.NoError(t, json.Unmarshal(body, &response))
		require.Len(t, response.Results, 1)
		assert.Equal(t, "00000042", response.Results[0].RoomID)
	})

	t.Run("RecentResults_LimitIsCapped", func(t *testing.T) {
		srv, game := newTestServer(t, nil)
		game.On("RecentResults", mock.Anything, maxResultsLimit).Return([]*entity.GameResult{}, nil)

		status, _ := get(t, srv.URL+"/results?limit=5000")

		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("RecentResults_InvalidLimit", func(t *testing.T) {
		srv, _ := newTestServer(t, nil)

		status, body := get(t, srv.URL+"/results?limit=zero")

		require.Equal(t, http.StatusBadRequest, status)

		var response errorResponse
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "INVALID_REQUEST", response.Code)
	})
}

package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/room"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type roomsResponse struct {
	Rooms []room.Summary `json:"rooms"`
}

type resultsResponse struct {
	Results []*entity.GameResult `json:"results"`
}

func (that *Server) listRoomsHandler(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, roomsResponse{Rooms: that.uGame.ListRooms()})
}

func (that *Server) getResultHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	result, err := that.uGame.GetResult(r.Context(), roomID)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, result)
}

func (that *Server) recentResultsHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultResultsLimit

	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			that.writeError(w, apperror.ErrInvalidRequest)
			return
		}

		limit = min(parsed, maxResultsLimit)
	}

	results, err := that.uGame.RecentResults(r.Context(), limit)
	if err != nil {
		that.writeError(w, err)
		return
	}

	that.writeJSON(w, http.StatusOK, resultsResponse{Results: results})
}

func (that *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, apperror.ErrResultNotFound), errors.Is(err, apperror.ErrRoomNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidRequest):
		status = http.StatusBadRequest
	default:
		that.logger.Error("failed to handle request", "error", err)
	}

	that.writeJSON(w, status, errorResponse{
		Code:    apperror.CodeOf(err),
		Message: apperror.MessageOf(err),
	})
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}

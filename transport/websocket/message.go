package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/room"
)

const (
	actionConnect = "connect"
	actionCreate  = "room:create"
	actionJoin    = "room:join"
	actionStart   = "room:start"
	actionRoll    = "room:roll"
	actionMove    = "room:move"
	actionLeave   = "room:leave"
	actionList    = "room:list"
)

// Message is the envelope of every frame in both directions. Server events use the event type as action.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   *ErrorBody      `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newErrorBody(err error) *ErrorBody {
	return &ErrorBody{
		Code:    apperror.CodeOf(err),
		Message: apperror.MessageOf(err),
	}
}

type ConnectRequest struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

type JoinRequest struct {
	RoomID string `json:"room_id"`
}

type MoveRequest struct {
	TokenID string `json:"token_id"`
}

type ConnectResponse struct {
	Player *entity.Player `json:"player"`
	Room   *entity.Room   `json:"room,omitempty"`
}

type RoomResponse struct {
	Room *entity.Room `json:"room"`
}

type ListResponse struct {
	Rooms []room.Summary `json:"rooms"`
}

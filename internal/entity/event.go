package entity

import "time"

type EventType string

const (
	EventRoomUpdated     EventType = "room_updated"
	EventGameStarted     EventType = "game_started"
	EventTurnOrderResult EventType = "turn_order_result"
	EventDiceRolled      EventType = "dice_rolled"
	EventTokenMoved      EventType = "token_moved"
	EventGameFinished    EventType = "game_finished"
	EventRoomClosed      EventType = "room_closed"
)

const (
	CloseReasonEmpty     = "empty"
	CloseReasonAbandoned = "abandoned"
	CloseReasonFinished  = "finished"
	CloseReasonShutdown  = "shutdown"
)

// Event is an outbound broadcast to every seat of a room.
type Event struct {
	Type   EventType `json:"type"`
	RoomID string    `json:"room_id"`

	Room           *Room            `json:"room,omitempty"`
	Die            int              `json:"die,omitempty"`
	RollerColor    Color            `json:"roller_color,omitempty"`
	MovableTokens  []string         `json:"movable_tokens,omitempty"`
	Tokens         []Token          `json:"tokens,omitempty"`
	MovedTokenID   string           `json:"moved_token_id,omitempty"`
	CapturedColors []Color          `json:"captured_colors,omitempty"`
	TurnOrder      []string         `json:"turn_order,omitempty"`
	Rounds         []TurnOrderRound `json:"rounds,omitempty"`
	WinnerColor    Color            `json:"winner_color,omitempty"`
	WinnerID       string           `json:"winner_id,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	Result         *GameResult      `json:"result,omitempty"`
}

// SeatResult is the per-seat outcome handed to result storage.
type SeatResult struct {
	ParticipantID  string `json:"participant_id"`
	Color          Color  `json:"color"`
	DisplayName    string `json:"display_name"`
	FinishedTokens int    `json:"finished_tokens"`
	Place          int    `json:"place"`
}

type GameResult struct {
	RoomID      string       `json:"room_id"`
	WinnerID    string       `json:"winner_id"`
	WinnerColor Color        `json:"winner_color"`
	Seats       []SeatResult `json:"seats"`
	FinishedAt  time.Time    `json:"finished_at"`
}

package entity

import (
	"slices"
	"time"
)

type Color string

const (
	ColorRed    Color = "red"
	ColorGreen  Color = "green"
	ColorYellow Color = "yellow"
	ColorBlue   Color = "blue"
)

// Palette is the seating order of colors.
var Palette = []Color{ColorRed, ColorGreen, ColorYellow, ColorBlue}

type Phase string

const (
	PhaseLobby     Phase = "LOBBY"
	PhaseTurnOrder Phase = "TURN_ORDER"
	PhasePlaying   Phase = "PLAYING"
	PhaseFinished  Phase = "FINISHED"
)

type ConnectionState string

const (
	Connected    ConnectionState = "CONNECTED"
	Disconnected ConnectionState = "DISCONNECTED"
)

const MaxSeats = 4

type Token struct {
	ID       string `json:"id"`
	Color    Color  `json:"color"`
	Position int    `json:"position"`
}

type Seat struct {
	ParticipantID   string          `json:"participant_id"`
	Color           Color           `json:"color"`
	DisplayName     string          `json:"display_name"`
	ConnectionState ConnectionState `json:"connection_state"`
}

func (that *Seat) IsConnected() bool {
	return that.ConnectionState == Connected
}

// Capture records the tokens sent back to base by the last move.
type Capture struct {
	ByColor  Color    `json:"by_color"`
	TokenIDs []string `json:"token_ids"`
	Colors   []Color  `json:"colors"`
}

type TurnOrderRoll struct {
	ParticipantID string `json:"participant_id"`
	Color         Color  `json:"color"`
	Value         int    `json:"value"`
}

// TurnOrderRound is one pass of the pre-game roll-off; later rounds only contain tied seats.
type TurnOrderRound struct {
	Rolls []TurnOrderRoll `json:"rolls"`
}

type Room struct {
	ID              string           `json:"id"`
	HostID          string           `json:"host_id"`
	Seats           []*Seat          `json:"seats"`
	Tokens          []Token          `json:"tokens"`
	Phase           Phase            `json:"phase"`
	TurnOrder       []string         `json:"turn_order,omitempty"`
	CurrentTurn     int              `json:"current_turn"`
	TurnNumber      int              `json:"turn_number"`
	PendingDie      int              `json:"pending_die,omitempty"`
	LastDie         int              `json:"last_die,omitempty"`
	LastCapture     *Capture         `json:"last_capture,omitempty"`
	WinnerID        string           `json:"winner_id,omitempty"`
	TurnOrderRounds []TurnOrderRound `json:"turn_order_rounds,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}

func NewRoom(id string, createdAt time.Time) *Room {
	return &Room{
		ID:        id,
		Seats:     []*Seat{},
		Tokens:    []Token{},
		Phase:     PhaseLobby,
		CreatedAt: createdAt,
	}
}

func (that *Room) IsLobby() bool {
	return that.Phase == PhaseLobby
}

func (that *Room) IsPlaying() bool {
	return that.Phase == PhasePlaying
}

func (that *Room) IsFinished() bool {
	return that.Phase == PhaseFinished
}

func (that *Room) SeatOf(participantID string) *Seat {
	for _, seat := range that.Seats {
		if seat.ParticipantID == participantID {
			return seat
		}
	}

	return nil
}

func (that *Room) SeatByColor(color Color) *Seat {
	for _, seat := range that.Seats {
		if seat.Color == color {
			return seat
		}
	}

	return nil
}

// CurrentParticipant returns the participant on turn, or "" outside play.
func (that *Room) CurrentParticipant() string {
	if len(that.TurnOrder) == 0 {
		return ""
	}

	return that.TurnOrder[that.CurrentTurn]
}

func (that *Room) ConnectedSeats() int {
	count := 0
	for _, seat := range that.Seats {
		if seat.IsConnected() {
			count++
		}
	}

	return count
}

func (that *Room) ParticipantIDs() []string {
	ids := make([]string, 0, len(that.Seats))
	for _, seat := range that.Seats {
		ids = append(ids, seat.ParticipantID)
	}

	return ids
}

// NextFreeColor returns the first palette color not yet taken.
func (that *Room) NextFreeColor() (Color, bool) {
	for _, color := range Palette {
		if that.SeatByColor(color) == nil {
			return color, true
		}
	}

	return "", false
}

// Snapshot returns a deep copy safe to hand to other goroutines.
func (that *Room) Snapshot() *Room {
	snapshot := *that

	snapshot.Seats = make([]*Seat, 0, len(that.Seats))
	for _, seat := range that.Seats {
		seatCopy := *seat
		snapshot.Seats = append(snapshot.Seats, &seatCopy)
	}

	snapshot.Tokens = slices.Clone(that.Tokens)
	snapshot.TurnOrder = slices.Clone(that.TurnOrder)

	if that.LastCapture != nil {
		capture := *that.LastCapture
		capture.TokenIDs = slices.Clone(capture.TokenIDs)
		capture.Colors = slices.Clone(capture.Colors)
		snapshot.LastCapture = &capture
	}

	if that.TurnOrderRounds != nil {
		snapshot.TurnOrderRounds = make([]TurnOrderRound, 0, len(that.TurnOrderRounds))
		for _, round := range that.TurnOrderRounds {
			snapshot.TurnOrderRounds = append(snapshot.TurnOrderRounds, TurnOrderRound{Rolls: slices.Clone(round.Rolls)})
		}
	}

	return &snapshot
}

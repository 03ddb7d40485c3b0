package ludo

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

const minSeatsToStart = 2

type RollOutcome struct {
	Die           int      `json:"die"`
	MovableTokens []string `json:"movable_tokens"`
	NextTurn      string   `json:"next_turn"`
}

type MoveOutcome struct {
	Tokens         []entity.Token `json:"tokens"`
	NextTurn       string         `json:"next_turn,omitempty"`
	Captured       bool           `json:"captured"`
	CapturedColors []entity.Color `json:"captured_colors,omitempty"`
	ExtraTurn      bool           `json:"extra_turn"`
	WinnerID       string         `json:"winner_id,omitempty"`
	WinnerColor    entity.Color   `json:"winner_color,omitempty"`
}

// Join seats participantID in the next free color. A participant already seated in a
// running game is reconnected instead.
func Join(room *entity.Room, participantID, displayName string) ([]entity.Event, error) {
	if seat := room.SeatOf(participantID); seat != nil {
		if room.IsLobby() {
			return nil, apperror.ErrAlreadySeated
		}

		seat.ConnectionState = entity.Connected

		return []entity.Event{roomUpdated(room)}, nil
	}

	if len(room.Seats) >= entity.MaxSeats {
		return nil, apperror.ErrRoomFull
	}

	if !room.IsLobby() {
		return nil, apperror.ErrGameInProgress
	}

	color, ok := room.NextFreeColor()
	if !ok {
		return nil, apperror.ErrRoomFull
	}

	room.Seats = append(room.Seats, &entity.Seat{
		ParticipantID:   participantID,
		Color:           color,
		DisplayName:     displayName,
		ConnectionState: entity.Connected,
	})

	if room.HostID == "" {
		room.HostID = participantID
	}

	return []entity.Event{roomUpdated(room)}, nil
}

// Leave frees a lobby seat, or marks an in-game seat disconnected so it can reconnect.
func Leave(room *entity.Room, participantID string) ([]entity.Event, error) {
	seat := room.SeatOf(participantID)
	if seat == nil {
		return nil, apperror.ErrNotSeated
	}

	if !room.IsLobby() {
		if !seat.IsConnected() {
			return nil, nil
		}

		seat.ConnectionState = entity.Disconnected

		return []entity.Event{roomUpdated(room)}, nil
	}

	room.Seats = slices.DeleteFunc(room.Seats, func(s *entity.Seat) bool {
		return s.ParticipantID == participantID
	})

	if room.HostID == participantID {
		room.HostID = ""
		if len(room.Seats) > 0 {
			room.HostID = room.Seats[0].ParticipantID
		}
	}

	return []entity.Event{roomUpdated(room)}, nil
}

// Start deals tokens, runs the roll-off and opens play.
func Start(room *entity.Room, participantID string, dice Dice) ([]entity.Event, error) {
	if !room.IsLobby() {
		return nil, apperror.ErrGameInProgress
	}

	if room.HostID != participantID {
		return nil, apperror.ErrNotHost
	}

	if len(room.Seats) < minSeatsToStart {
		return nil, fmt.Errorf("%w: %d seated", apperror.ErrNotEnoughPlayers, len(room.Seats))
	}

	tokens := make([]entity.Token, 0, len(room.Seats)*TokensPerColor)
	for _, seat := range room.Seats {
		tokens = append(tokens, NewTokens(seat.Color)...)
	}

	room.Tokens = tokens
	room.Phase = entity.PhaseTurnOrder

	events := []entity.Event{{
		Type:   entity.EventGameStarted,
		RoomID: room.ID,
		Room:   room.Snapshot(),
	}}

	order, rounds := ResolveTurnOrder(room.Seats, dice)

	room.TurnOrder = order
	room.TurnOrderRounds = rounds
	room.CurrentTurn = 0
	room.TurnNumber = 1
	room.PendingDie = 0
	room.Phase = entity.PhasePlaying

	events = append(events,
		entity.Event{
			Type:      entity.EventTurnOrderResult,
			RoomID:    room.ID,
			TurnOrder: slices.Clone(order),
			Rounds:    room.Snapshot().TurnOrderRounds,
		},
		roomUpdated(room),
	)

	return events, nil
}

// Roll throws the die for the seat on turn. With no movable token the turn is over,
// unless the die shows the maximum face. A seat that acts is connected.
func Roll(room *entity.Room, participantID string, dice Dice) (RollOutcome, []entity.Event, error) {
	seat, err := seatOnTurn(room, participantID)
	if err != nil {
		return RollOutcome{}, nil, err
	}

	if room.PendingDie != 0 {
		return RollOutcome{}, nil, apperror.ErrAlreadyRolled
	}

	seat.ConnectionState = entity.Connected

	die := dice.Roll()
	movable := LegalMoves(room.Tokens, seat.Color, die)

	room.LastDie = die
	room.LastCapture = nil

	if len(movable) == 0 {
		grantTurn(room, die == MaxDie)
	} else {
		room.PendingDie = die
	}

	outcome := RollOutcome{
		Die:           die,
		MovableTokens: movable,
		NextTurn:      room.CurrentParticipant(),
	}

	events := []entity.Event{
		{
			Type:          entity.EventDiceRolled,
			RoomID:        room.ID,
			Die:           die,
			RollerColor:   seat.Color,
			MovableTokens: slices.Clone(movable),
		},
		roomUpdated(room),
	}

	return outcome, events, nil
}

// Move applies the pending die to tokenID, then resolves win and turn advance in the same step.
func Move(room *entity.Room, participantID, tokenID string) (MoveOutcome, []entity.Event, error) {
	seat, err := seatOnTurn(room, participantID)
	if err != nil {
		return MoveOutcome{}, nil, err
	}

	if room.PendingDie == 0 {
		return MoveOutcome{}, nil, apperror.ErrNoDiePending
	}

	if !slices.ContainsFunc(room.Tokens, func(token entity.Token) bool {
		return token.ID == tokenID && token.Color == seat.Color
	}) {
		return MoveOutcome{}, nil, fmt.Errorf("%w: token %s is not yours", apperror.ErrIllegalMove, tokenID)
	}

	die := room.PendingDie

	result, err := ApplyMove(room.Tokens, tokenID, die)
	if err != nil {
		return MoveOutcome{}, nil, err
	}

	seat.ConnectionState = entity.Connected

	room.Tokens = result.Tokens
	room.PendingDie = 0
	room.LastCapture = nil
	if result.Captured {
		room.LastCapture = &entity.Capture{
			ByColor:  seat.Color,
			TokenIDs: result.CapturedTokens,
			Colors:   result.CapturedColors,
		}
	}

	events := []entity.Event{{
		Type:           entity.EventTokenMoved,
		RoomID:         room.ID,
		Tokens:         slices.Clone(room.Tokens),
		MovedTokenID:   tokenID,
		CapturedColors: slices.Clone(result.CapturedColors),
	}}

	outcome := MoveOutcome{
		Captured:       result.Captured,
		CapturedColors: result.CapturedColors,
	}

	if CheckWin(room.Tokens, seat.Color) {
		room.Phase = entity.PhaseFinished
		room.WinnerID = participantID

		outcome.Tokens = slices.Clone(room.Tokens)
		outcome.WinnerID = participantID
		outcome.WinnerColor = seat.Color

		gameResult := BuildResult(room)

		events = append(events,
			entity.Event{
				Type:        entity.EventGameFinished,
				RoomID:      room.ID,
				WinnerColor: seat.Color,
				WinnerID:    participantID,
				Result:      &gameResult,
			},
			roomUpdated(room),
		)

		return outcome, events, nil
	}

	outcome.ExtraTurn = die == MaxDie || result.Captured || result.LeftBase
	grantTurn(room, outcome.ExtraTurn)

	outcome.Tokens = slices.Clone(room.Tokens)
	outcome.NextTurn = room.CurrentParticipant()

	return outcome, append(events, roomUpdated(room)), nil
}

// PassTurn skips the turn identified by turnNumber when its seat is disconnected.
// It reports false when the turn has moved on or the seat came back.
func PassTurn(room *entity.Room, turnNumber int) ([]entity.Event, bool) {
	if !room.IsPlaying() || room.TurnNumber != turnNumber {
		return nil, false
	}

	seat := room.SeatOf(room.CurrentParticipant())
	if seat == nil || seat.IsConnected() {
		return nil, false
	}

	grantTurn(room, false)
	room.LastDie = 0
	room.LastCapture = nil

	return []entity.Event{roomUpdated(room)}, true
}

// BuildResult summarises a finished room for result storage.
func BuildResult(room *entity.Room) entity.GameResult {
	winner := room.SeatOf(room.WinnerID)

	result := entity.GameResult{
		RoomID:   room.ID,
		WinnerID: room.WinnerID,
		Seats:    make([]entity.SeatResult, 0, len(room.Seats)),
	}
	if winner != nil {
		result.WinnerColor = winner.Color
	}

	for _, participantID := range room.TurnOrder {
		seat := room.SeatOf(participantID)
		if seat == nil {
			continue
		}

		result.Seats = append(result.Seats, entity.SeatResult{
			ParticipantID:  seat.ParticipantID,
			Color:          seat.Color,
			DisplayName:    seat.DisplayName,
			FinishedTokens: FinishedCount(room.Tokens, seat.Color),
		})
	}

	slices.SortStableFunc(result.Seats, func(a, b entity.SeatResult) int {
		switch {
		case a.ParticipantID == room.WinnerID:
			return -1
		case b.ParticipantID == room.WinnerID:
			return 1
		default:
			return b.FinishedTokens - a.FinishedTokens
		}
	})

	for i := range result.Seats {
		result.Seats[i].Place = i + 1
	}

	return result
}

func seatOnTurn(room *entity.Room, participantID string) (*entity.Seat, error) {
	switch room.Phase {
	case entity.PhaseLobby, entity.PhaseTurnOrder:
		return nil, apperror.ErrGameNotStarted
	case entity.PhaseFinished:
		return nil, apperror.ErrGameFinished
	case entity.PhasePlaying:
	}

	seat := room.SeatOf(participantID)
	if seat == nil {
		return nil, apperror.ErrNotSeated
	}

	if room.CurrentParticipant() != participantID {
		return nil, apperror.ErrNotYourTurn
	}

	return seat, nil
}

// grantTurn hands the next roll to the same seat or to the next one in turn order.
func grantTurn(room *entity.Room, sameSeat bool) {
	if !sameSeat {
		room.CurrentTurn = (room.CurrentTurn + 1) % len(room.TurnOrder)
	}

	room.TurnNumber++
	room.PendingDie = 0
}

func roomUpdated(room *entity.Room) entity.Event {
	return entity.Event{
		Type:   entity.EventRoomUpdated,
		RoomID: room.ID,
		Room:   room.Snapshot(),
	}
}

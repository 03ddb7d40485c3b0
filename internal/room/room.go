package room

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/rocketscienceinc/ludo-backend/internal/apperror"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/ludo"
)

const inboxSize = 64

// Publisher receives committed events for fan-out. Implementations must not block.
type Publisher interface {
	Publish(roomID string, participantIDs []string, events []entity.Event)
}

type Options struct {
	TurnTimeout       time.Duration
	EmptyRoomGrace    time.Duration
	FinishedRetention time.Duration
}

// Summary is the read-only projection used for room discovery.
type Summary struct {
	RoomID    string       `json:"room_id"`
	SeatCount int          `json:"seat_count"`
	Phase     entity.Phase `json:"phase"`
	CreatedAt time.Time    `json:"created_at"`
}

// Room serializes every operation on one game through a single goroutine.
type Room struct {
	id        string
	logger    *slog.Logger
	options   Options
	dice      ludo.Dice
	publisher Publisher
	onClose   func(id string)

	inbox   chan func()
	done    chan struct{}
	summary atomic.Pointer[Summary]

	// owned by the loop goroutine
	state          *entity.Room
	closed         bool
	turnTimer      *time.Timer
	turnTimerFor   int
	emptyTimer     *time.Timer
	retentionTimer *time.Timer
}

func newRoom(logger *slog.Logger, state *entity.Room, dice ludo.Dice, publisher Publisher, options Options, onClose func(id string)) *Room {
	that := &Room{
		id:        state.ID,
		logger:    logger.With("component", "room", "roomID", state.ID),
		options:   options,
		dice:      dice,
		publisher: publisher,
		onClose:   onClose,
		inbox:     make(chan func(), inboxSize),
		done:      make(chan struct{}),
		state:     state,
	}

	that.summary.Store(summarize(state))

	go that.loop()

	return that
}

func (that *Room) ID() string {
	return that.id
}

// Done is closed once the room has been torn down.
func (that *Room) Done() <-chan struct{} {
	return that.done
}

func (that *Room) Summary() Summary {
	return *that.summary.Load()
}

func (that *Room) Join(ctx context.Context, participantID, displayName string) (*entity.Room, error) {
	return execute(ctx, that, func(state *entity.Room) (*entity.Room, []entity.Event, error) {
		events, err := ludo.Join(state, participantID, displayName)
		if err != nil {
			return nil, nil, err
		}

		return state.Snapshot(), events, nil
	})
}

func (that *Room) Leave(ctx context.Context, participantID string) error {
	_, err := execute(ctx, that, func(state *entity.Room) (struct{}, []entity.Event, error) {
		events, err := ludo.Leave(state, participantID)
		return struct{}{}, events, err
	})

	return err
}

func (that *Room) Start(ctx context.Context, participantID string) (*entity.Room, error) {
	return execute(ctx, that, func(state *entity.Room) (*entity.Room, []entity.Event, error) {
		events, err := ludo.Start(state, participantID, that.dice)
		if err != nil {
			return nil, nil, err
		}

		return state.Snapshot(), events, nil
	})
}

func (that *Room) Roll(ctx context.Context, participantID string) (ludo.RollOutcome, error) {
	return execute(ctx, that, func(state *entity.Room) (ludo.RollOutcome, []entity.Event, error) {
		return ludo.Roll(state, participantID, that.dice)
	})
}

func (that *Room) Move(ctx context.Context, participantID, tokenID string) (ludo.MoveOutcome, error) {
	return execute(ctx, that, func(state *entity.Room) (ludo.MoveOutcome, []entity.Event, error) {
		return ludo.Move(state, participantID, tokenID)
	})
}

func (that *Room) Snapshot(ctx context.Context) (*entity.Room, error) {
	return execute(ctx, that, func(state *entity.Room) (*entity.Room, []entity.Event, error) {
		return state.Snapshot(), nil, nil
	})
}

// Close tears the room down with reason. It is a no-op on a closed room.
func (that *Room) Close(reason string) {
	that.post(func() {
		that.close(reason)
	})
}

// execute runs op on the room goroutine and commits its events when it succeeds.
func execute[T any](ctx context.Context, that *Room, op func(state *entity.Room) (T, []entity.Event, error)) (T, error) {
	type reply struct {
		value T
		err   error
	}

	var zero T
	replyCh := make(chan reply, 1)

	task := func() {
		if that.closed {
			replyCh <- reply{err: apperror.ErrRoomNotFound}
			return
		}

		value, events, err := op(that.state)
		if err != nil {
			replyCh <- reply{err: err}
			return
		}

		that.commit(events)
		replyCh <- reply{value: value}
	}

	select {
	case that.inbox <- task:
	case <-that.done:
		return zero, apperror.ErrRoomNotFound
	case <-ctx.Done():
		return zero, ctx.Err()
	}

	select {
	case r := <-replyCh:
		return r.value, r.err
	case <-that.done:
		// the task may have been the one closing the room; its reply precedes done
		select {
		case r := <-replyCh:
			return r.value, r.err
		default:
			return zero, apperror.ErrRoomNotFound
		}
	}
}

func (that *Room) post(task func()) {
	select {
	case that.inbox <- task:
	case <-that.done:
	}
}

func (that *Room) loop() {
	for {
		task := <-that.inbox
		task()

		if that.closed {
			close(that.done)
			return
		}
	}
}

func (that *Room) commit(events []entity.Event) {
	that.summary.Store(summarize(that.state))

	if len(events) > 0 {
		that.publisher.Publish(that.id, that.state.ParticipantIDs(), events)
	}

	that.schedule()
}

// schedule arms or stops the auto-pass, teardown and retention timers for the current state.
func (that *Room) schedule() {
	state := that.state

	if state.IsLobby() && len(state.Seats) == 0 {
		that.close(entity.CloseReasonEmpty)
		return
	}

	that.scheduleTurnTimer()

	if state.IsFinished() && that.retentionTimer == nil {
		that.retentionTimer = time.AfterFunc(that.options.FinishedRetention, func() {
			that.post(func() {
				that.close(entity.CloseReasonFinished)
			})
		})
	}

	if state.ConnectedSeats() > 0 {
		stopTimer(&that.emptyTimer)
		return
	}

	if that.emptyTimer == nil {
		that.emptyTimer = time.AfterFunc(that.options.EmptyRoomGrace, func() {
			that.post(func() {
				that.emptyTimer = nil
				if !that.closed && that.state.ConnectedSeats() == 0 {
					that.close(entity.CloseReasonAbandoned)
				}
			})
		})
	}
}

func (that *Room) scheduleTurnTimer() {
	state := that.state

	if !state.IsPlaying() {
		stopTimer(&that.turnTimer)
		return
	}

	seat := state.SeatOf(state.CurrentParticipant())
	if seat == nil || seat.IsConnected() {
		stopTimer(&that.turnTimer)
		return
	}

	if that.turnTimer != nil && that.turnTimerFor == state.TurnNumber {
		return
	}

	stopTimer(&that.turnTimer)

	turnNumber := state.TurnNumber
	that.turnTimerFor = turnNumber
	that.turnTimer = time.AfterFunc(that.options.TurnTimeout, func() {
		that.post(func() {
			if that.closed {
				return
			}

			events, passed := ludo.PassTurn(that.state, turnNumber)
			if !passed {
				return
			}

			that.logger.Info("turn auto-passed for disconnected seat", "turnNumber", turnNumber)
			that.commit(events)
		})
	})
}

func (that *Room) close(reason string) {
	if that.closed {
		return
	}

	that.closed = true

	stopTimer(&that.turnTimer)
	stopTimer(&that.emptyTimer)
	stopTimer(&that.retentionTimer)

	that.publisher.Publish(that.id, that.state.ParticipantIDs(), []entity.Event{{
		Type:   entity.EventRoomClosed,
		RoomID: that.id,
		Reason: reason,
	}})

	if that.onClose != nil {
		that.onClose(that.id)
	}

	that.logger.Info("room closed", "reason", reason)
}

func stopTimer(timer **time.Timer) {
	if *timer == nil {
		return
	}

	(*timer).Stop()
	*timer = nil
}

func summarize(state *entity.Room) *Summary {
	return &Summary{
		RoomID:    state.ID,
		SeatCount: len(state.Seats),
		Phase:     state.Phase,
		CreatedAt: state.CreatedAt,
	}
}

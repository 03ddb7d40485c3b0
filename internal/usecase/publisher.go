package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

type eventSink interface {
	Publish(roomID string, participantIDs []string, events []entity.Event)
}

// Publisher forwards room events to the sink and runs their storage side effects
// off the room goroutine.
type Publisher struct {
	logger *slog.Logger

	next       eventSink
	playerRepo playerRepo
	resultRepo resultRepo

	timeout time.Duration
	now     func() time.Time

	wg sync.WaitGroup
}

func NewPublisher(logger *slog.Logger, next eventSink, playerRepo playerRepo, resultRepo resultRepo, timeout time.Duration) *Publisher {
	return &Publisher{
		logger:     logger.With("component", "publisher"),
		next:       next,
		playerRepo: playerRepo,
		resultRepo: resultRepo,
		timeout:    timeout,
		now:        time.Now,
	}
}

func (that *Publisher) Publish(roomID string, participantIDs []string, events []entity.Event) {
	that.next.Publish(roomID, participantIDs, events)

	for _, event := range events {
		switch event.Type {
		case entity.EventGameFinished:
			if event.Result == nil {
				continue
			}

			result := *event.Result
			result.FinishedAt = that.now()

			that.wg.Add(1)
			go that.saveResult(&result)
		case entity.EventRoomClosed:
			that.wg.Add(1)
			go that.releasePlayers(roomID, participantIDs)
		default:
		}
	}
}

// Wait blocks until every pending side effect is done.
func (that *Publisher) Wait() {
	that.wg.Wait()
}

func (that *Publisher) saveResult(result *entity.GameResult) {
	defer that.wg.Done()

	log := that.logger.With("method", "saveResult", "roomID", result.RoomID)

	ctx, cancel := context.WithTimeout(context.Background(), that.timeout)
	defer cancel()

	if err := that.resultRepo.Save(ctx, result); err != nil {
		log.Error("failed to save result", "error", err)
		return
	}

	log.Info("result saved", "winnerID", result.WinnerID)
}

func (that *Publisher) releasePlayers(roomID string, participantIDs []string) {
	defer that.wg.Done()

	log := that.logger.With("method", "releasePlayers", "roomID", roomID)

	ctx, cancel := context.WithTimeout(context.Background(), that.timeout)
	defer cancel()

	for _, participantID := range participantIDs {
		if err := that.playerRepo.ClearRoom(ctx, participantID, roomID); err != nil {
			log.Error("failed to clear player room", "playerID", participantID, "error", err)
		}
	}
}

package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

// Hub maps participants to their live socket and fans room events out to them.
type Hub struct {
	logger *slog.Logger

	mu      sync.RWMutex
	clients map[string]*client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger.With("component", "hub"),
		clients: make(map[string]*client),
	}
}

// Publish never blocks: it only enqueues frames on each recipient's buffer.
func (that *Hub) Publish(roomID string, participantIDs []string, events []entity.Event) {
	log := that.logger.With("method", "Publish", "roomID", roomID)

	messages := make([]Message, 0, len(events))
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			log.Error("failed to marshal event", "type", event.Type, "error", err)
			continue
		}

		messages = append(messages, Message{Action: string(event.Type), Payload: payload})
	}

	for _, participantID := range participantIDs {
		c := that.get(participantID)
		if c == nil {
			continue
		}

		for _, message := range messages {
			if !c.enqueue(message) {
				break
			}
		}
	}
}

// register binds participantID to c, closing a previous socket of the same participant.
func (that *Hub) register(participantID string, c *client) {
	that.mu.Lock()
	previous := that.clients[participantID]
	that.clients[participantID] = c
	that.mu.Unlock()

	if previous != nil && previous != c {
		that.logger.Info("participant replaced its connection", "playerID", participantID)
		previous.close()
	}
}

// unregister reports whether c was still the participant's current socket.
func (that *Hub) unregister(participantID string, c *client) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.clients[participantID] != c {
		return false
	}

	delete(that.clients, participantID)

	return true
}

func (that *Hub) get(participantID string) *client {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.clients[participantID]
}

func (that *Hub) closeAll() {
	that.mu.RLock()
	clients := make([]*client, 0, len(that.clients))
	for _, c := range that.clients {
		clients = append(clients, c)
	}
	that.mu.RUnlock()

	for _, c := range clients {
		c.close()
	}
}

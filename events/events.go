package events

import (
	"context"
	"sync"

	"croupier/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeDuelResolved   EventType = "duel_resolved"
	EventTypeDuelExpired    EventType = "duel_expired"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	Username     string
	Channel      string
	OldAmount    float64
	NewAmount    float64
	ChangeAmount float64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new account provisioned by the ledger
type AccountCreatedEvent struct {
	Username string
	Channel  string
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// DuelResolvedEvent represents a duel that was settled
type DuelResolvedEvent struct {
	Result *models.DuelResult
}

func (e DuelResolvedEvent) Type() EventType {
	return EventTypeDuelResolved
}

// DuelExpiredEvent represents a duel removed because its timer fired
type DuelExpiredEvent struct {
	Duel *models.Duel
}

func (e DuelExpiredEvent) Type() EventType {
	return EventTypeDuelExpired
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching. Delivery is synchronous:
// every handler runs to completion before Emit returns, so observers see
// balance changes in mutation order. A panicking handler is isolated and
// never fails the mutating operation that emitted the event.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for i, handler := range handlers {
		b.dispatch(ctx, event, handler, i)
	}
}

func (b *Bus) dispatch(ctx context.Context, event Event, handler Handler, index int) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"eventType":    event.Type(),
				"handlerIndex": index,
				"panic":        r,
			}).Error("Event handler panicked")
		}
	}()
	handler(ctx, event)
}

// A transactional event bus for holding pending events coupled to the Unit
// of Work. Flushes to the underlying event bus after commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) {
	for _, ev := range b.pending {
		b.real.Emit(ctx, ev)
	}
	b.pending = nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

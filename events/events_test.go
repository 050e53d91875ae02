package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_EmitIsSynchronous(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var received []Event
	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, e Event) {
		received = append(received, e)
	})

	event := BalanceChangeEvent{Username: "alice", Channel: "chan", OldAmount: 1, NewAmount: 2, ChangeAmount: 1}
	bus.Emit(ctx, event)

	// Handlers run to completion before Emit returns
	require.Len(t, received, 1)
	assert.Equal(t, event, received[0])
}

func TestBus_EmitOnlyMatchingType(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	calls := 0
	bus.Subscribe(EventTypeDuelExpired, func(ctx context.Context, e Event) {
		calls++
	})

	bus.Emit(ctx, BalanceChangeEvent{Username: "alice"})
	assert.Zero(t, calls)

	bus.Emit(ctx, DuelExpiredEvent{})
	assert.Equal(t, 1, calls)
}

func TestBus_HandlerPanicIsIsolated(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	second := false
	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, e Event) {
		panic("observer failure")
	})
	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, e Event) {
		second = true
	})

	assert.NotPanics(t, func() {
		bus.Emit(ctx, BalanceChangeEvent{Username: "alice"})
	})
	assert.True(t, second, "panic in one handler must not starve the next")
}

func TestTransactionalBus_FlushDeliversInOrder(t *testing.T) {
	bus := NewBus()
	txBus := NewTransactionalBus(bus)
	ctx := context.Background()

	var got []float64
	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, e Event) {
		got = append(got, e.(BalanceChangeEvent).NewAmount)
	})

	txBus.Publish(BalanceChangeEvent{NewAmount: 1})
	txBus.Publish(BalanceChangeEvent{NewAmount: 2})
	assert.Empty(t, got, "nothing is delivered before flush")

	txBus.Flush(ctx)
	assert.Equal(t, []float64{1, 2}, got)

	// pending is cleared; a second flush is a no-op
	txBus.Flush(ctx)
	assert.Len(t, got, 2)
}

func TestTransactionalBus_DiscardDropsPending(t *testing.T) {
	bus := NewBus()
	txBus := NewTransactionalBus(bus)
	ctx := context.Background()

	delivered := 0
	bus.Subscribe(EventTypeAccountCreated, func(ctx context.Context, e Event) {
		delivered++
	})

	txBus.Publish(AccountCreatedEvent{Username: "alice", Channel: "chan"})
	txBus.Discard()
	txBus.Flush(ctx)

	assert.Zero(t, delivered)
}

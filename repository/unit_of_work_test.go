package repository

import (
	"context"
	"testing"

	"croupier/events"
	"croupier/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitOfWork_CommitFlushesEvents(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	var seen []events.Event
	bus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, e events.Event) {
		seen = append(seen, e)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, created, err := uow.AccountRepository().GetOrCreate(ctx, "alice", "lobby")
	require.NoError(t, err)
	require.True(t, created)
	uow.EventBus().Publish(events.AccountCreatedEvent{Username: "alice", Channel: "lobby"})

	// nothing observable before commit
	assert.Empty(t, seen)

	require.NoError(t, uow.Commit())
	require.Len(t, seen, 1)

	// the write survived the transaction
	repo := NewAccountRepository(testDB.DB)
	exists, err := repo.Exists(ctx, "alice", "lobby")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUnitOfWork_RollbackDiscardsEverything(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	bus := events.NewBus()
	var seen []events.Event
	bus.Subscribe(events.EventTypeAccountCreated, func(ctx context.Context, e events.Event) {
		seen = append(seen, e)
	})

	factory := NewUnitOfWorkFactory(testDB.DB, bus)

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, _, err := uow.AccountRepository().GetOrCreate(ctx, "ghost", "lobby")
	require.NoError(t, err)
	uow.EventBus().Publish(events.AccountCreatedEvent{Username: "ghost", Channel: "lobby"})

	require.NoError(t, uow.Rollback())
	assert.Empty(t, seen)

	repo := NewAccountRepository(testDB.DB)
	exists, err := repo.Exists(ctx, "ghost", "lobby")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUnitOfWork_RollbackAfterCommitIsNoop(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	_, _, err := uow.AccountRepository().GetOrCreate(ctx, "alice", "lobby")
	require.NoError(t, err)

	require.NoError(t, uow.Commit())
	assert.NoError(t, uow.Rollback())

	repo := NewAccountRepository(testDB.DB)
	exists, err := repo.Exists(ctx, "alice", "lobby")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUnitOfWork_DoubleBeginFails(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, events.NewBus())

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	assert.Error(t, uow.Begin(ctx))
}

package repository

import (
	"context"
	"fmt"

	"croupier/database"
	"croupier/events"
	"croupier/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the service.UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	accountRepo      service.AccountRepository
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx
	u.accountRepo = newAccountRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Observers only ever see committed state
	u.transactionalBus.Flush(u.ctx)

	return nil
}

// Rollback rolls back the transaction and discards pending events. It is a
// no-op after a successful commit.
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil
	u.transactionalBus.Discard()

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() service.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	return u.transactionalBus
}

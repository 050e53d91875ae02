package service

import (
	"context"

	"croupier/events"
	"croupier/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// Exists reports whether an account row exists without creating one
	Exists(ctx context.Context, username, channel string) (bool, error)

	// GetOrCreate retrieves an account, provisioning a zero-balance row
	// when none exists; the bool reports whether a row was created
	GetOrCreate(ctx context.Context, username, channel string) (*models.Account, bool, error)

	// GetOrCreateForUpdate is GetOrCreate with a row lock held until the
	// transaction ends; mutating paths use it so concurrent
	// read-modify-write cycles on one account serialize instead of losing
	// an update
	GetOrCreateForUpdate(ctx context.Context, username, channel string) (*models.Account, bool, error)

	// UpdateBalance sets the stored balance for an existing account
	UpdateBalance(ctx context.Context, username, channel string, balance float64) error
}

// LedgerService defines the interface for balance operations. Usernames and
// channels are case-folded on every call.
type LedgerService interface {
	// HasAccount reports whether an account exists, without provisioning one
	HasAccount(ctx context.Context, username, channel string) (bool, error)

	// GetBalance returns the rounded balance, provisioning a zero-balance
	// account when none exists
	GetBalance(ctx context.Context, username, channel string) (float64, error)

	// SetBalance stores a rounded balance; non-finite values are rejected
	// with models.ErrNonFiniteAmount and nothing is mutated
	SetBalance(ctx context.Context, username, channel string, balance float64) error

	// AddAmount adds the rounded amount to the current balance
	AddAmount(ctx context.Context, username, channel string, amount float64) error

	// SubtractAmount subtracts the rounded amount from the current balance
	SubtractAmount(ctx context.Context, username, channel string, amount float64) error

	// Transfer atomically moves amount from one account to another within
	// the same channel
	Transfer(ctx context.Context, from, to, channel string, amount float64) error

	// Currency returns the deployment's currency value type
	Currency() models.Currency
}

// DuelLedger is the narrow view of the ledger the duel engine depends on
type DuelLedger interface {
	GetBalance(ctx context.Context, username, channel string) (float64, error)
	Transfer(ctx context.Context, from, to, channel string, amount float64) error
}

// DuelService defines the interface for the duel engine
type DuelService interface {
	// Propose registers a new duel and arms its expiry timer
	Propose(ctx context.Context, challenger, challengerDisplay, opponent, channel string, roll models.DiceRoll, stake float64) (*models.Duel, error)

	// Accept settles the duel targeting sender in channel; only the named
	// opponent can accept. Returns models.ErrNoActiveDuel when there is
	// nothing to accept.
	Accept(ctx context.Context, sender, channel string) (*models.DuelResult, error)

	// Decline drops the duel targeting sender in channel; no funds move
	Decline(ctx context.Context, sender, channel string) (*models.Duel, error)

	// Stop cancels all pending expiry timers
	Stop()
}

// UnitOfWork defines a transactional scope over the repositories
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error
	AccountRepository() AccountRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

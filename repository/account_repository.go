package repository

import (
	"context"
	"fmt"

	"croupier/database"
	"croupier/models"

	"github.com/jackc/pgx/v5"
)

// AccountRepository implements the service.AccountRepository interface
type AccountRepository struct {
	q queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepositoryWithTx creates a new account repository with a transaction
func newAccountRepositoryWithTx(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// Exists reports whether an account row exists for (username, channel).
// It never creates a row as a side effect.
func (r *AccountRepository) Exists(ctx context.Context, username, channel string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM accounts WHERE username = $1 AND channel = $2
		)
	`

	var exists bool
	err := r.q.QueryRow(ctx, query, username, channel).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account %s/%s: %w", username, channel, err)
	}

	return exists, nil
}

// GetOrCreate retrieves an account, provisioning a zero-balance row when
// none exists. The second return value reports whether a row was created.
func (r *AccountRepository) GetOrCreate(ctx context.Context, username, channel string) (*models.Account, bool, error) {
	return r.getOrCreate(ctx, username, channel, false)
}

// GetOrCreateForUpdate behaves like GetOrCreate but also takes a row lock,
// so a read-modify-write inside a transaction cannot lose a concurrent
// update. An inserted row is already locked by the inserting transaction.
func (r *AccountRepository) GetOrCreateForUpdate(ctx context.Context, username, channel string) (*models.Account, bool, error) {
	return r.getOrCreate(ctx, username, channel, true)
}

func (r *AccountRepository) getOrCreate(ctx context.Context, username, channel string, lock bool) (*models.Account, bool, error) {
	insert := `
		INSERT INTO accounts (username, channel, balance)
		VALUES ($1, $2, 0)
		ON CONFLICT (username, channel) DO NOTHING
		RETURNING username, channel, balance, created_at, updated_at
	`

	var account models.Account
	err := r.q.QueryRow(ctx, insert, username, channel).Scan(
		&account.Username,
		&account.Channel,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err == nil {
		return &account, true, nil
	}
	if err != pgx.ErrNoRows {
		return nil, false, fmt.Errorf("failed to provision account %s/%s: %w", username, channel, err)
	}

	// Conflict: the row already existed, read it back
	sel := `
		SELECT username, channel, balance, created_at, updated_at
		FROM accounts
		WHERE username = $1 AND channel = $2
	`
	if lock {
		sel += " FOR UPDATE"
	}

	err = r.q.QueryRow(ctx, sel, username, channel).Scan(
		&account.Username,
		&account.Channel,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get account %s/%s: %w", username, channel, err)
	}

	return &account, false, nil
}

// UpdateBalance sets the stored balance for an existing account
func (r *AccountRepository) UpdateBalance(ctx context.Context, username, channel string, balance float64) error {
	query := `
		UPDATE accounts
		SET balance = $1, updated_at = NOW()
		WHERE username = $2 AND channel = $3
	`

	result, err := r.q.Exec(ctx, query, balance, username, channel)
	if err != nil {
		return fmt.Errorf("failed to update balance for %s/%s: %w", username, channel, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("account %s/%s not found", username, channel)
	}

	return nil
}

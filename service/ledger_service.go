package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"croupier/events"
	"croupier/models"

	log "github.com/sirupsen/logrus"
)

type ledgerService struct {
	uowFactory UnitOfWorkFactory
	currency   models.Currency
}

// NewLedgerService creates a new ledger service
func NewLedgerService(uowFactory UnitOfWorkFactory, currency models.Currency) LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
		currency:   currency,
	}
}

// fold normalizes usernames and channels at the access boundary
func fold(s string) string {
	return strings.ToLower(s)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Currency returns the deployment's currency value type
func (s *ledgerService) Currency() models.Currency {
	return s.currency
}

// HasAccount reports whether an account exists. Unlike GetBalance it never
// provisions a row.
func (s *ledgerService) HasAccount(ctx context.Context, username, channel string) (bool, error) {
	username = fold(username)
	channel = fold(channel)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	exists, err := uow.AccountRepository().Exists(ctx, username, channel)
	if err != nil {
		return false, err
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return exists, nil
}

// GetBalance returns the rounded balance for (username, channel),
// provisioning a zero-balance account when none exists.
func (s *ledgerService) GetBalance(ctx context.Context, username, channel string) (float64, error) {
	username = fold(username)
	channel = fold(channel)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, created, err := uow.AccountRepository().GetOrCreate(ctx, username, channel)
	if err != nil {
		return 0, err
	}
	if created {
		uow.EventBus().Publish(events.AccountCreatedEvent{Username: username, Channel: channel})
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.currency.Round(account.Balance), nil
}

// SetBalance stores a rounded balance and publishes a balance-change event.
// Non-finite values are rejected with models.ErrNonFiniteAmount and nothing
// is mutated.
func (s *ledgerService) SetBalance(ctx context.Context, username, channel string, balance float64) error {
	if !finite(balance) {
		return models.ErrNonFiniteAmount
	}

	username = fold(username)
	channel = fold(channel)
	balance = s.currency.Round(balance)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := s.writeBalance(ctx, uow, username, channel, balance); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// AddAmount adds the rounded amount to the current balance. The resulting
// balance must be finite or nothing is mutated.
func (s *ledgerService) AddAmount(ctx context.Context, username, channel string, amount float64) error {
	username = fold(username)
	channel = fold(channel)
	amount = s.currency.Round(amount)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, created, err := uow.AccountRepository().GetOrCreateForUpdate(ctx, username, channel)
	if err != nil {
		return err
	}
	if created {
		uow.EventBus().Publish(events.AccountCreatedEvent{Username: username, Channel: channel})
	}

	newBalance := s.currency.Round(account.Balance) + amount
	if !finite(newBalance) {
		return models.ErrNonFiniteAmount
	}

	if err := s.writeBalanceFrom(ctx, uow, username, channel, s.currency.Round(account.Balance), s.currency.Round(newBalance)); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SubtractAmount subtracts the rounded amount from the current balance
func (s *ledgerService) SubtractAmount(ctx context.Context, username, channel string, amount float64) error {
	return s.AddAmount(ctx, username, channel, -amount)
}

// Transfer atomically moves amount from one account to the other within a
// single transaction, so a failure on either side mutates neither. The
// ledger does not enforce non-negative balances; stake and sufficiency
// policy belongs to callers.
func (s *ledgerService) Transfer(ctx context.Context, from, to, channel string, amount float64) error {
	from = fold(from)
	to = fold(to)
	channel = fold(channel)
	amount = s.currency.Round(amount)

	if !finite(amount) {
		return models.ErrNonFiniteAmount
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if from == to {
		account, created, err := uow.AccountRepository().GetOrCreateForUpdate(ctx, from, channel)
		if err != nil {
			return err
		}
		if created {
			uow.EventBus().Publish(events.AccountCreatedEvent{Username: from, Channel: channel})
		}

		fromBefore := s.currency.Round(account.Balance)
		fromAfter := s.currency.Round(fromBefore - amount)
		if !finite(fromAfter) {
			return models.ErrNonFiniteAmount
		}

		// Subtract-then-add on the same account nets to the starting
		// balance after an intermediate dip; both changes are observable
		toAfter := s.currency.Round(fromAfter + amount)
		if err := uow.AccountRepository().UpdateBalance(ctx, from, channel, toAfter); err != nil {
			return err
		}
		s.publishChange(uow, from, channel, fromBefore, fromAfter)
		s.publishChange(uow, from, channel, fromAfter, toAfter)

		if err := uow.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}

	// Lock the rows in a stable order so opposing transfers cannot
	// deadlock
	accounts := make(map[string]*models.Account, 2)
	first, second := from, to
	if second < first {
		first, second = second, first
	}
	for _, name := range []string{first, second} {
		account, created, err := uow.AccountRepository().GetOrCreateForUpdate(ctx, name, channel)
		if err != nil {
			return err
		}
		if created {
			uow.EventBus().Publish(events.AccountCreatedEvent{Username: name, Channel: channel})
		}
		accounts[name] = account
	}

	fromBefore := s.currency.Round(accounts[from].Balance)
	fromAfter := s.currency.Round(fromBefore - amount)
	if !finite(fromAfter) {
		return models.ErrNonFiniteAmount
	}

	toBefore := s.currency.Round(accounts[to].Balance)
	toAfter := s.currency.Round(toBefore + amount)
	if !finite(toAfter) {
		return models.ErrNonFiniteAmount
	}

	if err := uow.AccountRepository().UpdateBalance(ctx, from, channel, fromAfter); err != nil {
		return err
	}
	if err := uow.AccountRepository().UpdateBalance(ctx, to, channel, toAfter); err != nil {
		return err
	}

	s.publishChange(uow, from, channel, fromBefore, fromAfter)
	s.publishChange(uow, to, channel, toBefore, toAfter)

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"from":    from,
		"to":      to,
		"channel": channel,
		"amount":  amount,
	}).Debug("Transfer completed")

	return nil
}

// writeBalance persists a new balance for (username, channel) inside uow,
// provisioning the account if needed, and publishes the change event.
func (s *ledgerService) writeBalance(ctx context.Context, uow UnitOfWork, username, channel string, newBalance float64) error {
	account, created, err := uow.AccountRepository().GetOrCreateForUpdate(ctx, username, channel)
	if err != nil {
		return err
	}
	if created {
		uow.EventBus().Publish(events.AccountCreatedEvent{Username: username, Channel: channel})
	}

	return s.writeBalanceFrom(ctx, uow, username, channel, s.currency.Round(account.Balance), newBalance)
}

// writeBalanceFrom persists newBalance for an account whose current rounded
// balance is oldBalance
func (s *ledgerService) writeBalanceFrom(ctx context.Context, uow UnitOfWork, username, channel string, oldBalance, newBalance float64) error {
	if err := uow.AccountRepository().UpdateBalance(ctx, username, channel, newBalance); err != nil {
		return err
	}

	s.publishChange(uow, username, channel, oldBalance, newBalance)
	return nil
}

func (s *ledgerService) publishChange(uow UnitOfWork, username, channel string, oldAmount, newAmount float64) {
	uow.EventBus().Publish(events.BalanceChangeEvent{
		Username:     username,
		Channel:      channel,
		OldAmount:    oldAmount,
		NewAmount:    newAmount,
		ChangeAmount: newAmount - oldAmount,
	})
}

package models

import "errors"

// Validation errors returned by the ledger and duel services. Handlers map
// these onto chat messages; anything else is a storage failure and is
// reported as such.
var (
	ErrNonFiniteAmount   = errors.New("amount is not a finite number")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidDiceRoll   = errors.New("invalid dice roll")
	ErrNegativeStake     = errors.New("stake must not be negative")
	ErrSelfDuel          = errors.New("cannot duel yourself")
	ErrAlreadyInDuel     = errors.New("participant already has an active duel in this channel")
	ErrNoActiveDuel      = errors.New("no active duel")
)

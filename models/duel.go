package models

import (
	"time"

	"github.com/google/uuid"
)

// Duel is a pending wager between two users in a channel. Duels live only
// in memory: a duel is settled on acceptance, dropped on decline, or
// removed when its expiry timer fires.
type Duel struct {
	ID                uuid.UUID
	Challenger        string // lowercase username
	ChallengerDisplay string
	Opponent          string // lowercase username
	Channel           string
	Roll              DiceRoll
	Stake             float64
	CreatedAt         time.Time
}

// Involves reports whether username is one of the two participants.
func (d *Duel) Involves(username string) bool {
	return d.Challenger == username || d.Opponent == username
}

// DuelResult describes the outcome of a settled duel.
type DuelResult struct {
	Duel           *Duel
	ChallengerRoll RollOutcome
	OpponentRoll   RollOutcome
	Winner         string
	Loser          string
	Draw           bool
	// OpponentShort records that the opponent's balance was below the stake
	// when they accepted. The duel still settles; the handler only warns.
	OpponentShort bool
}

package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"croupier/events"
	"croupier/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// duelService keeps the registry of pending duels in memory. Registry
// mutation happens under one mutex; ledger I/O happens outside it, after a
// duel has already been removed, so a racing expiry or second settle
// observes not-found and no-ops.
type duelService struct {
	ledger  DuelLedger
	bus     *events.Bus
	timeout time.Duration

	mu    sync.Mutex
	duels map[uuid.UUID]*duelEntry

	rngMu sync.Mutex
	rng   *rand.Rand
	// overridable in tests for deterministic outcomes
	rollFn func(models.DiceRoll) models.RollOutcome
}

type duelEntry struct {
	duel  *models.Duel
	timer *time.Timer
}

// NewDuelService creates a new duel service. The ledger handle is the only
// coupling to the currency subsystem; timeout bounds how long a proposal
// stays open.
func NewDuelService(ledger DuelLedger, bus *events.Bus, timeout time.Duration) DuelService {
	s := &duelService{
		ledger:  ledger,
		bus:     bus,
		timeout: timeout,
		duels:   make(map[uuid.UUID]*duelEntry),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.rollFn = s.defaultRoll
	return s
}

func (s *duelService) defaultRoll(spec models.DiceRoll) models.RollOutcome {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return spec.Roll(s.rng)
}

// Propose registers a new duel between challenger and opponent and arms its
// expiry timer
func (s *duelService) Propose(ctx context.Context, challenger, challengerDisplay, opponent, channel string, roll models.DiceRoll, stake float64) (*models.Duel, error) {
	challenger = fold(challenger)
	opponent = fold(opponent)
	channel = fold(channel)

	if s.participantBusy(challenger, channel) || s.participantBusy(opponent, channel) {
		return nil, models.ErrAlreadyInDuel
	}
	if !finite(stake) {
		return nil, models.ErrNonFiniteAmount
	}
	if stake < 0 {
		return nil, models.ErrNegativeStake
	}
	if opponent == challenger {
		return nil, models.ErrSelfDuel
	}
	if roll.Sides < 2 {
		return nil, models.ErrInvalidDiceRoll
	}

	balance, err := s.ledger.GetBalance(ctx, challenger, channel)
	if err != nil {
		return nil, err
	}
	if balance < stake {
		return nil, models.ErrInsufficientFunds
	}

	duel := &models.Duel{
		ID:                uuid.New(),
		Challenger:        challenger,
		ChallengerDisplay: challengerDisplay,
		Opponent:          opponent,
		Channel:           channel,
		Roll:              roll,
		Stake:             stake,
		CreatedAt:         time.Now(),
	}

	s.mu.Lock()
	// Re-check under the lock: a concurrent propose may have won the race
	// since the unlocked check above
	for _, entry := range s.duels {
		if entry.duel.Channel == channel && (entry.duel.Involves(challenger) || entry.duel.Involves(opponent)) {
			s.mu.Unlock()
			return nil, models.ErrAlreadyInDuel
		}
	}
	entry := &duelEntry{duel: duel}
	entry.timer = time.AfterFunc(s.timeout, func() {
		s.expire(duel.ID)
	})
	s.duels[duel.ID] = entry
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"duelID":     duel.ID,
		"challenger": challenger,
		"opponent":   opponent,
		"channel":    channel,
		"stake":      stake,
		"roll":       roll.String(),
	}).Info("Duel proposed")

	return duel, nil
}

// Accept settles the pending duel whose named opponent is sender. The duel
// is removed from the registry before any ledger call, win, loss, or draw.
func (s *duelService) Accept(ctx context.Context, sender, channel string) (*models.DuelResult, error) {
	duel := s.take(fold(sender), fold(channel))
	if duel == nil {
		return nil, models.ErrNoActiveDuel
	}

	result := &models.DuelResult{Duel: duel}

	opponentBalance, err := s.ledger.GetBalance(ctx, duel.Opponent, duel.Channel)
	if err != nil {
		return nil, err
	}
	// An opponent below the stake is only warned, not blocked; the ledger
	// allows the resulting debt
	result.OpponentShort = opponentBalance < duel.Stake

	result.ChallengerRoll = s.rollFn(duel.Roll)
	result.OpponentRoll = s.rollFn(duel.Roll)

	switch {
	case result.ChallengerRoll.Total > result.OpponentRoll.Total:
		result.Winner = duel.Challenger
		result.Loser = duel.Opponent
	case result.OpponentRoll.Total > result.ChallengerRoll.Total:
		result.Winner = duel.Opponent
		result.Loser = duel.Challenger
	default:
		result.Draw = true
	}

	if !result.Draw {
		if err := s.ledger.Transfer(ctx, result.Loser, result.Winner, duel.Channel, duel.Stake); err != nil {
			return nil, err
		}
	}

	log.WithFields(log.Fields{
		"duelID": duel.ID,
		"winner": result.Winner,
		"draw":   result.Draw,
	}).Info("Duel settled")

	s.bus.Emit(ctx, events.DuelResolvedEvent{Result: result})

	return result, nil
}

// Decline drops the pending duel whose named opponent is sender. No funds
// move.
func (s *duelService) Decline(ctx context.Context, sender, channel string) (*models.Duel, error) {
	duel := s.take(fold(sender), fold(channel))
	if duel == nil {
		return nil, models.ErrNoActiveDuel
	}

	log.WithFields(log.Fields{
		"duelID":   duel.ID,
		"decliner": sender,
	}).Info("Duel declined")

	return duel, nil
}

// Stop cancels all pending expiry timers and clears the registry
func (s *duelService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.duels {
		entry.timer.Stop()
		delete(s.duels, id)
	}
}

// take removes and returns the duel targeting (opponent, channel), stopping
// its timer, or nil when there is none
func (s *duelService) take(opponent, channel string) *models.Duel {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.duels {
		if entry.duel.Opponent == opponent && entry.duel.Channel == channel {
			delete(s.duels, id)
			entry.timer.Stop()
			return entry.duel
		}
	}
	return nil
}

// participantBusy reports whether username is part of any pending duel in
// channel
func (s *duelService) participantBusy(username, channel string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.duels {
		if entry.duel.Channel == channel && entry.duel.Involves(username) {
			return true
		}
	}
	return false
}

// expire removes a duel whose timer fired. Tolerates the duel having been
// settled or declined in the meantime.
func (s *duelService) expire(id uuid.UUID) {
	s.mu.Lock()
	entry, ok := s.duels[id]
	if ok {
		delete(s.duels, id)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	log.WithFields(log.Fields{
		"duelID":     id,
		"challenger": entry.duel.Challenger,
		"opponent":   entry.duel.Opponent,
	}).Info("Duel expired")

	s.bus.Emit(context.Background(), events.DuelExpiredEvent{Duel: entry.duel})
}

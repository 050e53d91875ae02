package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"croupier/events"
	"croupier/models"
)

// handleDuel proposes a wager: duel <opponent> <dice> <stake>
func (b *Bot) handleDuel(ctx context.Context, cmd Command) {
	if len(cmd.Params) < 3 {
		b.reply(cmd, "Usage: duel <user> <dice> <stake>")
		return
	}

	opponent := stripMention(cmd.Params[0])

	roll, err := models.ParseDiceRoll(cmd.Params[1])
	if err != nil {
		b.reply(cmd, "%s is not a valid dice roll.", cmd.Params[1])
		return
	}

	stake := parseAmount(cmd.Params[2])

	duel, err := b.duels.Propose(ctx, cmd.Sender.Name(), cmd.Sender.DisplayName(), opponent, cmd.Channel, roll, stake)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrAlreadyInDuel):
			b.reply(cmd, "You or %s already have a duel running.", opponent)
		case errors.Is(err, models.ErrNonFiniteAmount), errors.Is(err, models.ErrNegativeStake):
			b.reply(cmd, "%s is not a valid stake.", cmd.Params[2])
		case errors.Is(err, models.ErrSelfDuel):
			b.reply(cmd, "You can't duel yourself.")
		case errors.Is(err, models.ErrInvalidDiceRoll):
			b.reply(cmd, "%s is not a valid dice roll.", cmd.Params[1])
		case errors.Is(err, models.ErrInsufficientFunds):
			b.reply(cmd, "You don't have enough for that.")
		default:
			b.logError(cmd, err)
		}
		return
	}

	b.say(cmd.Channel, fmt.Sprintf("@%s %s challenges you to a duel (%s) for %s! Type accept or decline.",
		duel.Opponent, duel.ChallengerDisplay, duel.Roll, b.ledger.Currency().Format(duel.Stake)))
}

// handleAccept settles the duel targeting the sender. No pending duel is a
// silent no-op; only the named opponent ever gets this far.
func (b *Bot) handleAccept(ctx context.Context, cmd Command) {
	result, err := b.duels.Accept(ctx, cmd.Sender.Name(), cmd.Channel)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveDuel) {
			return
		}
		b.logError(cmd, err)
		return
	}

	if result.OpponentShort {
		b.reply(cmd, "You don't have enough to cover the stake!")
	}

	duel := result.Duel
	b.say(cmd.Channel, formatRoll(duel.ChallengerDisplay, result.ChallengerRoll))
	b.say(cmd.Channel, formatRoll(cmd.Sender.DisplayName(), result.OpponentRoll))

	if result.Draw {
		b.say(cmd.Channel, fmt.Sprintf("The duel between %s and %s is a draw. Nobody wins.",
			duel.ChallengerDisplay, cmd.Sender.DisplayName()))
		return
	}

	winnerDisplay := cmd.Sender.DisplayName()
	if result.Winner == duel.Challenger {
		winnerDisplay = duel.ChallengerDisplay
	}
	b.say(cmd.Channel, fmt.Sprintf("%s wins %s!", winnerDisplay, b.ledger.Currency().Format(duel.Stake)))
}

// handleDecline drops the duel targeting the sender
func (b *Bot) handleDecline(ctx context.Context, cmd Command) {
	duel, err := b.duels.Decline(ctx, cmd.Sender.Name(), cmd.Channel)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveDuel) {
			return
		}
		b.logError(cmd, err)
		return
	}

	b.say(cmd.Channel, fmt.Sprintf("@%s %s declined the duel.", duel.Challenger, cmd.Sender.DisplayName()))
}

// handleDuelExpired announces a duel removed because nobody responded in
// time
func (b *Bot) handleDuelExpired(ctx context.Context, event events.Event) {
	expired, ok := event.(events.DuelExpiredEvent)
	if !ok {
		return
	}

	duel := expired.Duel
	b.say(duel.Channel, fmt.Sprintf("The duel between %s and %s expired.", duel.ChallengerDisplay, duel.Opponent))
}

func formatRoll(display string, outcome models.RollOutcome) string {
	rolls := make([]string, len(outcome.Rolls))
	for i, r := range outcome.Rolls {
		rolls[i] = fmt.Sprintf("%d", r)
	}
	return fmt.Sprintf("%s rolled %d (%s).", display, outcome.Total, strings.Join(rolls, ", "))
}

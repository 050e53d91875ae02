package bot

import (
	"context"
	"errors"
	"math"
	"strings"

	"croupier/models"
)

// handleCredits implements the currency command: a bare invocation reports
// the sender's balance, subcommands manage balances.
func (b *Bot) handleCredits(ctx context.Context, cmd Command) {
	if len(cmd.Params) == 0 {
		b.cmdGetBalance(ctx, cmd)
		return
	}

	switch strings.ToLower(cmd.Params[0]) {
	case "give":
		b.cmdGiveAmount(ctx, cmd)
	case "set":
		b.cmdSetAmount(ctx, cmd)
	case "add":
		b.cmdAddAmount(ctx, cmd)
	case "sub", "take":
		b.cmdSubAmount(ctx, cmd)
	}
}

func (b *Bot) cmdGetBalance(ctx context.Context, cmd Command) {
	balance, err := b.ledger.GetBalance(ctx, cmd.Sender.Name(), cmd.Channel)
	if err != nil {
		b.logError(cmd, err)
		return
	}

	b.reply(cmd, "You have %s.", b.ledger.Currency().Format(balance))
}

// cmdGiveAmount transfers from the sender to another user. Anyone may give;
// the amount is taken as an absolute value.
func (b *Bot) cmdGiveAmount(ctx context.Context, cmd Command) {
	if len(cmd.Params) < 3 {
		return
	}

	recipient := stripMention(cmd.Params[1])
	amount := math.Abs(parseAmount(cmd.Params[2]))

	known, err := b.ledger.HasAccount(ctx, recipient, cmd.Channel)
	if err != nil {
		b.logError(cmd, err)
		return
	}
	if !known {
		b.reply(cmd, "I don't know the user %s.", recipient)
		return
	}

	balance, err := b.ledger.GetBalance(ctx, cmd.Sender.Name(), cmd.Channel)
	if err != nil {
		b.logError(cmd, err)
		return
	}
	if amount > balance {
		b.reply(cmd, "You don't have enough for that.")
		return
	}

	if err := b.ledger.Transfer(ctx, cmd.Sender.Name(), recipient, cmd.Channel, amount); err != nil {
		if errors.Is(err, models.ErrNonFiniteAmount) {
			b.reply(cmd, "%s is not a valid amount.", cmd.Params[2])
			return
		}
		b.logError(cmd, err)
		return
	}

	b.reply(cmd, "You gave %s to %s.", b.ledger.Currency().Format(amount), recipient)
}

func (b *Bot) cmdSetAmount(ctx context.Context, cmd Command) {
	if !cmd.Sender.HasPermission(PermissionBroadcaster) || len(cmd.Params) < 3 {
		return
	}

	recipient := stripMention(cmd.Params[1])
	newAmount := parseAmount(cmd.Params[2])

	if err := b.ledger.SetBalance(ctx, recipient, cmd.Channel, newAmount); err != nil {
		if errors.Is(err, models.ErrNonFiniteAmount) {
			b.reply(cmd, "%s is not a valid amount.", cmd.Params[2])
			return
		}
		b.logError(cmd, err)
		return
	}

	b.reply(cmd, "%s now has %s.", recipient, b.ledger.Currency().Format(newAmount))
}

func (b *Bot) cmdAddAmount(ctx context.Context, cmd Command) {
	if !cmd.Sender.HasPermission(PermissionBroadcaster) || len(cmd.Params) < 3 {
		return
	}

	recipient := stripMention(cmd.Params[1])
	amount := parseAmount(cmd.Params[2])

	if err := b.ledger.AddAmount(ctx, recipient, cmd.Channel, amount); err != nil {
		if errors.Is(err, models.ErrNonFiniteAmount) {
			b.reply(cmd, "%s is not a valid amount.", cmd.Params[2])
			return
		}
		b.logError(cmd, err)
		return
	}

	b.reply(cmd, "Added %s to %s's account.", b.ledger.Currency().Format(amount), recipient)
}

func (b *Bot) cmdSubAmount(ctx context.Context, cmd Command) {
	if !cmd.Sender.HasPermission(PermissionBroadcaster) || len(cmd.Params) < 3 {
		return
	}

	recipient := stripMention(cmd.Params[1])
	amount := parseAmount(cmd.Params[2])

	if err := b.ledger.SubtractAmount(ctx, recipient, cmd.Channel, amount); err != nil {
		if errors.Is(err, models.ErrNonFiniteAmount) {
			b.reply(cmd, "%s is not a valid amount.", cmd.Params[2])
			return
		}
		b.logError(cmd, err)
		return
	}

	b.reply(cmd, "You took %s from %s.", b.ledger.Currency().Format(amount), recipient)
}

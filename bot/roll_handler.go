package bot

import (
	"context"

	"croupier/cooldown"
	"croupier/models"
)

// handleRoll rolls dice for fun: roll [spec], defaulting to 1d6. The
// command is rate limited per channel.
func (b *Bot) handleRoll(ctx context.Context, cmd Command) {
	cd := b.rollCooldown(cmd.Channel)
	if !cd.Done() {
		return
	}

	spec := "1d6"
	if len(cmd.Params) > 0 {
		spec = cmd.Params[0]
	}

	roll, err := models.ParseDiceRoll(spec)
	if err != nil {
		b.reply(cmd, "%s is not a valid dice roll.", spec)
		return
	}

	if roll.Count > b.config.MaxRolls {
		b.reply(cmd, "You can only roll %d dice at once.", b.config.MaxRolls)
		return
	}
	if roll.Sides > b.config.MaxSides {
		b.reply(cmd, "You can only roll dice with up to %d sides.", b.config.MaxSides)
		return
	}
	if roll.Sides < 2 {
		b.reply(cmd, "Dice need at least 2 sides.")
		return
	}

	b.rngMu.Lock()
	outcome := roll.Roll(b.rng)
	b.rngMu.Unlock()

	b.say(cmd.Channel, formatRoll(cmd.Sender.DisplayName(), outcome))
	cd.Start()
}

// rollCooldown returns the cooldown gating the roll command in channel,
// creating it on first use. Every channel gets its own timer.
func (b *Bot) rollCooldown(channel string) *cooldown.Cooldown {
	b.cooldownMu.Lock()
	defer b.cooldownMu.Unlock()

	cd, ok := b.rollCooldowns[channel]
	if !ok {
		cd = cooldown.New(b.config.RollCooldown)
		b.rollCooldowns[channel] = cd
	}
	return cd
}

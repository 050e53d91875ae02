package bot

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"croupier/cooldown"
	"croupier/events"
	"croupier/service"

	log "github.com/sirupsen/logrus"
)

// Permission is the level a sender must hold for a command
type Permission int

const (
	PermissionEveryone Permission = iota
	PermissionModerator
	PermissionBroadcaster
)

// Sender identifies the user who issued a command. The host resolves
// identity and permissions; the bot only asks the predicate.
type Sender interface {
	Name() string
	DisplayName() string
	HasPermission(level Permission) bool
}

// User is a ready-made Sender for hosts that resolve permission levels up
// front
type User struct {
	Username string
	Display  string
	Level    Permission
}

func (u User) Name() string { return u.Username }

func (u User) DisplayName() string {
	if u.Display != "" {
		return u.Display
	}
	return u.Username
}

func (u User) HasPermission(level Permission) bool { return u.Level >= level }

// Command is a resolved chat command handed over by the host
type Command struct {
	Name    string
	Channel string
	Sender  Sender
	Params  []string
}

// MessageSender delivers chat messages back to a channel, fire and forget
type MessageSender interface {
	Send(channel, text string)
}

// Config holds bot configuration
type Config struct {
	MaxRolls     int
	MaxSides     int
	RollCooldown time.Duration
}

type registeredCommand struct {
	handler    func(ctx context.Context, cmd Command)
	permission Permission
}

type Bot struct {
	config   Config
	sender   MessageSender
	ledger   service.LedgerService
	duels    service.DuelService
	commands map[string]registeredCommand

	cooldownMu    sync.Mutex
	rollCooldowns map[string]*cooldown.Cooldown

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New creates the command layer over an abstract chat host and subscribes
// it to duel expiry notices
func New(config Config, sender MessageSender, ledger service.LedgerService, duels service.DuelService, eventBus *events.Bus) *Bot {
	b := &Bot{
		config:        config,
		sender:        sender,
		ledger:        ledger,
		duels:         duels,
		rollCooldowns: make(map[string]*cooldown.Cooldown),
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	b.registerCommands()

	eventBus.Subscribe(events.EventTypeDuelExpired, b.handleDuelExpired)

	return b
}

func (b *Bot) registerCommands() {
	b.commands = map[string]registeredCommand{
		"credits": {handler: b.handleCredits, permission: PermissionEveryone},
		"duel":    {handler: b.handleDuel, permission: PermissionEveryone},
		"accept":  {handler: b.handleAccept, permission: PermissionEveryone},
		"decline": {handler: b.handleDecline, permission: PermissionEveryone},
		"roll":    {handler: b.handleRoll, permission: PermissionEveryone},
	}
}

// HandleCommand dispatches a resolved command from the host. Unknown
// commands and failed permission checks are ignored.
func (b *Bot) HandleCommand(ctx context.Context, cmd Command) {
	entry, ok := b.commands[strings.ToLower(cmd.Name)]
	if !ok {
		return
	}
	if !cmd.Sender.HasPermission(entry.permission) {
		return
	}
	entry.handler(ctx, cmd)
}

func (b *Bot) say(channel, text string) {
	b.sender.Send(channel, text)
}

// reply addresses the acting user by display name, the way every rejection
// and confirmation message does
func (b *Bot) reply(cmd Command, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	b.say(cmd.Channel, fmt.Sprintf("@%s %s", cmd.Sender.DisplayName(), text))
}

func (b *Bot) logError(cmd Command, err error) {
	log.WithFields(log.Fields{
		"command": cmd.Name,
		"channel": cmd.Channel,
		"sender":  cmd.Sender.Name(),
	}).WithError(err).Error("Command failed")
}

// parseAmount mirrors a lenient float parse: anything unparseable becomes
// NaN and is rejected downstream by the ledger's finiteness check
func parseAmount(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// stripMention removes a leading @ so "@user" and "user" address the same
// account
func stripMention(s string) string {
	return strings.TrimPrefix(s, "@")
}

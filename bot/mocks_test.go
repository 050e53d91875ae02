package bot

import (
	"context"
	"sync"
	"time"

	"croupier/events"
	"croupier/models"
	"croupier/service"

	"github.com/stretchr/testify/mock"
)

// fakeSender records every message the bot sends
type fakeSender struct {
	mu       sync.Mutex
	messages []sentMessage
}

type sentMessage struct {
	Channel string
	Text    string
}

func (f *fakeSender) Send(channel, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{Channel: channel, Text: text})
}

func (f *fakeSender) Sent() []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMessage, len(f.messages))
	copy(out, f.messages)
	return out
}

func (f *fakeSender) LastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1].Text
}

// MockLedger is a mock implementation of service.LedgerService
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) HasAccount(ctx context.Context, username, channel string) (bool, error) {
	args := m.Called(ctx, username, channel)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) GetBalance(ctx context.Context, username, channel string) (float64, error) {
	args := m.Called(ctx, username, channel)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockLedger) SetBalance(ctx context.Context, username, channel string, balance float64) error {
	args := m.Called(ctx, username, channel, balance)
	return args.Error(0)
}

func (m *MockLedger) AddAmount(ctx context.Context, username, channel string, amount float64) error {
	args := m.Called(ctx, username, channel, amount)
	return args.Error(0)
}

func (m *MockLedger) SubtractAmount(ctx context.Context, username, channel string, amount float64) error {
	args := m.Called(ctx, username, channel, amount)
	return args.Error(0)
}

func (m *MockLedger) Transfer(ctx context.Context, from, to, channel string, amount float64) error {
	args := m.Called(ctx, from, to, channel, amount)
	return args.Error(0)
}

func (m *MockLedger) Currency() models.Currency {
	return models.NewCurrency("Credit", "Credits", 2)
}

// MockDuels is a mock implementation of service.DuelService
type MockDuels struct {
	mock.Mock
}

func (m *MockDuels) Propose(ctx context.Context, challenger, challengerDisplay, opponent, channel string, roll models.DiceRoll, stake float64) (*models.Duel, error) {
	args := m.Called(ctx, challenger, challengerDisplay, opponent, channel, roll, stake)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Duel), args.Error(1)
}

func (m *MockDuels) Accept(ctx context.Context, sender, channel string) (*models.DuelResult, error) {
	args := m.Called(ctx, sender, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DuelResult), args.Error(1)
}

func (m *MockDuels) Decline(ctx context.Context, sender, channel string) (*models.Duel, error) {
	args := m.Called(ctx, sender, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Duel), args.Error(1)
}

func (m *MockDuels) Stop() {
	m.Called()
}

type botFixture struct {
	bot    *Bot
	sender *fakeSender
	ledger *MockLedger
	duels  *MockDuels
	bus    *events.Bus
}

func newBotFixture() *botFixture {
	sender := &fakeSender{}
	ledger := new(MockLedger)
	duels := new(MockDuels)
	bus := events.NewBus()

	b := New(Config{
		MaxRolls:     20,
		MaxSides:     120,
		RollCooldown: time.Hour,
	}, sender, ledger, duels, bus)

	return &botFixture{bot: b, sender: sender, ledger: ledger, duels: duels, bus: bus}
}

func command(name, channel string, sender Sender, params ...string) Command {
	return Command{Name: name, Channel: channel, Sender: sender, Params: params}
}

func viewer(name string) User {
	return User{Username: name, Level: PermissionEveryone}
}

func broadcaster(name string) User {
	return User{Username: name, Level: PermissionBroadcaster}
}

var _ service.LedgerService = (*MockLedger)(nil)
var _ service.DuelService = (*MockDuels)(nil)

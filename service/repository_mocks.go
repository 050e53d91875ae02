package service

import (
	"context"

	"croupier/events"
	"croupier/models"

	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Exists(ctx context.Context, username, channel string) (bool, error) {
	args := m.Called(ctx, username, channel)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountRepository) GetOrCreate(ctx context.Context, username, channel string) (*models.Account, bool, error) {
	args := m.Called(ctx, username, channel)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) GetOrCreateForUpdate(ctx context.Context, username, channel string) (*models.Account, bool, error) {
	args := m.Called(ctx, username, channel)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Account), args.Bool(1), args.Error(2)
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, username, channel string, balance float64) error {
	args := m.Called(ctx, username, channel, balance)
	return args.Error(0)
}

// RecordingPublisher collects events published inside a unit of work so
// tests can assert on them
type RecordingPublisher struct {
	Events []events.Event
}

func (p *RecordingPublisher) Publish(e events.Event) {
	p.Events = append(p.Events, e)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	accountRepo AccountRepository
	publisher   *RecordingPublisher
}

// SetRepositories configures the repositories returned by this unit of work
func (m *MockUnitOfWork) SetRepositories(accountRepo AccountRepository) {
	m.accountRepo = accountRepo
	m.publisher = &RecordingPublisher{}
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) AccountRepository() AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.publisher
}

// Published returns the events recorded by this unit of work
func (m *MockUnitOfWork) Published() []events.Event {
	return m.publisher.Events
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockDuelLedger is a mock implementation of the DuelLedger dependency
type MockDuelLedger struct {
	mock.Mock
}

func (m *MockDuelLedger) GetBalance(ctx context.Context, username, channel string) (float64, error) {
	args := m.Called(ctx, username, channel)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockDuelLedger) Transfer(ctx context.Context, from, to, channel string, amount float64) error {
	args := m.Called(ctx, from, to, channel, amount)
	return args.Error(0)
}

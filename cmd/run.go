package cmd

import (
	"context"
	"fmt"

	"croupier/bot"
	"croupier/config"
	"croupier/database"
	"croupier/events"
	"croupier/models"
	"croupier/repository"
	"croupier/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes the ledger and duel engine and serves commands from the
// given chat host until the context is cancelled
func Run(ctx context.Context, host bot.Host) error {
	cfg := config.Get()

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetLevel(log.DebugLevel)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	currency := models.NewCurrency(cfg.CurrencySingular, cfg.CurrencyPlural, cfg.CurrencyDecimals)
	ledgerService := service.NewLedgerService(uowFactory, currency)
	duelService := service.NewDuelService(ledgerService, eventBus, cfg.DuelTimeout)
	defer duelService.Stop()

	chatBot := bot.New(bot.Config{
		MaxRolls:     cfg.MaxRolls,
		MaxSides:     cfg.MaxSides,
		RollCooldown: cfg.RollCooldown,
	}, host, ledgerService, duelService, eventBus)

	dispatcher := newChannelDispatcher(chatBot.HandleCommand)
	defer dispatcher.Stop()

	log.WithField("environment", cfg.Environment).Info("Bot is running")

	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down...")
			return nil
		case cmd, ok := <-host.Commands():
			if !ok {
				log.Info("Host closed the command stream")
				return nil
			}
			// Commands within one channel are handled in arrival order;
			// channels proceed independently
			dispatcher.Dispatch(ctx, cmd)
		}
	}
}

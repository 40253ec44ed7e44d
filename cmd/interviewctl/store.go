package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/interviewplatform/pkg/config"
	"github.com/codeready-toolchain/interviewplatform/pkg/scheduling"
	"github.com/codeready-toolchain/interviewplatform/pkg/store"
)

// openStore loads configuration and opens the store the same way
// cmd/interviewd does, so operator commands see exactly the environment the
// daemon runs against. .env loading failure is non-fatal, matching
// cmd/tarsy/main.go's "continue with existing environment" tolerance.
func openStore(ctx context.Context) (*store.Store, *config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}

	st, err := store.New(ctx, store.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return st, cfg, nil
}

func openScheduler(st *store.Store, cfg *config.Config) (*scheduling.Scheduler, error) {
	return scheduling.New(st, cfg.Scheduling.Timezone, cfg.Token.LateGrace, nil)
}

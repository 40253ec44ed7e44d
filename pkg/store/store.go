// Package store is the persistence layer for the interview platform,
// implemented directly against PostgreSQL via jackc/pgx/v5. It replaces
// the teacher's ent-generated client (see DESIGN.md "Dropped: entgo.io/ent")
// while keeping the teacher's migration-execution approach
// (golang-migrate + embedded SQL, pkg/database/client.go) and the column
// shapes implied by its ent schemas.
package store

import (
	"context"
	stdsql "database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations
var migrationsFS embed.FS

// Config holds database connection settings, mirroring config.DatabaseConfig.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
}

func (c Config) dsn() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// Store wraps a pgx connection pool with one repository per aggregate.
type Store struct {
	pool *pgxpool.Pool

	Jobs        *JobRepo
	Candidates  *CandidateRepo
	Slots       *SlotRepo
	Interviews  *InterviewRepo
	Schedules   *ScheduleRepo
	Sessions    *SessionRepo
	Questions   *QuestionRepo
	Responses   *ResponseRepo
	Code        *CodeSubmissionRepo
	TestCases   *TestCaseRepo
	Warnings    *WarningRepo
	Evaluations *EvaluationRepo
}

// Pool exposes the underlying pool for callers (e.g. transactions spanning
// repos, such as Scheduler.Book) that need to coordinate multiple repos in
// one transaction.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// BeginTx starts a transaction. Callers must Commit or Rollback.
func (s *Store) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return s.pool.Begin(ctx)
}

// Close releases the pool.
func (s *Store) Close() { s.pool.Close() }

// New opens a pool, runs pending migrations, and wires repositories.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if err := runMigrations(cfg); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &Store{
		pool:        pool,
		Jobs:        &JobRepo{pool: pool},
		Candidates:  &CandidateRepo{pool: pool},
		Slots:       &SlotRepo{pool: pool},
		Interviews:  &InterviewRepo{pool: pool},
		Schedules:   &ScheduleRepo{pool: pool},
		Sessions:    &SessionRepo{pool: pool},
		Questions:   &QuestionRepo{pool: pool},
		Responses:   &ResponseRepo{pool: pool},
		Code:        &CodeSubmissionRepo{pool: pool},
		TestCases:   &TestCaseRepo{pool: pool},
		Warnings:    &WarningRepo{pool: pool},
		Evaluations: &EvaluationRepo{pool: pool},
	}, nil
}

// runMigrations applies embedded SQL migrations using golang-migrate, the
// same iofs+postgres driver combination as the teacher's
// pkg/database/client.go runMigrations, minus the ent-driver wiring.
func runMigrations(cfg Config) error {
	db, err := stdsql.Open("pgx", cfg.dsn())
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}
	defer sourceDriver.Close()

	m, err := migrate.NewWithInstance("iofs", sourceDriver, cfg.Database, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

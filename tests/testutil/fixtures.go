package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	postgresRepo "github.com/iho/loanledger/internal/adapter/repository/postgres"
	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/infrastructure/postgres"
)

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool *pgxpool.Pool
	t    *testing.T
}

// NewTestDB connects to the database named by DATABASE_URL and applies
// migrations. Tests are skipped when no database is configured.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping database tests")
	}

	// Tests may run from the project root or a package directory.
	migrationsPath := "migrations"
	if _, err := os.Stat(migrationsPath); os.IsNotExist(err) {
		migrationsPath = "../../migrations"
	}

	if err := postgres.RunMigrations(dbURL, migrationsPath); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		t:    t,
	}
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE payments CASCADE;
		TRUNCATE TABLE loans CASCADE;
		TRUNCATE TABLE collaterals CASCADE;
		TRUNCATE TABLE rate_entries CASCADE;
		TRUNCATE TABLE clients CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestClient inserts a client row and returns it.
func (db *TestDB) CreateTestClient(ctx context.Context, name, document string) *domain.Client {
	db.t.Helper()

	now := time.Now().UTC()
	client := &domain.Client{
		ID:        ulid.Make().String(),
		Name:      name,
		Document:  document,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := postgresRepo.NewClientRepository(db.Pool).Create(ctx, client); err != nil {
		db.t.Fatalf("failed to create test client: %v", err)
	}

	return client
}

// CreateTestCollateral inserts an available collateral row and returns it.
func (db *TestDB) CreateTestCollateral(ctx context.Context, description string, value decimal.Decimal) *domain.Collateral {
	db.t.Helper()

	now := time.Now().UTC()
	collateral := &domain.Collateral{
		ID:             ulid.Make().String(),
		Description:    description,
		EstimatedValue: value,
		Status:         domain.CollateralStatusAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := postgresRepo.NewCollateralRepository(db.Pool).Create(ctx, collateral); err != nil {
		db.t.Fatalf("failed to create test collateral: %v", err)
	}

	return collateral
}

// CreateTestRate inserts an active rate catalog entry and returns it.
func (db *TestDB) CreateTestRate(ctx context.Context, principal, weeklyInstallment decimal.Decimal, installments int) *domain.RateEntry {
	db.t.Helper()

	now := time.Now().UTC()
	rate := &domain.RateEntry{
		Principal:         principal,
		WeeklyInstallment: weeklyInstallment,
		InstallmentCount:  installments,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := postgresRepo.NewRateRepository(db.Pool).Create(ctx, rate); err != nil {
		db.t.Fatalf("failed to create test rate: %v", err)
	}

	return rate
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}

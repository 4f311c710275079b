package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/loanledger/internal/domain"
)

const pgErrUniqueViolation = "23505"

// RateRepository implements usecase.RateRepository. The catalog is keyed by
// principal; a principal carries at most one entry.
type RateRepository struct {
	pool *pgxpool.Pool
}

// NewRateRepository creates a new RateRepository.
func NewRateRepository(pool *pgxpool.Pool) *RateRepository {
	return &RateRepository{pool: pool}
}

// Create inserts a catalog entry.
func (r *RateRepository) Create(ctx context.Context, rate *domain.RateEntry) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO rate_entries (principal, weekly_installment, installment_count, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		decimalToNumeric(rate.Principal),
		decimalToNumeric(rate.WeeklyInstallment),
		rate.InstallmentCount,
		rate.Active,
		timeToPgTimestamptz(rate.CreatedAt),
		timeToPgTimestamptz(rate.UpdatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrRateAlreadyExists
		}

		return err
	}

	return nil
}

// GetByPrincipal retrieves the entry for a principal.
func (r *RateRepository) GetByPrincipal(ctx context.Context, principal decimal.Decimal) (*domain.RateEntry, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT principal, weekly_installment, installment_count, active, created_at, updated_at
		FROM rate_entries
		WHERE principal = $1`,
		decimalToNumeric(principal),
	)

	rate, err := scanRate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRateNotFound
		}

		return nil, err
	}

	return rate, nil
}

// ListActive lists active entries ordered by principal ascending.
func (r *RateRepository) ListActive(ctx context.Context) ([]*domain.RateEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT principal, weekly_installment, installment_count, active, created_at, updated_at
		FROM rate_entries
		WHERE active
		ORDER BY principal ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rates []*domain.RateEntry

	for rows.Next() {
		rate, err := scanRate(rows)
		if err != nil {
			return nil, err
		}

		rates = append(rates, rate)
	}

	return rates, rows.Err()
}

// SetActive flips an entry's active flag.
func (r *RateRepository) SetActive(ctx context.Context, principal decimal.Decimal, active bool, updatedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE rate_entries
		SET active = $2, updated_at = $3
		WHERE principal = $1`,
		decimalToNumeric(principal),
		active,
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRateNotFound
	}

	return nil
}

func scanRate(row pgx.Row) (*domain.RateEntry, error) {
	var (
		rate                 domain.RateEntry
		principal            pgtype.Numeric
		installment          pgtype.Numeric
		createdAt, updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&principal, &installment, &rate.InstallmentCount, &rate.Active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	rate.Principal = numericToDecimal(principal)
	rate.WeeklyInstallment = numericToDecimal(installment)
	rate.CreatedAt = createdAt.Time
	rate.UpdatedAt = updatedAt.Time

	return &rate, nil
}

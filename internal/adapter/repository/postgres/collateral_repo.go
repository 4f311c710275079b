package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/usecase"
)

// CollateralRepository implements usecase.CollateralRepository.
type CollateralRepository struct {
	pool *pgxpool.Pool
}

// NewCollateralRepository creates a new CollateralRepository.
func NewCollateralRepository(pool *pgxpool.Pool) *CollateralRepository {
	return &CollateralRepository{pool: pool}
}

const collateralColumns = `id, description, estimated_value, status, created_at, updated_at`

// Create registers a collateral item.
func (r *CollateralRepository) Create(ctx context.Context, collateral *domain.Collateral) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO collaterals (`+collateralColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		collateral.ID,
		collateral.Description,
		decimalToNumeric(collateral.EstimatedValue),
		string(collateral.Status),
		timeToPgTimestamptz(collateral.CreatedAt),
		timeToPgTimestamptz(collateral.UpdatedAt),
	)

	return err
}

// GetByID retrieves a collateral item by ID.
func (r *CollateralRepository) GetByID(ctx context.Context, id string) (*domain.Collateral, error) {
	return r.get(ctx, r.pool, id, "")
}

// GetByIDForUpdate retrieves a collateral item with a FOR UPDATE lock.
func (r *CollateralRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Collateral, error) {
	return r.get(ctx, txQuerier(tx), id, " FOR UPDATE")
}

func (r *CollateralRepository) get(ctx context.Context, q querier, id, lock string) (*domain.Collateral, error) {
	row := q.QueryRow(ctx, `
		SELECT `+collateralColumns+`
		FROM collaterals
		WHERE id = $1`+lock,
		id,
	)

	collateral, err := scanCollateral(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCollateralNotFound
		}

		return nil, err
	}

	return collateral, nil
}

// UpdateStatus transitions a collateral item's status.
func (r *CollateralRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.CollateralStatus, updatedAt time.Time) error {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE collaterals
		SET status = $2, updated_at = $3
		WHERE id = $1`,
		id,
		string(status),
		timeToPgTimestamptz(updatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrCollateralNotFound
	}

	return nil
}

// List lists collateral items ordered by ID with pagination.
func (r *CollateralRepository) List(ctx context.Context, limit, offset int) ([]*domain.Collateral, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+collateralColumns+`
		FROM collaterals
		ORDER BY id
		LIMIT $1 OFFSET $2`,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collaterals []*domain.Collateral

	for rows.Next() {
		collateral, err := scanCollateral(rows)
		if err != nil {
			return nil, err
		}

		collaterals = append(collaterals, collateral)
	}

	return collaterals, rows.Err()
}

func scanCollateral(row pgx.Row) (*domain.Collateral, error) {
	var (
		collateral           domain.Collateral
		value                pgtype.Numeric
		status               string
		createdAt, updatedAt pgtype.Timestamptz
	)

	if err := row.Scan(&collateral.ID, &collateral.Description, &value, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	collateral.EstimatedValue = numericToDecimal(value)
	collateral.Status = domain.CollateralStatus(status)
	collateral.CreatedAt = createdAt.Time
	collateral.UpdatedAt = updatedAt.Time

	return &collateral, nil
}

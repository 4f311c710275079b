package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/loanledger/internal/domain"
	"github.com/iho/loanledger/internal/usecase"
)

// PaymentRepository implements usecase.PaymentRepository. Payments are
// immutable rows; reversal deletes the row and the ledger recomputes.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

const paymentColumns = `id, loan_id, amount, payment_date, recorded_at`

// Create inserts a payment.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		payment.ID,
		payment.LoanID,
		decimalToNumeric(payment.Amount),
		timeToPgTimestamptz(payment.PaymentDate),
		timeToPgTimestamptz(payment.RecordedAt),
	)

	return err
}

// GetByID retrieves a payment inside the caller's transaction.
func (r *PaymentRepository) GetByID(ctx context.Context, tx usecase.Transaction, id string) (*domain.Payment, error) {
	row := txQuerier(tx).QueryRow(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE id = $1`,
		id,
	)

	payment, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, err
	}

	return payment, nil
}

// Delete removes a payment.
func (r *PaymentRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txQuerier(tx).Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}

	return nil
}

// CountByLoan counts a loan's payments inside the caller's transaction.
func (r *PaymentRepository) CountByLoan(ctx context.Context, tx usecase.Transaction, loanID string) (int64, error) {
	q := querier(r.pool)
	if tx != nil {
		q = txQuerier(tx)
	}

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payments WHERE loan_id = $1`, loanID).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

// ListByLoanForUpdate lists a loan's payments inside the caller's
// transaction, locking the rows against concurrent reversal.
func (r *PaymentRepository) ListByLoanForUpdate(ctx context.Context, tx usecase.Transaction, loanID string) ([]*domain.Payment, error) {
	return r.list(ctx, txQuerier(tx), loanID, " FOR UPDATE")
}

// ListByLoan lists a loan's payments ordered by recording time.
func (r *PaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	return r.list(ctx, r.pool, loanID, "")
}

func (r *PaymentRepository) list(ctx context.Context, q querier, loanID, lock string) ([]*domain.Payment, error) {
	rows, err := q.Query(ctx, `
		SELECT `+paymentColumns+`
		FROM payments
		WHERE loan_id = $1
		ORDER BY recorded_at ASC, id ASC`+lock,
		loanID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment

	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}

		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		payment                 domain.Payment
		amount                  pgtype.Numeric
		paymentDate, recordedAt pgtype.Timestamptz
	)

	if err := row.Scan(&payment.ID, &payment.LoanID, &amount, &paymentDate, &recordedAt); err != nil {
		return nil, err
	}

	payment.Amount = numericToDecimal(amount)
	payment.PaymentDate = paymentDate.Time
	payment.RecordedAt = recordedAt.Time

	return &payment, nil
}

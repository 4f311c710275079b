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

// LoanRepository implements usecase.LoanRepository. GetByIDForUpdate takes
// the row lock that serializes concurrent mutations of one loan.
type LoanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(pool *pgxpool.Pool) *LoanRepository {
	return &LoanRepository{pool: pool}
}

const loanColumns = `id, client_id, collateral_id, guarantor_id, principal, weekly_installment,
	installment_count, total_amount, paid_amount, balance, status, issue_date, due_date,
	completed_at, created_at, updated_at`

// Create inserts a loan.
func (r *LoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	_, err := txQuerier(tx).Exec(ctx, `
		INSERT INTO loans (`+loanColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		loan.ID,
		loan.ClientID,
		loan.CollateralID,
		stringPtrToPgText(loan.GuarantorID),
		decimalToNumeric(loan.Principal),
		decimalToNumeric(loan.WeeklyInstallment),
		loan.InstallmentCount,
		decimalToNumeric(loan.TotalAmount),
		decimalToNumeric(loan.PaidAmount),
		decimalToNumeric(loan.Balance),
		string(loan.Status),
		timeToPgTimestamptz(loan.IssueDate),
		timeToPgTimestamptz(loan.DueDate),
		timePtrToPgTimestamptz(loan.CompletedAt),
		timeToPgTimestamptz(loan.CreatedAt),
		timeToPgTimestamptz(loan.UpdatedAt),
	)

	return err
}

// GetByID retrieves a loan by ID.
func (r *LoanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	return r.get(ctx, r.pool, id, "")
}

// GetByIDForUpdate retrieves a loan by ID with a FOR UPDATE lock.
func (r *LoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	return r.get(ctx, txQuerier(tx), id, " FOR UPDATE")
}

func (r *LoanRepository) get(ctx context.Context, q querier, id, lock string) (*domain.Loan, error) {
	row := q.QueryRow(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE id = $1`+lock,
		id,
	)

	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	return loan, nil
}

// Update persists a loan's mutable financial state.
func (r *LoanRepository) Update(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	tag, err := txQuerier(tx).Exec(ctx, `
		UPDATE loans
		SET paid_amount = $2, balance = $3, status = $4, completed_at = $5, updated_at = $6
		WHERE id = $1`,
		loan.ID,
		decimalToNumeric(loan.PaidAmount),
		decimalToNumeric(loan.Balance),
		string(loan.Status),
		timePtrToPgTimestamptz(loan.CompletedAt),
		timeToPgTimestamptz(loan.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// Delete removes a loan.
func (r *LoanRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	tag, err := txQuerier(tx).Exec(ctx, `DELETE FROM loans WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrLoanNotFound
	}

	return nil
}

// GetActiveByCollateral finds the active loan secured by a collateral item.
func (r *LoanRepository) GetActiveByCollateral(ctx context.Context, collateralID string) (*domain.Loan, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE collateral_id = $1 AND status = 'active'`,
		collateralID,
	)

	loan, err := scanLoan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLoanNotFound
		}

		return nil, err
	}

	return loan, nil
}

// ListByClient lists a client's loans, newest first.
func (r *LoanRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE client_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		clientID,
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLoans(rows)
}

// ListOverdue lists active loans whose due date lies strictly before asOf,
// most overdue first. Overdue is computed here, never stored.
func (r *LoanRepository) ListOverdue(ctx context.Context, asOf time.Time, limit, offset int) ([]*domain.Loan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+loanColumns+`
		FROM loans
		WHERE status = 'active' AND due_date < $1
		ORDER BY due_date ASC
		LIMIT $2 OFFSET $3`,
		timeToPgTimestamptz(asOf),
		limit,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectLoans(rows)
}

func collectLoans(rows pgx.Rows) ([]*domain.Loan, error) {
	var loans []*domain.Loan

	for rows.Next() {
		loan, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}

		loans = append(loans, loan)
	}

	return loans, rows.Err()
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var (
		loan                              domain.Loan
		guarantorID                       pgtype.Text
		principal, installment            pgtype.Numeric
		total, paid, balance              pgtype.Numeric
		status                            string
		issueDate, dueDate                pgtype.Timestamptz
		completedAt, createdAt, updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&loan.ID,
		&loan.ClientID,
		&loan.CollateralID,
		&guarantorID,
		&principal,
		&installment,
		&loan.InstallmentCount,
		&total,
		&paid,
		&balance,
		&status,
		&issueDate,
		&dueDate,
		&completedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	loan.GuarantorID = pgTextToStringPtr(guarantorID)
	loan.Principal = numericToDecimal(principal)
	loan.WeeklyInstallment = numericToDecimal(installment)
	loan.TotalAmount = numericToDecimal(total)
	loan.PaidAmount = numericToDecimal(paid)
	loan.Balance = numericToDecimal(balance)
	loan.Status = domain.LoanStatus(status)
	loan.IssueDate = issueDate.Time
	loan.DueDate = dueDate.Time
	loan.CompletedAt = pgTimestamptzToTimePtr(completedAt)
	loan.CreatedAt = createdAt.Time
	loan.UpdatedAt = updatedAt.Time

	return &loan, nil
}

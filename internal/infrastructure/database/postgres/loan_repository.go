package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
)

type LoanRepository struct {
	db     DBPool
	logger *slog.Logger
}

var _ loan.Repository = (*LoanRepository)(nil)

func NewLoanRepository(db DBPool, logger *slog.Logger) *LoanRepository {
	return &LoanRepository{db: db, logger: logger.With("component", "LoanRepository")}
}

func (r *LoanRepository) CreateLoan(ctx context.Context, newLoan *loan.Loan) (*loan.Loan, error) {
	loanSQL := `
        INSERT INTO loans (customer_id, loan_amount, tenure, interest_rate, monthly_installment, emis_paid_on_time, date_of_approval, end_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
        RETURNING id, customer_id, loan_amount, tenure, interest_rate, monthly_installment, emis_paid_on_time, date_of_approval, end_date, created_at, updated_at`

	var createdLoan loan.Loan
	err := r.db.QueryRow(ctx, loanSQL,
		newLoan.CustomerID, newLoan.Amount, newLoan.TenureYears, newLoan.InterestRate,
		newLoan.MonthlyInstallment, newLoan.EMIsPaidOnTime, newLoan.DateOfApproval, newLoan.EndDate,
	).Scan(
		&createdLoan.ID, &createdLoan.CustomerID, &createdLoan.Amount, &createdLoan.TenureYears,
		&createdLoan.InterestRate, &createdLoan.MonthlyInstallment, &createdLoan.EMIsPaidOnTime,
		&createdLoan.DateOfApproval, &createdLoan.EndDate, &createdLoan.CreatedAt, &createdLoan.UpdatedAt,
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert loan", "error", err)
		return nil, fmt.Errorf("%w: failed to insert loan: %w", apperrors.ErrDatabase, err)
	}

	r.logger.InfoContext(ctx, "Loan created in DB", "loan_id", createdLoan.ID, "customer_id", createdLoan.CustomerID)
	return &createdLoan, nil
}

func (r *LoanRepository) GetLoanByID(ctx context.Context, loanID int64) (*loan.Loan, error) {
	query := `
        SELECT id, customer_id, loan_amount, tenure, interest_rate, monthly_installment, emis_paid_on_time, date_of_approval, end_date, created_at, updated_at
        FROM loans
        WHERE id = $1`
	status := "success"
	startTime := time.Now()

	var l loan.Loan
	err := r.db.QueryRow(ctx, query, loanID).Scan(
		&l.ID, &l.CustomerID, &l.Amount, &l.TenureYears,
		&l.InterestRate, &l.MonthlyInstallment, &l.EMIsPaidOnTime,
		&l.DateOfApproval, &l.EndDate, &l.CreatedAt, &l.UpdatedAt,
	)

	if err != nil {
		status = "error"
	}
	monitoring.RecordDBQuery("GetLoanByID", status, time.Since(startTime))

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Loan not found", "loan_id", loanID)
			return nil, apperrors.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get loan by ID", "loan_id", loanID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	return &l, nil
}

func (r *LoanRepository) ListLoansByCustomerID(ctx context.Context, customerID int64) ([]loan.Loan, error) {
	query := `
        SELECT id, customer_id, loan_amount, tenure, interest_rate, monthly_installment, emis_paid_on_time, date_of_approval, end_date, created_at, updated_at
        FROM loans
        WHERE customer_id = $1
        ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to query loans for customer", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}
	defer rows.Close()

	loans := make([]loan.Loan, 0)
	for rows.Next() {
		var l loan.Loan
		err := rows.Scan(
			&l.ID, &l.CustomerID, &l.Amount, &l.TenureYears,
			&l.InterestRate, &l.MonthlyInstallment, &l.EMIsPaidOnTime,
			&l.DateOfApproval, &l.EndDate, &l.CreatedAt, &l.UpdatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to scan loan row", "customer_id", customerID, "error", err)
			return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
		}
		loans = append(loans, l)
	}

	if err = rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating loan rows", "customer_id", customerID, "error", err)
		return nil, fmt.Errorf(errMsgFormat, apperrors.ErrDatabase, err)
	}

	return loans, nil
}

func (r *LoanRepository) GetPortfolioStats(ctx context.Context) (int64, float64, error) {
	logCtx := r.logger.With(slog.String("operation", "GetPortfolioStats"))
	logCtx.DebugContext(ctx, "Attempting to compute portfolio stats")

	query := `SELECT COUNT(*), COALESCE(SUM(loan_amount), 0.00) FROM loans`

	var loanCount int64
	var totalPrincipal float64
	err := r.db.QueryRow(ctx, query).Scan(&loanCount, &totalPrincipal)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to compute portfolio stats", slog.Any("error", err))
		return 0, 0, fmt.Errorf("%w: failed to compute portfolio stats: %w", apperrors.ErrDatabase, err)
	}

	logCtx.DebugContext(ctx, "Finished computing portfolio stats", slog.Int64("loan_count", loanCount))
	return loanCount, totalPrincipal, nil
}

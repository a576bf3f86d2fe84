package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"credit-engine/internal/domain/loan"
	"credit-engine/internal/pkg/apperrors"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
)

var loanColumns = []string{"id", "customer_id", "loan_amount", "tenure", "interest_rate", "monthly_installment", "emis_paid_on_time", "date_of_approval", "end_date", "created_at", "updated_at"}

func setupLoanRepo(t *testing.T) (context.Context, *LoanRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to open a stub database connection: %v", err)
	}

	ctx := context.Background()
	repo := NewLoanRepository(mockPool, logger)

	return ctx, repo, mockPool
}

func testLoan() *loan.Loan {
	approval := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	return &loan.Loan{
		ID:                 7,
		CustomerID:         42,
		Amount:             200000,
		TenureYears:        1,
		InterestRate:       12,
		MonthlyInstallment: 17769.76,
		EMIsPaidOnTime:     true,
		DateOfApproval:     approval,
		EndDate:            approval.AddDate(0, 0, 365),
	}
}

func TestLoanRepository_CreateLoan(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	newLoan := testLoan()
	newLoan.ID = 0
	now := time.Now()

	mockPool.ExpectQuery("INSERT INTO loans").WithArgs(
		newLoan.CustomerID, newLoan.Amount, newLoan.TenureYears, newLoan.InterestRate,
		newLoan.MonthlyInstallment, newLoan.EMIsPaidOnTime, newLoan.DateOfApproval, newLoan.EndDate,
	).WillReturnRows(pgxmock.NewRows(loanColumns).
		AddRow(int64(7), newLoan.CustomerID, newLoan.Amount, newLoan.TenureYears, newLoan.InterestRate,
			newLoan.MonthlyInstallment, newLoan.EMIsPaidOnTime, newLoan.DateOfApproval, newLoan.EndDate, now, now))

	created, err := repo.CreateLoan(ctx, newLoan)
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, newLoan.Amount, created.Amount)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepository_CreateLoanWhenInsertFails(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	newLoan := testLoan()
	mockPool.ExpectQuery("INSERT INTO loans").WithArgs(
		newLoan.CustomerID, newLoan.Amount, newLoan.TenureYears, newLoan.InterestRate,
		newLoan.MonthlyInstallment, newLoan.EMIsPaidOnTime, newLoan.DateOfApproval, newLoan.EndDate,
	).WillReturnError(errors.New("connection reset"))

	created, err := repo.CreateLoan(ctx, newLoan)
	assert.Nil(t, created)
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepository_GetLoanByID(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	expected := testLoan()
	now := time.Now()

	query := `
        SELECT id, customer_id, loan_amount, tenure, interest_rate, monthly_installment, emis_paid_on_time, date_of_approval, end_date, created_at, updated_at
        FROM loans
        WHERE id = $1`

	mockPool.ExpectQuery(regexp.QuoteMeta(query)).WithArgs(expected.ID).
		WillReturnRows(pgxmock.NewRows(loanColumns).
			AddRow(expected.ID, expected.CustomerID, expected.Amount, expected.TenureYears, expected.InterestRate,
				expected.MonthlyInstallment, expected.EMIsPaidOnTime, expected.DateOfApproval, expected.EndDate, now, now))

	result, err := repo.GetLoanByID(ctx, expected.ID)
	assert.NoError(t, err)
	assert.Equal(t, expected.ID, result.ID)
	assert.Equal(t, expected.CustomerID, result.CustomerID)
	assert.Equal(t, expected.MonthlyInstallment, result.MonthlyInstallment)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepository_GetLoanByIDReturnNone(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT (.+) FROM loans").WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetLoanByID(ctx, 404)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepository_ListLoansByCustomerID(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	first := testLoan()
	second := testLoan()
	second.ID = 8
	now := time.Now()

	mockPool.ExpectQuery("SELECT (.+) FROM loans").WithArgs(first.CustomerID).
		WillReturnRows(pgxmock.NewRows(loanColumns).
			AddRow(first.ID, first.CustomerID, first.Amount, first.TenureYears, first.InterestRate,
				first.MonthlyInstallment, first.EMIsPaidOnTime, first.DateOfApproval, first.EndDate, now, now).
			AddRow(second.ID, second.CustomerID, second.Amount, second.TenureYears, second.InterestRate,
				second.MonthlyInstallment, second.EMIsPaidOnTime, second.DateOfApproval, second.EndDate, now, now))

	loans, err := repo.ListLoansByCustomerID(ctx, first.CustomerID)
	assert.NoError(t, err)
	assert.Len(t, loans, 2)
	assert.Equal(t, int64(7), loans[0].ID)
	assert.Equal(t, int64(8), loans[1].ID)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepository_ListLoansByCustomerIDReturnsEmptySlice(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT (.+) FROM loans").WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows(loanColumns))

	loans, err := repo.ListLoansByCustomerID(ctx, 42)
	assert.NoError(t, err)
	assert.NotNil(t, loans)
	assert.Empty(t, loans)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

func TestLoanRepository_GetPortfolioStats(t *testing.T) {
	ctx, repo, mockPool := setupLoanRepo(t)
	defer mockPool.Close()

	query := `SELECT COUNT(*), COALESCE(SUM(loan_amount), 0.00) FROM loans`
	mockPool.ExpectQuery(regexp.QuoteMeta(query)).
		WillReturnRows(pgxmock.NewRows([]string{"count", "coalesce"}).AddRow(int64(3), 1500000.0))

	count, total, err := repo.GetPortfolioStats(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Equal(t, 1500000.0, total)
	assert.NoError(t, mockPool.ExpectationsWereMet(), pgxmockExpectationsNotMetMsg)
}

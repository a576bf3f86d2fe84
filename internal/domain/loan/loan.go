package loan

import (
	"fmt"
	"math"
	"time"

	"credit-engine/internal/pkg/apperrors"
)

const monthsPerYear = 12

// Loan is immutable once created. MonthlyInstallment always equals the
// amortization formula applied to (Amount, InterestRate, TenureYears) at
// creation time.
type Loan struct {
	ID                 int64
	CustomerID         int64
	Amount             float64
	TenureYears        int
	InterestRate       float64
	MonthlyInstallment float64
	EMIsPaidOnTime     bool
	DateOfApproval     time.Time
	EndDate            time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// MonthlyInstallment computes the fixed periodic payment for an amortized
// loan. The annual rate is expressed in percent (12 means 12% p.a.) and is
// converted to a monthly fraction; tenure is in years and converted to a
// month count. A zero rate degenerates to straight division.
func MonthlyInstallment(principal, annualRatePercent float64, tenureYears int) (float64, error) {
	if tenureYears <= 0 {
		return 0, fmt.Errorf("%w: tenure must be a positive number of years, got %d", apperrors.ErrInvalidInput, tenureYears)
	}
	if principal <= 0 {
		return 0, fmt.Errorf("%w: principal must be positive, got %.2f", apperrors.ErrInvalidInput, principal)
	}
	if annualRatePercent < 0 {
		return 0, fmt.Errorf("%w: interest rate cannot be negative, got %.2f", apperrors.ErrInvalidInput, annualRatePercent)
	}

	r := annualRatePercent / (monthsPerYear * 100)
	n := float64(tenureYears * monthsPerYear)
	if r == 0 {
		return principal / n, nil
	}
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1), nil
}

// NewLoan builds a loan record for issuance: the installment is recomputed
// from the requested terms, the approval date is now and the end date is the
// approval date plus tenure years of 365 days each.
func NewLoan(customerID int64, amount, annualRatePercent float64, tenureYears int, approvedAt time.Time) (*Loan, error) {
	installment, err := MonthlyInstallment(amount, annualRatePercent, tenureYears)
	if err != nil {
		return nil, err
	}
	if approvedAt.IsZero() {
		approvedAt = time.Now()
	}

	return &Loan{
		CustomerID:         customerID,
		Amount:             amount,
		TenureYears:        tenureYears,
		InterestRate:       annualRatePercent,
		MonthlyInstallment: installment,
		EMIsPaidOnTime:     true,
		DateOfApproval:     approvedAt,
		EndDate:            approvedAt.AddDate(0, 0, tenureYears*365),
	}, nil
}

// RemainingRepayments reports the repayment count exposed by the loan list
// view: tenure in years times twelve.
func (l *Loan) RemainingRepayments() int {
	return l.TenureYears * monthsPerYear
}

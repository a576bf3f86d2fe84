package loan

import "context"

type Repository interface {
	CreateLoan(ctx context.Context, newLoan *Loan) (*Loan, error)

	GetLoanByID(ctx context.Context, loanID int64) (*Loan, error)

	ListLoansByCustomerID(ctx context.Context, customerID int64) ([]Loan, error)

	GetPortfolioStats(ctx context.Context) (loanCount int64, totalPrincipal float64, err error)
}

// Cache is a read-through cache for single-loan lookups. Loans never change
// after creation, so cached entries cannot go stale.
type Cache interface {
	GetLoan(ctx context.Context, loanID int64) (*Loan, bool)

	SetLoan(ctx context.Context, l *Loan)
}

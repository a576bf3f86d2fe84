package loan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

const (
	msgLoanApproved = "Loan approved successfully."
	msgLoanRejected = "Loan not approved: EMIs exceed 50% of monthly salary."
)

// EligibilityResult mirrors the check-eligibility response contract: the
// requested rate is echoed back alongside the corrected one.
type EligibilityResult struct {
	CustomerID            int64
	Approved              bool
	InterestRate          float64
	CorrectedInterestRate float64
	TenureYears           int
	MonthlyInstallment    float64
}

// IssuanceResult carries either the created loan or a business rejection.
// A rejection is a normal negative outcome, not an error: the computed
// installment and a reason are still returned to the caller.
type IssuanceResult struct {
	Loan               *Loan
	CustomerID         int64
	Approved           bool
	Message            string
	MonthlyInstallment float64
}

type LoanService interface {
	CheckEligibility(ctx context.Context, customerID int64, amount, annualRatePercent float64, tenureYears int) (*EligibilityResult, error)

	CreateLoan(ctx context.Context, customerID int64, amount, annualRatePercent float64, tenureYears int) (*IssuanceResult, error)

	GetLoanWithCustomer(ctx context.Context, loanID int64) (*Loan, *customer.Customer, error)

	ListLoansForCustomer(ctx context.Context, customerID int64) ([]Loan, error)
}

var _ LoanService = (*loanServiceImpl)(nil)

type loanServiceImpl struct {
	repo            Repository
	customerService customer.CustomerService
	cache           Cache
	pub             event.EventPublisher
	logger          *slog.Logger
	locks           customerLocks
}

func NewLoanService(r Repository, cs customer.CustomerService, cache Cache, eventPublisher event.EventPublisher, logger *slog.Logger) LoanService {
	if r == nil {
		panic("loan repository cannot be nil")
	}
	if cs == nil {
		panic("customer service cannot be nil")
	}
	if eventPublisher == nil {
		eventPublisher = event.NewNoopPublisher()
	}
	return &loanServiceImpl{
		repo:            r,
		customerService: cs,
		cache:           cache,
		pub:             eventPublisher,
		logger:          logger.With(slog.String("component", "loanService")),
	}
}

// customerLocks serializes issuance per customer so that two concurrent
// create-loan requests cannot both pass the affordability check against the
// same loan history.
type customerLocks struct {
	mu sync.Map
}

func (k *customerLocks) lock(customerID int64) func() {
	v, _ := k.mu.LoadOrStore(customerID, &sync.Mutex{})
	m := v.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (s *loanServiceImpl) CheckEligibility(ctx context.Context, customerID int64, amount, annualRatePercent float64, tenureYears int) (*EligibilityResult, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Checking loan eligibility", slog.Float64("amount", amount), slog.Int("tenure_years", tenureYears))

	cust, err := s.customerService.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer not found for eligibility check")
			return nil, fmt.Errorf("%w: customer %d not found", apperrors.ErrNotFound, customerID)
		}
		logCtx.ErrorContext(ctx, "Failed to get customer for eligibility check", slog.Any("error", err))
		return nil, fmt.Errorf("failed to verify customer: %w", err)
	}

	history, err := s.repo.ListLoansByCustomerID(ctx, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to load loan history", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load loan history for customer %d: %w", customerID, err)
	}

	decision, err := Evaluate(cust, amount, annualRatePercent, tenureYears, history)
	if err != nil {
		logCtx.WarnContext(ctx, "Eligibility evaluation rejected the input", slog.Any("error", err))
		return nil, err
	}

	outcome := "rejected"
	if decision.Approved {
		outcome = "approved"
	}
	monitoring.RecordEligibilityCheck(outcome)
	logCtx.InfoContext(ctx, "Eligibility decision made",
		slog.Bool("approved", decision.Approved),
		slog.Float64("corrected_rate", decision.EffectiveRate))

	return &EligibilityResult{
		CustomerID:            customerID,
		Approved:              decision.Approved,
		InterestRate:          annualRatePercent,
		CorrectedInterestRate: decision.EffectiveRate,
		TenureYears:           tenureYears,
		MonthlyInstallment:    decision.MonthlyInstallment,
	}, nil
}

func (s *loanServiceImpl) CreateLoan(ctx context.Context, customerID int64, amount, annualRatePercent float64, tenureYears int) (*IssuanceResult, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Creating new loan", slog.Float64("amount", amount), slog.Int("tenure_years", tenureYears))

	// Hold the per-customer lock across read-history and insert so concurrent
	// requests cannot race past the affordability threshold.
	unlock := s.locks.lock(customerID)
	defer unlock()

	cust, err := s.customerService.GetCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer not found for loan issuance")
			return nil, fmt.Errorf("%w: customer %d not found", apperrors.ErrNotFound, customerID)
		}
		logCtx.ErrorContext(ctx, "Failed to get customer for loan issuance", slog.Any("error", err))
		return nil, fmt.Errorf("failed to verify customer: %w", err)
	}

	newLoan, err := NewLoan(customerID, amount, annualRatePercent, tenureYears, time.Now())
	if err != nil {
		logCtx.WarnContext(ctx, "Invalid loan terms", slog.Any("error", err))
		return nil, err
	}

	existing, err := s.repo.ListLoansByCustomerID(ctx, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to load existing loans", slog.Any("error", err))
		return nil, fmt.Errorf("failed to load existing loans for customer %d: %w", customerID, err)
	}

	if !Affordable(cust, newLoan.MonthlyInstallment, existing) {
		monitoring.RecordLoanIssuance("rejected")
		logCtx.InfoContext(ctx, "Loan issuance rejected by affordability check",
			slog.Float64("monthly_installment", newLoan.MonthlyInstallment))
		return &IssuanceResult{
			CustomerID:         customerID,
			Approved:           false,
			Message:            msgLoanRejected,
			MonthlyInstallment: newLoan.MonthlyInstallment,
		}, nil
	}

	createdLoan, err := s.repo.CreateLoan(ctx, newLoan)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to save loan", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to save loan: %v", apperrors.ErrInternalServer, err)
	}
	monitoring.RecordLoanIssuance("approved")

	if s.cache != nil {
		s.cache.SetLoan(ctx, createdLoan)
	}

	createdEvent := event.LoanCreatedEvent{
		Timestamp: time.Now(),
		Payload: event.LoanCreatedPayload{
			LoanID:             createdLoan.ID,
			CustomerID:         createdLoan.CustomerID,
			Amount:             createdLoan.Amount,
			TenureYears:        createdLoan.TenureYears,
			InterestRate:       createdLoan.InterestRate,
			MonthlyInstallment: createdLoan.MonthlyInstallment,
			DateOfApproval:     createdLoan.DateOfApproval,
			EndDate:            createdLoan.EndDate,
		},
	}
	if pubErr := s.pub.PublishLoanCreated(ctx, createdEvent); pubErr != nil {
		logCtx.ErrorContext(ctx, "Loan created, but failed to publish creation event", slog.Any("error", pubErr))
	}

	logCtx.InfoContext(ctx, "Loan created successfully", slog.Int64("loanID", createdLoan.ID))
	return &IssuanceResult{
		Loan:               createdLoan,
		CustomerID:         customerID,
		Approved:           true,
		Message:            msgLoanApproved,
		MonthlyInstallment: createdLoan.MonthlyInstallment,
	}, nil
}

func (s *loanServiceImpl) GetLoanWithCustomer(ctx context.Context, loanID int64) (*Loan, *customer.Customer, error) {
	logCtx := s.logger.With(slog.Int64("loanID", loanID))
	logCtx.InfoContext(ctx, "Getting loan details")

	var l *Loan
	if s.cache != nil {
		if cached, ok := s.cache.GetLoan(ctx, loanID); ok {
			logCtx.DebugContext(ctx, "Loan served from cache")
			l = cached
		}
	}
	if l == nil {
		fetched, err := s.repo.GetLoanByID(ctx, loanID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logCtx.WarnContext(ctx, "Loan not found")
				return nil, nil, fmt.Errorf("%w: loan with ID %d not found", apperrors.ErrNotFound, loanID)
			}
			logCtx.ErrorContext(ctx, "Failed to get loan", slog.Any("error", err))
			return nil, nil, fmt.Errorf("%w: failed to get loan %d: %v", apperrors.ErrInternalServer, loanID, err)
		}
		l = fetched
		if s.cache != nil {
			s.cache.SetLoan(ctx, l)
		}
	}

	cust, err := s.customerService.GetCustomer(ctx, l.CustomerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to get owning customer for loan", slog.Any("error", err))
		return nil, nil, fmt.Errorf("failed to get customer %d for loan %d: %w", l.CustomerID, loanID, err)
	}

	return l, cust, nil
}

func (s *loanServiceImpl) ListLoansForCustomer(ctx context.Context, customerID int64) ([]Loan, error) {
	logCtx := s.logger.With(slog.Int64("customerID", customerID))
	logCtx.InfoContext(ctx, "Listing loans for customer")

	if _, err := s.customerService.GetCustomer(ctx, customerID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logCtx.WarnContext(ctx, "Customer not found for loan listing")
			return nil, fmt.Errorf("%w: customer %d not found", apperrors.ErrNotFound, customerID)
		}
		logCtx.ErrorContext(ctx, "Failed to verify customer for loan listing", slog.Any("error", err))
		return nil, fmt.Errorf("failed to verify customer: %w", err)
	}

	loans, err := s.repo.ListLoansByCustomerID(ctx, customerID)
	if err != nil {
		logCtx.ErrorContext(ctx, "Failed to list loans", slog.Any("error", err))
		return nil, fmt.Errorf("%w: failed to list loans for customer %d: %v", apperrors.ErrInternalServer, customerID, err)
	}

	logCtx.InfoContext(ctx, "Loans listed successfully", slog.Int("count", len(loans)))
	return loans, nil
}

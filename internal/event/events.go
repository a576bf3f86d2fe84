package event

import (
	"context"
	"time"
)

type CustomerRegisteredPayload struct {
	CustomerID    int64  `json:"customer_id"`
	Name          string `json:"name"`
	Age           int    `json:"age"`
	MonthlySalary int64  `json:"monthly_salary"`
	ApprovedLimit int64  `json:"approved_limit"`
	PhoneNumber   string `json:"phone_number"`
}

type CustomerRegisteredEvent struct {
	Timestamp time.Time                 `json:"timestamp"`
	Payload   CustomerRegisteredPayload `json:"payload"`
}

type LoanCreatedPayload struct {
	LoanID             int64     `json:"loan_id"`
	CustomerID         int64     `json:"customer_id"`
	Amount             float64   `json:"loan_amount"`
	TenureYears        int       `json:"tenure"`
	InterestRate       float64   `json:"interest_rate"`
	MonthlyInstallment float64   `json:"monthly_installment"`
	DateOfApproval     time.Time `json:"date_of_approval"`
	EndDate            time.Time `json:"end_date"`
}

type LoanCreatedEvent struct {
	Timestamp time.Time          `json:"timestamp"`
	Payload   LoanCreatedPayload `json:"payload"`
}

type EventPublisher interface {
	PublishCustomerRegistered(ctx context.Context, event CustomerRegisteredEvent) error
	PublishLoanCreated(ctx context.Context, event LoanCreatedEvent) error
}

// NoopPublisher satisfies EventPublisher when messaging is disabled.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (*NoopPublisher) PublishCustomerRegistered(context.Context, CustomerRegisteredEvent) error {
	return nil
}

func (*NoopPublisher) PublishLoanCreated(context.Context, LoanCreatedEvent) error {
	return nil
}

var _ EventPublisher = (*NoopPublisher)(nil)

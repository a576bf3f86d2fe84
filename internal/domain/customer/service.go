package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"credit-engine/internal/event"
	"credit-engine/internal/infrastructure/monitoring"
	"credit-engine/internal/pkg/apperrors"
)

const customerNotFound = "Customer not found by repository"

var ErrNotFound = apperrors.ErrNotFound

type CustomerService interface {
	RegisterCustomer(ctx context.Context, firstName, lastName string, age int, monthlySalary int64, phoneNumber string) (*Customer, error)
	GetCustomer(ctx context.Context, customerID int64) (*Customer, error)
}

var _ CustomerService = (*customerService)(nil)

type customerService struct {
	repo   CustomerRepository
	pub    event.EventPublisher
	logger *slog.Logger
}

func NewCustomerService(repo CustomerRepository, eventPublisher event.EventPublisher, logger *slog.Logger) CustomerService {
	if repo == nil {
		panic("customer repository cannot be nil")
	}
	if eventPublisher == nil {
		eventPublisher = event.NewNoopPublisher()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		logger.Warn("Warning: No logger provided to NewCustomerService, using default stderr handler")
	}

	return &customerService{
		repo:   repo,
		pub:    eventPublisher,
		logger: logger.With(slog.String("component", "customerService")),
	}
}

func (s *customerService) RegisterCustomer(ctx context.Context, firstName, lastName string, age int, monthlySalary int64, phoneNumber string) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to register new customer")

	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	phoneNumber = strings.TrimSpace(phoneNumber)
	if firstName == "" {
		s.logger.WarnContext(ctx, "Validation failed: first name is empty")
		return nil, apperrors.NewValidationError("first_name", "first name cannot be empty")
	}
	if lastName == "" {
		s.logger.WarnContext(ctx, "Validation failed: last name is empty")
		return nil, apperrors.NewValidationError("last_name", "last name cannot be empty")
	}
	if age <= 0 {
		s.logger.WarnContext(ctx, "Validation failed: age must be positive", slog.Int("age", age))
		return nil, apperrors.NewValidationError("age", "age must be a positive integer")
	}
	if monthlySalary <= 0 {
		s.logger.WarnContext(ctx, "Validation failed: monthly income must be positive")
		return nil, apperrors.NewValidationError("monthly_income", "monthly income must be a positive integer")
	}
	if phoneNumber == "" {
		s.logger.WarnContext(ctx, "Validation failed: phone number is empty")
		return nil, apperrors.NewValidationError("phone_number", "phone number cannot be empty")
	}
	s.logger.InfoContext(ctx, "Input validation passed")

	customer := &Customer{
		FirstName:     firstName,
		LastName:      lastName,
		Age:           age,
		PhoneNumber:   phoneNumber,
		MonthlySalary: monthlySalary,
		ApprovedLimit: ApprovedLimitFromSalary(monthlySalary),
		CurrentDebt:   0,
	}

	s.logger.InfoContext(ctx, "Calling repository Save", slog.Int64("approved_limit", customer.ApprovedLimit))
	err := s.repo.Save(ctx, customer)
	if err != nil {
		s.logger.ErrorContext(ctx, "Repository failed to save new customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to save new customer: %w", err)
	}
	monitoring.RecordCustomerRegistered()

	registeredEvent := event.CustomerRegisteredEvent{
		Timestamp: time.Now(),
		Payload: event.CustomerRegisteredPayload{
			CustomerID:    customer.CustomerID,
			Name:          customer.FullName(),
			Age:           customer.Age,
			MonthlySalary: customer.MonthlySalary,
			ApprovedLimit: customer.ApprovedLimit,
			PhoneNumber:   customer.PhoneNumber,
		},
	}
	if pubErr := s.pub.PublishCustomerRegistered(ctx, registeredEvent); pubErr != nil {
		s.logger.ErrorContext(ctx, "Customer registered, but failed to publish registration event", slog.Any("error", pubErr))
	}

	s.logger.InfoContext(ctx, "Successfully registered new customer", slog.Int64("customerID", customer.CustomerID))
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID int64) (*Customer, error) {
	s.logger.InfoContext(ctx, "Attempting to get customer by ID", slog.Int64("customerID", customerID))

	customer, err := s.repo.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.WarnContext(ctx, customerNotFound, slog.Int64("customerID", customerID))
			return nil, ErrNotFound
		}
		s.logger.ErrorContext(ctx, "Repository error finding customer", slog.Any("error", err))
		return nil, fmt.Errorf("failed to get customer %d: %w", customerID, err)
	}

	s.logger.InfoContext(ctx, "Successfully retrieved customer")
	return customer, nil
}

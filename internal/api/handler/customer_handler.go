package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

func getCustomerIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "customerID")
	if idStr == "" {
		return 0, fmt.Errorf("%w: customerID not found in URL path", apperrors.ErrInvalidArgument)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid customerID format in URL path: %s", apperrors.ErrInvalidArgument, idStr)
	}
	return id, nil
}

// RegisterCustomer handles POST /register.
//
// @Summary Register a new customer
// @Description Registers a customer and derives their approved credit limit as 36x monthly income, rounded to the nearest lakh.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.RegisterCustomerRequest true "Customer registration payload"
// @Success 201 {object} dto.RegisterCustomerResponse "Customer successfully registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Phone number already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /register [post]
// @Security BearerAuth
func (h *CustomerHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Registration request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
		return
	}

	cust, err := h.service.RegisterCustomer(r.Context(), req.FirstName, req.LastName, req.Age, req.MonthlyIncome, req.PhoneNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			h.logger.WarnContext(r.Context(), "Duplicate customer registration", slog.String("phone_number", req.PhoneNumber))
			respondErrorWithStatus(w, http.StatusConflict, "A customer with this phone number is already registered.")
			return
		}
		h.logger.ErrorContext(r.Context(), "Service failed to register customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer registered", slog.Int64("customer_id", cust.CustomerID))
	respondJSON(w, http.StatusCreated, dto.NewRegisterCustomerResponse(cust))
}

func respondErrorWithStatus(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, dto.ErrorResponse{
		Error: dto.ErrorDetail{Message: message},
	})
}

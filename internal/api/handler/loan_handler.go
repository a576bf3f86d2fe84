package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"credit-engine/internal/api/handler/dto"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	status, message, field := http.StatusInternalServerError, "An unexpected error occurred.", ""
	var validationError *apperrors.ValidationError
	var appErr *apperrors.AppError

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrUnavailable):
		status, message = http.StatusServiceUnavailable, "Service temporarily unavailable."
	case errors.As(err, &validationError):
		status, message, field = http.StatusBadRequest, validationError.Message, validationError.Field
	case errors.As(err, &appErr):
		message = appErr.Error()
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	resp := dto.ErrorResponse{
		Error: dto.ErrorDetail{
			Message: message,
			Field:   field,
		},
	}
	respondJSON(w, status, resp)
}

func getLoanIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "loanID")
	if idStr == "" {
		return 0, fmt.Errorf("loanID not found in URL path")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid loanID format in URL path: %s", idStr)
	}
	return id, nil
}

// CheckEligibility handles POST /check-eligibility.
//
// @Summary Check loan eligibility
// @Description Evaluates whether a customer qualifies for the requested loan terms. The interest rate may be corrected upward based on the customer's credit score; the affordability cap of 50% of monthly salary is always enforced.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CheckEligibilityRequest true "Eligibility check payload"
// @Success 200 {object} dto.EligibilityResponse "Eligibility decision"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /check-eligibility [post]
// @Security BearerAuth
func (h *LoanHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckEligibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Eligibility request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
		return
	}

	result, err := h.service.CheckEligibility(r.Context(), req.CustomerID, req.LoanAmount, req.InterestRate, req.Tenure)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidInput) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to check eligibility", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewEligibilityResponse(result))
}

// CreateLoan handles POST /create-loan.
//
// @Summary Create a new loan
// @Description Issues a loan for a customer if the affordability check passes. A business rejection is a 200 response with loan_approved=false and the computed installment.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CreateLoanRequest true "Loan creation payload"
// @Success 200 {object} dto.CreateLoanResponse "Issuance outcome"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /create-loan [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Create loan request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrValidation, err))
		return
	}

	result, err := h.service.CreateLoan(r.Context(), req.CustomerID, req.LoanAmount, req.InterestRate, req.Tenure)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrInvalidInput) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to create loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	status := http.StatusOK
	if result.Approved {
		status = http.StatusCreated
	}
	respondJSON(w, status, dto.NewCreateLoanResponse(result))
}

// ViewLoan handles GET /view-loan/{loanID}.
//
// @Summary View a single loan
// @Description Retrieves a loan by ID, with a summary of the owning customer embedded.
// @Tags Loans
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Success 200 {object} dto.LoanDetailResponse "Loan details"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /view-loan/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) ViewLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := getLoanIDFromURL(r)
	if err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	domainLoan, cust, err := h.service.GetLoanWithCustomer(r.Context(), loanID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to get loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanDetailResponse(domainLoan, cust))
}

// ViewLoans handles GET /view-loans/{customerID}.
//
// @Summary List loans for a customer
// @Description Retrieves all loans belonging to a customer, each with the remaining repayment count.
// @Tags Loans
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {array} dto.LoanListEntry "Loans for the customer"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /view-loans/{customerID} [get]
// @Security BearerAuth
func (h *LoanHandler) ViewLoans(w http.ResponseWriter, r *http.Request) {
	customerID, err := getCustomerIDFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	loans, err := h.service.ListLoansForCustomer(r.Context(), customerID)
	if err != nil {
		level := slog.LevelWarn
		if !errors.Is(err, apperrors.ErrNotFound) {
			level = slog.LevelError
		}
		h.logger.Log(r.Context(), level, "Service failed to list loans", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanListResponse(loans))
}

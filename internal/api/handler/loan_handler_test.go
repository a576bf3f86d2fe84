package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"credit-engine/internal/api/handler"
	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/pkg/apperrors"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type MockLoanService struct {
	mock.Mock
}

var _ loan.LoanService = (*MockLoanService)(nil)

func (_m *MockLoanService) CheckEligibility(ctx context.Context, customerID int64, amount, annualRatePercent float64, tenureYears int) (*loan.EligibilityResult, error) {
	ret := _m.Called(ctx, customerID, amount, annualRatePercent, tenureYears)

	var r0 *loan.EligibilityResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.EligibilityResult)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) CreateLoan(ctx context.Context, customerID int64, amount, annualRatePercent float64, tenureYears int) (*loan.IssuanceResult, error) {
	ret := _m.Called(ctx, customerID, amount, annualRatePercent, tenureYears)

	var r0 *loan.IssuanceResult
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.IssuanceResult)
	}
	return r0, ret.Error(1)
}

func (_m *MockLoanService) GetLoanWithCustomer(ctx context.Context, loanID int64) (*loan.Loan, *customer.Customer, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*loan.Loan)
	}
	var r1 *customer.Customer
	if ret.Get(1) != nil {
		r1 = ret.Get(1).(*customer.Customer)
	}
	return r0, r1, ret.Error(2)
}

func (_m *MockLoanService) ListLoansForCustomer(ctx context.Context, customerID int64) ([]loan.Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []loan.Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]loan.Loan)
	}
	return r0, ret.Error(1)
}

func setupLoanRouter(svc loan.LoanService) *chi.Mux {
	h := handler.NewLoanHandler(svc, testLogger)
	router := chi.NewRouter()
	router.Post("/check-eligibility", h.CheckEligibility)
	router.Post("/create-loan", h.CreateLoan)
	router.Get("/view-loan/{loanID}", h.ViewLoan)
	router.Get("/view-loans/{customerID}", h.ViewLoans)
	return router
}

func postJSON(t *testing.T, router http.Handler, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoanHandler_CheckEligibility(t *testing.T) {
	t.Run("approved with corrected rate", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("CheckEligibility", mock.Anything, int64(42), 200000.0, 5.0, 1).Return(&loan.EligibilityResult{
			CustomerID:            42,
			Approved:              true,
			InterestRate:          5,
			CorrectedInterestRate: 12,
			TenureYears:           1,
			MonthlyInstallment:    17769.757,
		}, nil).Once()

		router := setupLoanRouter(svc)
		rec := postJSON(t, router, "/check-eligibility", map[string]interface{}{
			"customer_id":   42,
			"loan_amount":   200000,
			"interest_rate": 5,
			"tenure":        1,
		})

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, float64(42), resp["customer_id"])
		assert.Equal(t, true, resp["approval"])
		assert.Equal(t, 5.0, resp["interest_rate"])
		assert.Equal(t, 12.0, resp["corrected_interest_rate"])
		assert.Equal(t, 17769.76, resp["monthly_installment"])
		svc.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		req := httptest.NewRequest(http.MethodPost, "/check-eligibility", bytes.NewReader([]byte("{not json")))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "CheckEligibility", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-positive amount fails validation", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		rec := postJSON(t, router, "/check-eligibility", map[string]interface{}{
			"customer_id":   42,
			"loan_amount":   0,
			"interest_rate": 5,
			"tenure":        1,
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "CheckEligibility", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown customer maps to 404", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("CheckEligibility", mock.Anything, int64(99), mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrNotFound).Once()

		router := setupLoanRouter(svc)
		rec := postJSON(t, router, "/check-eligibility", map[string]interface{}{
			"customer_id":   99,
			"loan_amount":   200000,
			"interest_rate": 5,
			"tenure":        1,
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLoanHandler_CreateLoan(t *testing.T) {
	approval := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("approved loan returns 201 with dates", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("CreateLoan", mock.Anything, int64(42), 200000.0, 12.0, 1).Return(&loan.IssuanceResult{
			Loan: &loan.Loan{
				ID:             7,
				CustomerID:     42,
				DateOfApproval: approval,
				EndDate:        approval.AddDate(0, 0, 365),
			},
			CustomerID:         42,
			Approved:           true,
			Message:            "Loan approved successfully.",
			MonthlyInstallment: 17769.757,
		}, nil).Once()

		router := setupLoanRouter(svc)
		rec := postJSON(t, router, "/create-loan", map[string]interface{}{
			"customer_id":   42,
			"loan_amount":   200000,
			"interest_rate": 12,
			"tenure":        1,
		})

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, float64(7), resp["loan_id"])
		assert.Equal(t, true, resp["loan_approved"])
		assert.Equal(t, "2026-03-15", resp["date_of_approval"])
		assert.Equal(t, "2027-03-15", resp["end_date"])
		svc.AssertExpectations(t)
	})

	t.Run("business rejection returns 200 without a loan", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("CreateLoan", mock.Anything, int64(42), 200000.0, 12.0, 1).Return(&loan.IssuanceResult{
			CustomerID:         42,
			Approved:           false,
			Message:            "Loan not approved: EMIs exceed 50% of monthly salary.",
			MonthlyInstallment: 17769.757,
		}, nil).Once()

		router := setupLoanRouter(svc)
		rec := postJSON(t, router, "/create-loan", map[string]interface{}{
			"customer_id":   42,
			"loan_amount":   200000,
			"interest_rate": 12,
			"tenure":        1,
		})

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Nil(t, resp["loan_id"])
		assert.Equal(t, false, resp["loan_approved"])
		assert.Contains(t, resp["message"], "EMIs exceed")
		assert.NotContains(t, resp, "date_of_approval")
	})

	t.Run("unknown customer maps to 404", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("CreateLoan", mock.Anything, int64(99), mock.Anything, mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrNotFound).Once()

		router := setupLoanRouter(svc)
		rec := postJSON(t, router, "/create-loan", map[string]interface{}{
			"customer_id":   99,
			"loan_amount":   200000,
			"interest_rate": 12,
			"tenure":        1,
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLoanHandler_ViewLoan(t *testing.T) {
	t.Run("success embeds the customer summary", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("GetLoanWithCustomer", mock.Anything, int64(7)).Return(
			&loan.Loan{ID: 7, CustomerID: 42, Amount: 200000, InterestRate: 12, MonthlyInstallment: 17769.757, TenureYears: 1},
			&customer.Customer{CustomerID: 42, FirstName: "Asha", LastName: "Verma", PhoneNumber: "9876543210", Age: 30},
			nil,
		).Once()

		router := setupLoanRouter(svc)
		req := httptest.NewRequest(http.MethodGet, "/view-loan/7", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, float64(7), resp["loan_id"])
		cust, ok := resp["customer"].(map[string]interface{})
		assert.True(t, ok)
		assert.Equal(t, float64(42), cust["id"])
		assert.Equal(t, "Asha", cust["first_name"])
	})

	t.Run("non-numeric loan ID", func(t *testing.T) {
		svc := new(MockLoanService)
		router := setupLoanRouter(svc)

		req := httptest.NewRequest(http.MethodGet, "/view-loan/abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "GetLoanWithCustomer", mock.Anything, mock.Anything)
	})

	t.Run("missing loan maps to 404", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("GetLoanWithCustomer", mock.Anything, int64(404)).Return(nil, nil, apperrors.ErrNotFound).Once()

		router := setupLoanRouter(svc)
		req := httptest.NewRequest(http.MethodGet, "/view-loan/404", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestLoanHandler_ViewLoans(t *testing.T) {
	t.Run("lists loans with repayments left", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("ListLoansForCustomer", mock.Anything, int64(42)).Return([]loan.Loan{
			{ID: 7, Amount: 200000, InterestRate: 12, MonthlyInstallment: 17769.757, TenureYears: 1},
			{ID: 8, Amount: 500000, InterestRate: 14, MonthlyInstallment: 17089.1, TenureYears: 3},
		}, nil).Once()

		router := setupLoanRouter(svc)
		req := httptest.NewRequest(http.MethodGet, "/view-loans/42", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp []map[string]interface{}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 2)
		assert.Equal(t, float64(7), resp[0]["loan_id"])
		assert.Equal(t, float64(12), resp[0]["repayments_left"])
		assert.Equal(t, float64(36), resp[1]["repayments_left"])
	})

	t.Run("unknown customer maps to 404", func(t *testing.T) {
		svc := new(MockLoanService)
		svc.On("ListLoansForCustomer", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

		router := setupLoanRouter(svc)
		req := httptest.NewRequest(http.MethodGet, "/view-loans/99", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

package dto

import (
	"fmt"
	"time"

	"credit-engine/internal/domain/customer"
	"credit-engine/internal/domain/loan"

	"github.com/shopspring/decimal"
)

type CheckEligibilityRequest struct {
	CustomerID   int64   `json:"customer_id"`
	LoanAmount   float64 `json:"loan_amount"`
	InterestRate float64 `json:"interest_rate"`
	Tenure       int     `json:"tenure"`
}

func (r *CheckEligibilityRequest) Validate() error {
	if r.CustomerID <= 0 {
		return fmt.Errorf("customer_id must be a positive number")
	}
	if r.LoanAmount <= 0 {
		return fmt.Errorf("loan_amount must be greater than zero")
	}
	if r.InterestRate < 0 {
		return fmt.Errorf("interest_rate cannot be negative")
	}
	if r.Tenure <= 0 {
		return fmt.Errorf("tenure must be a positive number of years")
	}
	return nil
}

type CreateLoanRequest struct {
	CustomerID   int64   `json:"customer_id"`
	LoanAmount   float64 `json:"loan_amount"`
	InterestRate float64 `json:"interest_rate"`
	Tenure       int     `json:"tenure"`
}

func (r *CreateLoanRequest) Validate() error {
	req := CheckEligibilityRequest(*r)
	return req.Validate()
}

type EligibilityResponse struct {
	CustomerID            int64   `json:"customer_id"`
	Approval              bool    `json:"approval"`
	InterestRate          float64 `json:"interest_rate"`
	CorrectedInterestRate float64 `json:"corrected_interest_rate"`
	Tenure                int     `json:"tenure"`
	MonthlyInstallment    float64 `json:"monthly_installment"`
}

func NewEligibilityResponse(res *loan.EligibilityResult) EligibilityResponse {
	return EligibilityResponse{
		CustomerID:            res.CustomerID,
		Approval:              res.Approved,
		InterestRate:          res.InterestRate,
		CorrectedInterestRate: res.CorrectedInterestRate,
		Tenure:                res.TenureYears,
		MonthlyInstallment:    roundMoney(res.MonthlyInstallment),
	}
}

type CreateLoanResponse struct {
	LoanID             *int64  `json:"loan_id"`
	CustomerID         int64   `json:"customer_id"`
	LoanApproved       bool    `json:"loan_approved"`
	Message            string  `json:"message"`
	MonthlyInstallment float64 `json:"monthly_installment"`
	DateOfApproval     *string `json:"date_of_approval,omitempty"`
	EndDate            *string `json:"end_date,omitempty"`
}

func NewCreateLoanResponse(res *loan.IssuanceResult) CreateLoanResponse {
	resp := CreateLoanResponse{
		CustomerID:         res.CustomerID,
		LoanApproved:       res.Approved,
		Message:            res.Message,
		MonthlyInstallment: roundMoney(res.MonthlyInstallment),
	}
	if res.Loan != nil {
		resp.LoanID = &res.Loan.ID
		approval := formatDate(res.Loan.DateOfApproval)
		end := formatDate(res.Loan.EndDate)
		resp.DateOfApproval = &approval
		resp.EndDate = &end
	}
	return resp
}

type LoanDetailResponse struct {
	LoanID             int64           `json:"loan_id"`
	Customer           CustomerSummary `json:"customer"`
	LoanAmount         float64         `json:"loan_amount"`
	InterestRate       float64         `json:"interest_rate"`
	MonthlyInstallment float64         `json:"monthly_installment"`
	Tenure             int             `json:"tenure"`
}

func NewLoanDetailResponse(l *loan.Loan, cust *customer.Customer) LoanDetailResponse {
	return LoanDetailResponse{
		LoanID:             l.ID,
		Customer:           NewCustomerSummary(cust),
		LoanAmount:         l.Amount,
		InterestRate:       l.InterestRate,
		MonthlyInstallment: roundMoney(l.MonthlyInstallment),
		Tenure:             l.TenureYears,
	}
}

type LoanListEntry struct {
	LoanID             int64   `json:"loan_id"`
	LoanAmount         float64 `json:"loan_amount"`
	InterestRate       float64 `json:"interest_rate"`
	MonthlyInstallment float64 `json:"monthly_installment"`
	RepaymentsLeft     int     `json:"repayments_left"`
}

func NewLoanListResponse(loans []loan.Loan) []LoanListEntry {
	entries := make([]LoanListEntry, len(loans))
	for i, l := range loans {
		entries[i] = LoanListEntry{
			LoanID:             l.ID,
			LoanAmount:         l.Amount,
			InterestRate:       l.InterestRate,
			MonthlyInstallment: roundMoney(l.MonthlyInstallment),
			RepaymentsLeft:     l.RemainingRepayments(),
		}
	}
	return entries
}

type ErrorDetail struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type TokenRequest struct {
	Username string `json:"username"`
}

// roundMoney rounds installment amounts to cents for response payloads.
func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

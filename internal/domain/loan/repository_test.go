package loan

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

var _ Repository = (*MockRepository)(nil)

func (_m *MockRepository) CreateLoan(ctx context.Context, newLoan *Loan) (*Loan, error) {
	ret := _m.Called(ctx, newLoan)

	var r0 *Loan
	if rf, ok := ret.Get(0).(func(context.Context, *Loan) *Loan); ok {
		r0 = rf(ctx, newLoan)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, *Loan) error); ok {
		r1 = rf(ctx, newLoan)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) GetLoanByID(ctx context.Context, loanID int64) (*Loan, error) {
	ret := _m.Called(ctx, loanID)

	var r0 *Loan
	if rf, ok := ret.Get(0).(func(context.Context, int64) *Loan); ok {
		r0 = rf(ctx, loanID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, loanID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) ListLoansByCustomerID(ctx context.Context, customerID int64) ([]Loan, error) {
	ret := _m.Called(ctx, customerID)

	var r0 []Loan
	if rf, ok := ret.Get(0).(func(context.Context, int64) []Loan); ok {
		r0 = rf(ctx, customerID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]Loan)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, int64) error); ok {
		r1 = rf(ctx, customerID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

func (_m *MockRepository) GetPortfolioStats(ctx context.Context) (int64, float64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Get(1).(float64), ret.Error(2)
}

type MockCache struct {
	mock.Mock
}

var _ Cache = (*MockCache)(nil)

func (_m *MockCache) GetLoan(ctx context.Context, loanID int64) (*Loan, bool) {
	ret := _m.Called(ctx, loanID)

	var r0 *Loan
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*Loan)
	}
	return r0, ret.Bool(1)
}

func (_m *MockCache) SetLoan(ctx context.Context, l *Loan) {
	_m.Called(ctx, l)
}

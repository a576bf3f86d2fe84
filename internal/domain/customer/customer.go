package customer

import (
	"math"
	"time"
)

// Customer is a registered borrower. ApprovedLimit is derived from salary at
// registration and stays fixed afterwards. CurrentDebt is carried on the
// record but no operation maintains it.
type Customer struct {
	CustomerID    int64
	FirstName     string
	LastName      string
	Age           int
	PhoneNumber   string
	MonthlySalary int64
	ApprovedLimit int64
	CurrentDebt   int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ApprovedLimitFromSalary derives the credit ceiling granted at registration:
// 36 times the monthly salary, rounded to the nearest multiple of 100,000.
func ApprovedLimitFromSalary(monthlySalary int64) int64 {
	return int64(math.Round(float64(monthlySalary)*36/100_000)) * 100_000
}

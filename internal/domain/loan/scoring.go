package loan

const (
	scoreBaseline    = 50
	scoreLimitBreach = 0
)

// Score derives the coarse credit score consumed by Evaluate. The score
// starts at the baseline of 50 and drops to 0 when the customer's total
// historical principal exceeds their approved limit. No other factor moves
// the score; on-time payment ratios and current-year activity are recorded on
// the loan history but have never fed this formula.
func Score(history []Loan, approvedLimit int64) int {
	var totalPrincipal float64
	for _, l := range history {
		totalPrincipal += l.Amount
	}

	if totalPrincipal > float64(approvedLimit) {
		return scoreLimitBreach
	}
	return scoreBaseline
}

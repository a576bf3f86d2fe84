package loan

import "credit-engine/internal/domain/customer"

const (
	rateFloorMidScore = 16.0
	rateFloorLowRisk  = 12.0

	// affordabilityCap is the fraction of monthly salary total EMIs may not
	// exceed.
	affordabilityCap = 0.5
)

// Decision is the outcome of an eligibility evaluation. EffectiveRate is the
// requested rate, possibly raised to a score-driven floor; MonthlyInstallment
// is computed from the effective rate.
type Decision struct {
	Approved           bool
	EffectiveRate      float64
	MonthlyInstallment float64
}

// Evaluate runs the eligibility ladder for a requested loan against the
// customer's score and existing obligations. The score thresholds are
// exclusive of the expressed boundary: >50 keeps the rate, (30,50] floors it
// at 12%, (10,30] floors it at 16%, <=10 rejects. The affordability check
// runs last and can only downgrade an approval: if existing installments plus
// the new one exceed half the monthly salary, the request is rejected
// regardless of score. Evaluate is a pure decision over the supplied data.
func Evaluate(cust *customer.Customer, amount, annualRatePercent float64, tenureYears int, history []Loan) (Decision, error) {
	score := Score(history, cust.ApprovedLimit)

	approved := false
	effectiveRate := annualRatePercent
	switch {
	case score > 50:
		approved = true
	case score > 30:
		approved = true
		effectiveRate = max(rateFloorLowRisk, effectiveRate)
	case score > 10:
		approved = true
		effectiveRate = max(rateFloorMidScore, effectiveRate)
	}

	installment, err := MonthlyInstallment(amount, effectiveRate, tenureYears)
	if err != nil {
		return Decision{}, err
	}

	totalEMIs := installment
	for _, l := range history {
		totalEMIs += l.MonthlyInstallment
	}
	if totalEMIs > affordabilityCap*float64(cust.MonthlySalary) {
		approved = false
	}

	return Decision{
		Approved:           approved,
		EffectiveRate:      effectiveRate,
		MonthlyInstallment: installment,
	}, nil
}

// Affordable reports whether a new installment fits under the 50%-of-salary
// cap given the customer's existing loans. Issuance uses this check alone,
// without the score ladder.
func Affordable(cust *customer.Customer, newInstallment float64, existing []Loan) bool {
	total := newInstallment
	for _, l := range existing {
		total += l.MonthlyInstallment
	}
	return total <= affordabilityCap*float64(cust.MonthlySalary)
}

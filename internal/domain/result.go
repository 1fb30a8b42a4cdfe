package domain

import (
	"github.com/shopspring/decimal"
)

// OutOfPocketEstimate is the annual cost-sharing projection for a usage profile
type OutOfPocketEstimate struct {
	Amount decimal.Decimal `json:"amount"`
	// LimitedPurposeEligible is the part of Amount a limited-purpose FSA can reimburse.
	LimitedPurposeEligible decimal.Decimal `json:"limitedPurposeEligible"`
	CappedAtMaximum        bool            `json:"cappedAtMaximum"`
}

// PlanResult is the per-plan cost breakdown. All amounts are annual.
type PlanResult struct {
	PlanID        string        `json:"planId"`
	PlanName      string        `json:"planName"`
	CoverageLevel CoverageLevel `json:"coverageLevel"`
	WorstCase     bool          `json:"worstCase"`

	EmployeeBasePremium decimal.Decimal    `json:"employeeBasePremium"`
	EmployerBasePremium decimal.Decimal    `json:"employerBasePremium"`
	Adjustments         []AdjustmentAmount `json:"adjustments"`
	EmployeePremium     decimal.Decimal    `json:"employeePremium"`
	EmployerPremium     decimal.Decimal    `json:"employerPremium"`

	OutOfPocket    decimal.Decimal `json:"outOfPocket"`
	OutOfPocketMax decimal.Decimal `json:"outOfPocketMax"`

	AccountTypeID          string          `json:"accountTypeId,omitempty"`
	PlanFund               decimal.Decimal `json:"planFund"`
	EmployeeContribution   decimal.Decimal `json:"employeeContribution"`
	EmployerMatch          decimal.Decimal `json:"employerMatch"`
	EffectiveMaximum       decimal.Decimal `json:"effectiveMaximum"`
	RolloverEligibleAmount decimal.Decimal `json:"rolloverEligibleAmount"`

	FundApplication        FundApplicationOption `json:"fundApplication"`
	EmployerFundsApplied   decimal.Decimal       `json:"employerFundsApplied"`
	EmployeeFundsApplied   decimal.Decimal       `json:"employeeFundsApplied"`
	EmployeeNetOutOfPocket decimal.Decimal       `json:"employeeNetOutOfPocket"`
	UnusedFunds            decimal.Decimal       `json:"unusedFunds"`
	RolloverAmount         decimal.Decimal       `json:"rolloverAmount"`
	ForfeitedAmount        decimal.Decimal       `json:"forfeitedAmount"`

	EmployeeTotalCosts       decimal.Decimal `json:"employeeTotalCosts"`
	EmployerOrPlanTotalCosts decimal.Decimal `json:"employerOrPlanTotalCosts"`
	TotalCosts               decimal.Decimal `json:"totalCosts"`
}

// FundsApplied returns the total account money spent on care
func (r PlanResult) FundsApplied() decimal.Decimal {
	return r.EmployerFundsApplied.Add(r.EmployeeFundsApplied)
}

// IsConserved reports whether employee and employer totals add up to the total
func (r PlanResult) IsConserved() bool {
	return r.EmployeeTotalCosts.Add(r.EmployerOrPlanTotalCosts).Equal(r.TotalCosts)
}

// ProjectionSet pairs expected and worst case results for the same profile
type ProjectionSet struct {
	CoverageLevel CoverageLevel `json:"coverageLevel"`
	Expected      []PlanResult  `json:"expected"`
	WorstCase     []PlanResult  `json:"worstCase"`
}

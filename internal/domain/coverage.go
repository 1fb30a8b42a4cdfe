package domain

import (
	"github.com/shopspring/decimal"
)

// CoverageLevel identifies the household composition tier a plan is priced by
type CoverageLevel string

const (
	EmployeeOnly        CoverageLevel = "employeeOnly"
	EmployeeAndSpouse   CoverageLevel = "employeeAndSpouse"
	EmployeeAndChildren CoverageLevel = "employeeAndChildren"
	EmployeeAndFamily   CoverageLevel = "employeeAndFamily"
)

// StandardCoverageLevels lists the coverage levels in display order
var StandardCoverageLevels = []CoverageLevel{
	EmployeeOnly,
	EmployeeAndSpouse,
	EmployeeAndChildren,
	EmployeeAndFamily,
}

// CoverageValue holds an amount that may be configured either as a single flat
// value or as a per-coverage-level map. The flat value always wins.
type CoverageValue struct {
	Flat     *decimal.Decimal
	PerLevel map[CoverageLevel]decimal.Decimal
}

// Flat builds a CoverageValue with only the flat amount set
func Flat(amount decimal.Decimal) CoverageValue {
	return CoverageValue{Flat: &amount}
}

// PerLevel builds a CoverageValue from a per-coverage-level map
func PerLevel(values map[CoverageLevel]decimal.Decimal) CoverageValue {
	return CoverageValue{PerLevel: values}
}

// Resolve returns the effective amount for a coverage level. Missing entries
// resolve to zero.
func (cv CoverageValue) Resolve(level CoverageLevel) decimal.Decimal {
	if cv.Flat != nil {
		return *cv.Flat
	}
	if v, ok := cv.PerLevel[level]; ok {
		return v
	}
	return decimal.Zero
}

// IsSet reports whether either form of the value was configured
func (cv CoverageValue) IsSet() bool {
	return cv.Flat != nil || len(cv.PerLevel) > 0
}

// Has reports whether a value resolves for the given level without falling
// back to zero.
func (cv CoverageValue) Has(level CoverageLevel) bool {
	if cv.Flat != nil {
		return true
	}
	_, ok := cv.PerLevel[level]
	return ok
}

// ResolveCoverageValue applies the singular-over-map precedence to a pair of
// optional configuration fields.
func ResolveCoverageValue(flat *decimal.Decimal, perLevel map[CoverageLevel]decimal.Decimal, level CoverageLevel) decimal.Decimal {
	return CoverageValue{Flat: flat, PerLevel: perLevel}.Resolve(level)
}

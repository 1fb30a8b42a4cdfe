package calculation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Hook names accepted in the configuration's hooks section
const (
	HookOutOfPocket = "out_of_pocket"
	HookFundOrder   = "fund_order"
)

// FundApplier splits a cost between employer and employee account money
type FundApplier interface {
	Apply(cost, employerAvailable, employeeAvailable decimal.Decimal) (employerApplied, employeeApplied decimal.Decimal)
}

// EmployerFirst spends employer money before the employee's own contribution
type EmployerFirst struct{}

// Apply implements FundApplier
func (EmployerFirst) Apply(cost, employerAvailable, employeeAvailable decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	er := decimal.Min(nonNegative(cost), nonNegative(employerAvailable))
	ee := decimal.Min(nonNegative(cost).Sub(er), nonNegative(employeeAvailable))
	return er, ee
}

// EmployeeFirst spends the employee's contribution before employer money
type EmployeeFirst struct{}

// Apply implements FundApplier
func (EmployeeFirst) Apply(cost, employerAvailable, employeeAvailable decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	ee := decimal.Min(nonNegative(cost), nonNegative(employeeAvailable))
	er := decimal.Min(nonNegative(cost).Sub(ee), nonNegative(employerAvailable))
	return er, ee
}

// Hooks is the resolved set of client-overridable strategies
type Hooks struct {
	OutOfPocket OutOfPocketEstimator
	FundOrder   FundApplier
}

// DefaultHooks returns the built-in strategies
func DefaultHooks() Hooks {
	return Hooks{
		OutOfPocket: StandardOutOfPocket{},
		FundOrder:   EmployerFirst{},
	}
}

// HookRegistry holds named implementations for each hook. Client code
// registers overrides; configuration selects them by name.
type HookRegistry struct {
	outOfPocket map[string]OutOfPocketEstimator
	fundOrder   map[string]FundApplier
}

// NewHookRegistry creates a registry with all built-in implementations registered
func NewHookRegistry() *HookRegistry {
	r := &HookRegistry{
		outOfPocket: make(map[string]OutOfPocketEstimator),
		fundOrder:   make(map[string]FundApplier),
	}
	r.RegisterOutOfPocket("standard", StandardOutOfPocket{})
	r.RegisterFundOrder("employer_first", EmployerFirst{})
	r.RegisterFundOrder("employee_first", EmployeeFirst{})
	return r
}

// RegisterOutOfPocket adds or replaces an out-of-pocket estimator
func (r *HookRegistry) RegisterOutOfPocket(name string, impl OutOfPocketEstimator) {
	r.outOfPocket[name] = impl
}

// RegisterFundOrder adds or replaces a fund applier
func (r *HookRegistry) RegisterFundOrder(name string, impl FundApplier) {
	r.fundOrder[name] = impl
}

// Resolve picks an implementation for every hook. Hooks not named in the
// selection keep their defaults.
func (r *HookRegistry) Resolve(selection map[string]string) (Hooks, error) {
	hooks := DefaultHooks()
	for hook, name := range selection {
		switch hook {
		case HookOutOfPocket:
			impl, ok := r.outOfPocket[name]
			if !ok {
				return Hooks{}, fmt.Errorf("unknown %s implementation: %s", hook, name)
			}
			hooks.OutOfPocket = impl
		case HookFundOrder:
			impl, ok := r.fundOrder[name]
			if !ok {
				return Hooks{}, fmt.Errorf("unknown %s implementation: %s", hook, name)
			}
			hooks.FundOrder = impl
		default:
			return Hooks{}, fmt.Errorf("unknown hook: %s", hook)
		}
	}
	return hooks, nil
}

// List returns the registered implementation names for a hook
func (r *HookRegistry) List(hook string) []string {
	var names []string
	switch hook {
	case HookOutOfPocket:
		for name := range r.outOfPocket {
			names = append(names, name)
		}
	case HookFundOrder:
		for name := range r.fundOrder {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

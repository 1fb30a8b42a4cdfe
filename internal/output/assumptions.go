package output

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs.
var DefaultAssumptions = []string{
	"Premiums and adjustments are monthly amounts annualized over 12 months",
	"Expected out-of-pocket cost is priced per visit and capped at the plan's out-of-pocket maximum",
	"Worst case assumes the out-of-pocket maximum is reached",
	"By default employer account funds are applied before the employee's own contribution",
	"Tax savings use federal income tax and FICA only; state and local taxes are not modeled",
}

package domain

import "github.com/shopspring/decimal"

// Dimension selects the key an aggregation groups by.
type Dimension string

const (
	DimensionUser    Dimension = "user"
	DimensionJobcode Dimension = "jobcode"
	DimensionGroup   Dimension = "group"
)

// Totals accumulates classified seconds for one dimension key.
// RegularSeconds+OvertimeSeconds+DoubletimeSeconds+PTOSeconds always
// equals the sum of the constituent entry durations; nothing is rounded
// before currency conversion.
type Totals struct {
	RegularSeconds    int64 `json:"regular_seconds"`
	OvertimeSeconds   int64 `json:"overtime_seconds"`
	DoubletimeSeconds int64 `json:"doubletime_seconds"`
	PTOSeconds        int64 `json:"pto_seconds"`
	EntryCount        int64 `json:"entry_count"`

	// Cost fields are present only when an hourly rate is known for the
	// key; a missing rate omits them rather than reporting zero.
	RegularCost    *decimal.Decimal `json:"regular_cost,omitempty"`
	OvertimeCost   *decimal.Decimal `json:"overtime_cost,omitempty"`
	DoubletimeCost *decimal.Decimal `json:"doubletime_cost,omitempty"`
	TotalCost      *decimal.Decimal `json:"total_cost,omitempty"`
}

// TotalSeconds returns the sum of all classified seconds.
func (t Totals) TotalSeconds() int64 {
	return t.RegularSeconds + t.OvertimeSeconds + t.DoubletimeSeconds + t.PTOSeconds
}

// AggregateTotals maps a dimension key (user, jobcode or group id) to
// its accumulated totals.
type AggregateTotals map[int64]*Totals

// PayrollTotals is the company-wide rollup of a payroll report.
type PayrollTotals struct {
	RegularSeconds    int64 `json:"regular_seconds"`
	OvertimeSeconds   int64 `json:"overtime_seconds"`
	DoubletimeSeconds int64 `json:"doubletime_seconds"`
	PTOSeconds        int64 `json:"pto_seconds"`
	TotalSeconds      int64 `json:"total_seconds"`
}

// PayrollReport is the payroll artifact emitted by the aggregation core.
type PayrollReport struct {
	DateRange DateRange       `json:"date_range"`
	Totals    PayrollTotals   `json:"totals"`
	ByUser    AggregateTotals `json:"by_user"`
}

// WorkflowError records a tolerated sub-report failure inside a
// workflow result.
type WorkflowError struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// WorkflowState is the terminal state of a workflow invocation.
type WorkflowState string

const (
	WorkflowDone            WorkflowState = "done"
	WorkflowPartiallyFailed WorkflowState = "partially_failed"
)

// WorkflowResult is a named bundle of sub-reports plus the non-fatal
// errors encountered while assembling it. Created fresh per
// invocation, never cached.
type WorkflowResult struct {
	Name      string          `json:"name"`
	DateRange DateRange       `json:"date_range"`
	State     WorkflowState   `json:"state"`
	Reports   map[string]any  `json:"reports"`
	Errors    []WorkflowError `json:"errors"`
}

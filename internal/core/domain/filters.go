package domain

// Filter value vocabulary shared with the upstream service.
const (
	ActiveYes  = "yes"
	ActiveNo   = "no"
	ActiveBoth = "both"
)

// MaxPageLimit is the largest page size the upstream accepts.
const MaxPageLimit = 200

// DefaultPageLimit is used when a filter carries no explicit limit.
const DefaultPageLimit = 50

// UserFilter narrows a user listing.
type UserFilter struct {
	IDs            []int64
	Name           string // supports * wildcard
	Active         string // yes|no|both
	ModifiedBefore string // ISO-8601
	ModifiedSince  string // ISO-8601
	Page           int
	Limit          int
}

// GroupFilter narrows a group listing.
type GroupFilter struct {
	IDs    []int64
	Name   string
	Active string
	Page   int
	Limit  int
}

// JobcodeFilter narrows a jobcode listing.
type JobcodeFilter struct {
	IDs            []int64
	ParentIDs      []int64
	Name           string // supports * wildcard
	Type           JobcodeType
	Active         string
	ModifiedBefore string
	ModifiedSince  string
	Page           int
	Limit          int
}

// TimesheetFilter narrows a timesheet listing. The upstream requires at
// least one of IDs, StartDate, ModifiedBefore or ModifiedSince.
type TimesheetFilter struct {
	IDs            []int64
	UserIDs        []int64
	GroupIDs       []int64
	JobcodeIDs     []int64
	StartDate      string // YYYY-MM-DD
	EndDate        string // YYYY-MM-DD
	ModifiedBefore string // ISO-8601
	ModifiedSince  string // ISO-8601
	Page           int
	Limit          int
}

// HasRequiredFilter reports whether the disjunctive required-filter set
// of the timesheets endpoint is satisfied.
func (f TimesheetFilter) HasRequiredFilter() bool {
	return len(f.IDs) > 0 || f.StartDate != "" || f.ModifiedBefore != "" || f.ModifiedSince != ""
}

// CustomFieldFilter narrows a custom field listing.
type CustomFieldFilter struct {
	IDs       []int64
	Active    string // yes|no|both
	AppliesTo string // timesheet|user|jobcode
	ValueType string // managed-list|free-form
	Page      int
	Limit     int
}

// OnTheClockFilter scopes the live snapshots (current timesheets,
// current totals) to users, groups or jobcodes.
type OnTheClockFilter struct {
	UserIDs    []int64
	GroupIDs   []int64
	JobcodeIDs []int64
}

// ReportFilter scopes an upstream report (payroll, payroll by jobcode,
// project report) to a date range and optional id sets.
type ReportFilter struct {
	StartDate  string // required, YYYY-MM-DD
	EndDate    string // required, YYYY-MM-DD
	UserIDs    []int64
	GroupIDs   []int64
	JobcodeIDs []int64
}

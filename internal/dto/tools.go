package dto

// Tool parameter objects. Date fields tagged `dateexpr` accept either a
// literal date or a natural-language expression ("last month"); plain
// `isodate` fields accept YYYY-MM-DD only.

// GetUsersParams filters the users listing.
type GetUsersParams struct {
	IDs            []int64 `json:"ids"`
	Name           string  `json:"name"`
	Active         string  `json:"active" binding:"omitempty,oneof=yes no both"`
	ModifiedBefore string  `json:"modified_before"`
	ModifiedSince  string  `json:"modified_since"`
	PaginationParams
}

// GetUserParams names one user.
type GetUserParams struct {
	ID int64 `json:"id" binding:"required"`
}

// GetGroupsParams filters the groups listing.
type GetGroupsParams struct {
	IDs    []int64 `json:"ids"`
	Name   string  `json:"name"`
	Active string  `json:"active" binding:"omitempty,oneof=yes no both"`
	PaginationParams
}

// GetJobcodesParams filters the jobcodes listing. Name supports the
// service's trailing `*` wildcard; Type accepts accounting vocabulary
// (handlers translate it before the request leaves).
type GetJobcodesParams struct {
	IDs      []int64 `json:"ids"`
	ParentID *int64  `json:"parent_id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Active   string  `json:"active" binding:"omitempty,oneof=yes no both"`
	PaginationParams
}

// GetJobcodeParams names one jobcode.
type GetJobcodeParams struct {
	ID int64 `json:"id" binding:"required"`
}

// GetJobcodeHierarchyParams scopes the hierarchy listing to a subtree;
// zero means the whole forest.
type GetJobcodeHierarchyParams struct {
	ParentID int64  `json:"parent_id"`
	Active   string `json:"active" binding:"omitempty,oneof=yes no both"`
}

// GetTimesheetsParams filters the timesheets listing. The upstream
// requires ids, a start date or a modified bound; DateExpression
// resolves to both dates when the caller speaks in ranges.
type GetTimesheetsParams struct {
	IDs            []int64 `json:"ids"`
	UserIDs        []int64 `json:"user_ids"`
	GroupIDs       []int64 `json:"group_ids"`
	JobcodeIDs     []int64 `json:"jobcode_ids"`
	StartDate      string  `json:"start_date" binding:"omitempty,isodate"`
	EndDate        string  `json:"end_date" binding:"omitempty,isodate"`
	DateExpression string  `json:"date_expression"`
	ModifiedBefore string  `json:"modified_before"`
	ModifiedSince  string  `json:"modified_since"`
	PaginationParams
}

// GetTimesheetParams names one timesheet.
type GetTimesheetParams struct {
	ID int64 `json:"id" binding:"required"`
}

// GetCurrentTimesheetsParams scope the on-the-clock snapshot.
type GetCurrentTimesheetsParams struct {
	UserIDs    []int64 `json:"user_ids"`
	GroupIDs   []int64 `json:"group_ids"`
	JobcodeIDs []int64 `json:"jobcode_ids"`
}

// GetCustomFieldsParams filter the custom field definitions listing.
type GetCustomFieldsParams struct {
	IDs       []int64 `json:"ids"`
	Active    string  `json:"active" binding:"omitempty,oneof=yes no both"`
	AppliesTo string  `json:"applies_to" binding:"omitempty,oneof=timesheet user jobcode"`
	ValueType string  `json:"value_type" binding:"omitempty,oneof=managed-list free-form"`
	PaginationParams
}

// GetCurrentTotalsParams scope the live shift/day totals snapshot.
type GetCurrentTotalsParams struct {
	UserIDs    []int64 `json:"user_ids"`
	GroupIDs   []int64 `json:"group_ids"`
	JobcodeIDs []int64 `json:"jobcode_ids"`
}

// ReportParams drive the upstream report endpoints.
type ReportParams struct {
	StartDate      string  `json:"start_date" binding:"omitempty,isodate"`
	EndDate        string  `json:"end_date" binding:"omitempty,isodate"`
	DateExpression string  `json:"date_expression"`
	UserIDs        []int64 `json:"user_ids"`
	GroupIDs       []int64 `json:"group_ids"`
	JobcodeIDs     []int64 `json:"jobcode_ids"`
}

// GetLastModifiedParams limits the freshness check to chosen object
// types.
type GetLastModifiedParams struct {
	Types []string `json:"types"`
}

// BiweeklyPayrollParams start the bi-weekly payroll workflow. An empty
// end date means the period ending today.
type BiweeklyPayrollParams struct {
	EndDate string `json:"end_date" binding:"omitempty,isodate"`
}

// MonthEndClosingParams start the month-end closing workflow; zero
// values default to the previous month.
type MonthEndClosingParams struct {
	Month int `json:"month" binding:"omitempty,min=1,max=12"`
	Year  int `json:"year" binding:"omitempty,min=2000,max=2100"`
}

// QuarterlyTaxPrepParams start the quarterly tax prep workflow; zero
// values default to the current quarter.
type QuarterlyTaxPrepParams struct {
	Quarter int `json:"quarter" binding:"omitempty,min=1,max=4"`
	Year    int `json:"year" binding:"omitempty,min=2000,max=2100"`
}

// ClientInvoiceParams start the client invoice workflow. HourlyRate
// overrides per-employee rates with one flat billing rate.
type ClientInvoiceParams struct {
	ClientName string   `json:"client_name" binding:"required"`
	StartDate  string   `json:"start_date" binding:"required"`
	EndDate    string   `json:"end_date"`
	HourlyRate *float64 `json:"hourly_rate" binding:"omitempty,gt=0"`
}

// ProjectProfitabilityParams start the project profitability workflow.
type ProjectProfitabilityParams struct {
	ProjectName string `json:"project_name" binding:"required"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

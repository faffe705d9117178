// Package ports defines the interfaces between the service core and
// its collaborators. Services depend on these, never on the concrete
// qbtime adapter, so the core stays testable with mocks.
package ports

import (
	"context"
	"encoding/json"

	"github.com/vespo92/QBMCPServer/internal/core/domain"
)

// UserProvider reads employee reference data from the time service.
type UserProvider interface {
	ListUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CurrentUser(ctx context.Context) (*domain.User, error)
}

// GroupProvider reads group (department) reference data.
type GroupProvider interface {
	ListGroups(ctx context.Context, f domain.GroupFilter) ([]domain.Group, error)
	GetGroup(ctx context.Context, id int64) (*domain.Group, error)
}

// JobcodeProvider reads the jobcode hierarchy.
type JobcodeProvider interface {
	ListJobcodes(ctx context.Context, f domain.JobcodeFilter) (domain.JobcodeSet, error)
	GetJobcode(ctx context.Context, id int64) (*domain.Jobcode, error)
}

// TimesheetProvider reads raw time entries, both historical and the
// live on-the-clock snapshot.
type TimesheetProvider interface {
	ListTimesheets(ctx context.Context, f domain.TimesheetFilter) ([]domain.Timesheet, error)
	GetTimesheet(ctx context.Context, id int64) (*domain.Timesheet, error)
	ListCurrentTimesheets(ctx context.Context, f domain.OnTheClockFilter) ([]domain.Timesheet, error)
}

// CustomFieldProvider reads the company's custom field definitions.
type CustomFieldProvider interface {
	ListCustomFields(ctx context.Context, f domain.CustomFieldFilter) ([]domain.CustomField, error)
}

// ReportProvider runs the upstream's own report endpoints; results are
// passed through untouched.
type ReportProvider interface {
	PayrollReport(ctx context.Context, f domain.ReportFilter) (map[string]json.RawMessage, error)
	PayrollByJobcodeReport(ctx context.Context, f domain.ReportFilter) (map[string]json.RawMessage, error)
	ProjectReport(ctx context.Context, f domain.ReportFilter) (map[string]json.RawMessage, error)
	CurrentTotals(ctx context.Context, f domain.OnTheClockFilter) ([]domain.CurrentTotal, error)
	LastModified(ctx context.Context, types []string) (map[string]json.RawMessage, error)
}

// TimeDataProvider is the full upstream surface the workflow layer
// composes over.
type TimeDataProvider interface {
	UserProvider
	GroupProvider
	JobcodeProvider
	TimesheetProvider
	CustomFieldProvider
	ReportProvider
}

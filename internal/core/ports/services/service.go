// Package services defines the facade interfaces of the application
// services. Handlers depend on these, not on the concrete
// implementations.
package services

import (
	"context"
	"time"

	"github.com/vespo92/QBMCPServer/internal/core/domain"
)

// VocabularySvcFacade translates between accounting vocabulary and the
// time service's vocabulary.
type VocabularySvcFacade interface {
	// ToServiceTerm maps an accounting term to the service term;
	// unknown terms pass through unchanged.
	ToServiceTerm(term string) string
	// ToAccountingTerm maps a service term back. Reversal of the
	// many-to-one jobcode mapping is lossy and returns "jobcode".
	ToAccountingTerm(serviceTerm string) string
	// TranslateTerms rewrites accounting phrases inside free text into
	// service vocabulary.
	TranslateTerms(text string) string
}

// DateRangeSvcFacade resolves date expressions against an anchor.
type DateRangeSvcFacade interface {
	// Now returns the current time in the configured reporting
	// timezone; callers defaulting a period derive "today" from it.
	Now() time.Time
	// Resolve turns a natural-language or literal date expression into
	// an inclusive ISO date range.
	Resolve(expression string, anchor time.Time) (domain.DateRange, error)
	// ResolveNow resolves against the current time in the configured
	// timezone.
	ResolveNow(expression string) (domain.DateRange, error)
	// BiweeklyPeriodEnding returns the 14-day inclusive pay period
	// ending on the given date.
	BiweeklyPeriodEnding(endDate string) (domain.DateRange, error)
	// QuarterRange returns the calendar quarter (1..4) of a year.
	QuarterRange(quarter, year int) (domain.DateRange, error)
}

// AggregateOptions tunes an aggregation run.
type AggregateOptions struct {
	// IncludeZero emits all-zero totals for requested keys that matched
	// no entries; otherwise absent keys are omitted entirely.
	IncludeZero bool
	// Keys is the requested key set for zero-fill.
	Keys []int64
}

// AggregationSvcFacade reduces raw time entries into totals.
type AggregationSvcFacade interface {
	Aggregate(entries []domain.Timesheet, jobcodes domain.JobcodeSet, users map[int64]domain.User,
		dim domain.Dimension, opts AggregateOptions) domain.AggregateTotals
	BuildPayrollReport(dr domain.DateRange, entries []domain.Timesheet, jobcodes domain.JobcodeSet,
		users map[int64]domain.User) domain.PayrollReport
}

// WorkflowSvcFacade runs the named multi-step accounting packages.
type WorkflowSvcFacade interface {
	PrepareBiweeklyPayroll(ctx context.Context, endDate string) (*domain.WorkflowResult, error)
	MonthEndClosing(ctx context.Context, month, year int) (*domain.WorkflowResult, error)
	QuarterlyTaxPrep(ctx context.Context, quarter, year int) (*domain.WorkflowResult, error)
	PrepareClientInvoice(ctx context.Context, clientName, startExpr, endExpr string, hourlyRate *float64) (*domain.WorkflowResult, error)
	AnalyzeProjectProfitability(ctx context.Context, projectName, startExpr, endExpr string) (*domain.WorkflowResult, error)
}

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers.
type ServiceContainer struct {
	Vocabulary VocabularySvcFacade
	DateRange  DateRangeSvcFacade
	Aggregate  AggregationSvcFacade
	Workflow   WorkflowSvcFacade
}

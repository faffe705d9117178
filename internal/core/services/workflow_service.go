package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vespo92/QBMCPServer/internal/apperrors"
	"github.com/vespo92/QBMCPServer/internal/core/domain"
	"github.com/vespo92/QBMCPServer/internal/core/ports"
	portssvc "github.com/vespo92/QBMCPServer/internal/core/ports/services"
	"github.com/vespo92/QBMCPServer/internal/utils/accounting"
)

// WorkflowService composes date resolution, rate-limited fetches and
// aggregation into the named accounting packages. Every invocation is
// stateless: it re-fetches what it needs and returns a fresh result.
type WorkflowService struct {
	provider ports.TimeDataProvider
	dates    portssvc.DateRangeSvcFacade
	agg      portssvc.AggregationSvcFacade
	logger   *slog.Logger
}

// NewWorkflowService wires the orchestrator.
func NewWorkflowService(provider ports.TimeDataProvider, dates portssvc.DateRangeSvcFacade,
	agg portssvc.AggregationSvcFacade, logger *slog.Logger) *WorkflowService {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkflowService{provider: provider, dates: dates, agg: agg, logger: logger}
}

// workflowStep is one entry of a workflow's declarative step list.
// Tolerant steps record their failure and let the run continue; a
// non-tolerant step's failure is the workflow's own failure.
type workflowStep struct {
	name     string
	tolerant bool
	run      func(ctx context.Context) (any, error)
}

// execute interprets a step list. Cancellation observed at any point
// aborts the run and discards partial results; tolerated failures land
// in the result's error list with the matching section omitted.
func (s *WorkflowService) execute(ctx context.Context, name string, dr domain.DateRange,
	steps []workflowStep) (*domain.WorkflowResult, error) {

	result := &domain.WorkflowResult{
		Name:      name,
		DateRange: dr,
		Reports:   map[string]any{},
		Errors:    []domain.WorkflowError{},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("workflow %s interrupted: %w", name, apperrors.ErrCancelled)
		}
		out, err := step.run(ctx)
		if err != nil {
			if apperrors.IsCancelled(err) {
				return nil, fmt.Errorf("workflow %s interrupted during %s: %w", name, step.name, apperrors.ErrCancelled)
			}
			if !step.tolerant {
				return nil, fmt.Errorf("workflow %s failed at %s: %w", name, step.name, err)
			}
			s.logger.Warn("Workflow sub-report failed, continuing",
				slog.String("workflow", name), slog.String("step", step.name), slog.String("error", err.Error()))
			result.Errors = append(result.Errors, domain.WorkflowError{
				Source:  step.name,
				Message: apperrors.FriendlyMessage(err),
			})
			continue
		}
		result.Reports[step.name] = out
	}

	if len(result.Errors) > 0 {
		result.State = domain.WorkflowPartiallyFailed
	} else {
		result.State = domain.WorkflowDone
	}
	return result, nil
}

// fetchReference loads users and jobcodes concurrently; both fetches
// share the client's token bucket.
func (s *WorkflowService) fetchReference(ctx context.Context) (map[int64]domain.User, domain.JobcodeSet, error) {
	var (
		users    []domain.User
		jobcodes domain.JobcodeSet
		uErr     error
		jErr     error
		wg       sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		users, uErr = s.provider.ListUsers(ctx, domain.UserFilter{Active: domain.ActiveBoth})
	}()
	go func() {
		defer wg.Done()
		jobcodes, jErr = s.provider.ListJobcodes(ctx, domain.JobcodeFilter{Active: domain.ActiveBoth})
	}()
	wg.Wait()
	if uErr != nil {
		return nil, nil, fmt.Errorf("fetching users: %w", uErr)
	}
	if jErr != nil {
		return nil, nil, fmt.Errorf("fetching jobcodes: %w", jErr)
	}
	byID := make(map[int64]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, jobcodes, nil
}

// PrepareBiweeklyPayroll assembles the standard bi-weekly payroll
// package: payroll summary, overtime detail, PTO usage and department
// breakdown for the 14-day period ending on endDate (today when empty).
func (s *WorkflowService) PrepareBiweeklyPayroll(ctx context.Context, endDate string) (*domain.WorkflowResult, error) {
	if endDate == "" {
		endDate = s.dates.Now().Format(domain.ISODate)
	}
	dr, err := s.dates.BiweeklyPeriodEnding(endDate)
	if err != nil {
		return nil, err
	}

	users, jobcodes, err := s.fetchReference(ctx)
	if err != nil {
		return nil, err
	}

	// Later steps reuse the entries fetched by the payroll summary.
	var entries []domain.Timesheet
	var payroll domain.PayrollReport

	steps := []workflowStep{
		{name: "payroll_summary", run: func(ctx context.Context) (any, error) {
			entries, err = s.provider.ListTimesheets(ctx, domain.TimesheetFilter{
				StartDate: dr.StartDate, EndDate: dr.EndDate,
			})
			if err != nil {
				return nil, err
			}
			payroll = s.agg.BuildPayrollReport(dr, entries, jobcodes, users)
			return payroll, nil
		}},
		{name: "overtime_report", tolerant: true, run: func(ctx context.Context) (any, error) {
			if payroll.ByUser == nil {
				return nil, fmt.Errorf("payroll summary unavailable")
			}
			return s.overtimeDetail(payroll, users), nil
		}},
		{name: "pto_usage", tolerant: true, run: func(ctx context.Context) (any, error) {
			if payroll.ByUser == nil {
				return nil, fmt.Errorf("payroll summary unavailable")
			}
			return s.ptoDetail(payroll, users), nil
		}},
		{name: "department_breakdown", tolerant: true, run: func(ctx context.Context) (any, error) {
			if entries == nil {
				return nil, fmt.Errorf("payroll summary unavailable")
			}
			groups, err := s.provider.ListGroups(ctx, domain.GroupFilter{Active: domain.ActiveBoth})
			if err != nil {
				return nil, err
			}
			return s.departmentBreakdown(entries, jobcodes, users, groups), nil
		}},
		{name: "next_steps", tolerant: true, run: func(ctx context.Context) (any, error) {
			return []string{
				"Review overtime for compliance",
				"Verify PTO balances",
				"Export to payroll system",
				"Generate pay stubs",
			}, nil
		}},
	}
	return s.execute(ctx, "biweekly_payroll", dr, steps)
}

// MonthEndClosing assembles the month-end close package for the given
// month/year; zero values default to the month preceding the current
// one.
func (s *WorkflowService) MonthEndClosing(ctx context.Context, month, year int) (*domain.WorkflowResult, error) {
	now := s.dates.Now()
	if month == 0 {
		month = int(now.Month()) - 1
		if month == 0 {
			month = 12
		}
	}
	if year == 0 {
		year = now.Year()
		if month == 12 && now.Month() == time.January {
			year--
		}
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be 1..12, got %d: %w", month, apperrors.ErrValidation)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	dr := domain.NewDateRange(first, first.AddDate(0, 1, -1))

	users, jobcodes, err := s.fetchReference(ctx)
	if err != nil {
		return nil, err
	}

	var entries []domain.Timesheet

	steps := []workflowStep{
		{name: "monthly_payroll_summary", run: func(ctx context.Context) (any, error) {
			entries, err = s.provider.ListTimesheets(ctx, domain.TimesheetFilter{
				StartDate: dr.StartDate, EndDate: dr.EndDate,
			})
			if err != nil {
				return nil, err
			}
			return s.agg.BuildPayrollReport(dr, entries, jobcodes, users), nil
		}},
		{name: "client_billing_summary", tolerant: true, run: func(ctx context.Context) (any, error) {
			if entries == nil {
				return nil, fmt.Errorf("monthly payroll summary unavailable")
			}
			return s.agg.Aggregate(entries, jobcodes, users, domain.DimensionJobcode, portssvc.AggregateOptions{}), nil
		}},
		{name: "employee_utilization", tolerant: true, run: func(ctx context.Context) (any, error) {
			if entries == nil {
				return nil, fmt.Errorf("monthly payroll summary unavailable")
			}
			return s.utilizationDetail(entries, users), nil
		}},
		{name: "checklist", tolerant: true, run: func(ctx context.Context) (any, error) {
			return []string{
				"All timesheets submitted",
				"Overtime approved",
				"PTO balances updated",
				"Client hours verified",
				"Project budgets reviewed",
			}, nil
		}},
	}
	return s.execute(ctx, "month_end_closing", dr, steps)
}

// QuarterlyTaxPrep assembles the data an accountant needs for a
// quarterly filing: wages and hours per employee plus overtime wages.
func (s *WorkflowService) QuarterlyTaxPrep(ctx context.Context, quarter, year int) (*domain.WorkflowResult, error) {
	now := s.dates.Now()
	if quarter == 0 {
		quarter = (int(now.Month())-1)/3 + 1
	}
	if year == 0 {
		year = now.Year()
	}
	dr, err := s.dates.QuarterRange(quarter, year)
	if err != nil {
		return nil, err
	}

	users, jobcodes, err := s.fetchReference(ctx)
	if err != nil {
		return nil, err
	}

	var byUser domain.AggregateTotals

	steps := []workflowStep{
		{name: "wages_by_employee", run: func(ctx context.Context) (any, error) {
			entries, err := s.provider.ListTimesheets(ctx, domain.TimesheetFilter{
				StartDate: dr.StartDate, EndDate: dr.EndDate,
			})
			if err != nil {
				return nil, err
			}
			byUser = s.agg.Aggregate(entries, jobcodes, users, domain.DimensionUser, portssvc.AggregateOptions{})
			return byUser, nil
		}},
		{name: "total_hours", tolerant: true, run: func(ctx context.Context) (any, error) {
			if byUser == nil {
				return nil, fmt.Errorf("wage data unavailable")
			}
			var total int64
			for _, t := range byUser {
				total += t.TotalSeconds()
			}
			return map[string]any{
				"total_seconds": total,
				"total_hours":   float64(total) / 3600,
				"formatted":     accounting.FormatSecondsToHours(total),
			}, nil
		}},
		{name: "overtime_wages", tolerant: true, run: func(ctx context.Context) (any, error) {
			if byUser == nil {
				return nil, fmt.Errorf("wage data unavailable")
			}
			wages := decimal.Zero
			for _, t := range byUser {
				if t.OvertimeCost != nil {
					wages = wages.Add(*t.OvertimeCost)
				}
			}
			return map[string]any{"overtime_wages": wages}, nil
		}},
		{name: "forms", tolerant: true, run: func(ctx context.Context) (any, error) {
			return []string{"Form 941 data", "State quarterly returns", "Workers comp report"}, nil
		}},
	}
	return s.execute(ctx, fmt.Sprintf("quarterly_tax_prep_q%d_%d", quarter, year), dr, steps)
}

// PrepareClientInvoice assembles a client invoice: hours by employee
// and by task under the client's jobcode subtree, a daily breakdown,
// and the billable total at the given rate (per-user rates when nil).
func (s *WorkflowService) PrepareClientInvoice(ctx context.Context, clientName, startExpr, endExpr string,
	hourlyRate *float64) (*domain.WorkflowResult, error) {

	dr, err := s.resolveSpan(startExpr, endExpr)
	if err != nil {
		return nil, err
	}

	users, jobcodes, err := s.fetchReference(ctx)
	if err != nil {
		return nil, err
	}
	clientIDs, err := s.jobcodeSubtreeByName(jobcodes, clientName)
	if err != nil {
		return nil, err
	}

	var entries []domain.Timesheet

	steps := []workflowStep{
		{name: "hours_by_employee", run: func(ctx context.Context) (any, error) {
			entries, err = s.provider.ListTimesheets(ctx, domain.TimesheetFilter{
				StartDate: dr.StartDate, EndDate: dr.EndDate, JobcodeIDs: clientIDs,
			})
			if err != nil {
				return nil, err
			}
			return s.agg.Aggregate(entries, jobcodes, users, domain.DimensionUser, portssvc.AggregateOptions{}), nil
		}},
		{name: "hours_by_task", tolerant: true, run: func(ctx context.Context) (any, error) {
			if entries == nil {
				return nil, fmt.Errorf("client hours unavailable")
			}
			return s.agg.Aggregate(entries, jobcodes, users, domain.DimensionJobcode, portssvc.AggregateOptions{}), nil
		}},
		{name: "daily_breakdown", tolerant: true, run: func(ctx context.Context) (any, error) {
			if entries == nil {
				return nil, fmt.Errorf("client hours unavailable")
			}
			byDay := map[string]int64{}
			for _, e := range entries {
				byDay[e.Date] += e.DurationSeconds()
			}
			return byDay, nil
		}},
		{name: "invoice_total", tolerant: true, run: func(ctx context.Context) (any, error) {
			if entries == nil {
				return nil, fmt.Errorf("client hours unavailable")
			}
			return s.invoiceTotal(entries, jobcodes, users, hourlyRate), nil
		}},
	}
	return s.execute(ctx, "client_invoice", dr, steps)
}

// AnalyzeProjectProfitability reports hours and labor cost for one
// project's jobcode subtree over the given span ("this month" when
// empty).
func (s *WorkflowService) AnalyzeProjectProfitability(ctx context.Context, projectName, startExpr, endExpr string) (*domain.WorkflowResult, error) {
	if startExpr == "" {
		startExpr = "this month"
	}
	dr, err := s.resolveSpan(startExpr, endExpr)
	if err != nil {
		return nil, err
	}

	users, jobcodes, err := s.fetchReference(ctx)
	if err != nil {
		return nil, err
	}
	projectIDs, err := s.jobcodeSubtreeByName(jobcodes, projectName)
	if err != nil {
		return nil, err
	}

	var byUser domain.AggregateTotals

	steps := []workflowStep{
		{name: "hours_by_employee", run: func(ctx context.Context) (any, error) {
			entries, err := s.provider.ListTimesheets(ctx, domain.TimesheetFilter{
				StartDate: dr.StartDate, EndDate: dr.EndDate, JobcodeIDs: projectIDs,
			})
			if err != nil {
				return nil, err
			}
			byUser = s.agg.Aggregate(entries, jobcodes, users, domain.DimensionUser, portssvc.AggregateOptions{})
			return byUser, nil
		}},
		{name: "labor_cost", tolerant: true, run: func(ctx context.Context) (any, error) {
			if byUser == nil {
				return nil, fmt.Errorf("project hours unavailable")
			}
			cost := decimal.Zero
			var costed, uncosted int
			for _, t := range byUser {
				if t.TotalCost != nil {
					cost = cost.Add(*t.TotalCost)
					costed++
				} else {
					uncosted++
				}
			}
			return map[string]any{
				"labor_cost":             cost,
				"employees_with_rate":    costed,
				"employees_missing_rate": uncosted,
			}, nil
		}},
		{name: "recommendations", tolerant: true, run: func(ctx context.Context) (any, error) {
			return []string{"Staffing adjustments", "Rate negotiations", "Scope management"}, nil
		}},
	}
	return s.execute(ctx, "project_profitability", dr, steps)
}

// resolveSpan resolves one or two date expressions into a single range:
// a lone expression names the whole span, a pair supplies its ends.
func (s *WorkflowService) resolveSpan(startExpr, endExpr string) (domain.DateRange, error) {
	start, err := s.dates.ResolveNow(startExpr)
	if err != nil {
		return domain.DateRange{}, err
	}
	if endExpr == "" {
		return start, nil
	}
	end, err := s.dates.ResolveNow(endExpr)
	if err != nil {
		return domain.DateRange{}, err
	}
	dr := domain.DateRange{StartDate: start.StartDate, EndDate: end.EndDate}
	if err := dr.Validate(); err != nil {
		return domain.DateRange{}, fmt.Errorf("%s: %w", err.Error(), apperrors.ErrValidation)
	}
	return dr, nil
}

// jobcodeSubtreeByName finds the jobcode whose name matches (case
// insensitive) and returns its subtree ids. A missing client/project is
// a fatal precondition, not a tolerated sub-failure.
func (s *WorkflowService) jobcodeSubtreeByName(jobcodes domain.JobcodeSet, name string) ([]int64, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, fmt.Errorf("a client or project name is required: %w", apperrors.ErrValidation)
	}
	for _, jc := range jobcodes {
		if strings.ToLower(jc.Name) == needle {
			return jobcodes.SubtreeIDs(jc.ID), nil
		}
	}
	return nil, fmt.Errorf("no jobcode named %q: %w", name, apperrors.ErrValidation)
}

// departmentBreakdown aggregates by group and labels each group with
// its name; unknown group ids keep an empty name.
func (s *WorkflowService) departmentBreakdown(entries []domain.Timesheet, jobcodes domain.JobcodeSet,
	users map[int64]domain.User, groups []domain.Group) []map[string]any {

	names := make(map[int64]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	byGroup := s.agg.Aggregate(entries, jobcodes, users, domain.DimensionGroup, portssvc.AggregateOptions{})

	out := []map[string]any{}
	for groupID, t := range byGroup {
		out = append(out, map[string]any{
			"group_id":   groupID,
			"department": names[groupID],
			"totals":     t,
		})
	}
	return out
}

// overtimeDetail lists employees with overtime in the period.
func (s *WorkflowService) overtimeDetail(payroll domain.PayrollReport, users map[int64]domain.User) []map[string]any {
	out := []map[string]any{}
	for userID, t := range payroll.ByUser {
		if t.OvertimeSeconds == 0 && t.DoubletimeSeconds == 0 {
			continue
		}
		row := map[string]any{
			"user_id":            userID,
			"employee":           users[userID].FullName(),
			"overtime_seconds":   t.OvertimeSeconds,
			"doubletime_seconds": t.DoubletimeSeconds,
		}
		if t.OvertimeCost != nil {
			row["overtime_cost"] = *t.OvertimeCost
		}
		out = append(out, row)
	}
	return out
}

// ptoDetail lists employees who used PTO in the period.
func (s *WorkflowService) ptoDetail(payroll domain.PayrollReport, users map[int64]domain.User) []map[string]any {
	out := []map[string]any{}
	for userID, t := range payroll.ByUser {
		if t.PTOSeconds == 0 {
			continue
		}
		out = append(out, map[string]any{
			"user_id":     userID,
			"employee":    users[userID].FullName(),
			"pto_seconds": t.PTOSeconds,
		})
	}
	return out
}

// utilizationDetail reports total hours per employee.
func (s *WorkflowService) utilizationDetail(entries []domain.Timesheet, users map[int64]domain.User) []map[string]any {
	perUser := map[int64]int64{}
	for _, e := range entries {
		perUser[e.UserID] += e.DurationSeconds()
	}
	out := []map[string]any{}
	for userID, secs := range perUser {
		out = append(out, map[string]any{
			"user_id":       userID,
			"employee":      users[userID].FullName(),
			"total_seconds": secs,
		})
	}
	return out
}

// invoiceTotal prices the billable time: a flat rate applies to every
// hour; with no flat rate, each employee's own rate prices their time
// and unrated time is reported separately instead of billed at zero.
func (s *WorkflowService) invoiceTotal(entries []domain.Timesheet, jobcodes domain.JobcodeSet,
	users map[int64]domain.User, hourlyRate *float64) map[string]any {

	var totalSeconds int64
	for _, e := range entries {
		if jobcodes.EffectiveType(e.JobcodeID) != domain.JobcodeRegular {
			continue
		}
		totalSeconds += e.DurationSeconds()
	}

	result := map[string]any{
		"billable_seconds": totalSeconds,
		"billable_hours":   accounting.FormatSecondsToHours(totalSeconds),
	}
	if hourlyRate != nil {
		rate := decimal.NewFromFloat(*hourlyRate)
		amount := decimal.NewFromInt(totalSeconds).Div(secondsPerHour).Mul(rate)
		result["hourly_rate"] = rate
		result["total_amount"] = amount
		result["total_formatted"] = accounting.FormatCurrency(amount)
		return result
	}

	amount := decimal.Zero
	var unratedSeconds int64
	perUser := map[int64]int64{}
	for _, e := range entries {
		if jobcodes.EffectiveType(e.JobcodeID) != domain.JobcodeRegular {
			continue
		}
		perUser[e.UserID] += e.DurationSeconds()
	}
	for userID, secs := range perUser {
		user, ok := users[userID]
		if !ok || user.HourlyRate == nil {
			unratedSeconds += secs
			continue
		}
		amount = amount.Add(decimal.NewFromInt(secs).Div(secondsPerHour).Mul(*user.HourlyRate))
	}
	result["total_amount"] = amount
	result["total_formatted"] = accounting.FormatCurrency(amount)
	if unratedSeconds > 0 {
		result["unrated_seconds"] = unratedSeconds
	}
	return result
}

package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vespo92/QBMCPServer/internal/core/domain"
	portssvc "github.com/vespo92/QBMCPServer/internal/core/ports/services"
)

// weeklyOvertimeThreshold is the per-employee weekly regular-time cap:
// 40 hours in seconds. Time beyond it in one ISO week is overtime.
const weeklyOvertimeThreshold = int64(40 * 3600)

var (
	secondsPerHour       = decimal.NewFromInt(3600)
	overtimeMultiplier   = decimal.RequireFromString("1.5")
	doubletimeMultiplier = decimal.NewFromInt(2)
)

// AggregationService reduces raw timesheets into totals keyed by user,
// jobcode or group.
type AggregationService struct{}

// NewAggregationService builds the aggregator.
func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// userWeek identifies one employee's ISO calendar week.
type userWeek struct {
	userID int64
	year   int
	week   int
}

// Aggregate classifies every entry's duration into regular, overtime,
// double-time or PTO seconds and sums them per dimension key.
//
// Overtime policy: per employee, per ISO week, the first 40 hours of
// regular-type jobcode time is regular; the excess is overtime,
// accumulated in start-time order. Entries belong to the week of their
// date field, not their start timestamp, so entries spanning midnight
// are not split across weeks. Double-time is never inferred from hour
// thresholds; only entries the source flags as double-time count.
// PTO-type jobcodes feed pto_seconds and stay out of the 40-hour
// accumulation.
func (s *AggregationService) Aggregate(entries []domain.Timesheet, jobcodes domain.JobcodeSet,
	users map[int64]domain.User, dim domain.Dimension, opts portssvc.AggregateOptions) domain.AggregateTotals {

	sorted := make([]domain.Timesheet, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	totals := domain.AggregateTotals{}
	weekly := map[userWeek]int64{}

	for _, e := range sorted {
		secs := e.DurationSeconds()
		key := dimensionKey(e, dim, users)
		t, ok := totals[key]
		if !ok {
			t = &domain.Totals{}
			totals[key] = t
		}
		t.EntryCount++

		switch effType := jobcodes.EffectiveType(e.JobcodeID); {
		case effType == domain.JobcodePTO:
			t.PTOSeconds += secs
		case e.Doubletime:
			t.DoubletimeSeconds += secs
		case effType == domain.JobcodeRegular:
			wk := weekOf(e)
			used := weekly[wk]
			remaining := weeklyOvertimeThreshold - used
			switch {
			case remaining <= 0:
				t.OvertimeSeconds += secs
			case secs <= remaining:
				t.RegularSeconds += secs
			default:
				t.RegularSeconds += remaining
				t.OvertimeSeconds += secs - remaining
			}
			weekly[wk] += secs
		default:
			// Break-type time is paid at the regular rate but never
			// feeds the 40-hour overtime accumulation.
			t.RegularSeconds += secs
		}
	}

	if dim == domain.DimensionUser {
		attachCosts(totals, users)
	}

	if opts.IncludeZero {
		for _, key := range opts.Keys {
			if _, ok := totals[key]; !ok {
				totals[key] = &domain.Totals{}
			}
		}
	}
	return totals
}

// BuildPayrollReport aggregates by user and rolls the per-user totals
// up into company-wide payroll totals.
func (s *AggregationService) BuildPayrollReport(dr domain.DateRange, entries []domain.Timesheet,
	jobcodes domain.JobcodeSet, users map[int64]domain.User) domain.PayrollReport {

	byUser := s.Aggregate(entries, jobcodes, users, domain.DimensionUser, portssvc.AggregateOptions{})

	report := domain.PayrollReport{DateRange: dr, ByUser: byUser}
	for _, t := range byUser {
		report.Totals.RegularSeconds += t.RegularSeconds
		report.Totals.OvertimeSeconds += t.OvertimeSeconds
		report.Totals.DoubletimeSeconds += t.DoubletimeSeconds
		report.Totals.PTOSeconds += t.PTOSeconds
		report.Totals.TotalSeconds += t.TotalSeconds()
	}
	return report
}

func dimensionKey(e domain.Timesheet, dim domain.Dimension, users map[int64]domain.User) int64 {
	switch dim {
	case domain.DimensionJobcode:
		return e.JobcodeID
	case domain.DimensionGroup:
		return users[e.UserID].GroupID
	default:
		return e.UserID
	}
}

// weekOf returns the ISO week containing the entry's date field,
// falling back to the start timestamp when the date is absent.
func weekOf(e domain.Timesheet) userWeek {
	day, err := time.Parse(domain.ISODate, e.Date)
	if err != nil {
		day = e.Start
	}
	year, week := day.ISOWeek()
	return userWeek{userID: e.UserID, year: year, week: week}
}

// attachCosts derives cost fields for keys whose user has a known
// hourly rate: 1x regular, 1.5x overtime, 2x double-time. A missing
// rate leaves the cost fields absent rather than zero.
func attachCosts(totals domain.AggregateTotals, users map[int64]domain.User) {
	for userID, t := range totals {
		user, ok := users[userID]
		if !ok || user.HourlyRate == nil {
			continue
		}
		rate := *user.HourlyRate
		regular := secondsCost(t.RegularSeconds, rate, decimal.NewFromInt(1))
		overtime := secondsCost(t.OvertimeSeconds, rate, overtimeMultiplier)
		doubletime := secondsCost(t.DoubletimeSeconds, rate, doubletimeMultiplier)
		total := regular.Add(overtime).Add(doubletime)

		t.RegularCost = &regular
		t.OvertimeCost = &overtime
		t.DoubletimeCost = &doubletime
		t.TotalCost = &total
	}
}

func secondsCost(seconds int64, rate, multiplier decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(seconds).Div(secondsPerHour).Mul(rate).Mul(multiplier)
}

package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/vespo92/QBMCPServer/internal/apperrors"
	"github.com/vespo92/QBMCPServer/internal/core/domain"
)

// literalFormats are the explicit date layouts accountants commonly
// use; they parse directly with no inference.
var literalFormats = []string{
	domain.ISODate,     // 2024-12-31
	"01/02/2006",       // 12/31/2024
	"01-02-2006",       // 12-31-2024
	"January 2, 2006",  // December 31, 2024
	"Jan 2, 2006",      // Dec 31, 2024
	"2 January 2006",   // 31 December 2024
}

// DateRangeService resolves natural-language and literal date
// expressions into concrete inclusive date ranges. Resolution is pure
// given an anchor date, so tests pin the anchor.
type DateRangeService struct {
	loc *time.Location
}

// NewDateRangeService builds a resolver anchored in the given timezone.
func NewDateRangeService(loc *time.Location) *DateRangeService {
	if loc == nil {
		loc = time.UTC
	}
	return &DateRangeService{loc: loc}
}

// Now returns the current time in the configured timezone, the anchor
// every default period is computed against.
func (s *DateRangeService) Now() time.Time {
	return time.Now().In(s.loc)
}

// ResolveNow resolves against the current date in the configured
// timezone.
func (s *DateRangeService) ResolveNow(expression string) (domain.DateRange, error) {
	return s.Resolve(expression, s.Now())
}

// Resolve converts a date expression plus an explicit anchor into an
// inclusive [start_date, end_date] pair in YYYY-MM-DD.
func (s *DateRangeService) Resolve(expression string, anchor time.Time) (domain.DateRange, error) {
	expr := strings.ToLower(strings.TrimSpace(expression))
	anchor = anchor.In(s.loc)
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, s.loc)

	switch expr {
	case "today":
		return domain.NewDateRange(day, day), nil
	case "yesterday":
		y := day.AddDate(0, 0, -1)
		return domain.NewDateRange(y, y), nil
	case "this week":
		monday := startOfISOWeek(day)
		return domain.NewDateRange(monday, monday.AddDate(0, 0, 6)), nil
	case "last week":
		monday := startOfISOWeek(day).AddDate(0, 0, -7)
		return domain.NewDateRange(monday, monday.AddDate(0, 0, 6)), nil
	case "this month":
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, s.loc)
		return domain.NewDateRange(first, first.AddDate(0, 1, -1)), nil
	case "last month":
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, s.loc).AddDate(0, -1, 0)
		return domain.NewDateRange(first, first.AddDate(0, 1, -1)), nil
	case "this quarter":
		return s.quarterOf(day, 0)
	case "last quarter":
		return s.quarterOf(day, -1)
	case "year to date", "ytd":
		jan1 := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, s.loc)
		return domain.NewDateRange(jan1, day), nil
	case "last year":
		jan1 := time.Date(day.Year()-1, time.January, 1, 0, 0, 0, 0, s.loc)
		return domain.NewDateRange(jan1, time.Date(day.Year()-1, time.December, 31, 0, 0, 0, 0, s.loc)), nil
	}

	// Expressions that are recognized but need a calendar we do not
	// have (the company's fiscal calendar) cannot be guessed.
	if strings.Contains(expr, "fiscal") {
		return domain.DateRange{}, fmt.Errorf("cannot resolve %q without a fiscal calendar: %w",
			expression, apperrors.ErrAmbiguousDate)
	}

	if d, ok := s.parseLiteral(expr); ok {
		return domain.NewDateRange(d, d), nil
	}
	return domain.DateRange{}, fmt.Errorf("date expression %q matches no rule: %w",
		expression, apperrors.ErrUnparseableDate)
}

// BiweeklyPeriodEnding returns the standard 14-day inclusive pay period
// ending on endDate (start = end - 13 days). No other period length is
// inferred.
func (s *DateRangeService) BiweeklyPeriodEnding(endDate string) (domain.DateRange, error) {
	end, err := time.ParseInLocation(domain.ISODate, endDate, s.loc)
	if err != nil {
		return domain.DateRange{}, fmt.Errorf("pay period end date %q: %w", endDate, apperrors.ErrUnparseableDate)
	}
	return domain.NewDateRange(end.AddDate(0, 0, -13), end), nil
}

// QuarterRange maps a calendar quarter of a year to its date range:
// Q1 Jan-Mar, Q2 Apr-Jun, Q3 Jul-Sep, Q4 Oct-Dec.
func (s *DateRangeService) QuarterRange(quarter, year int) (domain.DateRange, error) {
	if quarter < 1 || quarter > 4 {
		return domain.DateRange{}, fmt.Errorf("quarter must be 1..4, got %d: %w", quarter, apperrors.ErrValidation)
	}
	startMonth := time.Month((quarter-1)*3 + 1)
	first := time.Date(year, startMonth, 1, 0, 0, 0, 0, s.loc)
	return domain.NewDateRange(first, first.AddDate(0, 3, -1)), nil
}

// quarterOf returns the quarter containing day, shifted by offset
// quarters.
func (s *DateRangeService) quarterOf(day time.Time, offset int) (domain.DateRange, error) {
	quarter := (int(day.Month())-1)/3 + 1
	year := day.Year()
	quarter += offset
	for quarter < 1 {
		quarter += 4
		year--
	}
	for quarter > 4 {
		quarter -= 4
		year++
	}
	return s.QuarterRange(quarter, year)
}

func (s *DateRangeService) parseLiteral(expr string) (time.Time, bool) {
	for _, layout := range literalFormats {
		if d, err := time.ParseInLocation(layout, expr, s.loc); err == nil {
			return d, true
		}
		// Month names were lowercased during normalization.
		if d, err := time.ParseInLocation(layout, titleWords(expr), s.loc); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// startOfISOWeek returns the Monday of the ISO week containing day.
func startOfISOWeek(day time.Time) time.Time {
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7
	}
	return day.AddDate(0, 0, -(wd - 1))
}

package domain

import (
	"fmt"
	"time"
)

// ISODate is the service's calendar date format.
const ISODate = "2006-01-02"

// DateRange is an inclusive [StartDate, EndDate] pair in YYYY-MM-DD.
// Produced once per request, immutable, passed by value.
type DateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// NewDateRange builds a range from two calendar days.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{
		StartDate: start.Format(ISODate),
		EndDate:   end.Format(ISODate),
	}
}

// Validate checks both dates parse and start <= end.
func (r DateRange) Validate() error {
	start, err := time.Parse(ISODate, r.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start_date %q: %w", r.StartDate, err)
	}
	end, err := time.Parse(ISODate, r.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end_date %q: %w", r.EndDate, err)
	}
	if start.After(end) {
		return fmt.Errorf("start_date %s is after end_date %s", r.StartDate, r.EndDate)
	}
	return nil
}

// Contains reports whether the given YYYY-MM-DD day falls inside the range.
func (r DateRange) Contains(date string) bool {
	return date >= r.StartDate && date <= r.EndDate
}

func (r DateRange) String() string {
	return r.StartDate + " to " + r.EndDate
}

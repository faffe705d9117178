package domain

import "time"

// Timesheet represents a single time entry as returned by QuickBooks Time.
// Instances are immutable once fetched; the fetch/aggregate pipeline owns
// them only for the duration of one request.
type Timesheet struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"user_id"`
	JobcodeID    int64             `json:"jobcode_id"`
	Start        time.Time         `json:"start"`
	End          time.Time         `json:"end"`
	Duration     int64             `json:"duration"` // seconds
	Date         string            `json:"date"`     // YYYY-MM-DD, the day the entry is attributed to
	Locked       bool              `json:"locked"`
	Notes        string            `json:"notes"`
	CustomFields map[string]string `json:"customfields,omitempty"`
	Doubletime   bool              `json:"doubletime"` // set by the source data, never derived
	OnTheClock   bool              `json:"on_the_clock"`
	LastModified time.Time         `json:"last_modified"`
}

// CurrentTotal is the live shift and day accumulation for one user who
// is, or was earlier today, on the clock.
type CurrentTotal struct {
	UserID       int64 `json:"user_id"`
	OnTheClock   bool  `json:"on_the_clock"`
	TimesheetID  int64 `json:"timesheet_id"`
	JobcodeID    int64 `json:"jobcode_id"`
	GroupID      int64 `json:"group_id"`
	ShiftSeconds int64 `json:"shift_seconds"`
	DaySeconds   int64 `json:"day_seconds"`
}

// DurationSeconds returns the entry duration, preferring the explicit
// duration field and falling back to the start/end span.
func (t Timesheet) DurationSeconds() int64 {
	if t.Duration > 0 {
		return t.Duration
	}
	if t.End.After(t.Start) {
		return int64(t.End.Sub(t.Start) / time.Second)
	}
	return 0
}

package qbtime

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/vespo92/QBMCPServer/internal/apperrors"
	"github.com/vespo92/QBMCPServer/internal/core/domain"
)

// timesheetJSON is the wire shape of a timesheet record. Timestamps
// carry an ISO-8601 offset; durations are seconds.
type timesheetJSON struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"user_id"`
	JobcodeID    int64             `json:"jobcode_id"`
	Start        string            `json:"start"`
	End          string            `json:"end"`
	Duration     int64             `json:"duration"`
	Date         string            `json:"date"`
	Locked       int               `json:"locked"`
	Notes        string            `json:"notes"`
	CustomFields map[string]string `json:"customfields"`
	Doubletime   bool              `json:"doubletime"`
	OnTheClock   bool              `json:"on_the_clock"`
	LastModified string            `json:"last_modified"`
}

func (t timesheetJSON) toDomain() domain.Timesheet {
	ts := domain.Timesheet{
		ID:           t.ID,
		UserID:       t.UserID,
		JobcodeID:    t.JobcodeID,
		Duration:     t.Duration,
		Date:         t.Date,
		Locked:       t.Locked > 0,
		Notes:        t.Notes,
		CustomFields: t.CustomFields,
		Doubletime:   t.Doubletime,
		OnTheClock:   t.OnTheClock,
	}
	if v, err := time.Parse(time.RFC3339, t.Start); err == nil {
		ts.Start = v
	}
	if v, err := time.Parse(time.RFC3339, t.End); err == nil {
		ts.End = v
	}
	if v, err := time.Parse(time.RFC3339, t.LastModified); err == nil {
		ts.LastModified = v
	}
	return ts
}

// Timesheets returns a lazy pager over timesheets. The endpoint
// requires at least one of ids, start_date, modified_before or
// modified_since; violations fail here, before any request is sent.
func (c *Client) Timesheets(f domain.TimesheetFilter) (*Pager[domain.Timesheet], error) {
	if !f.HasRequiredFilter() {
		return nil, fmt.Errorf("timesheets need one of ids, start_date, modified_before or modified_since: %w",
			apperrors.ErrMissingRequiredFilter)
	}
	return newPager(func(ctx context.Context, page int) ([]domain.Timesheet, bool, error) {
		q := url.Values{}
		setIfIDs(q, "ids", f.IDs)
		setIfIDs(q, "user_ids", f.UserIDs)
		setIfIDs(q, "group_ids", f.GroupIDs)
		setIfIDs(q, "jobcode_ids", f.JobcodeIDs)
		setIfString(q, "start_date", f.StartDate)
		setIfString(q, "end_date", f.EndDate)
		setIfString(q, "modified_before", f.ModifiedBefore)
		setIfString(q, "modified_since", f.ModifiedSince)
		setPagination(q, page, f.Limit)

		env, err := c.get(ctx, "/timesheets", q)
		if err != nil {
			return nil, false, err
		}
		wire, err := decodeCollection[timesheetJSON](env, "timesheets")
		if err != nil {
			return nil, false, err
		}
		sheets := make([]domain.Timesheet, len(wire))
		for i, w := range wire {
			sheets[i] = w.toDomain()
		}
		return sheets, env.More, nil
	}), nil
}

// ListTimesheets drains every page matching the filter. A filter
// naming an explicit page returns that single page instead.
func (c *Client) ListTimesheets(ctx context.Context, f domain.TimesheetFilter) ([]domain.Timesheet, error) {
	pager, err := c.Timesheets(f)
	if err != nil {
		return nil, err
	}
	if f.Page > 0 {
		pager.Seek(f.Page)
		return pager.Next(ctx)
	}
	return pager.All(ctx)
}

// GetTimesheet fetches a single timesheet by id.
func (c *Client) GetTimesheet(ctx context.Context, id int64) (*domain.Timesheet, error) {
	sheets, err := c.ListTimesheets(ctx, domain.TimesheetFilter{IDs: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, nil
	}
	return &sheets[0], nil
}

// ListCurrentTimesheets returns the open entries of everyone currently
// on the clock. The snapshot endpoint is not paginated.
func (c *Client) ListCurrentTimesheets(ctx context.Context, f domain.OnTheClockFilter) ([]domain.Timesheet, error) {
	q := url.Values{}
	setIfIDs(q, "user_ids", f.UserIDs)
	setIfIDs(q, "group_ids", f.GroupIDs)
	setIfIDs(q, "jobcode_ids", f.JobcodeIDs)

	env, err := c.get(ctx, "/current_timesheets", q)
	if err != nil {
		return nil, err
	}
	wire, err := decodeCollection[timesheetJSON](env, "timesheets")
	if err != nil {
		return nil, err
	}
	sheets := make([]domain.Timesheet, len(wire))
	for i, w := range wire {
		sheets[i] = w.toDomain()
	}
	return sheets, nil
}

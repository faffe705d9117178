package qbtime

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/vespo92/QBMCPServer/internal/core/domain"
)

// reportBody is the POST body shared by the upstream report endpoints.
type reportBody struct {
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	UserIDs    []int64 `json:"user_ids,omitempty"`
	GroupIDs   []int64 `json:"group_ids,omitempty"`
	JobcodeIDs []int64 `json:"jobcode_ids,omitempty"`
}

func toReportBody(f domain.ReportFilter) reportBody {
	return reportBody{
		StartDate:  f.StartDate,
		EndDate:    f.EndDate,
		UserIDs:    f.UserIDs,
		GroupIDs:   f.GroupIDs,
		JobcodeIDs: f.JobcodeIDs,
	}
}

// PayrollReport runs the upstream payroll report. The result is passed
// through untouched; per-user totals live under "payroll_report".
func (c *Client) PayrollReport(ctx context.Context, f domain.ReportFilter) (map[string]json.RawMessage, error) {
	env, err := c.post(ctx, "/reports/payroll", toReportBody(f))
	if err != nil {
		return nil, err
	}
	return env.Results, nil
}

// PayrollByJobcodeReport runs the upstream payroll report grouped by
// jobcode.
func (c *Client) PayrollByJobcodeReport(ctx context.Context, f domain.ReportFilter) (map[string]json.RawMessage, error) {
	env, err := c.post(ctx, "/reports/payroll_by_jobcode", toReportBody(f))
	if err != nil {
		return nil, err
	}
	return env.Results, nil
}

// ProjectReport runs the upstream project report.
func (c *Client) ProjectReport(ctx context.Context, f domain.ReportFilter) (map[string]json.RawMessage, error) {
	env, err := c.post(ctx, "/reports/project", toReportBody(f))
	if err != nil {
		return nil, err
	}
	return env.Results, nil
}

// CurrentTotals returns the live shift and day totals of everyone on
// the clock right now. The snapshot is keyed by user id and is not
// paginated.
func (c *Client) CurrentTotals(ctx context.Context, f domain.OnTheClockFilter) ([]domain.CurrentTotal, error) {
	q := url.Values{}
	setIfIDs(q, "user_ids", f.UserIDs)
	setIfIDs(q, "group_ids", f.GroupIDs)
	setIfIDs(q, "jobcode_ids", f.JobcodeIDs)

	env, err := c.get(ctx, "/current_totals", q)
	if err != nil {
		return nil, err
	}
	return decodeCollection[domain.CurrentTotal](env, "current_totals")
}

// LastModified returns the last-modified timestamps for the requested
// entity types (all types when none given).
func (c *Client) LastModified(ctx context.Context, types []string) (map[string]json.RawMessage, error) {
	q := url.Values{}
	if len(types) > 0 {
		q.Set("types", strings.Join(types, ","))
	}
	env, err := c.get(ctx, "/last_modified_timestamps", q)
	if err != nil {
		return nil, err
	}
	return env.Results, nil
}

package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/vespo92/QBMCPServer/internal/core/domain"
	"github.com/vespo92/QBMCPServer/internal/core/services"
	"github.com/vespo92/QBMCPServer/internal/dto"
	"github.com/vespo92/QBMCPServer/internal/handlers"
	"github.com/vespo92/QBMCPServer/internal/platform/config"
)

// fakeProvider serves canned reference data; err, when set, fails every
// call.
type fakeProvider struct {
	users    []domain.User
	groups   []domain.Group
	jobcodes domain.JobcodeSet
	sheets   []domain.Timesheet
	fields   []domain.CustomField
	err      error
}

func (f *fakeProvider) ListUsers(ctx context.Context, _ domain.UserFilter) ([]domain.User, error) {
	return f.users, f.err
}

func (f *fakeProvider) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProvider) CurrentUser(ctx context.Context) (*domain.User, error) {
	if f.err != nil || len(f.users) == 0 {
		return nil, f.err
	}
	return &f.users[0], nil
}

func (f *fakeProvider) ListGroups(ctx context.Context, _ domain.GroupFilter) ([]domain.Group, error) {
	return f.groups, f.err
}

func (f *fakeProvider) GetGroup(ctx context.Context, id int64) (*domain.Group, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.groups {
		if f.groups[i].ID == id {
			return &f.groups[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProvider) ListJobcodes(ctx context.Context, _ domain.JobcodeFilter) (domain.JobcodeSet, error) {
	return f.jobcodes, f.err
}

func (f *fakeProvider) GetJobcode(ctx context.Context, id int64) (*domain.Jobcode, error) {
	if f.err != nil {
		return nil, f.err
	}
	if jc, ok := f.jobcodes[id]; ok {
		return &jc, nil
	}
	return nil, nil
}

func (f *fakeProvider) ListTimesheets(ctx context.Context, filter domain.TimesheetFilter) ([]domain.Timesheet, error) {
	if f.err != nil {
		return nil, f.err
	}
	if !filter.HasRequiredFilter() {
		return nil, fmt.Errorf("missing filter")
	}
	return f.sheets, nil
}

func (f *fakeProvider) GetTimesheet(ctx context.Context, id int64) (*domain.Timesheet, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.sheets {
		if f.sheets[i].ID == id {
			return &f.sheets[i], nil
		}
	}
	return nil, nil
}

func (f *fakeProvider) ListCurrentTimesheets(ctx context.Context, _ domain.OnTheClockFilter) ([]domain.Timesheet, error) {
	if f.err != nil {
		return nil, f.err
	}
	var open []domain.Timesheet
	for _, ts := range f.sheets {
		if ts.OnTheClock {
			open = append(open, ts)
		}
	}
	return open, nil
}

func (f *fakeProvider) ListCustomFields(ctx context.Context, _ domain.CustomFieldFilter) ([]domain.CustomField, error) {
	return f.fields, f.err
}

func (f *fakeProvider) CurrentTotals(ctx context.Context, _ domain.OnTheClockFilter) ([]domain.CurrentTotal, error) {
	if f.err != nil {
		return nil, f.err
	}
	var totals []domain.CurrentTotal
	for _, ts := range f.sheets {
		if ts.OnTheClock {
			totals = append(totals, domain.CurrentTotal{
				UserID: ts.UserID, OnTheClock: true, TimesheetID: ts.ID,
				JobcodeID: ts.JobcodeID, ShiftSeconds: ts.DurationSeconds(), DaySeconds: ts.DurationSeconds(),
			})
		}
	}
	return totals, nil
}

func (f *fakeProvider) PayrollReport(ctx context.Context, _ domain.ReportFilter) (map[string]json.RawMessage, error) {
	return map[string]json.RawMessage{"payroll_report": json.RawMessage(`{}`)}, f.err
}

func (f *fakeProvider) PayrollByJobcodeReport(ctx context.Context, _ domain.ReportFilter) (map[string]json.RawMessage, error) {
	return map[string]json.RawMessage{"payroll_by_jobcode": json.RawMessage(`{}`)}, f.err
}

func (f *fakeProvider) ProjectReport(ctx context.Context, _ domain.ReportFilter) (map[string]json.RawMessage, error) {
	return map[string]json.RawMessage{"project_report": json.RawMessage(`{}`)}, f.err
}

func (f *fakeProvider) LastModified(ctx context.Context, _ []string) (map[string]json.RawMessage, error) {
	return map[string]json.RawMessage{"timesheets": json.RawMessage(`"2024-12-31T00:00:00+00:00"`)}, f.err
}

// --- Test Suite ---
type ToolsHandlerTestSuite struct {
	suite.Suite
	provider *fakeProvider
	router   *gin.Engine
}

func (suite *ToolsHandlerTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	dto.RegisterCustomValidators()
}

func (suite *ToolsHandlerTestSuite) SetupTest() {
	suite.provider = &fakeProvider{
		users: []domain.User{
			{ID: 1, FirstName: "Ada", LastName: "Bell", Active: true, GroupID: 100},
			{ID: 2, FirstName: "Ben", LastName: "Cole", Active: true, GroupID: 100},
		},
		groups: []domain.Group{{ID: 100, Name: "Engineering", Active: true}},
		jobcodes: domain.JobcodeSet{
			10: {ID: 10, Name: "Acme Corp", Type: domain.JobcodeRegular},
			11: {ID: 11, Name: "Acme Audit", ParentID: 10, Type: domain.JobcodeRegular},
			20: {ID: 20, Name: "Vacation", Type: domain.JobcodePTO},
		},
		sheets: []domain.Timesheet{{
			ID: 1, UserID: 1, JobcodeID: 10,
			Start: time.Date(2024, 12, 2, 8, 0, 0, 0, time.UTC), Duration: 28800, Date: "2024-12-02",
		}},
	}

	cfg := &config.Config{ReportTimezone: "UTC", ToolRateLimit: "1000-S"}
	container := services.NewServiceContainer(cfg, suite.provider, nil)

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, suite.provider, container)
}

func (suite *ToolsHandlerTestSuite) callTool(name, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/tools/"+name, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *ToolsHandlerTestSuite) TestHealth() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *ToolsHandlerTestSuite) TestUnknownTool() {
	w := suite.callTool("summon_auditor", `{}`)
	suite.Equal(http.StatusNotFound, w.Code)

	var resp dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Contains(resp.Message, "summon_auditor")
}

func (suite *ToolsHandlerTestSuite) TestGetUsers() {
	w := suite.callTool("get_users", `{"active":"yes"}`)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Users []domain.User `json:"users"`
		Count int           `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(2, resp.Count)
	suite.Equal("Ada", resp.Users[0].FirstName)
}

func (suite *ToolsHandlerTestSuite) TestGetUsersRejectsBadActive() {
	w := suite.callTool("get_users", `{"active":"maybe"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ToolsHandlerTestSuite) TestGetUsersRejectsOversizedLimit() {
	w := suite.callTool("get_users", `{"limit":500}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ToolsHandlerTestSuite) TestGetUserNotFound() {
	w := suite.callTool("get_user", `{"id":999}`)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ToolsHandlerTestSuite) TestGetJobcodeHierarchy() {
	w := suite.callTool("get_jobcode_hierarchy", ``)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Hierarchy []struct {
			ID            int64  `json:"id"`
			Name          string `json:"name"`
			EffectiveType string `json:"effective_type"`
			Children      []struct {
				ID int64 `json:"id"`
			} `json:"children"`
		} `json:"hierarchy"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Hierarchy, 2)
	// Roots come in arena order; find the client subtree.
	for _, root := range resp.Hierarchy {
		if root.ID == 10 {
			suite.Require().Len(root.Children, 1)
			suite.Equal(int64(11), root.Children[0].ID)
		}
	}
}

func (suite *ToolsHandlerTestSuite) TestGetTimesheetsWithDateExpression() {
	w := suite.callTool("get_timesheets", `{"date_expression":"this month"}`)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Count int `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.Count)
}

func (suite *ToolsHandlerTestSuite) TestGetTimesheetsRejectsBadExpression() {
	w := suite.callTool("get_timesheets", `{"date_expression":"someday"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ToolsHandlerTestSuite) TestGetTimesheetsRejectsBadStartDate() {
	w := suite.callTool("get_timesheets", `{"start_date":"12/01/2024"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ToolsHandlerTestSuite) TestGetTimesheet() {
	w := suite.callTool("get_timesheet", `{"id":1}`)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Timesheet domain.Timesheet `json:"timesheet"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(1), resp.Timesheet.ID)
	suite.Equal("2024-12-02", resp.Timesheet.Date)
}

func (suite *ToolsHandlerTestSuite) TestGetTimesheetNotFound() {
	w := suite.callTool("get_timesheet", `{"id":999}`)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ToolsHandlerTestSuite) TestGetTimesheetRequiresID() {
	w := suite.callTool("get_timesheet", `{}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ToolsHandlerTestSuite) TestGetCurrentTimesheets() {
	suite.provider.sheets = append(suite.provider.sheets, domain.Timesheet{
		ID: 2, UserID: 2, JobcodeID: 10, Duration: 7200, Date: "2024-12-02", OnTheClock: true,
	})

	w := suite.callTool("get_current_timesheets", ``)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Timesheets []domain.Timesheet `json:"timesheets"`
		Count      int                `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.Count)
	suite.Equal(int64(2), resp.Timesheets[0].ID)
	suite.True(resp.Timesheets[0].OnTheClock)
}

func (suite *ToolsHandlerTestSuite) TestGetCustomFields() {
	suite.provider.fields = []domain.CustomField{
		{ID: 1, Name: "Cost Center", AppliesTo: "timesheet", ValueType: "managed-list", Active: true},
	}

	w := suite.callTool("get_custom_fields", `{"applies_to":"timesheet"}`)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		CustomFields []domain.CustomField `json:"custom_fields"`
		Count        int                  `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.Count)
	suite.Equal("Cost Center", resp.CustomFields[0].Name)
}

func (suite *ToolsHandlerTestSuite) TestGetCustomFieldsRejectsBadAppliesTo() {
	w := suite.callTool("get_custom_fields", `{"applies_to":"invoice"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ToolsHandlerTestSuite) TestGetCurrentTotals() {
	suite.provider.sheets = append(suite.provider.sheets, domain.Timesheet{
		ID: 2, UserID: 2, JobcodeID: 10, Duration: 7200, Date: "2024-12-02", OnTheClock: true,
	})

	w := suite.callTool("get_current_totals", `{"user_ids":[2]}`)
	suite.Equal(http.StatusOK, w.Code)

	var resp struct {
		Totals []domain.CurrentTotal `json:"totals"`
		Count  int                   `json:"count"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(1, resp.Count)
	suite.Equal(int64(2), resp.Totals[0].UserID)
	suite.Equal(int64(7200), resp.Totals[0].ShiftSeconds)
}

func (suite *ToolsHandlerTestSuite) TestClientInvoiceRequiresClientName() {
	w := suite.callTool("prepare_client_invoice", `{"start_date":"last month"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *ToolsHandlerTestSuite) TestBiweeklyPayrollWorkflow() {
	w := suite.callTool("prepare_biweekly_payroll", `{"end_date":"2024-12-31"}`)
	suite.Equal(http.StatusOK, w.Code)

	var result domain.WorkflowResult
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &result))
	suite.Equal(domain.WorkflowDone, result.State)
	suite.Equal("2024-12-18", result.DateRange.StartDate)
	suite.Contains(result.Reports, "payroll_summary")
}

func (suite *ToolsHandlerTestSuite) TestGetPayrollPassThrough() {
	w := suite.callTool("get_payroll", `{"start_date":"2024-12-01","end_date":"2024-12-31"}`)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "payroll_report")
}

func TestToolsHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ToolsHandlerTestSuite))
}

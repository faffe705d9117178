package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/vespo92/QBMCPServer/internal/core/domain"
	"github.com/vespo92/QBMCPServer/internal/dto"
)

// Data tools: thin fetch wrappers over the upstream collections.

func (h *toolsHandler) getUsers(c *gin.Context) {
	var params dto.GetUsersParams
	if !bindParams(c, &params) {
		return
	}
	users, err := h.provider.ListUsers(c.Request.Context(), domain.UserFilter{
		IDs:            params.IDs,
		Name:           params.Name,
		Active:         params.Active,
		ModifiedBefore: params.ModifiedBefore,
		ModifiedSince:  params.ModifiedSince,
		Page:           params.Page,
		Limit:          params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

func (h *toolsHandler) getUser(c *gin.Context) {
	var params dto.GetUserParams
	if !bindParams(c, &params) {
		return
	}
	user, err := h.provider.GetUser(c.Request.Context(), params.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: http.StatusNotFound, Message: "No such user."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *toolsHandler) getCurrentUser(c *gin.Context) {
	user, err := h.provider.CurrentUser(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *toolsHandler) getGroups(c *gin.Context) {
	var params dto.GetGroupsParams
	if !bindParams(c, &params) {
		return
	}
	groups, err := h.provider.ListGroups(c.Request.Context(), domain.GroupFilter{
		IDs:    params.IDs,
		Name:   params.Name,
		Active: params.Active,
		Page:   params.Page,
		Limit:  params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups, "count": len(groups)})
}

func (h *toolsHandler) getJobcodes(c *gin.Context) {
	var params dto.GetJobcodesParams
	if !bindParams(c, &params) {
		return
	}
	filter := domain.JobcodeFilter{
		IDs:    params.IDs,
		Name:   params.Name,
		Active: params.Active,
		Page:   params.Page,
		Limit:  params.Limit,
	}
	if params.ParentID != nil {
		filter.ParentIDs = []int64{*params.ParentID}
	}
	if params.Type != "" {
		// Accept accounting vocabulary ("vacation") for the type filter.
		filter.Type = domain.JobcodeType(h.services.Vocabulary.ToServiceTerm(params.Type))
	}
	set, err := h.provider.ListJobcodes(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	jobcodes := make([]domain.Jobcode, 0, len(set))
	for _, id := range sortedJobcodeIDs(set) {
		jobcodes = append(jobcodes, set[id])
	}
	c.JSON(http.StatusOK, gin.H{"jobcodes": jobcodes, "count": len(jobcodes)})
}

func (h *toolsHandler) getJobcode(c *gin.Context) {
	var params dto.GetJobcodeParams
	if !bindParams(c, &params) {
		return
	}
	jc, err := h.provider.GetJobcode(c.Request.Context(), params.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if jc == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: http.StatusNotFound, Message: "No such jobcode."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobcode": jc})
}

// jobcodeNode is one node of the rendered hierarchy.
type jobcodeNode struct {
	domain.Jobcode
	EffectiveType domain.JobcodeType `json:"effective_type"`
	Children      []jobcodeNode      `json:"children,omitempty"`
}

func (h *toolsHandler) getJobcodeHierarchy(c *gin.Context) {
	var params dto.GetJobcodeHierarchyParams
	if !bindParams(c, &params) {
		return
	}
	set, err := h.provider.ListJobcodes(c.Request.Context(), domain.JobcodeFilter{Active: params.Active})
	if err != nil {
		respondError(c, err)
		return
	}

	var roots []domain.Jobcode
	if params.ParentID != 0 {
		roots = set.Children(params.ParentID)
	} else {
		roots = set.Roots()
	}
	tree := make([]jobcodeNode, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, buildJobcodeNode(set, root))
	}
	c.JSON(http.StatusOK, gin.H{"hierarchy": tree})
}

func buildJobcodeNode(set domain.JobcodeSet, jc domain.Jobcode) jobcodeNode {
	node := jobcodeNode{Jobcode: jc, EffectiveType: set.EffectiveType(jc.ID)}
	for _, child := range set.Children(jc.ID) {
		node.Children = append(node.Children, buildJobcodeNode(set, child))
	}
	return node
}

func sortedJobcodeIDs(set domain.JobcodeSet) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (h *toolsHandler) getTimesheets(c *gin.Context) {
	var params dto.GetTimesheetsParams
	if !bindParams(c, &params) {
		return
	}
	if err := h.resolveDates(params.DateExpression, &params.StartDate, &params.EndDate); err != nil {
		respondError(c, err)
		return
	}
	sheets, err := h.provider.ListTimesheets(c.Request.Context(), domain.TimesheetFilter{
		IDs:            params.IDs,
		UserIDs:        params.UserIDs,
		GroupIDs:       params.GroupIDs,
		JobcodeIDs:     params.JobcodeIDs,
		StartDate:      params.StartDate,
		EndDate:        params.EndDate,
		ModifiedBefore: params.ModifiedBefore,
		ModifiedSince:  params.ModifiedSince,
		Page:           params.Page,
		Limit:          params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timesheets": sheets, "count": len(sheets)})
}

func (h *toolsHandler) getTimesheet(c *gin.Context) {
	var params dto.GetTimesheetParams
	if !bindParams(c, &params) {
		return
	}
	ts, err := h.provider.GetTimesheet(c.Request.Context(), params.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if ts == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: http.StatusNotFound, Message: "No such timesheet."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"timesheet": ts})
}

func (h *toolsHandler) getCurrentTimesheets(c *gin.Context) {
	var params dto.GetCurrentTimesheetsParams
	if !bindParams(c, &params) {
		return
	}
	sheets, err := h.provider.ListCurrentTimesheets(c.Request.Context(), domain.OnTheClockFilter{
		UserIDs:    params.UserIDs,
		GroupIDs:   params.GroupIDs,
		JobcodeIDs: params.JobcodeIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timesheets": sheets, "count": len(sheets)})
}

func (h *toolsHandler) getCustomFields(c *gin.Context) {
	var params dto.GetCustomFieldsParams
	if !bindParams(c, &params) {
		return
	}
	fields, err := h.provider.ListCustomFields(c.Request.Context(), domain.CustomFieldFilter{
		IDs:       params.IDs,
		Active:    params.Active,
		AppliesTo: params.AppliesTo,
		ValueType: params.ValueType,
		Page:      params.Page,
		Limit:     params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"custom_fields": fields, "count": len(fields)})
}

func (h *toolsHandler) getCurrentTotals(c *gin.Context) {
	var params dto.GetCurrentTotalsParams
	if !bindParams(c, &params) {
		return
	}
	totals, err := h.provider.CurrentTotals(c.Request.Context(), domain.OnTheClockFilter{
		UserIDs:    params.UserIDs,
		GroupIDs:   params.GroupIDs,
		JobcodeIDs: params.JobcodeIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"totals": totals, "count": len(totals)})
}

// bindReportFilter binds and resolves the shared report parameters.
func (h *toolsHandler) bindReportFilter(c *gin.Context) (domain.ReportFilter, bool) {
	var params dto.ReportParams
	if !bindParams(c, &params) {
		return domain.ReportFilter{}, false
	}
	if err := h.resolveDates(params.DateExpression, &params.StartDate, &params.EndDate); err != nil {
		respondError(c, err)
		return domain.ReportFilter{}, false
	}
	return domain.ReportFilter{
		StartDate:  params.StartDate,
		EndDate:    params.EndDate,
		UserIDs:    params.UserIDs,
		GroupIDs:   params.GroupIDs,
		JobcodeIDs: params.JobcodeIDs,
	}, true
}

func (h *toolsHandler) getPayroll(c *gin.Context) {
	filter, ok := h.bindReportFilter(c)
	if !ok {
		return
	}
	report, err := h.provider.PayrollReport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *toolsHandler) getPayrollByJobcode(c *gin.Context) {
	filter, ok := h.bindReportFilter(c)
	if !ok {
		return
	}
	report, err := h.provider.PayrollByJobcodeReport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *toolsHandler) getProjectReport(c *gin.Context) {
	filter, ok := h.bindReportFilter(c)
	if !ok {
		return
	}
	report, err := h.provider.ProjectReport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *toolsHandler) getLastModified(c *gin.Context) {
	var params dto.GetLastModifiedParams
	if !bindParams(c, &params) {
		return
	}
	timestamps, err := h.provider.LastModified(c.Request.Context(), params.Types)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"last_modified": timestamps})
}

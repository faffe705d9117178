package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vespo92/QBMCPServer/internal/core/domain"
	"github.com/vespo92/QBMCPServer/internal/dto"
)

// Workflow tools: each runs a multi-step accounting package and returns
// the bundle, including any tolerated sub-report failures.

// respondWorkflow renders a workflow result; a partially failed run is
// still a 200 because the caller gets usable output plus the error
// list.
func respondWorkflow(c *gin.Context, result *domain.WorkflowResult, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *toolsHandler) prepareBiweeklyPayroll(c *gin.Context) {
	var params dto.BiweeklyPayrollParams
	if !bindParams(c, &params) {
		return
	}
	result, err := h.services.Workflow.PrepareBiweeklyPayroll(c.Request.Context(), params.EndDate)
	respondWorkflow(c, result, err)
}

func (h *toolsHandler) monthEndClosing(c *gin.Context) {
	var params dto.MonthEndClosingParams
	if !bindParams(c, &params) {
		return
	}
	result, err := h.services.Workflow.MonthEndClosing(c.Request.Context(), params.Month, params.Year)
	respondWorkflow(c, result, err)
}

func (h *toolsHandler) quarterlyTaxPrep(c *gin.Context) {
	var params dto.QuarterlyTaxPrepParams
	if !bindParams(c, &params) {
		return
	}
	result, err := h.services.Workflow.QuarterlyTaxPrep(c.Request.Context(), params.Quarter, params.Year)
	respondWorkflow(c, result, err)
}

func (h *toolsHandler) prepareClientInvoice(c *gin.Context) {
	var params dto.ClientInvoiceParams
	if !bindParams(c, &params) {
		return
	}
	result, err := h.services.Workflow.PrepareClientInvoice(c.Request.Context(),
		params.ClientName, params.StartDate, params.EndDate, params.HourlyRate)
	respondWorkflow(c, result, err)
}

func (h *toolsHandler) analyzeProjectProfitability(c *gin.Context) {
	var params dto.ProjectProfitabilityParams
	if !bindParams(c, &params) {
		return
	}
	result, err := h.services.Workflow.AnalyzeProjectProfitability(c.Request.Context(),
		params.ProjectName, params.StartDate, params.EndDate)
	respondWorkflow(c, result, err)
}

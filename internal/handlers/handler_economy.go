package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/SscSPs/bizcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	defaultReportDays      = 7
	defaultLeaderboardDays = 30
)

// economyHandler serves payroll, revenue and reporting routes.
type economyHandler struct {
	payrollService   portssvc.PayrollSvcFacade
	revenueService   portssvc.RevenueSvcFacade
	reportingService portssvc.ReportingSvcFacade
}

// RegisterEconomyRoutes registers payroll, revenue and reporting routes.
func RegisterEconomyRoutes(
	rg *gin.RouterGroup,
	payrollService portssvc.PayrollSvcFacade,
	revenueService portssvc.RevenueSvcFacade,
	reportingService portssvc.ReportingSvcFacade,
) {
	h := &economyHandler{
		payrollService:   payrollService,
		revenueService:   revenueService,
		reportingService: reportingService,
	}

	businesses := rg.Group("/businesses/:id")
	{
		businesses.POST("/payroll", h.triggerPayroll)
		businesses.GET("/payroll-runs", h.listPayrollRuns)
		businesses.POST("/revenue/generate", h.triggerRevenue)
		businesses.POST("/revenue", h.recordRevenue)
		businesses.GET("/summary", h.summary)
		businesses.GET("/ledger", h.listLedger)
	}

	rg.GET("/leaderboard", h.leaderboard)
}

// triggerPayroll runs payroll for one business immediately.
func (h *economyHandler) triggerPayroll(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	result, err := h.payrollService.TriggerPayroll(c.Request.Context(), businessID, actorID)
	if err != nil {
		respondError(c, err, "run payroll")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Payroll triggered",
		slog.Int64("business_id", businessID),
		slog.Int("employee_count", result.EmployeeCount),
		slog.String("amount", result.Total.String()))
	c.JSON(http.StatusOK, result)
}

func (h *economyHandler) listPayrollRuns(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var params dto.ListPayrollRunsParams
	if !bindQuery(c, &params, "ListPayrollRuns") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	runs, err := h.payrollService.ListPayrollRuns(c.Request.Context(), businessID, actorID, params.Limit)
	if err != nil {
		respondError(c, err, "list payroll runs")
		return
	}
	c.JSON(http.StatusOK, runs)
}

// triggerRevenue runs one generation attempt. A skip is a 200 with skipped=true.
func (h *economyHandler) triggerRevenue(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	result, err := h.revenueService.TriggerRevenue(c.Request.Context(), businessID, actorID)
	if err != nil {
		respondError(c, err, "generate revenue")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *economyHandler) recordRevenue(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.RecordRevenueRequest
	if !bindJSON(c, &req, "RecordRevenue") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	entry, err := h.revenueService.RecordRevenue(c.Request.Context(), businessID, req, actorID)
	if err != nil {
		respondError(c, err, "record revenue")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Revenue recorded",
		slog.Int64("business_id", businessID),
		slog.String("amount", entry.Amount.String()))
	c.JSON(http.StatusCreated, dto.ToLedgerEntryResponse(entry))
}

func (h *economyHandler) summary(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var params dto.ReportWindowParams
	if !bindQuery(c, &params, "Summary") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	summary, err := h.reportingService.Summary(c.Request.Context(), businessID, actorID, days(params.Days, defaultReportDays))
	if err != nil {
		respondError(c, err, "build summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *economyHandler) listLedger(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var params dto.ListLedgerParams
	if !bindQuery(c, &params, "ListLedger") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	entries, nextToken, err := h.reportingService.ListLedger(c.Request.Context(), businessID, actorID, params)
	if err != nil {
		respondError(c, err, "list ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLedgerResponse(entries, nextToken))
}

// leaderboard ranks businesses by revenue over the trailing window.
func (h *economyHandler) leaderboard(c *gin.Context) {
	var params dto.TopBusinessesParams
	if !bindQuery(c, &params, "Leaderboard") {
		return
	}

	ranking, err := h.reportingService.TopBusinesses(c.Request.Context(), days(params.Days, defaultLeaderboardDays), params.Limit)
	if err != nil {
		respondError(c, err, "build leaderboard")
		return
	}
	c.JSON(http.StatusOK, ranking)
}

func days(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * 24 * time.Hour
}

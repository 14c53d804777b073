package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/SscSPs/bizcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// staffHandler handles HTTP requests related to positions and employees.
type staffHandler struct {
	positionService portssvc.PositionSvcFacade
	employeeService portssvc.EmployeeSvcFacade
}

// RegisterStaffRoutes registers position and employee routes.
func RegisterStaffRoutes(rg *gin.RouterGroup, positionService portssvc.PositionSvcFacade, employeeService portssvc.EmployeeSvcFacade) {
	h := &staffHandler{positionService: positionService, employeeService: employeeService}

	businesses := rg.Group("/businesses/:id")
	{
		businesses.POST("/positions", h.createPosition)
		businesses.GET("/positions", h.listPositions)
		businesses.GET("/employees", h.listEmployees)
		businesses.DELETE("/employees/:playerId", h.fireEmployee)
		businesses.POST("/quit", h.quitBusiness)
	}

	rg.PATCH("/positions/:id", h.updatePosition)
	rg.DELETE("/positions/:id", h.deactivatePosition)
	rg.PUT("/employees/:id/salary", h.setSalary)
	rg.GET("/me/employments", h.listMyEmployments)
	rg.POST("/admin/hire", h.adminHire)
}

func (h *staffHandler) createPosition(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreatePositionRequest
	if !bindJSON(c, &req, "CreatePosition") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	position, err := h.positionService.CreatePosition(c.Request.Context(), businessID, req, actorID)
	if err != nil {
		respondError(c, err, "create position")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Position created",
		slog.Int64("business_id", businessID),
		slog.Int64("position_id", position.ID))
	c.JSON(http.StatusCreated, dto.ToPositionResponse(position))
}

func (h *staffHandler) listPositions(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	positions, err := h.positionService.ListPositions(c.Request.Context(), businessID, boolQuery(c, "includeInactive"))
	if err != nil {
		respondError(c, err, "list positions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPositionResponse(positions))
}

func (h *staffHandler) updatePosition(c *gin.Context) {
	positionID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePositionRequest
	if !bindJSON(c, &req, "UpdatePosition") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	position, err := h.positionService.UpdatePosition(c.Request.Context(), positionID, req, actorID)
	if err != nil {
		respondError(c, err, "update position")
		return
	}
	c.JSON(http.StatusOK, dto.ToPositionResponse(position))
}

// deactivatePosition hides a position from new hires. Existing employees keep it.
func (h *staffHandler) deactivatePosition(c *gin.Context) {
	positionID, ok := idParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.positionService.DeactivatePosition(c.Request.Context(), positionID, actorID); err != nil {
		respondError(c, err, "deactivate position")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *staffHandler) listEmployees(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}
	employees, err := h.employeeService.ListEmployees(c.Request.Context(), businessID, actorID, boolQuery(c, "includeInactive"))
	if err != nil {
		respondError(c, err, "list employees")
		return
	}
	c.JSON(http.StatusOK, dto.ToListEmployeeResponse(employees))
}

func (h *staffHandler) fireEmployee(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	playerID := c.Param("playerId")
	var req dto.FireEmployeeRequest
	if !bindOptionalJSON(c, &req, "FireEmployee") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	if err := h.employeeService.FireEmployee(c.Request.Context(), businessID, playerID, actorID, req.Reason); err != nil {
		respondError(c, err, "fire employee")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Employee fired",
		slog.Int64("business_id", businessID),
		slog.String("player_id", playerID))
	c.Status(http.StatusNoContent)
}

func (h *staffHandler) quitBusiness(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}
	if err := h.employeeService.QuitBusiness(c.Request.Context(), businessID, actorID); err != nil {
		respondError(c, err, "quit business")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *staffHandler) setSalary(c *gin.Context) {
	employeeID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetSalaryRequest
	if !bindJSON(c, &req, "SetSalary") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	employee, err := h.employeeService.SetSalary(c.Request.Context(), employeeID, actorID, req.Salary)
	if err != nil {
		respondError(c, err, "set salary")
		return
	}
	c.JSON(http.StatusOK, dto.ToEmployeeResponse(employee))
}

func (h *staffHandler) listMyEmployments(c *gin.Context) {
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}
	employments, err := h.employeeService.ListEmployments(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err, "list employments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListEmployeeResponse(employments))
}

// adminHire bypasses the consent workflow.
func (h *staffHandler) adminHire(c *gin.Context) {
	var req dto.AdminHireRequest
	if !bindJSON(c, &req, "AdminHire") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	employee, err := h.employeeService.AdminHire(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "hire employee")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Employee hired by admin",
		slog.String("admin_id", actorID),
		slog.Int64("business_id", req.BusinessID),
		slog.String("player_id", req.PlayerID))
	c.JSON(http.StatusCreated, dto.ToEmployeeResponse(employee))
}

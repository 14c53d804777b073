package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizcore/internal/core/domain"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/SscSPs/bizcore/internal/middleware"
	"github.com/gin-gonic/gin"
)

// hiringHandler handles the hiring consent workflow.
type hiringHandler struct {
	hiringService portssvc.HiringSvcFacade
}

// RegisterHiringRoutes registers routes related to hiring requests.
func RegisterHiringRoutes(rg *gin.RouterGroup, hiringService portssvc.HiringSvcFacade) {
	h := &hiringHandler{hiringService: hiringService}

	requests := rg.Group("/hiring-requests")
	{
		requests.POST("", h.createHiringRequest)
		requests.GET("/:id", h.getHiringRequest)
		requests.POST("/:id/accept", h.acceptHiringRequest)
		requests.POST("/:id/reject", h.rejectHiringRequest)
		requests.POST("/:id/cancel", h.cancelHiringRequest)
	}

	rg.GET("/businesses/:id/hiring-requests", h.listForBusiness)
	rg.GET("/me/hiring-requests", h.listMine)
}

// createHiringRequest offers a position to another player.
func (h *hiringHandler) createHiringRequest(c *gin.Context) {
	var req dto.CreateHiringRequest
	if !bindJSON(c, &req, "CreateHiringRequest") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	request, err := h.hiringService.CreateHiringRequest(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "create hiring request")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Hiring request created",
		slog.Int64("request_id", request.ID),
		slog.Int64("business_id", request.BusinessID),
		slog.String("target_player_id", request.TargetPlayerID))
	c.JSON(http.StatusCreated, dto.ToHiringRequestResponse(request))
}

func (h *hiringHandler) getHiringRequest(c *gin.Context) {
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}
	request, err := h.hiringService.GetHiringRequest(c.Request.Context(), requestID, actorID)
	if err != nil {
		respondError(c, err, "get hiring request")
		return
	}
	c.JSON(http.StatusOK, dto.ToHiringRequestResponse(request))
}

// acceptHiringRequest answers the offer as the target player and returns the new employment.
func (h *hiringHandler) acceptHiringRequest(c *gin.Context) {
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	employee, err := h.hiringService.AcceptHiringRequest(c.Request.Context(), requestID, actorID)
	if err != nil {
		respondError(c, err, "accept hiring request")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Hiring request accepted",
		slog.Int64("request_id", requestID),
		slog.Int64("employee_id", employee.ID))
	c.JSON(http.StatusCreated, dto.ToEmployeeResponse(employee))
}

func (h *hiringHandler) rejectHiringRequest(c *gin.Context) {
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.DecideHiringRequest
	if !bindOptionalJSON(c, &req, "RejectHiringRequest") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	request, err := h.hiringService.RejectHiringRequest(c.Request.Context(), requestID, actorID, req.Reason)
	if err != nil {
		respondError(c, err, "reject hiring request")
		return
	}
	c.JSON(http.StatusOK, dto.ToHiringRequestResponse(request))
}

func (h *hiringHandler) cancelHiringRequest(c *gin.Context) {
	requestID, ok := idParam(c, "id")
	if !ok {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	request, err := h.hiringService.CancelHiringRequest(c.Request.Context(), requestID, actorID)
	if err != nil {
		respondError(c, err, "cancel hiring request")
		return
	}
	c.JSON(http.StatusOK, dto.ToHiringRequestResponse(request))
}

func (h *hiringHandler) listForBusiness(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var params dto.ListHiringRequestsParams
	if !bindQuery(c, &params, "ListHiringRequests") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	var status *domain.HiringRequestStatus
	if params.Status != "" {
		s := domain.HiringRequestStatus(params.Status)
		status = &s
	}

	requests, err := h.hiringService.ListForBusiness(c.Request.Context(), businessID, actorID, status)
	if err != nil {
		respondError(c, err, "list hiring requests")
		return
	}
	c.JSON(http.StatusOK, dto.ToListHiringRequestResponse(requests))
}

// listMine returns the requests addressed to the caller.
func (h *hiringHandler) listMine(c *gin.Context) {
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}
	requests, err := h.hiringService.ListForPlayer(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err, "list hiring requests")
		return
	}
	c.JSON(http.StatusOK, dto.ToListHiringRequestResponse(requests))
}

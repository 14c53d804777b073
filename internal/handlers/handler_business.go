package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/bizcore/internal/core/domain"
	portssvc "github.com/SscSPs/bizcore/internal/core/ports/services"
	"github.com/SscSPs/bizcore/internal/dto"
	"github.com/SscSPs/bizcore/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// businessHandler handles HTTP requests related to businesses.
type businessHandler struct {
	businessService portssvc.BusinessSvcFacade
}

// RegisterBusinessRoutes registers routes related to businesses.
func RegisterBusinessRoutes(rg *gin.RouterGroup, businessService portssvc.BusinessSvcFacade) {
	h := &businessHandler{businessService: businessService}

	rg.GET("/revenue-models", h.listRevenueModels)
	rg.GET("/me/businesses", h.listMyBusinesses)

	businesses := rg.Group("/businesses")
	{
		businesses.POST("", h.registerBusiness)
		businesses.GET("", h.listBusinesses)
		businesses.GET("/:id", h.getBusiness)
		businesses.PATCH("/:id", h.updateBusiness)
		businesses.POST("/:id/deposit", h.deposit)
		businesses.POST("/:id/withdraw", h.withdraw)
		businesses.GET("/:id/revenue-model", h.getRevenueModel)
		businesses.PUT("/:id/revenue-model", h.setRevenueModel)
	}
}

// registerBusiness creates a business owned by the caller.
func (h *businessHandler) registerBusiness(c *gin.Context) {
	var req dto.RegisterBusinessRequest
	if !bindJSON(c, &req, "RegisterBusiness") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	business, err := h.businessService.RegisterBusiness(c.Request.Context(), req, actorID)
	if err != nil {
		respondError(c, err, "register business")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Business registered", slog.Int64("business_id", business.ID))
	c.JSON(http.StatusCreated, dto.ToBusinessResponse(business))
}

// listBusinesses lists all businesses, or resolves ?name= and ?owner= filters.
func (h *businessHandler) listBusinesses(c *gin.Context) {
	ctx := c.Request.Context()

	if name := c.Query("name"); name != "" {
		business, err := h.businessService.GetBusinessByName(ctx, name)
		if err != nil {
			respondError(c, err, "find business by name")
			return
		}
		c.JSON(http.StatusOK, []dto.BusinessResponse{dto.ToBusinessResponse(business)})
		return
	}

	var (
		businesses []domain.Business
		err        error
	)
	if owner := c.Query("owner"); owner != "" {
		businesses, err = h.businessService.ListBusinessesByOwner(ctx, owner)
	} else {
		businesses, err = h.businessService.ListBusinesses(ctx)
	}
	if err != nil {
		respondError(c, err, "list businesses")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBusinessResponse(businesses))
}

func (h *businessHandler) listMyBusinesses(c *gin.Context) {
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}
	businesses, err := h.businessService.ListBusinessesByOwner(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err, "list businesses")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBusinessResponse(businesses))
}

func (h *businessHandler) getBusiness(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	business, err := h.businessService.GetBusiness(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, err, "get business")
		return
	}
	c.JSON(http.StatusOK, dto.ToBusinessResponse(business))
}

func (h *businessHandler) updateBusiness(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBusinessRequest
	if !bindJSON(c, &req, "UpdateBusiness") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	business, err := h.businessService.UpdateBusiness(c.Request.Context(), businessID, req, actorID)
	if err != nil {
		respondError(c, err, "update business")
		return
	}
	c.JSON(http.StatusOK, dto.ToBusinessResponse(business))
}

func (h *businessHandler) deposit(c *gin.Context) {
	h.moveFunds(c, "deposit", h.businessService.Deposit)
}

func (h *businessHandler) withdraw(c *gin.Context) {
	h.moveFunds(c, "withdraw", h.businessService.Withdraw)
}

type fundsMove func(ctx context.Context, businessID int64, actorID string, amount decimal.Decimal) (*domain.Business, error)

func (h *businessHandler) moveFunds(c *gin.Context, action string, move fundsMove) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.AmountRequest
	if !bindJSON(c, &req, action) {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	business, err := move(c.Request.Context(), businessID, actorID, req.Amount)
	if err != nil {
		respondError(c, err, action)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Business funds moved",
		slog.String("action", action),
		slog.Int64("business_id", businessID),
		slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusOK, dto.ToBusinessResponse(business))
}

func (h *businessHandler) getRevenueModel(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	model, err := h.businessService.GetRevenueModel(c.Request.Context(), businessID)
	if err != nil {
		respondError(c, err, "get revenue model")
		return
	}
	c.JSON(http.StatusOK, model)
}

func (h *businessHandler) setRevenueModel(c *gin.Context) {
	businessID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetRevenueModelRequest
	if !bindJSON(c, &req, "SetRevenueModel") {
		return
	}
	actorID, ok := actorFromContext(c)
	if !ok {
		return
	}

	business, err := h.businessService.SetRevenueModel(c.Request.Context(), businessID, actorID, domain.RevenueModelTag(req.Model))
	if err != nil {
		respondError(c, err, "set revenue model")
		return
	}
	c.JSON(http.StatusOK, dto.ToBusinessResponse(business))
}

func (h *businessHandler) listRevenueModels(c *gin.Context) {
	c.JSON(http.StatusOK, h.businessService.ListRevenueModels())
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/apierror"
	"github.com/sajjadaliuos1/Pharmasys/internal/dto"
	"github.com/sajjadaliuos1/Pharmasys/internal/middleware"
	"github.com/sajjadaliuos1/Pharmasys/internal/pricing"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"
	"github.com/sajjadaliuos1/Pharmasys/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PurchasesHandler struct{ svc service.PurchaseService }

func NewPurchasesHandler(svc service.PurchaseService) *PurchasesHandler {
	return &PurchasesHandler{svc: svc}
}

// pricingStatus distinguishes a rejected line (a business outcome, 422) from
// a plain bad request.
func pricingStatus(err error) int {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, pricing.ErrMinRateBelowFinal),
		errors.Is(err, pricing.ErrInvalidDateRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// Create godoc
// @Summary      Receive a supplier delivery
// @Description  Every line runs through the pricing derivation; one rejected line fails the whole request.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePurchaseRequest true "Purchase with line items"
// @Success      201  {object} dto.PurchaseResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/purchases [post]
func (h *PurchasesHandler) Create(c *gin.Context) {
	var req dto.CreatePurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(pricingStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *PurchasesHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Param        supplier_id query string false "Filter by supplier UUID"
// @Param        from        query string false "Date YYYY-MM-DD inclusive"
// @Param        to          query string false "Date YYYY-MM-DD exclusive"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Rows per page (default 20)"
// @Success      200 {object} dto.PurchaseListResponse
// @Router       /v1/purchases [get]
func (h *PurchasesHandler) List(c *gin.Context) {
	var filter repository.PurchaseFilter
	if raw := c.Query("supplier_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("invalid supplier_id"))
			return
		}
		filter.SupplierID = &id
	}
	if raw := c.Query("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = &t
		}
	}
	if raw := c.Query("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.To = &t
		}
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list purchases"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateItem godoc
// @Summary      Re-enter one purchase line
// @Description  The line keeps its identity; derived fields are recomputed and the stock delta is applied.
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id     path string true "Purchase UUID"
// @Param        itemId path string true "Line UUID"
// @Param        body   body dto.PurchaseLineRequest true "Replacement line values"
// @Success      200  {object} dto.PurchaseResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/purchases/{id}/items/{itemId} [put]
func (h *PurchasesHandler) UpdateItem(c *gin.Context) {
	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.PurchaseLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateItem(c.Request.Context(), purchaseID, itemID, req)
	if err != nil {
		c.JSON(pricingStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PurchasesHandler) DeleteItem(c *gin.Context) {
	purchaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.DeleteItem(c.Request.Context(), purchaseID, itemID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExpiryReport godoc
// @Summary      Stocked batches bucketed by expiry status
// @Tags         purchases
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.ExpiryReportResponse
// @Router       /v1/purchases/expiry-report [get]
func (h *PurchasesHandler) ExpiryReport(c *gin.Context) {
	resp, err := h.svc.ExpiryReport(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to build expiry report"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sajjadaliuos1/Pharmasys/internal/apierror"
	"github.com/sajjadaliuos1/Pharmasys/internal/dto"
	"github.com/sajjadaliuos1/Pharmasys/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const priceCacheTTL = 4 * time.Hour

// PriceCheckHandler serves the public barcode price lookup.
// No authentication required — no side effects whatsoever.
type PriceCheckHandler struct {
	repo repository.ProductRepository
	rdb  *redis.Client
}

func NewPriceCheckHandler(repo repository.ProductRepository, rdb *redis.Client) *PriceCheckHandler {
	return &PriceCheckHandler{repo: repo, rdb: rdb}
}

// GetByBarcode godoc
// @Summary Price lookup by barcode (no authentication)
// @Tags price
// @Produce json
// @Param barcode path string true "Barcode"
// @Success 200 {object} dto.PriceCheckResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/price/{barcode} [get]
func (h *PriceCheckHandler) GetByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	ctx := c.Request.Context()
	cacheKey := "price:" + barcode

	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.PriceCheckResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	product, err := h.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}

	resp := dto.PriceCheckResponse{
		Name:       product.Name,
		SaleRate:   product.SaleRate,
		StockUnits: product.StockUnits,
	}
	if product.Category != nil {
		resp.Category = product.Category.Name
	}

	// Populate cache — best effort, ignore errors
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, priceCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}

package handler

import (
	"net/http"

	"github.com/tiagostutz/demo-warehouse-software/internal/apierror"
	"github.com/tiagostutz/demo-warehouse-software/internal/dto"
	"github.com/tiagostutz/demo-warehouse-software/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

// ConsumeByProduct handles POST /article/stock-update/by/product/:productId.
// An empty body means one unit, matching the legacy web client.
func (h *StockHandler) ConsumeByProduct(c *gin.Context) {
	productID, err := parseID(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}

	req := dto.ConsumeRequest{Quantity: 1}
	if c.Request.ContentLength > 0 {
		if !bindAndValidate(c, &req) {
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
	}

	updates, err := h.svc.Consume(c.Request.Context(), productID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updates)
}

// ListMovements handles GET /stock-movements with optional filters.
func (h *StockHandler) ListMovements(c *gin.Context) {
	var filter dto.StockMovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

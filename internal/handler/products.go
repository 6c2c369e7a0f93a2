package handler

import (
	"net/http"

	"github.com/tiagostutz/demo-warehouse-software/internal/apierror"
	"github.com/tiagostutz/demo-warehouse-software/internal/dto"
	"github.com/tiagostutz/demo-warehouse-software/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct {
	svc          service.ProductService
	availability service.AvailabilityService
}

func NewProductsHandler(svc service.ProductService, availability service.AvailabilityService) *ProductsHandler {
	return &ProductsHandler{svc: svc, availability: availability}
}

func (h *ProductsHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get returns the product with its composition and current availability.
func (h *ProductsHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.availability.ForProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("product not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Upsert handles POST /product: id 0 creates the product with its recipe,
// nonzero updates name/price only.
func (h *ProductsHandler) Upsert(c *gin.Context) {
	var req dto.UpsertProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Upsert(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusOK
	if req.ID == 0 {
		status = http.StatusCreated
	}
	c.JSON(status, resp)
}

// Availability handles GET /product/availability — every product with the
// quantity producible from current article stock.
func (h *ProductsHandler) Availability(c *gin.Context) {
	resp, err := h.availability.ForAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

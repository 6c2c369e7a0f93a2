package handler

import (
	"net/http"
	"strconv"

	"github.com/tiagostutz/demo-warehouse-software/internal/apierror"
	"github.com/tiagostutz/demo-warehouse-software/internal/dto"
	"github.com/tiagostutz/demo-warehouse-software/internal/service"

	"github.com/gin-gonic/gin"
)

type ArticlesHandler struct{ svc service.ArticleService }

func NewArticlesHandler(svc service.ArticleService) *ArticlesHandler {
	return &ArticlesHandler{svc: svc}
}

// List handles GET /article and GET /article?identification=<code>.
// The identification filter returns a list with at most one element.
func (h *ArticlesHandler) List(c *gin.Context) {
	var filter dto.ArticleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	if filter.Identification != "" {
		if _, err := strconv.ParseInt(filter.Identification, 10, 64); err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("identification must be a 64-bit integer"))
			return
		}
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ArticlesHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("article not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Upsert handles POST /article: id 0 creates, nonzero updates.
func (h *ArticlesHandler) Upsert(c *gin.Context) {
	var req dto.UpsertArticleRequest
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

// AdjustStock handles PATCH /article/:id/stock with a relative delta.
func (h *ArticlesHandler) AdjustStock(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	var req dto.AdjustStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseID(raw string) (uint, error) {
	v, err := strconv.ParseUint(raw, 10, 32)
	return uint(v), err
}

package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
)

func (h *handlers) listCatalog(c *gin.Context) {
	var category domain.Category
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		parsed, ok := domain.ParseCategory(strings.ToLower(raw))
		if !ok {
			writeError(c, h.logger, domain.NewValidationError(domain.ErrInvalidInput, "category", "Unknown category"))
			return
		}
		category = parsed
	}
	records, err := h.deps.CatalogSvc.List(c.Request.Context(), category)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toProductList(records))
}

func (h *handlers) catalogPage(c *gin.Context) {
	page, err := h.deps.CatalogSvc.Page(c.Request.Context(), c.Query("cursor"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	resp := pageResponse{productList: toProductList(page.Records), Done: page.Done}
	if !page.Done {
		resp.Next = page.Next
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.deps.CatalogSvc.Lookup(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(p))
}

// quotePrice prices a product for the variant in the query string, e.g.
// ?length=20" or ?length=1ct.
func (h *handlers) quotePrice(c *gin.Context) {
	sel := domain.SelectedVariant{
		Size:   c.Query("size"),
		Color:  c.Query("color"),
		Length: c.Query("length"),
	}
	p, res, err := h.deps.CartSvc.Quote(c.Request.Context(), c.Param("id"), sel)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toQuoteResponse(p, res))
}

func (h *handlers) listCategories(c *gin.Context) {
	counts, err := h.deps.CategorySvc.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(counts), "results": counts})
}

// refreshCatalog reloads every source table, bypassing the snapshot cache.
func (h *handlers) refreshCatalog(c *gin.Context) {
	report, err := h.deps.CatalogSvc.Refresh(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	failed := report.Failed
	if failed == nil {
		failed = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"tables":   report.Tables,
		"rows":     report.Rows,
		"products": report.Records,
		"failed":   failed,
	})
}

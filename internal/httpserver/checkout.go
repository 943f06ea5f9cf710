package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/checkout"
	"storefront/internal/domain"
)

type promoRequest struct {
	Code string `json:"code"`
}

func (h *handlers) applyPromo(c *gin.Context) {
	var req promoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	sess := sessionFrom(c)
	out, err := h.deps.CheckoutSvc.ApplyPromo(c.Request.Context(), sess, req.Code)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	status := http.StatusOK
	if out.Superseded {
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{
		"promo":      out.Promo,
		"message":    out.Message,
		"superseded": out.Superseded,
		"totals":     previewResponse(h.deps.CheckoutSvc.Preview(sess)),
	})
}

func (h *handlers) removePromo(c *gin.Context) {
	sess := sessionFrom(c)
	h.deps.CheckoutSvc.RemovePromo(sess)
	c.JSON(http.StatusOK, previewResponse(h.deps.CheckoutSvc.Preview(sess)))
}

func (h *handlers) previewCheckout(c *gin.Context) {
	c.JSON(http.StatusOK, previewResponse(h.deps.CheckoutSvc.Preview(sessionFrom(c))))
}

// checkout creates the payment session and returns the redirect URL. The cart
// stays intact; it is cleared once payment completes elsewhere.
func (h *handlers) checkout(c *gin.Context) {
	var req checkout.Customer
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	res, err := h.deps.CheckoutSvc.Checkout(c.Request.Context(), sessionFrom(c), req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	a := res.Assembly
	c.JSON(http.StatusCreated, gin.H{
		"url":    res.URL,
		"totals": toTotalsResponse(a.Subtotal, a.DiscountAmount, a.FinalTotal, promoOf(a.Request)),
	})
}

func promoOf(req checkout.SessionRequest) *domain.PromoApplication {
	if req.PromoCode == "" || req.DiscountPercentage == nil {
		return nil
	}
	return &domain.PromoApplication{Code: req.PromoCode, DiscountPercentage: *req.DiscountPercentage}
}

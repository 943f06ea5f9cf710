package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/domain"
	cartsvc "storefront/internal/service/cart"
)

type addItemRequest struct {
	ProductID       string                 `json:"productId"`
	SelectedVariant domain.SelectedVariant `json:"selectedVariant"`
	Quantity        int                    `json:"quantity"`
}

type changeItemRequest struct {
	SelectedVariant domain.SelectedVariant `json:"selectedVariant"`
	Quantity        int                    `json:"quantity"`
}

func (h *handlers) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, toCartResponse(cartsvc.Summarize(sessionFrom(c).Cart)))
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	store := sessionFrom(c).Cart
	if _, err := h.deps.CartSvc.AddItem(c.Request.Context(), store, req.ProductID, req.SelectedVariant, req.Quantity); err != nil {
		writeError(c, h.logger, err)
		return
	}
	store.Open()
	c.JSON(http.StatusCreated, toCartResponse(cartsvc.Summarize(store)))
}

// updateCart applies a batch of cart actions.
func (h *handlers) updateCart(c *gin.Context) {
	var req cartsvc.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	summary, err := h.deps.CartSvc.Update(c.Request.Context(), sessionFrom(c).Cart, req)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(summary))
}

func (h *handlers) changeCartItem(c *gin.Context) {
	var req changeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	h.applyCartAction(c, cartsvc.UpdateAction{
		Action:          "changeLineItemQuantity",
		ProductID:       c.Param("id"),
		SelectedVariant: req.SelectedVariant,
		Quantity:        req.Quantity,
	})
}

func (h *handlers) removeCartItem(c *gin.Context) {
	h.applyCartAction(c, cartsvc.UpdateAction{
		Action:    "removeLineItem",
		ProductID: c.Param("id"),
		SelectedVariant: domain.SelectedVariant{
			Size:   c.Query("size"),
			Color:  c.Query("color"),
			Length: c.Query("length"),
		},
	})
}

func (h *handlers) applyCartAction(c *gin.Context, action cartsvc.UpdateAction) {
	summary, err := h.deps.CartSvc.Update(c.Request.Context(), sessionFrom(c).Cart, cartsvc.UpdateInput{
		Actions: []cartsvc.UpdateAction{action},
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(summary))
}

package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"heritage-boutique/internal/domain"
	cartsvc "heritage-boutique/internal/service/cart"
)

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func cartJSON(c *gin.Context, cart domain.Cart) {
	c.JSON(http.StatusOK, gin.H{"success": true, "cart": cart})
}

func cartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cartsvc.ErrProductNotFound):
		respondFieldErrors(c, http.StatusBadRequest, map[string]string{"productId": "product not found"})
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "cart not found")
	default:
		respondError(c, http.StatusInternalServerError, "cart operation failed")
	}
}

func getCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := deps.CartSvc.Load(c.Request.Context(), sessionFrom(c))
		if err != nil {
			cartError(c, err)
			return
		}
		cartJSON(c, cart)
	}
}

func addCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Quantity <= 0 {
			respondFieldErrors(c, http.StatusBadRequest, map[string]string{"quantity": "must be positive"})
			return
		}
		cart, err := deps.CartSvc.AddItem(c.Request.Context(), sessionFrom(c), req.ProductID, req.Quantity)
		if err != nil {
			cartError(c, err)
			return
		}
		cartJSON(c, cart)
	}
}

func updateCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		cart, err := deps.CartSvc.UpdateQuantity(c.Request.Context(), sessionFrom(c), c.Param("productId"), req.Quantity)
		if err != nil {
			cartError(c, err)
			return
		}
		cartJSON(c, cart)
	}
}

func removeCartItemHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := deps.CartSvc.RemoveItem(c.Request.Context(), sessionFrom(c), c.Param("productId"))
		if err != nil {
			cartError(c, err)
			return
		}
		cartJSON(c, cart)
	}
}

func clearCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := deps.CartSvc.Clear(c.Request.Context(), sessionFrom(c))
		if err != nil {
			cartError(c, err)
			return
		}
		cartJSON(c, cart)
	}
}

// syncCartHandler merges an anonymous cart into the authenticated
// customer's cart. The caller must be a customer and present the anonymous
// session's token in X-Anonymous-Token.
func syncCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessionFrom(c)
		if sess.CustomerID == "" {
			respondError(c, http.StatusForbidden, "customer session required")
			return
		}
		anonToken := c.GetHeader("X-Anonymous-Token")
		if anonToken == "" {
			respondFieldErrors(c, http.StatusBadRequest, map[string]string{"X-Anonymous-Token": "required"})
			return
		}
		anonymousID, err := deps.AnonymousSvc.LookupByToken(c.Request.Context(), anonToken)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid anonymous token")
			return
		}
		cart, err := deps.CartSvc.SyncOnLogin(c.Request.Context(), anonymousID, sess.CustomerID)
		if err != nil {
			cartError(c, err)
			return
		}
		cartJSON(c, cart)
	}
}

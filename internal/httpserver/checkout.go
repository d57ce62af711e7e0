package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	checkoutsvc "heritage-boutique/internal/service/checkout"
)

func checkoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkoutsvc.Request
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}

		order, err := deps.CheckoutSvc.Checkout(c.Request.Context(), sessionFrom(c), req)
		if err != nil {
			if fields, ok := fieldErrors(err); ok {
				respondFieldErrors(c, http.StatusBadRequest, fields)
				return
			}
			respondError(c, http.StatusInternalServerError, "checkout failed")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":           true,
			"orderId":           order.ID,
			"orderNumber":       order.Number,
			"totalCents":        order.TotalCents,
			"currency":          order.Currency,
			"estimatedDelivery": order.EstimatedDelivery,
		})
	}
}

package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"heritage-boutique/internal/domain"
)

func listProductsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

		products, err := deps.Products.List(c.Request.Context(), limit, offset)
		if err != nil {
			respondError(c, http.StatusInternalServerError, "could not list products")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"count":    len(products),
			"offset":   offset,
			"products": products,
		})
	}
}

// getProductHandler resolves by ID first, then by the human-readable key,
// so both /products/<uuid> and /products/silk-scarf work.
func getProductHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		product, err := deps.Products.GetByID(c.Request.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			product, err = deps.Products.GetByKey(c.Request.Context(), id)
		}
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				respondError(c, http.StatusNotFound, "product not found")
				return
			}
			respondError(c, http.StatusInternalServerError, "could not load product")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}

package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	estimationsvc "heritage-boutique/internal/service/estimation"
)

func estimationHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req estimationsvc.Request
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}

		est, err := deps.EstimationSvc.Create(c.Request.Context(), req)
		if err != nil {
			if fields, ok := fieldErrors(err); ok {
				respondFieldErrors(c, http.StatusBadRequest, fields)
				return
			}
			respondError(c, http.StatusInternalServerError, "estimation request failed")
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "estimationId": est.ID})
	}
}

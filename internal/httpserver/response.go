package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	checkoutsvc "heritage-boutique/internal/service/checkout"
	estimationsvc "heritage-boutique/internal/service/estimation"
	reservationsvc "heritage-boutique/internal/service/reservation"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

func respondFieldErrors(c *gin.Context, status int, fields map[string]string) {
	c.JSON(status, gin.H{"success": false, "errors": fields})
}

// fieldErrors unwraps a per-field validation error from any of the form
// services.
func fieldErrors(err error) (map[string]string, bool) {
	var checkoutErr *checkoutsvc.ValidationError
	if errors.As(err, &checkoutErr) {
		return checkoutErr.Fields, true
	}
	var estimationErr *estimationsvc.ValidationError
	if errors.As(err, &estimationErr) {
		return estimationErr.Fields, true
	}
	var reservationErr *reservationsvc.ValidationError
	if errors.As(err, &reservationErr) {
		return reservationErr.Fields, true
	}
	return nil, false
}

package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"heritage-boutique/internal/domain"
	reservationsvc "heritage-boutique/internal/service/reservation"
	"heritage-boutique/internal/validate"
)

func reservationError(c *gin.Context, err error) {
	if fields, ok := fieldErrors(err); ok {
		respondFieldErrors(c, http.StatusBadRequest, fields)
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		respondError(c, http.StatusNotFound, "reservation not found")
		return
	}
	respondError(c, http.StatusInternalServerError, "reservation operation failed")
}

func createReservationHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reservationsvc.Request
		if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		res, err := deps.ReservationSvc.Create(c.Request.Context(), req)
		if err != nil {
			reservationError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "reservation": res})
	}
}

// ownerEmail reads and validates the email query parameter the reservation
// endpoints use as proof of ownership.
func ownerEmail(c *gin.Context) (string, bool) {
	email := c.Query("email")
	if r := validate.Field(validate.FieldEmail, email, true); !r.Valid {
		respondFieldErrors(c, http.StatusBadRequest, map[string]string{"email": r.Error})
		return "", false
	}
	return email, true
}

func listReservationsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := ownerEmail(c)
		if !ok {
			return
		}
		reservations, err := deps.ReservationSvc.ListByEmail(c.Request.Context(), email)
		if err != nil {
			reservationError(c, err)
			return
		}
		if reservations == nil {
			reservations = []domain.Reservation{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reservations": reservations})
	}
}

func getReservationHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := ownerEmail(c)
		if !ok {
			return
		}
		res, err := deps.ReservationSvc.Get(c.Request.Context(), c.Param("id"), email)
		if err != nil {
			reservationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reservation": res})
	}
}

func updateReservationHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reservationsvc.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request body")
			return
		}
		res, err := deps.ReservationSvc.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			reservationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reservation": res})
	}
}

func cancelReservationHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := ownerEmail(c)
		if !ok {
			return
		}
		res, err := deps.ReservationSvc.Cancel(c.Request.Context(), c.Param("id"), email)
		if err != nil {
			reservationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "reservation": res})
	}
}

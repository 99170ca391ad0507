// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rankgo/internal/http/middleware"
	"rankgo/internal/modules/booking"
	"rankgo/internal/modules/payment"
	"rankgo/internal/modules/vehicle"
	"rankgo/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps engine sentinels onto HTTP statuses. Capacity and
// transition rejections are 409: the request was well-formed but the state
// no longer admits it.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, vehicle.ErrValidation),
		errors.Is(err, booking.ErrBadRequest),
		errors.Is(err, payment.ErrBadRequest),
		errors.Is(err, payment.ErrInvalidCard),
		errors.Is(err, payment.ErrCardExpired),
		errors.Is(err, payment.ErrInvalidCVV):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, vehicle.ErrNotFound), errors.Is(err, booking.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrCapacity),
		errors.Is(err, booking.ErrInvalidTransition),
		errors.Is(err, booking.ErrConflict),
		errors.Is(err, booking.ErrVehicleInactive):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func currentUser(c *gin.Context) (types.ID, string) {
	return types.ID(c.GetString(middleware.CtxUserID)), c.GetString(middleware.CtxUserName)
}

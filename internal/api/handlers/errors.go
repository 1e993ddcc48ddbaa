package handlers

import (
	"errors"
	"net/http"

	"github.com/energyrank/energyrank-backend/internal/services"
	"github.com/energyrank/energyrank-backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// respondError maps the service error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.SendError(c, http.StatusNotFound, message, err)
	case errors.Is(err, services.ErrConflict):
		utils.SendError(c, http.StatusConflict, message, err)
	case errors.Is(err, services.ErrForbidden):
		utils.SendError(c, http.StatusForbidden, message, err)
	case errors.Is(err, services.ErrInvalid):
		utils.SendError(c, http.StatusBadRequest, message, err)
	default:
		utils.SendInternalError(c, message, err)
	}
}

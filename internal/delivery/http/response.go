package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pawcompare/backend/internal/domain"
)

// Response is the envelope every endpoint answers with. Data stays present
// even when empty so clients can treat "no results" and "error" differently.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// respondError maps domain sentinels onto status codes. Anything unmapped is
// a 500 with a generic message; internals never leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrQueryTooShort), errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, Response{Error: err.Error()})
	case errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, Response{Error: err.Error()})
	case errors.Is(err, domain.ErrStorageUnavailable), errors.Is(err, domain.ErrSearchUnavailable):
		c.JSON(http.StatusServiceUnavailable, Response{Error: "service temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, Response{Error: "internal server error"})
	}
}

package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Denis-Shtanskiy/foodgram/internal/apperr"
)

// respondError maps the service error taxonomy onto HTTP statuses in one
// place, so handlers never translate errors themselves.
func respondError(c *gin.Context, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch e.Kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindConflict:
		status = http.StatusConflict
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindForbidden:
		status = http.StatusForbidden
	}

	body := gin.H{"error": e.Reason}
	if e.Field != "" {
		body["field"] = e.Field
	}
	c.JSON(status, body)
}

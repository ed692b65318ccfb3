package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthdash/services"
	"healthdash/utils"
)

// respondError maps service errors to status codes.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case services.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrNoProfile):
		status = http.StatusPreconditionFailed
	case errors.Is(err, services.ErrPlanPending):
		status = http.StatusConflict
	case errors.Is(err, services.ErrFlowClosed):
		status = http.StatusServiceUnavailable
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// dateParam reads :date; "today" resolves to the app's current date.
func dateParam(c *gin.Context, app *services.App) (string, bool) {
	date := c.Param("date")
	if date == "today" {
		return app.Today(), true
	}
	if !utils.IsDateKey(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ErrInvalidDate.Error()})
		return "", false
	}
	return date, true
}

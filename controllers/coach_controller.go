package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthdash/services"
)

type CoachController struct {
	App *services.App
}

func NewCoachController(app *services.App) *CoachController {
	return &CoachController{App: app}
}

func (h *CoachController) GetContext(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"date": h.App.Today(), "context": h.App.CoachContext()})
}

// Chat always answers 200; provider failures are part of the reply text.
func (h *CoachController) Chat(c *gin.Context) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": h.App.Advise(c.Request.Context(), body.Message)})
}

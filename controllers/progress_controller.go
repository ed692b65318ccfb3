package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthdash/services"
	"healthdash/utils"
)

type ProgressController struct {
	App *services.App
}

func NewProgressController(app *services.App) *ProgressController {
	return &ProgressController{App: app}
}

// GetDashboard returns goals, BMI, streak and weekly averages for today or ?date=.
func (h *ProgressController) GetDashboard(c *gin.Context) {
	date, ok := queryDate(c, h.App)
	if !ok {
		return
	}
	out := services.BuildDashboard(h.App.Snapshot(), date)
	c.JSON(http.StatusOK, gin.H{"dashboard": out, "storeErrors": h.App.StoreErrors()})
}

func (h *ProgressController) GetWeekly(c *gin.Context) {
	date, ok := queryDate(c, h.App)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, services.WeeklyAverages(h.App.Habits.All(), date))
}

func queryDate(c *gin.Context, app *services.App) (string, bool) {
	date := c.DefaultQuery("date", app.Today())
	if !utils.IsDateKey(date) {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ErrInvalidDate.Error()})
		return "", false
	}
	return date, true
}

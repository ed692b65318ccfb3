package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthdash/models"
	"healthdash/services"
	"healthdash/utils"
)

type HabitController struct {
	App *services.App
}

func NewHabitController(app *services.App) *HabitController {
	return &HabitController{App: app}
}

// ListHabits returns every entry, or those within ?from=&to= when given.
func (h *HabitController) ListHabits(c *gin.Context) {
	from, to := c.Query("from"), c.Query("to")
	if from == "" && to == "" {
		c.JSON(http.StatusOK, h.App.Habits.All())
		return
	}
	if from == "" {
		from = "0000-01-01"
	}
	if to == "" {
		to = h.App.Today()
	}
	if (from != "0000-01-01" && !utils.IsDateKey(from)) || !utils.IsDateKey(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ErrInvalidDate.Error()})
		return
	}
	if to < from {
		c.JSON(http.StatusBadRequest, gin.H{"error": "`to` must be on/after `from`"})
		return
	}
	c.JSON(http.StatusOK, h.App.Habits.Range(from, to))
}

func (h *HabitController) GetHabit(c *gin.Context) {
	date, ok := dateParam(c, h.App)
	if !ok {
		return
	}
	e, found := h.App.Habits.Get(date)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no habits logged for " + date})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *HabitController) PutHabit(c *gin.Context) {
	date, ok := dateParam(c, h.App)
	if !ok {
		return
	}
	// omitted fields keep their defaults
	in := models.DefaultHabitEntry(date)
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in.Date = date
	if err := h.App.Habits.Set(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}
	e, _ := h.App.Habits.Get(date)
	c.JSON(http.StatusOK, e)
}

func (h *HabitController) PatchHabit(c *gin.Context) {
	date, ok := dateParam(c, h.App)
	if !ok {
		return
	}
	var patch models.DailyHabitPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := h.App.Habits.Update(c.Request.Context(), date, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *HabitController) DeleteHabit(c *gin.Context) {
	date, ok := dateParam(c, h.App)
	if !ok {
		return
	}
	if err := h.App.Habits.Remove(c.Request.Context(), date); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *HabitController) ClearHabits(c *gin.Context) {
	if err := h.App.Habits.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthdash/models"
	"healthdash/services"
)

type WorkoutController struct {
	App *services.App
}

func NewWorkoutController(app *services.App) *WorkoutController {
	return &WorkoutController{App: app}
}

type minutesInput struct {
	Minutes *int `json:"minutes" binding:"required"`
}

func (h *WorkoutController) GetWorkout(c *gin.Context) {
	date, ok := dateParam(c, h.App)
	if !ok {
		return
	}
	w, found := h.App.Workouts.Get(date)
	if !found {
		w = models.DailyWorkout{Date: date}
	}
	c.JSON(http.StatusOK, gin.H{"workout": w, "totalMinutes": w.Total()})
}

// SetMinutes stores an absolute value for the field.
func (h *WorkoutController) SetMinutes(c *gin.Context) {
	h.update(c, h.App.Workouts.Set)
}

// AddMinutes increments the field.
func (h *WorkoutController) AddMinutes(c *gin.Context) {
	h.update(c, h.App.Workouts.Add)
}

func (h *WorkoutController) update(c *gin.Context, apply func(context.Context, string, models.WorkoutField, int) (models.DailyWorkout, error)) {
	date, ok := dateParam(c, h.App)
	if !ok {
		return
	}
	var in minutesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w, err := apply(c.Request.Context(), date, models.WorkoutField(c.Param("field")), *in.Minutes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout": w, "totalMinutes": w.Total()})
}

// ApplyPlan adds the cached workout plan's minutes to the day.
func (h *WorkoutController) ApplyPlan(c *gin.Context) {
	date, ok := dateParam(c, h.App)
	if !ok {
		return
	}
	plan := h.App.WorkoutPlans.State().Plan
	if plan == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no workout plan generated yet"})
		return
	}
	w, err := h.App.Workouts.AddPlan(c.Request.Context(), date, *plan)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout": w, "totalMinutes": w.Total()})
}

func (h *WorkoutController) ClearWorkouts(c *gin.Context) {
	if err := h.App.Workouts.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

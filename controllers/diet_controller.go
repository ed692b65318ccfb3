package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthdash/models"
	"healthdash/services"
)

type DietController struct {
	App *services.App
}

func NewDietController(app *services.App) *DietController {
	return &DietController{App: app}
}

// GetDiet returns the day with four (possibly empty) buckets.
func (h *DietController) GetDiet(c *gin.Context) {
	date, ok := dateParam(c, h.App)
	if !ok {
		return
	}
	d, found := h.App.Diet.Get(date)
	if !found {
		d = models.EmptyDailyDiet(date)
	}
	c.JSON(http.StatusOK, gin.H{"diet": d, "totalCalories": d.TotalCalories()})
}

func (h *DietController) AddMeal(c *gin.Context) {
	date, ok := dateParam(c, h.App)
	if !ok {
		return
	}
	var in models.MealItem
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.App.Diet.AddMeal(c.Request.Context(), date, models.MealType(c.Param("meal")), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *DietController) RemoveMeal(c *gin.Context) {
	date, ok := dateParam(c, h.App)
	if !ok {
		return
	}
	removed, err := h.App.Diet.RemoveMeal(c.Request.Context(), date, models.MealType(c.Param("meal")), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal item not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DietController) ClearDiet(c *gin.Context) {
	if err := h.App.Diet.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

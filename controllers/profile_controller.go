package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"healthdash/models"
	"healthdash/services"
)

type ProfileController struct {
	App *services.App
}

func NewProfileController(app *services.App) *ProfileController {
	return &ProfileController{App: app}
}

func (h *ProfileController) GetProfile(c *gin.Context) {
	p, ok := h.App.Profile.Get()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not set"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p, "bmi": services.ComputeBMI(&p)})
}

func (h *ProfileController) PutProfile(c *gin.Context) {
	var in models.UserProfile
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.App.Profile.Set(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}
	p, _ := h.App.Profile.Get()
	c.JSON(http.StatusOK, gin.H{"profile": p, "bmi": services.ComputeBMI(&p)})
}

func (h *ProfileController) PatchProfile(c *gin.Context) {
	var patch models.UserProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, updated, err := h.App.Profile.Update(c.Request.Context(), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not set"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": p, "bmi": services.ComputeBMI(&p)})
}

func (h *ProfileController) DeleteProfile(c *gin.Context) {
	if err := h.App.Profile.Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

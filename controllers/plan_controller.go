package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"healthdash/models"
	"healthdash/services"
)

type PlanController struct {
	App *services.App
}

func NewPlanController(app *services.App) *PlanController {
	return &PlanController{App: app}
}

// planHandle erases the plan type so diet and workout share handlers.
type planHandle interface {
	state() any
	fetchAsync(ctx context.Context, p *models.UserProfile, today string) bool
	regenerate(ctx context.Context, p *models.UserProfile, today string) error
}

type flowHandle[T any] struct{ f *services.PlanFlow[T] }

func (h flowHandle[T]) state() any { return h.f.State() }

func (h flowHandle[T]) fetchAsync(ctx context.Context, p *models.UserProfile, today string) bool {
	return h.f.FetchAsync(ctx, p, today)
}

func (h flowHandle[T]) regenerate(ctx context.Context, p *models.UserProfile, today string) error {
	return h.f.Regenerate(ctx, p, today)
}

func (h *PlanController) flow(c *gin.Context) (planHandle, bool) {
	switch c.Param("kind") {
	case services.FlowDiet:
		return flowHandle[models.DietPlan]{h.App.DietPlans}, true
	case services.FlowWorkout:
		return flowHandle[models.WorkoutPlan]{h.App.WorkoutPlans}, true
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "unknown plan kind, use diet or workout"})
	return nil, false
}

func (h *PlanController) profile() *models.UserProfile {
	p, ok := h.App.Profile.Get()
	if !ok {
		return nil
	}
	return &p
}

func (h *PlanController) GetPlan(c *gin.Context) {
	f, ok := h.flow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, f.state())
}

// RefreshPlan starts a background fetch when the cached plan is stale. The
// request is tied to the app lifetime, not to this HTTP request.
func (h *PlanController) RefreshPlan(c *gin.Context) {
	f, ok := h.flow(c)
	if !ok {
		return
	}
	p := h.profile()
	if p == nil {
		respondError(c, services.ErrNoProfile)
		return
	}
	started := f.fetchAsync(h.App.Context(), p, h.App.Today())
	c.JSON(http.StatusAccepted, gin.H{"started": started, "state": f.state()})
}

// RegeneratePlan fetches a new plan synchronously, ignoring the cache.
func (h *PlanController) RegeneratePlan(c *gin.Context) {
	f, ok := h.flow(c)
	if !ok {
		return
	}
	p := h.profile()
	if p == nil {
		respondError(c, services.ErrNoProfile)
		return
	}
	if err := f.regenerate(c.Request.Context(), p, h.App.Today()); err != nil {
		if services.IsValidation(err) {
			respondError(c, err)
			return
		}
		status := http.StatusBadGateway
		if errors.Is(err, services.ErrPlanPending) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error(), "state": f.state()})
		return
	}
	c.JSON(http.StatusOK, f.state())
}

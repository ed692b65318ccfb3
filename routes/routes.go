package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"healthdash/controllers"
	"healthdash/middlewares"
	"healthdash/services"
)

func SetupRouter(app *services.App, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middlewares.Recovery(log), middlewares.RequestLogger(log), middlewares.LocalOnly())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rt := controllers.NewRealtimeController(app.Hub)
	r.GET("/ws", rt.EventsWS)

	api := r.Group("/api")

	profile := controllers.NewProfileController(app)
	{
		api.GET("/profile", profile.GetProfile)
		api.PUT("/profile", profile.PutProfile)
		api.PATCH("/profile", profile.PatchProfile)
		api.DELETE("/profile", profile.DeleteProfile)
	}

	habits := controllers.NewHabitController(app)
	{
		api.GET("/habits", habits.ListHabits)
		api.DELETE("/habits", habits.ClearHabits)
		api.GET("/habits/:date", habits.GetHabit)
		api.PUT("/habits/:date", habits.PutHabit)
		api.PATCH("/habits/:date", habits.PatchHabit)
		api.DELETE("/habits/:date", habits.DeleteHabit)
	}

	diet := controllers.NewDietController(app)
	{
		api.DELETE("/diet", diet.ClearDiet)
		api.GET("/diet/:date", diet.GetDiet)
		api.POST("/diet/:date/:meal", diet.AddMeal)
		api.DELETE("/diet/:date/:meal/:id", diet.RemoveMeal)
	}

	workouts := controllers.NewWorkoutController(app)
	{
		api.DELETE("/workouts", workouts.ClearWorkouts)
		api.GET("/workouts/:date", workouts.GetWorkout)
		api.POST("/workouts/:date/apply-plan", workouts.ApplyPlan)
		api.PUT("/workouts/:date/:field", workouts.SetMinutes)
		api.POST("/workouts/:date/:field/add", workouts.AddMinutes)
	}

	progress := controllers.NewProgressController(app)
	{
		api.GET("/progress", progress.GetDashboard)
		api.GET("/progress/weekly", progress.GetWeekly)
	}

	plans := controllers.NewPlanController(app)
	{
		api.GET("/plans/:kind", plans.GetPlan)
		api.POST("/plans/:kind/refresh", plans.RefreshPlan)
		api.POST("/plans/:kind/regenerate", plans.RegeneratePlan)
	}

	coach := controllers.NewCoachController(app)
	{
		api.GET("/coach/context", coach.GetContext)
		api.POST("/coach/chat", coach.Chat)
	}

	return r
}

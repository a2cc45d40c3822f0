package routes

import (
	"bookflow-backend/config"
	"bookflow-backend/controllers"
	"bookflow-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Deps carries the wired controllers into the router.
type Deps struct {
	Auth        *controllers.AuthController
	Leads       *controllers.LeadController
	Series      *controllers.SeriesController
	Occurrences *controllers.OccurrenceController
	Dashboard   *controllers.DashboardController
}

func SetupRouter(deps *Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/login", deps.Auth.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", deps.Auth.Me)
	}

	api := r.Group("/api")
	api.Use(utils.AuthMiddleware())
	{
		// Lead pipeline routes
		leads := api.Group("/leads")
		{
			leads.POST("", deps.Leads.CreateLead)
			leads.GET("", deps.Leads.GetLeads)
			leads.GET("/:id", deps.Leads.GetLead)
			leads.PUT("/:id", deps.Leads.UpdateLead)
			leads.DELETE("/:id", deps.Leads.DeleteLead)
		}

		// Booking series routes
		series := api.Group("/series")
		{
			series.POST("", deps.Series.CreateSeries)
			series.GET("", deps.Series.GetSeriesList)
			series.GET("/:id", deps.Series.GetSeries)
			series.DELETE("/:id", deps.Series.CancelSeries)
		}

		// Occurrence lifecycle routes
		occurrences := api.Group("/occurrences")
		{
			occurrences.GET("", deps.Occurrences.GetOccurrences)
			occurrences.PUT("/:id/status", deps.Occurrences.UpdateStatus)
			occurrences.PUT("/:id/reschedule", deps.Occurrences.Reschedule)
			occurrences.PUT("/:id/notes", deps.Occurrences.UpdateNotes)
			occurrences.POST("/:id/payment-link", deps.Occurrences.CreatePaymentLink)
			occurrences.POST("/:id/paid", deps.Occurrences.MarkPaid)
		}

		// Dashboard routes
		api.GET("/dashboard", deps.Dashboard.GetOverview)
	}

	return r
}

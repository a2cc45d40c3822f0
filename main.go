package main

import (
	"fmt"
	"log"
	"os"

	"bookflow-backend/config"
	"bookflow-backend/controllers"
	"bookflow-backend/models"
	"bookflow-backend/routes"
	"bookflow-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db := config.ConnectDB()

	db.AutoMigrate(
		&models.User{},
		&models.Lead{},
		&models.BookingSeries{},
		&models.BookingOccurrence{},
		&models.MessageLog{},
	)

	seriesService := services.NewSeriesService(db)

	// The remote managed-function path is optional; without it series
	// creation always runs directly against the store.
	var remote services.SeriesCreator
	if url := os.Getenv("FUNCTIONS_URL"); url != "" {
		remote = services.NewFunctionsClient(url, os.Getenv("FUNCTIONS_TOKEN"), services.DefaultFunctionTimeout)
	}
	creator := services.NewDualPathCreator(remote, seriesService)

	payments := services.NewPaymentLinkClient(
		os.Getenv("PAYMENTS_FUNCTION_URL"),
		os.Getenv("FUNCTIONS_TOKEN"),
		services.DefaultFunctionTimeout,
	)
	occurrenceService := services.NewOccurrenceService(db, payments)

	messageService := services.NewMessageService(db)
	messageService.StartScheduler()

	r := routes.SetupRouter(&routes.Deps{
		Auth:        controllers.NewAuthController(db),
		Leads:       controllers.NewLeadController(db),
		Series:      controllers.NewSeriesController(db, creator, seriesService, messageService),
		Occurrences: controllers.NewOccurrenceController(db, occurrenceService),
		Dashboard:   controllers.NewDashboardController(db),
	})
	printRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}

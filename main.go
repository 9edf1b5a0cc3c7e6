package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"civic-reporter-be/config"
	"civic-reporter-be/controllers"
	"civic-reporter-be/routes"
	"civic-reporter-be/services"
	"civic-reporter-be/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	db := config.ConnectDB()
	if db == nil {
		log.Fatal("Failed to connect to MongoDB")
	}

	log.Println("MongoDB connection established successfully!")

	config.ConnectRedis()

	mongoStore := store.NewMongo(db)

	authService := services.NewAuthService(mongoStore.Users())
	issueService := services.NewIssueService(mongoStore)
	ownershipService := services.NewOwnershipService(mongoStore, mongoStore)

	// Backfill owners onto pre-ownership issues before taking traffic.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	touched, err := ownershipService.MigrateOwnership(ctx)
	cancel()
	if err != nil {
		log.Fatalf("Ownership migration failed: %v", err)
	}
	if touched > 0 {
		log.Printf("Ownership migration assigned %d issue(s) to the legacy owner", touched)
	}

	authController := controllers.NewAuthController(authService)
	issueController := controllers.NewIssueController(issueService, ownershipService, authService)

	r := gin.Default()

	corsOrigin := os.Getenv("CORS_ORIGIN")
	if corsOrigin == "" {
		corsOrigin = "http://localhost:5173"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-User-ID"},
		AllowCredentials: true,
	}))

	routes.AuthRoutes(r, authController)
	routes.IssueRoutes(r, issueController)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/medidetect/medidetect-backend/config"
	"github.com/medidetect/medidetect-backend/controllers"
	"github.com/medidetect/medidetect-backend/models"
	"github.com/medidetect/medidetect-backend/routes"
	"github.com/medidetect/medidetect-backend/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()

	// Background prediction pipeline
	delay := 3 * time.Second
	if v, err := strconv.Atoi(os.Getenv("PREDICT_DELAY")); err == nil && v >= 0 {
		delay = time.Duration(v) * time.Second
	}
	pipeline := services.NewPipeline(
		&services.GormReportStore{DB: config.DB},
		services.NewMockPredictor(delay),
	)
	pipeline.OnStatusChange = func(reportID uuid.UUID, status models.ReportStatus) {
		services.NotifyReportCompleted(config.DB, reportID, status)
	}
	pipeline.Start(4)
	controllers.ReportPipeline = pipeline

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r = routes.SetupRouter(r, config.DB)

	r.GET("/", func(c *gin.Context) {
		c.String(200, "MediDetect server is running")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("Server running at Port:" + port)
	r.Run(":" + port)
}

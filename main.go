package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/stevedore-app/config"
	"github.com/yeremiapane/stevedore-app/middlewares"
	"github.com/yeremiapane/stevedore-app/models"
	"github.com/yeremiapane/stevedore-app/router"
	"github.com/yeremiapane/stevedore-app/services"
	"github.com/yeremiapane/stevedore-app/utils"
	"gorm.io/gorm"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	// Initialize logger
	utils.InfoLogger = logrus.New()
	utils.ErrorLogger = logrus.New()

	utils.InfoLogger.SetOutput(os.Stdout)
	utils.ErrorLogger.SetOutput(os.Stderr)

	utils.InfoLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
	utils.ErrorLogger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})
}

func main() {
	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	utils.InitDB(db)

	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Rate limiter (50 requests per second per IP)
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	// Periodic alert checks and retention cleanup
	monitor := services.NewAlertMonitor(db)
	monitor.Start()
	defer monitor.Stop()

	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Vessel{},
		&models.Berth{},
		&models.Team{},
		&models.TeamMember{},
		&models.MaritimeOperation{},
		&models.TicoVehicle{},
		&models.Alert{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	seedBerths(db)
}

// seedBerths makes sure the fixed berths exist.
func seedBerths(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Berth{}).Count(&count).Error; err != nil {
		utils.ErrorLogger.Printf("Error counting berths: %v", err)
		return
	}
	if count >= models.TotalBerths {
		return
	}

	numbers := []string{"B1", "B2", "B3"}
	for _, number := range numbers {
		berth := models.Berth{Number: number, Status: models.BerthAvailable}
		if err := db.Where("number = ?", number).FirstOrCreate(&berth).Error; err != nil {
			utils.ErrorLogger.Printf("Error seeding berth %s: %v", number, err)
		}
	}
	utils.InfoLogger.Println("Berths seeded.")
}

package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/stevedore-app/models"
	"github.com/yeremiapane/stevedore-app/services"
	"github.com/yeremiapane/stevedore-app/utils"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB     *gorm.DB
	Alerts *services.AlertService
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{
		DB:     db,
		Alerts: services.NewAlertService(db),
	}
}

// GetDashboard -> the summary counters for the operations dashboard
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	var dockedVessels, occupiedBerths int64
	var pendingOps, activeOps, completedToday int64
	var availableVehicles, totalVehicles int64

	dc.DB.Model(&models.Vessel{}).Where("status = ?", models.VesselDocked).Count(&dockedVessels)
	dc.DB.Model(&models.Berth{}).Where("status = ?", models.BerthOccupied).Count(&occupiedBerths)
	dc.DB.Model(&models.MaritimeOperation{}).Where("status = ?", models.OperationPending).Count(&pendingOps)
	dc.DB.Model(&models.MaritimeOperation{}).Where("status = ?", models.OperationInProgress).Count(&activeOps)

	midnight := time.Now().Truncate(24 * time.Hour)
	dc.DB.Model(&models.MaritimeOperation{}).
		Where("status = ? AND end_time >= ?", models.OperationCompleted, midnight).
		Count(&completedToday)

	dc.DB.Model(&models.TicoVehicle{}).Where("status = ?", models.VehicleAvailable).Count(&availableVehicles)
	dc.DB.Model(&models.TicoVehicle{}).Count(&totalVehicles)

	alertStats := dc.Alerts.GetAlertStatistics()

	utils.RespondJSON(c, http.StatusOK, "Dashboard summary", gin.H{
		"vessels": gin.H{
			"docked": dockedVessels,
		},
		"berths": gin.H{
			"occupied": occupiedBerths,
			"total":    models.TotalBerths,
		},
		"operations": gin.H{
			"pending":         pendingOps,
			"in_progress":     activeOps,
			"completed_today": completedToday,
		},
		"vehicles": gin.H{
			"available": availableVehicles,
			"total":     totalVehicles,
		},
		"alerts":    alertStats,
		"timestamp": time.Now(),
	})
}

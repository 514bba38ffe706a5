package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/stevedore-app/models"
	"github.com/yeremiapane/stevedore-app/utils"
	"gorm.io/gorm"
)

type TicoController struct {
	DB *gorm.DB
}

func NewTicoController(db *gorm.DB) *TicoController {
	return &TicoController{DB: db}
}

// CreateVehicle -> register a TICO shuttle vehicle
func (tc *TicoController) CreateVehicle(c *gin.Context) {
	var req struct {
		VehicleNumber string `json:"vehicle_number" binding:"required"`
		VehicleType   string `json:"vehicle_type"`
		Capacity      int    `json:"capacity"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	vehicle := models.TicoVehicle{
		VehicleNumber: req.VehicleNumber,
		VehicleType:   req.VehicleType,
		Capacity:      req.Capacity,
		Status:        models.VehicleAvailable,
	}

	if err := tc.DB.Create(&vehicle).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New TICO vehicle registered: %s", vehicle.VehicleNumber)
	utils.RespondJSON(c, http.StatusCreated, "Vehicle created successfully", vehicle)
}

// GetAllVehicles -> list vehicles, optionally by status
func (tc *TicoController) GetAllVehicles(c *gin.Context) {
	q := tc.DB
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var vehicles []models.TicoVehicle
	if err := q.Find(&vehicles).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of vehicles", vehicles)
}

// UpdateVehicleStatus tracks the maintenance window: entering maintenance
// stamps the start time, leaving it clears the stamp.
func (tc *TicoController) UpdateVehicleStatus(c *gin.Context) {
	vehicleID := c.Param("vehicle_id")
	var body struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch body.Status {
	case models.VehicleAvailable, models.VehicleInUse, models.VehicleMaintenance:
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown status: %s", body.Status))
		return
	}

	var vehicle models.TicoVehicle
	if err := tc.DB.First(&vehicle, vehicleID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.Status == models.VehicleMaintenance && vehicle.Status != models.VehicleMaintenance {
		now := time.Now()
		vehicle.MaintenanceStartedAt = &now
	}
	if body.Status != models.VehicleMaintenance {
		vehicle.MaintenanceStartedAt = nil
	}
	vehicle.Status = body.Status

	if err := tc.DB.Save(&vehicle).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Vehicle %s status changed to %s", vehicle.VehicleNumber, vehicle.Status)
	utils.RespondJSON(c, http.StatusOK, "Vehicle status updated", vehicle)
}

// DeleteVehicle -> retire a vehicle
func (tc *TicoController) DeleteVehicle(c *gin.Context) {
	vehicleID := c.Param("vehicle_id")
	var vehicle models.TicoVehicle

	if err := tc.DB.First(&vehicle, vehicleID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&vehicle).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Vehicle deleted", gin.H{
		"id": vehicle.ID,
	})
}

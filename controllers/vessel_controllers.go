package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/stevedore-app/hub"
	"github.com/yeremiapane/stevedore-app/models"
	"github.com/yeremiapane/stevedore-app/utils"
	"gorm.io/gorm"
)

type VesselController struct {
	DB *gorm.DB
}

func NewVesselController(db *gorm.DB) *VesselController {
	return &VesselController{DB: db}
}

// CreateVessel -> register an expected vessel
func (vc *VesselController) CreateVessel(c *gin.Context) {
	var req struct {
		Name       string `json:"name" binding:"required"`
		IMONumber  string `json:"imo_number" binding:"required"`
		VesselType string `json:"vessel_type"`
		Flag       string `json:"flag"`
		Status     string `json:"status"` // optional, default "expected"
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	vessel := models.Vessel{
		Name:       req.Name,
		IMONumber:  req.IMONumber,
		VesselType: req.VesselType,
		Flag:       req.Flag,
		Status:     models.VesselExpected,
	}
	if req.Status != "" {
		vessel.Status = req.Status
	}

	if err := vc.DB.Create(&vessel).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New vessel registered: %s (IMO %s)", vessel.Name, vessel.IMONumber)
	utils.RespondJSON(c, http.StatusCreated, "Vessel created successfully", vessel)
}

// GetAllVessels -> list vessels, optionally by status
func (vc *VesselController) GetAllVessels(c *gin.Context) {
	q := vc.DB
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var vessels []models.Vessel
	if err := q.Find(&vessels).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of vessels", vessels)
}

// GetVesselByID -> one vessel
func (vc *VesselController) GetVesselByID(c *gin.Context) {
	vesselID := c.Param("vessel_id")
	var vessel models.Vessel
	if err := vc.DB.First(&vessel, vesselID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Vessel detail", vessel)
}

// UpdateVesselStatus -> expected / docked / departed
func (vc *VesselController) UpdateVesselStatus(c *gin.Context) {
	vesselID := c.Param("vessel_id")
	var body struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var vessel models.Vessel
	if err := vc.DB.First(&vessel, vesselID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	vessel.Status = body.Status
	if err := vc.DB.Save(&vessel).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastVesselUpdate(vessel)

	utils.InfoLogger.Printf("Vessel %d status changed to %s", vessel.ID, vessel.Status)
	utils.RespondJSON(c, http.StatusOK, "Vessel status updated", vessel)
}

// DeleteVessel -> remove a vessel record
func (vc *VesselController) DeleteVessel(c *gin.Context) {
	vesselID := c.Param("vessel_id")
	var vessel models.Vessel

	if err := vc.DB.First(&vessel, vesselID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := vc.DB.Delete(&vessel).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Vessel %d deleted", vessel.ID)
	utils.RespondJSON(c, http.StatusOK, "Vessel deleted", gin.H{
		"id": vessel.ID,
	})
}

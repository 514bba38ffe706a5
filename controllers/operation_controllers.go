package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/stevedore-app/hub"
	"github.com/yeremiapane/stevedore-app/models"
	"github.com/yeremiapane/stevedore-app/utils"
	"gorm.io/gorm"
)

type OperationController struct {
	DB *gorm.DB
}

func NewOperationController(db *gorm.DB) *OperationController {
	return &OperationController{DB: db}
}

// CreateOperation -> plan a stevedoring operation for a vessel
func (oc *OperationController) CreateOperation(c *gin.Context) {
	var req struct {
		VesselID            uint       `json:"vessel_id" binding:"required"`
		BerthID             *uint      `json:"berth_id"`
		OperationType       string     `json:"operation_type" binding:"required"` // loading, discharge
		CargoType           string     `json:"cargo_type"`
		CargoTonnage        float64    `json:"cargo_tonnage"`
		ExpectedRatePerHour float64    `json:"expected_rate_per_hour"`
		ETA                 *time.Time `json:"eta"`
		ETD                 *time.Time `json:"etd"`
		OperationManagerID  *uint      `json:"operation_manager_id"`
		TeamID              *uint      `json:"team_id"`
		SafetyNotes         string     `json:"safety_notes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var vessel models.Vessel
	if err := oc.DB.First(&vessel, req.VesselID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("vessel %d not found", req.VesselID))
		return
	}

	op := models.MaritimeOperation{
		VesselID:            req.VesselID,
		BerthID:             req.BerthID,
		OperationType:       req.OperationType,
		CargoType:           req.CargoType,
		CargoTonnage:        req.CargoTonnage,
		ExpectedRatePerHour: req.ExpectedRatePerHour,
		Status:              models.OperationPending,
		ETA:                 req.ETA,
		ETD:                 req.ETD,
		OperationManagerID:  req.OperationManagerID,
		TeamID:              req.TeamID,
		SafetyNotes:         req.SafetyNotes,
	}

	if err := oc.DB.Create(&op).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Operation %d created for vessel %s (%s)", op.ID, vessel.Name, op.OperationType)
	utils.RespondJSON(c, http.StatusCreated, "Operation created successfully", op)
}

// GetAllOperations -> list operations, optionally by status
func (oc *OperationController) GetAllOperations(c *gin.Context) {
	q := oc.DB.Preload("Vessel").Preload("Berth").Preload("Team")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var ops []models.MaritimeOperation
	if err := q.Order("created_at DESC").Find(&ops).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of operations", ops)
}

// GetOperationByID -> one operation with its relations
func (oc *OperationController) GetOperationByID(c *gin.Context) {
	opID := c.Param("operation_id")
	var op models.MaritimeOperation
	if err := oc.DB.Preload("Vessel").Preload("Berth").Preload("Team.Members").Preload("OperationManager").
		First(&op, opID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Operation detail", op)
}

// UpdateOperationStatus drives the operation lifecycle. Starting an
// operation stamps StartTime and occupies the berth; completing stamps
// EndTime, forces progress to 100 and releases the berth.
func (oc *OperationController) UpdateOperationStatus(c *gin.Context) {
	opID := c.Param("operation_id")
	var body struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	switch body.Status {
	case models.OperationPending, models.OperationInProgress, models.OperationCompleted, models.OperationCancelled:
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown status: %s", body.Status))
		return
	}

	var op models.MaritimeOperation
	if err := oc.DB.Preload("Vessel").First(&op, opID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	now := time.Now()
	switch body.Status {
	case models.OperationInProgress:
		if op.StartTime == nil {
			op.StartTime = &now
		}
		op.LastProgressUpdate = &now
		oc.setBerthStatus(op.BerthID, models.BerthOccupied)
	case models.OperationCompleted:
		op.EndTime = &now
		op.Progress = 100
		oc.setBerthStatus(op.BerthID, models.BerthAvailable)
	case models.OperationCancelled:
		oc.setBerthStatus(op.BerthID, models.BerthAvailable)
	}
	op.Status = body.Status

	if err := oc.DB.Save(&op).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastOperationUpdate(op)

	utils.InfoLogger.Printf("Operation %d status changed to %s", op.ID, op.Status)
	utils.RespondJSON(c, http.StatusOK, "Operation status updated", op)
}

// UpdateProgress -> record handling progress from the quay
func (oc *OperationController) UpdateProgress(c *gin.Context) {
	opID := c.Param("operation_id")
	var body struct {
		Progress float64 `json:"progress" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Progress < 0 || body.Progress > 100 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("progress must be between 0 and 100"))
		return
	}

	var op models.MaritimeOperation
	if err := oc.DB.Preload("Vessel").First(&op, opID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if op.Status != models.OperationInProgress {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("operation %d is not in progress", op.ID))
		return
	}

	now := time.Now()
	op.Progress = body.Progress
	op.LastProgressUpdate = &now

	if err := oc.DB.Save(&op).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastOperationUpdate(op)
	utils.RespondJSON(c, http.StatusOK, "Progress updated", op)
}

// AssignResources -> set manager, team and berth for a planned operation
func (oc *OperationController) AssignResources(c *gin.Context) {
	opID := c.Param("operation_id")
	var body struct {
		OperationManagerID *uint `json:"operation_manager_id"`
		TeamID             *uint `json:"team_id"`
		BerthID            *uint `json:"berth_id"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var op models.MaritimeOperation
	if err := oc.DB.First(&op, opID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.OperationManagerID != nil {
		op.OperationManagerID = body.OperationManagerID
	}
	if body.TeamID != nil {
		op.TeamID = body.TeamID
	}
	if body.BerthID != nil {
		op.BerthID = body.BerthID
	}

	if err := oc.DB.Save(&op).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Operation %d resources updated", op.ID)
	utils.RespondJSON(c, http.StatusOK, "Resources assigned", op)
}

func (oc *OperationController) setBerthStatus(berthID *uint, status string) {
	if berthID == nil {
		return
	}
	var berth models.Berth
	if err := oc.DB.First(&berth, *berthID).Error; err != nil {
		utils.ErrorLogger.Printf("Error fetching berth %d: %v", *berthID, err)
		return
	}
	berth.Status = status
	if err := oc.DB.Save(&berth).Error; err != nil {
		utils.ErrorLogger.Printf("Error updating berth %d: %v", *berthID, err)
		return
	}
	hub.BroadcastBerthUpdate(berth)
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/stevedore-app/models"
	"github.com/yeremiapane/stevedore-app/services"
	"github.com/yeremiapane/stevedore-app/utils"
	"gorm.io/gorm"
)

type AlertController struct {
	DB        *gorm.DB
	Alerts    *services.AlertService
	Generator *services.AlertGenerator
}

func NewAlertController(db *gorm.DB) *AlertController {
	return &AlertController{
		DB:        db,
		Alerts:    services.NewAlertService(db),
		Generator: services.NewAlertGenerator(db),
	}
}

// GetActiveAlerts -> displayable alerts, newest first
func (ac *AlertController) GetActiveAlerts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	alerts, err := ac.Alerts.GetActiveAlerts(limit)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Active alerts", gin.H{
		"alerts":    alerts,
		"count":     len(alerts),
		"timestamp": time.Now(),
	})
}

// GetAlertStatistics -> dashboard counters; never fails, degrades to zeros
func (ac *AlertController) GetAlertStatistics(c *gin.Context) {
	stats := ac.Alerts.GetAlertStatistics()
	utils.RespondJSON(c, http.StatusOK, "Alert statistics", gin.H{
		"statistics": stats,
		"timestamp":  time.Now(),
	})
}

// GetAlertsForOperation -> alerts tied to one operation
func (ac *AlertController) GetAlertsForOperation(c *gin.Context) {
	opID, err := strconv.Atoi(c.Param("operation_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid operation id"))
		return
	}
	includeDismissed := c.Query("include_dismissed") == "true"

	alerts, err := ac.Alerts.GetAlertsForOperation(uint(opID), includeDismissed)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Operation alerts", gin.H{
		"alerts":    alerts,
		"timestamp": time.Now(),
	})
}

// GetAlertsForVessel -> alerts tied to one vessel
func (ac *AlertController) GetAlertsForVessel(c *gin.Context) {
	vesselID, err := strconv.Atoi(c.Param("vessel_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid vessel id"))
		return
	}
	includeDismissed := c.Query("include_dismissed") == "true"

	alerts, err := ac.Alerts.GetAlertsForVessel(uint(vesselID), includeDismissed)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Vessel alerts", gin.H{
		"alerts":    alerts,
		"timestamp": time.Now(),
	})
}

// GetAlertsBySeverity -> displayable alerts of one severity
func (ac *AlertController) GetAlertsBySeverity(c *gin.Context) {
	severity := c.Param("severity")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	alerts, err := ac.Alerts.GetAlertsBySeverity(severity, limit)
	if err != nil {
		if !models.ValidSeverity(severity) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Alerts with severity: "+severity, gin.H{
		"alerts":    alerts,
		"timestamp": time.Now(),
	})
}

// GetAlertsByType -> displayable alerts of one category
func (ac *AlertController) GetAlertsByType(c *gin.Context) {
	alertType := c.Param("alert_type")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	alerts, err := ac.Alerts.GetAlertsByType(alertType, limit)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Alerts with type: "+alertType, gin.H{
		"alerts":    alerts,
		"timestamp": time.Now(),
	})
}

// CreateAlert -> manual alert from an authorized user
func (ac *AlertController) CreateAlert(c *gin.Context) {
	var req struct {
		Title            string                 `json:"title" binding:"required"`
		Message          string                 `json:"message" binding:"required"`
		Severity         string                 `json:"severity" binding:"required"`
		Icon             string                 `json:"icon"`
		OperationID      *uint                  `json:"operation_id"`
		VesselID         *uint                  `json:"vessel_id"`
		AlertType        string                 `json:"alert_type" binding:"required"`
		AlertCode        string                 `json:"alert_code"`
		Metadata         map[string]interface{} `json:"metadata"`
		AutoDismissHours int                    `json:"auto_dismiss_hours"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !models.ValidSeverity(req.Severity) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("severity must be one of info, warning, error, critical"))
		return
	}

	var userID *uint
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			userID = &id
		}
	}

	alert, err := ac.Alerts.CreateAlert(services.CreateAlertParams{
		Title:            req.Title,
		Message:          req.Message,
		Severity:         req.Severity,
		Icon:             req.Icon,
		OperationID:      req.OperationID,
		VesselID:         req.VesselID,
		UserID:           userID,
		AlertType:        req.AlertType,
		AlertCode:        req.AlertCode,
		Metadata:         req.Metadata,
		AutoDismissHours: req.AutoDismissHours,
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Alert created", gin.H{
		"alert":     alert,
		"timestamp": time.Now(),
	})
}

// DismissAlert -> mark one alert as dismissed by the current user
func (ac *AlertController) DismissAlert(c *gin.Context) {
	alertID, err := strconv.Atoi(c.Param("alert_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid alert id"))
		return
	}

	var userID *uint
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			userID = &id
		}
	}

	ok, err := ac.Alerts.DismissAlert(uint(alertID), userID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		utils.RespondError(c, http.StatusNotFound, errors.New("alert not found"))
		return
	}

	utils.InfoLogger.Printf("Alert %d dismissed", alertID)
	utils.RespondJSON(c, http.StatusOK, "Alert dismissed", gin.H{
		"alert_id":  alertID,
		"timestamp": time.Now(),
	})
}

// RunChecks -> manual trigger for the full check sweep
func (ac *AlertController) RunChecks(c *gin.Context) {
	ac.Generator.RunAllChecks()

	stats := ac.Alerts.GetAlertStatistics()
	utils.RespondJSON(c, http.StatusOK, "Alert checks completed", gin.H{
		"statistics": stats,
		"timestamp":  time.Now(),
	})
}

// CleanupAlerts -> archive alerts past the retention window
func (ac *AlertController) CleanupAlerts(c *gin.Context) {
	daysOld, _ := strconv.Atoi(c.DefaultQuery("days_old", "30"))

	archived, err := ac.Alerts.CleanupExpiredAlerts(daysOld)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Alert cleanup completed", gin.H{
		"archived":  archived,
		"timestamp": time.Now(),
	})
}

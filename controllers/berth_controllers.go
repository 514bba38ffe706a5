package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/stevedore-app/hub"
	"github.com/yeremiapane/stevedore-app/models"
	"github.com/yeremiapane/stevedore-app/utils"
	"gorm.io/gorm"
)

type BerthController struct {
	DB *gorm.DB
}

func NewBerthController(db *gorm.DB) *BerthController {
	return &BerthController{DB: db}
}

// GetAllBerths -> all berths with their status
func (bc *BerthController) GetAllBerths(c *gin.Context) {
	var berths []models.Berth
	if err := bc.DB.Order("number ASC").Find(&berths).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of berths", berths)
}

// UpdateBerthStatus -> available / occupied / maintenance
func (bc *BerthController) UpdateBerthStatus(c *gin.Context) {
	berthID := c.Param("berth_id")
	var body struct {
		Status string `json:"status" binding:"required"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var berth models.Berth
	if err := bc.DB.First(&berth, berthID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	berth.Status = body.Status
	if err := bc.DB.Save(&berth).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastBerthUpdate(berth)

	utils.InfoLogger.Printf("Berth %s status changed to %s", berth.Number, berth.Status)
	utils.RespondJSON(c, http.StatusOK, "Berth status updated", berth)
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/stevedore-app/models"
	"github.com/yeremiapane/stevedore-app/utils"
	"gorm.io/gorm"
)

type TeamController struct {
	DB *gorm.DB
}

func NewTeamController(db *gorm.DB) *TeamController {
	return &TeamController{DB: db}
}

// CreateTeam -> register a stevedoring gang
func (tc *TeamController) CreateTeam(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required"`
		Shift string `json:"shift"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	team := models.Team{
		Name:  req.Name,
		Shift: req.Shift,
	}

	if err := tc.DB.Create(&team).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New team created: %s (shift=%s)", team.Name, team.Shift)
	utils.RespondJSON(c, http.StatusCreated, "Team created successfully", team)
}

// GetAllTeams -> teams with their members
func (tc *TeamController) GetAllTeams(c *gin.Context) {
	var teams []models.Team
	if err := tc.DB.Preload("Members").Find(&teams).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of teams", teams)
}

// AddMember -> add a worker to a team
func (tc *TeamController) AddMember(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("team_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var team models.Team
	if err := tc.DB.First(&team, teamID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	member := models.TeamMember{
		TeamID: team.ID,
		Name:   req.Name,
		Role:   req.Role,
	}
	if err := tc.DB.Create(&member).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Member added", member)
}

// RemoveMember -> drop a worker from a team
func (tc *TeamController) RemoveMember(c *gin.Context) {
	memberID := c.Param("member_id")
	var member models.TeamMember

	if err := tc.DB.First(&member, memberID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Delete(&member).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Member removed", gin.H{
		"id": member.ID,
	})
}

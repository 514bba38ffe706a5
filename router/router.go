package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/stevedore-app/controllers"
	"github.com/yeremiapane/stevedore-app/middlewares"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	vesselCtrl := controllers.NewVesselController(db)
	operationCtrl := controllers.NewOperationController(db)
	berthCtrl := controllers.NewBerthController(db)
	teamCtrl := controllers.NewTeamController(db)
	ticoCtrl := controllers.NewTicoController(db)
	alertCtrl := controllers.NewAlertController(db)
	dashboardCtrl := controllers.NewDashboardController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	{
		auth.POST("/logout", userCtrl.Logout)
		auth.GET("/profile", userCtrl.GetProfile)

		// Live dashboard feed
		auth.GET("/dashboard/ws", controllers.DashboardWSHandler)
		auth.GET("/dashboard", dashboardCtrl.GetDashboard)

		// Vessels
		auth.GET("/vessels", vesselCtrl.GetAllVessels)
		auth.GET("/vessels/:vessel_id", vesselCtrl.GetVesselByID)
		auth.POST("/vessels", middlewares.RequireRoles("operation_manager"), vesselCtrl.CreateVessel)
		auth.PATCH("/vessels/:vessel_id/status", middlewares.RequireRoles("operation_manager", "foreman"), vesselCtrl.UpdateVesselStatus)
		auth.DELETE("/vessels/:vessel_id", middlewares.RequireRoles(), vesselCtrl.DeleteVessel)

		// Operations
		auth.GET("/operations", operationCtrl.GetAllOperations)
		auth.GET("/operations/:operation_id", operationCtrl.GetOperationByID)
		auth.POST("/operations", middlewares.RequireRoles("operation_manager"), operationCtrl.CreateOperation)
		auth.PATCH("/operations/:operation_id/status", middlewares.RequireRoles("operation_manager", "foreman"), operationCtrl.UpdateOperationStatus)
		auth.PATCH("/operations/:operation_id/progress", middlewares.RequireRoles("operation_manager", "foreman"), operationCtrl.UpdateProgress)
		auth.PATCH("/operations/:operation_id/resources", middlewares.RequireRoles("operation_manager"), operationCtrl.AssignResources)

		// Berths
		auth.GET("/berths", berthCtrl.GetAllBerths)
		auth.PATCH("/berths/:berth_id/status", middlewares.RequireRoles("operation_manager", "foreman"), berthCtrl.UpdateBerthStatus)

		// Teams
		auth.GET("/teams", teamCtrl.GetAllTeams)
		auth.POST("/teams", middlewares.RequireRoles("operation_manager"), teamCtrl.CreateTeam)
		auth.POST("/teams/:team_id/members", middlewares.RequireRoles("operation_manager", "foreman"), teamCtrl.AddMember)
		auth.DELETE("/teams/members/:member_id", middlewares.RequireRoles("operation_manager", "foreman"), teamCtrl.RemoveMember)

		// TICO vehicles
		auth.GET("/vehicles", ticoCtrl.GetAllVehicles)
		auth.POST("/vehicles", middlewares.RequireRoles("operation_manager"), ticoCtrl.CreateVehicle)
		auth.PATCH("/vehicles/:vehicle_id/status", middlewares.RequireRoles("operation_manager", "foreman"), ticoCtrl.UpdateVehicleStatus)
		auth.DELETE("/vehicles/:vehicle_id", middlewares.RequireRoles(), ticoCtrl.DeleteVehicle)

		// Alerts
		auth.GET("/alerts", alertCtrl.GetActiveAlerts)
		auth.GET("/alerts/statistics", alertCtrl.GetAlertStatistics)
		auth.GET("/alerts/severity/:severity", alertCtrl.GetAlertsBySeverity)
		auth.GET("/alerts/type/:alert_type", alertCtrl.GetAlertsByType)
		auth.GET("/operations/:operation_id/alerts", alertCtrl.GetAlertsForOperation)
		auth.GET("/vessels/:vessel_id/alerts", alertCtrl.GetAlertsForVessel)
		auth.POST("/alerts", middlewares.RequireRoles("operation_manager"), alertCtrl.CreateAlert)
		auth.POST("/alerts/:alert_id/dismiss", alertCtrl.DismissAlert)
		auth.POST("/alerts/check", middlewares.RequireRoles("operation_manager"), alertCtrl.RunChecks)
		auth.POST("/alerts/cleanup", middlewares.RequireRoles(), alertCtrl.CleanupAlerts)
	}

	return r
}

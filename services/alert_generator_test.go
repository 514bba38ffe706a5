package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/stevedore-app/models"
)

// fixedWeather returns a constant reading so checks stay deterministic.
type fixedWeather struct {
	reading WeatherReading
}

func (f fixedWeather) Current() WeatherReading { return f.reading }

// recordedOnlyMaintenance never simulates, it requires the workshop stamp.
type recordedOnlyMaintenance struct{}

func (recordedOnlyMaintenance) InMaintenanceFor(v models.TicoVehicle, now time.Time) time.Duration {
	if v.MaintenanceStartedAt == nil {
		return 0
	}
	return now.Sub(*v.MaintenanceStartedAt)
}

func setupGenerator(t *testing.T) (*gorm.DB, *AlertGenerator) {
	db := setupAlertTestDB(t)
	gen := NewAlertGenerator(db)
	gen.Weather = fixedWeather{reading: WeatherReading{Condition: WeatherCalm}}
	gen.Maintenance = recordedOnlyMaintenance{}
	return db, gen
}

func seedVessel(db *gorm.DB, name string) models.Vessel {
	vessel := models.Vessel{Name: name, IMONumber: "IMO" + name, Status: models.VesselDocked}
	db.Create(&vessel)
	return vessel
}

func seedBerthRows(db *gorm.DB, occupied int) {
	for i := 1; i <= models.TotalBerths; i++ {
		status := models.BerthAvailable
		if i <= occupied {
			status = models.BerthOccupied
		}
		db.Create(&models.Berth{Number: fmt.Sprintf("B%d", i), Status: status})
	}
}

func TestCheckBerthCapacityCritical(t *testing.T) {
	db, gen := setupGenerator(t)
	seedBerthRows(db, 3)

	assert.NoError(t, gen.CheckBerthCapacity())

	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, "berth_capacity_critical", alerts[0].AlertCode)

	// Unchanged state -> the repeated run dedups to the same alert
	assert.NoError(t, gen.CheckBerthCapacity())
	alerts, _ = gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 1)
}

func TestCheckBerthCapacityWarning(t *testing.T) {
	db, gen := setupGenerator(t)
	// 2.5 of 3 is not representable; 2/3 = 66% raises nothing
	seedBerthRows(db, 2)

	assert.NoError(t, gen.CheckBerthCapacity())
	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Empty(t, alerts)
}

func TestCheckOperationDelaysCritical(t *testing.T) {
	db, gen := setupGenerator(t)
	vessel := seedVessel(db, "MV Aurora")

	eta := time.Now().Add(-5 * time.Hour)
	op := models.MaritimeOperation{
		VesselID:      vessel.ID,
		OperationType: "discharge",
		Status:        models.OperationInProgress,
		ETA:           &eta,
	}
	db.Create(&op)

	assert.NoError(t, gen.CheckOperationDelays())

	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, fmt.Sprintf("delay_critical_%d", op.ID), alerts[0].AlertCode)

	meta := alerts[0].GetMetadata()
	assert.InDelta(t, 5.0, meta["delay_hours"], 0.2)
}

func TestCheckOperationDelaysWarningThenCritical(t *testing.T) {
	db, gen := setupGenerator(t)
	vessel := seedVessel(db, "MV Boreas")

	eta := time.Now().Add(-3 * time.Hour)
	op := models.MaritimeOperation{
		VesselID:      vessel.ID,
		OperationType: "loading",
		Status:        models.OperationInProgress,
		ETA:           &eta,
	}
	db.Create(&op)

	assert.NoError(t, gen.CheckOperationDelays())
	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 1)
	assert.Equal(t, fmt.Sprintf("delay_warning_%d", op.ID), alerts[0].AlertCode)

	// Crossing into critical produces a second, independent alert
	laterEta := time.Now().Add(-5 * time.Hour)
	db.Model(&op).Update("eta", laterEta)

	assert.NoError(t, gen.CheckOperationDelays())
	alerts, _ = gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 2)
}

func TestCheckSafetyRequirements(t *testing.T) {
	db, gen := setupGenerator(t)
	vessel := seedVessel(db, "MV Castor")

	op := models.MaritimeOperation{
		VesselID:      vessel.ID,
		OperationType: "loading",
		Status:        models.OperationPending,
		SafetyNotes:   "Flammable cargo in hold 2, no hot work on deck",
	}
	db.Create(&op)

	assert.NoError(t, gen.CheckSafetyRequirements())

	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, fmt.Sprintf("safety_critical_%d", op.ID), alerts[0].AlertCode)
	assert.Equal(t, "flammable", alerts[0].GetMetadata()["keyword"])
}

func TestCheckEquipmentAvailability(t *testing.T) {
	db, gen := setupGenerator(t)

	for i := 0; i < 6; i++ {
		status := models.VehicleInUse
		if i == 0 {
			status = models.VehicleAvailable
		}
		db.Create(&models.TicoVehicle{
			VehicleNumber: fmt.Sprintf("TICO-%d", i+1),
			Status:        status,
		})
	}

	// 1 of 6 available = 16.7% -> critical
	assert.NoError(t, gen.CheckEquipmentAvailability())
	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 1)
	assert.Equal(t, "equipment_critical", alerts[0].AlertCode)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
}

func TestCheckEquipmentAvailabilityNoVehicles(t *testing.T) {
	_, gen := setupGenerator(t)

	assert.NoError(t, gen.CheckEquipmentAvailability())
	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Empty(t, alerts)
}

func TestCheckTeamPerformance(t *testing.T) {
	db, gen := setupGenerator(t)
	vessel := seedVessel(db, "MV Dione")

	start := time.Now().Add(-5 * time.Hour)
	op := models.MaritimeOperation{
		VesselID:      vessel.ID,
		OperationType: "discharge",
		Status:        models.OperationInProgress,
		StartTime:     &start,
		Progress:      10,
	}
	db.Create(&op)

	assert.NoError(t, gen.CheckTeamPerformance())

	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 1)
	assert.Equal(t, fmt.Sprintf("team_performance_%d", op.ID), alerts[0].AlertCode)
}

func TestCheckTurnaroundTimes(t *testing.T) {
	db, gen := setupGenerator(t)
	vessel := seedVessel(db, "MV Eos")

	start := time.Now().Add(-42 * time.Hour)
	end := time.Now().Add(-2 * time.Hour)
	op := models.MaritimeOperation{
		VesselID:      vessel.ID,
		OperationType: "discharge",
		Status:        models.OperationCompleted,
		StartTime:     &start,
		EndTime:       &end,
		Progress:      100,
	}
	db.Create(&op)

	assert.NoError(t, gen.CheckTurnaroundTimes())

	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, fmt.Sprintf("turnaround_critical_%d", op.ID), alerts[0].AlertCode)
}

func TestCheckCargoHandlingDelays(t *testing.T) {
	db, gen := setupGenerator(t)
	vessel := seedVessel(db, "MV Freyja")

	start := time.Now().Add(-6 * time.Hour)
	lastUpdate := time.Now().Add(-2 * time.Hour)
	op := models.MaritimeOperation{
		VesselID:            vessel.ID,
		OperationType:       "discharge",
		Status:              models.OperationInProgress,
		StartTime:           &start,
		LastProgressUpdate:  &lastUpdate,
		Progress:            20,
		CargoTonnage:        6000,
		ExpectedRatePerHour: 500,
	}
	db.Create(&op)

	assert.NoError(t, gen.CheckCargoHandlingDelays())

	// Stalled (no update for 2h) and slow (200 t/h against 500 planned)
	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 2)

	codes := []string{alerts[0].AlertCode, alerts[1].AlertCode}
	assert.Contains(t, codes, fmt.Sprintf("cargo_stalled_%d", op.ID))
	assert.Contains(t, codes, fmt.Sprintf("cargo_slow_%d", op.ID))
}

func TestCheckResourceAllocation(t *testing.T) {
	db, gen := setupGenerator(t)
	vessel := seedVessel(db, "MV Gaia")

	team := models.Team{Name: "Gang 1", Shift: "day"}
	db.Create(&team)
	db.Create(&models.TeamMember{TeamID: team.ID, Name: "Solo", Role: "foreman"})

	teamID := team.ID
	op := models.MaritimeOperation{
		VesselID:      vessel.ID,
		OperationType: "loading",
		Status:        models.OperationPending,
		TeamID:        &teamID,
	}
	db.Create(&op)

	assert.NoError(t, gen.CheckResourceAllocation())

	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 2)

	bySeverity := map[string]string{}
	for _, a := range alerts {
		bySeverity[a.AlertCode] = a.Severity
	}
	assert.Equal(t, models.SeverityError, bySeverity[fmt.Sprintf("resource_no_manager_%d", op.ID)])
	assert.Equal(t, models.SeverityWarning, bySeverity[fmt.Sprintf("resource_understaffed_%d", op.ID)])
}

func TestCheckScheduleConflicts(t *testing.T) {
	db, gen := setupGenerator(t)
	vessel1 := seedVessel(db, "MV Helios")
	vessel2 := seedVessel(db, "MV Iris")

	berth := models.Berth{Number: "B1", Status: models.BerthOccupied}
	db.Create(&berth)

	berthID := berth.ID
	db.Create(&models.MaritimeOperation{
		VesselID: vessel1.ID, OperationType: "loading",
		Status: models.OperationInProgress, BerthID: &berthID,
	})
	db.Create(&models.MaritimeOperation{
		VesselID: vessel2.ID, OperationType: "discharge",
		Status: models.OperationInProgress, BerthID: &berthID,
	})

	assert.NoError(t, gen.CheckScheduleConflicts())

	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 1)
	assert.Equal(t, models.SeverityError, alerts[0].Severity)
	assert.Equal(t, fmt.Sprintf("schedule_conflict_berth_%d", berth.ID), alerts[0].AlertCode)
}

func TestCheckWeatherImpact(t *testing.T) {
	db, gen := setupGenerator(t)
	gen.Weather = fixedWeather{reading: WeatherReading{Condition: WeatherStorm, WindSpeedKnots: 52}}

	vessel := seedVessel(db, "MV Janus")
	op := models.MaritimeOperation{
		VesselID:      vessel.ID,
		OperationType: "loading",
		Status:        models.OperationInProgress,
	}
	db.Create(&op)

	assert.NoError(t, gen.CheckWeatherImpact())

	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 1)
	assert.Equal(t, fmt.Sprintf("weather_storm_%d", op.ID), alerts[0].AlertCode)
	assert.Equal(t, "storm", alerts[0].GetMetadata()["condition"])
}

func TestCheckWeatherImpactCalm(t *testing.T) {
	db, gen := setupGenerator(t)

	vessel := seedVessel(db, "MV Kronos")
	db.Create(&models.MaritimeOperation{
		VesselID: vessel.ID, OperationType: "loading",
		Status: models.OperationInProgress,
	})

	assert.NoError(t, gen.CheckWeatherImpact())
	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Empty(t, alerts)
}

func TestCheckEquipmentMaintenance(t *testing.T) {
	db, gen := setupGenerator(t)

	overdueStart := time.Now().Add(-60 * time.Hour)
	recentStart := time.Now().Add(-2 * time.Hour)
	db.Create(&models.TicoVehicle{
		VehicleNumber: "TICO-1", Status: models.VehicleMaintenance,
		MaintenanceStartedAt: &overdueStart,
	})
	db.Create(&models.TicoVehicle{
		VehicleNumber: "TICO-2", Status: models.VehicleMaintenance,
		MaintenanceStartedAt: &recentStart,
	})

	assert.NoError(t, gen.CheckEquipmentMaintenance())

	alerts, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Len(t, alerts, 2)

	bySeverity := map[string]string{}
	for _, a := range alerts {
		bySeverity[a.AlertCode] = a.Severity
	}

	var overdueID, recentID uint
	var v1, v2 models.TicoVehicle
	db.Where("vehicle_number = ?", "TICO-1").First(&v1)
	db.Where("vehicle_number = ?", "TICO-2").First(&v2)
	overdueID, recentID = v1.ID, v2.ID

	assert.Equal(t, models.SeverityError, bySeverity[fmt.Sprintf("maintenance_overdue_%d", overdueID)])
	assert.Equal(t, models.SeverityWarning, bySeverity[fmt.Sprintf("maintenance_%d", recentID)])
}

func TestRunAllChecksIsIdempotent(t *testing.T) {
	db, gen := setupGenerator(t)

	seedBerthRows(db, 3)
	vessel := seedVessel(db, "MV Luna")
	eta := time.Now().Add(-5 * time.Hour)
	db.Create(&models.MaritimeOperation{
		VesselID: vessel.ID, OperationType: "discharge",
		Status: models.OperationInProgress, ETA: &eta,
	})

	gen.RunAllChecks()
	first, _ := gen.Alerts.GetActiveAlerts(50)
	assert.NotEmpty(t, first)

	gen.RunAllChecks()
	second, _ := gen.Alerts.GetActiveAlerts(50)
	assert.Equal(t, len(first), len(second))
}

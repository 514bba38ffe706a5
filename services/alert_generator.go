package services

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/yeremiapane/stevedore-app/models"
	"github.com/yeremiapane/stevedore-app/utils"
	"gorm.io/gorm"
)

// Weather conditions reported by a WeatherSource.
const (
	WeatherCalm       = "calm"
	WeatherRain       = "rain"
	WeatherStrongWind = "strong_wind"
	WeatherStorm      = "storm"
)

type WeatherReading struct {
	Condition      string  `json:"condition"`
	WindSpeedKnots float64 `json:"wind_speed_knots"`
}

// WeatherSource provides the current weather for the terminal. The
// production deployment has no weather feed yet, so the default source
// simulates readings; tests inject a fixed one.
type WeatherSource interface {
	Current() WeatherReading
}

// SimulatedWeather is a stand-in until a real meteo feed is wired up.
type SimulatedWeather struct{}

func (SimulatedWeather) Current() WeatherReading {
	conditions := []string{WeatherCalm, WeatherCalm, WeatherCalm, WeatherRain, WeatherStrongWind, WeatherStorm}
	cond := conditions[rand.Intn(len(conditions))]
	reading := WeatherReading{Condition: cond}
	switch cond {
	case WeatherStrongWind:
		reading.WindSpeedKnots = float64(25 + rand.Intn(15))
	case WeatherStorm:
		reading.WindSpeedKnots = float64(40 + rand.Intn(25))
	default:
		reading.WindSpeedKnots = float64(rand.Intn(20))
	}
	return reading
}

// MaintenanceSource reports how long a vehicle has been in maintenance.
type MaintenanceSource interface {
	InMaintenanceFor(v models.TicoVehicle, now time.Time) time.Duration
}

// RecordedMaintenance uses the workshop entry timestamp when the yard
// recorded one and falls back to a simulated duration otherwise.
type RecordedMaintenance struct{}

func (RecordedMaintenance) InMaintenanceFor(v models.TicoVehicle, now time.Time) time.Duration {
	if v.MaintenanceStartedAt != nil {
		return now.Sub(*v.MaintenanceStartedAt)
	}
	return time.Duration(1+rand.Intn(72)) * time.Hour
}

// Safety keyword lists scanned against operation safety notes.
var (
	safetyCriticalKeywords = []string{"explosive", "flammable", "toxic", "radioactive", "leak", "spill"}
	safetyWarningKeywords  = []string{"hazardous", "corrosive", "heavy lift", "oversize", "fragile"}
)

// AlertGenerator runs the operational condition checks and raises alerts
// through the AlertService. Every check derives its alert code from the
// condition and the entity id, so repeated runs against an unchanged state
// dedup to the existing alert.
type AlertGenerator struct {
	DB          *gorm.DB
	Alerts      *AlertService
	Weather     WeatherSource
	Maintenance MaintenanceSource
}

func NewAlertGenerator(db *gorm.DB) *AlertGenerator {
	return &AlertGenerator{
		DB:          db,
		Alerts:      NewAlertService(db),
		Weather:     SimulatedWeather{},
		Maintenance: RecordedMaintenance{},
	}
}

// RunAllChecks invokes every check in a fixed order. A failing check is
// logged and does not block the remaining ones; each check commits its
// own alerts, so there is no cross-check transaction.
func (g *AlertGenerator) RunAllChecks() {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"berth_capacity", g.CheckBerthCapacity},
		{"operation_delay", g.CheckOperationDelays},
		{"safety_requirements", g.CheckSafetyRequirements},
		{"equipment_availability", g.CheckEquipmentAvailability},
		{"team_performance", g.CheckTeamPerformance},
		{"turnaround_time", g.CheckTurnaroundTimes},
		{"cargo_handling", g.CheckCargoHandlingDelays},
		{"resource_allocation", g.CheckResourceAllocation},
		{"schedule_conflict", g.CheckScheduleConflicts},
		{"weather_impact", g.CheckWeatherImpact},
		{"equipment_maintenance", g.CheckEquipmentMaintenance},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			utils.ErrorLogger.Printf("Alert check %s failed: %v", check.name, err)
		}
	}
}

// CheckBerthCapacity alerts when berth utilization crosses 80% (warning)
// or 90% (critical) of the fixed berth count.
func (g *AlertGenerator) CheckBerthCapacity() error {
	var occupied int64
	if err := g.DB.Model(&models.Berth{}).
		Where("status = ?", models.BerthOccupied).
		Count(&occupied).Error; err != nil {
		return err
	}

	utilization := float64(occupied) / float64(models.TotalBerths) * 100
	metadata := map[string]interface{}{
		"occupied_berths": occupied,
		"total_berths":    models.TotalBerths,
		"utilization":     math.Round(utilization*10) / 10,
	}

	switch {
	case utilization >= 90:
		_, err := g.Alerts.CreateAlert(CreateAlertParams{
			Title:            "Berth capacity critical",
			Message:          fmt.Sprintf("Berth utilization at %.0f%% (%d of %d berths occupied)", utilization, occupied, models.TotalBerths),
			Severity:         models.SeverityCritical,
			Icon:             "anchor",
			AlertType:        "berth_capacity",
			AlertCode:        "berth_capacity_critical",
			Metadata:         metadata,
			AutoDismissHours: 2,
		})
		return err
	case utilization >= 80:
		_, err := g.Alerts.CreateAlert(CreateAlertParams{
			Title:            "Berth capacity high",
			Message:          fmt.Sprintf("Berth utilization at %.0f%% (%d of %d berths occupied)", utilization, occupied, models.TotalBerths),
			Severity:         models.SeverityWarning,
			Icon:             "anchor",
			AlertType:        "berth_capacity",
			AlertCode:        "berth_capacity_warning",
			Metadata:         metadata,
			AutoDismissHours: 4,
		})
		return err
	}
	return nil
}

// CheckOperationDelays alerts on in-progress operations running 2h
// (warning) or 4h (critical) past their ETA.
func (g *AlertGenerator) CheckOperationDelays() error {
	var ops []models.MaritimeOperation
	if err := g.DB.Preload("Vessel").
		Where("status = ? AND eta IS NOT NULL", models.OperationInProgress).
		Find(&ops).Error; err != nil {
		return err
	}

	now := time.Now()
	for _, op := range ops {
		delayHours := now.Sub(*op.ETA).Hours()
		if delayHours < 2 {
			continue
		}

		metadata := map[string]interface{}{
			"delay_hours": math.Round(delayHours*10) / 10,
			"eta":         op.ETA.Format(time.RFC3339),
		}

		severity := models.SeverityWarning
		code := fmt.Sprintf("delay_warning_%d", op.ID)
		autoDismiss := 8
		if delayHours >= 4 {
			severity = models.SeverityCritical
			code = fmt.Sprintf("delay_critical_%d", op.ID)
			autoDismiss = 6
		}

		opID := op.ID
		vesselID := op.VesselID
		if _, err := g.Alerts.CreateAlert(CreateAlertParams{
			Title:            fmt.Sprintf("Operation delayed: %s", op.Vessel.Name),
			Message:          fmt.Sprintf("Operation %d on %s is %.1f hours past ETA", op.ID, op.Vessel.Name, delayHours),
			Severity:         severity,
			Icon:             "clock",
			OperationID:      &opID,
			VesselID:         &vesselID,
			AlertType:        "operation_delay",
			AlertCode:        code,
			Metadata:         metadata,
			AutoDismissHours: autoDismiss,
		}); err != nil {
			return err
		}
	}
	return nil
}

// CheckSafetyRequirements scans safety notes of pending and in-progress
// operations for cargo hazard keywords.
func (g *AlertGenerator) CheckSafetyRequirements() error {
	var ops []models.MaritimeOperation
	if err := g.DB.Preload("Vessel").
		Where("status IN ? AND safety_notes <> ''", []string{models.OperationPending, models.OperationInProgress}).
		Find(&ops).Error; err != nil {
		return err
	}

	for _, op := range ops {
		notes := strings.ToLower(op.SafetyNotes)

		keyword, severity := "", ""
		for _, kw := range safetyCriticalKeywords {
			if strings.Contains(notes, kw) {
				keyword, severity = kw, models.SeverityCritical
				break
			}
		}
		if keyword == "" {
			for _, kw := range safetyWarningKeywords {
				if strings.Contains(notes, kw) {
					keyword, severity = kw, models.SeverityWarning
					break
				}
			}
		}
		if keyword == "" {
			continue
		}

		code := fmt.Sprintf("safety_warning_%d", op.ID)
		autoDismiss := 24
		if severity == models.SeverityCritical {
			code = fmt.Sprintf("safety_critical_%d", op.ID)
			autoDismiss = 12
		}

		opID := op.ID
		vesselID := op.VesselID
		if _, err := g.Alerts.CreateAlert(CreateAlertParams{
			Title:            fmt.Sprintf("Safety requirement: %s", op.Vessel.Name),
			Message:          fmt.Sprintf("Operation %d safety notes mention %q - verify handling requirements", op.ID, keyword),
			Severity:         severity,
			Icon:             "shield",
			OperationID:      &opID,
			VesselID:         &vesselID,
			AlertType:        "safety_requirements",
			AlertCode:        code,
			Metadata:         map[string]interface{}{"keyword": keyword},
			AutoDismissHours: autoDismiss,
		}); err != nil {
			return err
		}
	}
	return nil
}

// CheckEquipmentAvailability alerts when the share of available TICO
// vehicles drops below 50% (warning) or 20% (critical).
func (g *AlertGenerator) CheckEquipmentAvailability() error {
	var total, available int64
	if err := g.DB.Model(&models.TicoVehicle{}).Count(&total).Error; err != nil {
		return err
	}
	if total == 0 {
		return nil
	}
	if err := g.DB.Model(&models.TicoVehicle{}).
		Where("status = ?", models.VehicleAvailable).
		Count(&available).Error; err != nil {
		return err
	}

	ratio := float64(available) / float64(total) * 100
	metadata := map[string]interface{}{
		"available_vehicles": available,
		"total_vehicles":     total,
		"availability":       math.Round(ratio*10) / 10,
	}

	switch {
	case ratio < 20:
		_, err := g.Alerts.CreateAlert(CreateAlertParams{
			Title:            "TICO vehicle shortage",
			Message:          fmt.Sprintf("Only %d of %d TICO vehicles available (%.0f%%)", available, total, ratio),
			Severity:         models.SeverityCritical,
			Icon:             "truck",
			AlertType:        "equipment_availability",
			AlertCode:        "equipment_critical",
			Metadata:         metadata,
			AutoDismissHours: 2,
		})
		return err
	case ratio < 50:
		_, err := g.Alerts.CreateAlert(CreateAlertParams{
			Title:            "TICO vehicle availability low",
			Message:          fmt.Sprintf("%d of %d TICO vehicles available (%.0f%%)", available, total, ratio),
			Severity:         models.SeverityWarning,
			Icon:             "truck",
			AlertType:        "equipment_availability",
			AlertCode:        "equipment_warning",
			Metadata:         metadata,
			AutoDismissHours: 4,
		})
		return err
	}
	return nil
}

// CheckTeamPerformance alerts on in-progress operations below 25%
// progress after at least 4 worked hours.
func (g *AlertGenerator) CheckTeamPerformance() error {
	var ops []models.MaritimeOperation
	if err := g.DB.Preload("Vessel").
		Where("status = ? AND start_time IS NOT NULL", models.OperationInProgress).
		Find(&ops).Error; err != nil {
		return err
	}

	now := time.Now()
	for _, op := range ops {
		elapsed := now.Sub(*op.StartTime).Hours()
		if elapsed < 4 || op.Progress >= 25 {
			continue
		}

		opID := op.ID
		vesselID := op.VesselID
		if _, err := g.Alerts.CreateAlert(CreateAlertParams{
			Title:            fmt.Sprintf("Slow progress: %s", op.Vessel.Name),
			Message:          fmt.Sprintf("Operation %d at %.0f%% after %.1f hours", op.ID, op.Progress, elapsed),
			Severity:         models.SeverityWarning,
			Icon:             "users",
			OperationID:      &opID,
			VesselID:         &vesselID,
			AlertType:        "team_performance",
			AlertCode:        fmt.Sprintf("team_performance_%d", op.ID),
			Metadata: map[string]interface{}{
				"progress":      op.Progress,
				"elapsed_hours": math.Round(elapsed*10) / 10,
			},
			AutoDismissHours: 6,
		}); err != nil {
			return err
		}
	}
	return nil
}

// CheckTurnaroundTimes alerts on recently completed operations that took
// over 24h (warning) or 36h (critical). Only operations finished within
// the past week are considered, older ones are history.
func (g *AlertGenerator) CheckTurnaroundTimes() error {
	weekAgo := time.Now().AddDate(0, 0, -7)
	var ops []models.MaritimeOperation
	if err := g.DB.Preload("Vessel").
		Where("status = ? AND start_time IS NOT NULL AND end_time IS NOT NULL AND end_time >= ?",
			models.OperationCompleted, weekAgo).
		Find(&ops).Error; err != nil {
		return err
	}

	for _, op := range ops {
		hours := op.Duration().Hours()
		if hours <= 24 {
			continue
		}

		severity := models.SeverityWarning
		code := fmt.Sprintf("turnaround_warning_%d", op.ID)
		autoDismiss := 48
		if hours > 36 {
			severity = models.SeverityCritical
			code = fmt.Sprintf("turnaround_critical_%d", op.ID)
			autoDismiss = 72
		}

		opID := op.ID
		vesselID := op.VesselID
		if _, err := g.Alerts.CreateAlert(CreateAlertParams{
			Title:            fmt.Sprintf("Long turnaround: %s", op.Vessel.Name),
			Message:          fmt.Sprintf("Operation %d completed in %.1f hours", op.ID, hours),
			Severity:         severity,
			Icon:             "timer",
			OperationID:      &opID,
			VesselID:         &vesselID,
			AlertType:        "turnaround_time",
			AlertCode:        code,
			Metadata:         map[string]interface{}{"turnaround_hours": math.Round(hours*10) / 10},
			AutoDismissHours: autoDismiss,
		}); err != nil {
			return err
		}
	}
	return nil
}

// CheckCargoHandlingDelays alerts on in-progress operations with no
// progress update for over an hour, or an hourly tonnage rate below 70%
// of the planned rate.
func (g *AlertGenerator) CheckCargoHandlingDelays() error {
	var ops []models.MaritimeOperation
	if err := g.DB.Preload("Vessel").
		Where("status = ?", models.OperationInProgress).
		Find(&ops).Error; err != nil {
		return err
	}

	now := time.Now()
	for _, op := range ops {
		opID := op.ID
		vesselID := op.VesselID

		lastUpdate := op.LastProgressUpdate
		if lastUpdate == nil {
			lastUpdate = op.StartTime
		}
		if lastUpdate != nil && now.Sub(*lastUpdate) > time.Hour {
			if _, err := g.Alerts.CreateAlert(CreateAlertParams{
				Title:            fmt.Sprintf("Cargo handling stalled: %s", op.Vessel.Name),
				Message:          fmt.Sprintf("Operation %d has no progress update for %.1f hours", op.ID, now.Sub(*lastUpdate).Hours()),
				Severity:         models.SeverityWarning,
				Icon:             "package",
				OperationID:      &opID,
				VesselID:         &vesselID,
				AlertType:        "cargo_handling",
				AlertCode:        fmt.Sprintf("cargo_stalled_%d", op.ID),
				Metadata: map[string]interface{}{
					"last_update": lastUpdate.Format(time.RFC3339),
				},
				AutoDismissHours: 2,
			}); err != nil {
				return err
			}
		}

		if op.StartTime == nil || op.ExpectedRatePerHour <= 0 || op.CargoTonnage <= 0 {
			continue
		}
		elapsed := now.Sub(*op.StartTime).Hours()
		if elapsed < 1 {
			continue
		}
		actualRate := op.CargoTonnage * (op.Progress / 100) / elapsed
		if actualRate >= op.ExpectedRatePerHour*0.7 {
			continue
		}

		if _, err := g.Alerts.CreateAlert(CreateAlertParams{
			Title:            fmt.Sprintf("Cargo rate below plan: %s", op.Vessel.Name),
			Message:          fmt.Sprintf("Operation %d moving %.1f t/h against planned %.1f t/h", op.ID, actualRate, op.ExpectedRatePerHour),
			Severity:         models.SeverityWarning,
			Icon:             "package",
			OperationID:      &opID,
			VesselID:         &vesselID,
			AlertType:        "cargo_handling",
			AlertCode:        fmt.Sprintf("cargo_slow_%d", op.ID),
			Metadata: map[string]interface{}{
				"actual_rate":   math.Round(actualRate*10) / 10,
				"expected_rate": op.ExpectedRatePerHour,
			},
			AutoDismissHours: 3,
		}); err != nil {
			return err
		}
	}
	return nil
}

// CheckResourceAllocation alerts on pending and in-progress operations
// without an operation manager, or staffed with fewer than two team members.
func (g *AlertGenerator) CheckResourceAllocation() error {
	var ops []models.MaritimeOperation
	if err := g.DB.Preload("Vessel").
		Where("status IN ?", []string{models.OperationPending, models.OperationInProgress}).
		Find(&ops).Error; err != nil {
		return err
	}

	for _, op := range ops {
		opID := op.ID
		vesselID := op.VesselID

		if op.OperationManagerID == nil {
			if _, err := g.Alerts.CreateAlert(CreateAlertParams{
				Title:            fmt.Sprintf("No operation manager: %s", op.Vessel.Name),
				Message:          fmt.Sprintf("Operation %d has no operation manager assigned", op.ID),
				Severity:         models.SeverityError,
				Icon:             "user-x",
				OperationID:      &opID,
				VesselID:         &vesselID,
				AlertType:        "resource_allocation",
				AlertCode:        fmt.Sprintf("resource_no_manager_%d", op.ID),
				AutoDismissHours: 6,
			}); err != nil {
				return err
			}
		}

		var members int64
		if op.TeamID != nil {
			if err := g.DB.Model(&models.TeamMember{}).
				Where("team_id = ?", *op.TeamID).
				Count(&members).Error; err != nil {
				return err
			}
		}
		if members < 2 {
			if _, err := g.Alerts.CreateAlert(CreateAlertParams{
				Title:            fmt.Sprintf("Understaffed operation: %s", op.Vessel.Name),
				Message:          fmt.Sprintf("Operation %d has %d team members assigned", op.ID, members),
				Severity:         models.SeverityWarning,
				Icon:             "users",
				OperationID:      &opID,
				VesselID:         &vesselID,
				AlertType:        "resource_allocation",
				AlertCode:        fmt.Sprintf("resource_understaffed_%d", op.ID),
				Metadata:         map[string]interface{}{"team_members": members},
				AutoDismissHours: 4,
			}); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckScheduleConflicts alerts when more than one in-progress operation
// is assigned to the same berth.
func (g *AlertGenerator) CheckScheduleConflicts() error {
	var ops []models.MaritimeOperation
	if err := g.DB.
		Where("status = ? AND berth_id IS NOT NULL", models.OperationInProgress).
		Find(&ops).Error; err != nil {
		return err
	}

	byBerth := make(map[uint][]uint)
	for _, op := range ops {
		byBerth[*op.BerthID] = append(byBerth[*op.BerthID], op.ID)
	}

	for berthID, opIDs := range byBerth {
		if len(opIDs) < 2 {
			continue
		}
		if _, err := g.Alerts.CreateAlert(CreateAlertParams{
			Title:            fmt.Sprintf("Schedule conflict on berth %d", berthID),
			Message:          fmt.Sprintf("%d active operations share berth %d", len(opIDs), berthID),
			Severity:         models.SeverityError,
			Icon:             "calendar",
			AlertType:        "schedule_conflict",
			AlertCode:        fmt.Sprintf("schedule_conflict_berth_%d", berthID),
			Metadata:         map[string]interface{}{"operation_ids": opIDs},
			AutoDismissHours: 12,
		}); err != nil {
			return err
		}
	}
	return nil
}

// CheckWeatherImpact alerts every in-progress operation when the weather
// source reports strong wind or storm.
func (g *AlertGenerator) CheckWeatherImpact() error {
	reading := g.Weather.Current()
	if reading.Condition != WeatherStrongWind && reading.Condition != WeatherStorm {
		return nil
	}

	var ops []models.MaritimeOperation
	if err := g.DB.Preload("Vessel").
		Where("status = ?", models.OperationInProgress).
		Find(&ops).Error; err != nil {
		return err
	}

	for _, op := range ops {
		opID := op.ID
		vesselID := op.VesselID
		if _, err := g.Alerts.CreateAlert(CreateAlertParams{
			Title:            fmt.Sprintf("Weather impact: %s", op.Vessel.Name),
			Message:          fmt.Sprintf("Operation %d may be affected by %s (%.0f knots)", op.ID, strings.ReplaceAll(reading.Condition, "_", " "), reading.WindSpeedKnots),
			Severity:         models.SeverityWarning,
			Icon:             "wind",
			OperationID:      &opID,
			VesselID:         &vesselID,
			AlertType:        "weather_impact",
			AlertCode:        fmt.Sprintf("weather_%s_%d", reading.Condition, op.ID),
			Metadata: map[string]interface{}{
				"condition":        reading.Condition,
				"wind_speed_knots": reading.WindSpeedKnots,
			},
			AutoDismissHours: 6,
		}); err != nil {
			return err
		}
	}
	return nil
}

// CheckEquipmentMaintenance alerts for every TICO vehicle in maintenance,
// escalating to an error when maintenance runs over 48 hours.
func (g *AlertGenerator) CheckEquipmentMaintenance() error {
	var vehicles []models.TicoVehicle
	if err := g.DB.
		Where("status = ?", models.VehicleMaintenance).
		Find(&vehicles).Error; err != nil {
		return err
	}

	now := time.Now()
	for _, v := range vehicles {
		hours := g.Maintenance.InMaintenanceFor(v, now).Hours()
		metadata := map[string]interface{}{
			"vehicle_number":    v.VehicleNumber,
			"maintenance_hours": math.Round(hours*10) / 10,
		}

		if hours > 48 {
			if _, err := g.Alerts.CreateAlert(CreateAlertParams{
				Title:            fmt.Sprintf("Maintenance overdue: %s", v.VehicleNumber),
				Message:          fmt.Sprintf("Vehicle %s in maintenance for %.0f hours", v.VehicleNumber, hours),
				Severity:         models.SeverityError,
				Icon:             "wrench",
				AlertType:        "equipment_maintenance",
				AlertCode:        fmt.Sprintf("maintenance_overdue_%d", v.ID),
				Metadata:         metadata,
				AutoDismissHours: 12,
			}); err != nil {
				return err
			}
			continue
		}

		if _, err := g.Alerts.CreateAlert(CreateAlertParams{
			Title:            fmt.Sprintf("Vehicle in maintenance: %s", v.VehicleNumber),
			Message:          fmt.Sprintf("Vehicle %s is out of service for maintenance", v.VehicleNumber),
			Severity:         models.SeverityWarning,
			Icon:             "wrench",
			AlertType:        "equipment_maintenance",
			AlertCode:        fmt.Sprintf("maintenance_%d", v.ID),
			Metadata:         metadata,
			AutoDismissHours: 24,
		}); err != nil {
			return err
		}
	}
	return nil
}

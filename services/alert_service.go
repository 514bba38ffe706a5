package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/stevedore-app/hub"
	"github.com/yeremiapane/stevedore-app/models"
	"github.com/yeremiapane/stevedore-app/utils"
	"gorm.io/gorm"
)

// AlertService owns the alert lifecycle: deduplicated creation, dismissal,
// displayable queries, archival cleanup and dashboard statistics.
type AlertService struct {
	DB *gorm.DB
}

func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{DB: db}
}

// CreateAlertParams carries everything needed to raise an alert.
// AlertCode should be derived from the condition (and entity id) so that
// repeated checks dedup naturally; when empty a random code is derived
// from AlertType, which only makes sense for one-off manual alerts.
type CreateAlertParams struct {
	Title            string
	Message          string
	Severity         string
	Icon             string
	OperationID      *uint
	VesselID         *uint
	UserID           *uint
	AlertType        string
	AlertCode        string
	Metadata         map[string]interface{}
	AutoDismissHours int
}

// CreateAlert finds or creates the alert for the given code. An existing
// active, non-dismissed alert with the same code is returned unchanged so
// that repeated checks against an unchanged condition never duplicate rows.
// The lookup and insert run in one transaction.
func (s *AlertService) CreateAlert(p CreateAlertParams) (*models.Alert, error) {
	if !models.ValidSeverity(p.Severity) {
		return nil, fmt.Errorf("invalid severity: %q", p.Severity)
	}

	code := p.AlertCode
	if code == "" {
		code = fmt.Sprintf("%s_%s", p.AlertType, strings.Split(uuid.NewString(), "-")[0])
	}

	var alert models.Alert
	created := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Alert
		err := tx.Where("alert_code = ? AND is_active = ? AND dismissed_at IS NULL", code, true).
			First(&existing).Error
		if err == nil {
			alert = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		alert = models.Alert{
			Title:       p.Title,
			Message:     p.Message,
			Severity:    p.Severity,
			Icon:        p.Icon,
			OperationID: p.OperationID,
			VesselID:    p.VesselID,
			UserID:      p.UserID,
			AlertType:   p.AlertType,
			AlertCode:   code,
			CreatedAt:   time.Now(),
			IsActive:    true,
		}
		if p.AutoDismissHours > 0 {
			t := time.Now().Add(time.Duration(p.AutoDismissHours) * time.Hour)
			alert.AutoDismissAt = &t
		}
		if err := alert.SetMetadata(p.Metadata); err != nil {
			return err
		}
		if err := tx.Create(&alert).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		utils.ErrorLogger.Printf("Failed to create alert (code=%s): %v", code, err)
		return nil, err
	}

	if created {
		utils.InfoLogger.Printf("Alert created: [%s] %s (code=%s)", alert.Severity, alert.Title, alert.AlertCode)
		hub.BroadcastAlertCreated(alert)
	}

	return &alert, nil
}

// DismissAlert marks the alert as dismissed by the given user. Returns
// false when no such alert exists. The first dismissal is authoritative:
// dismissing an already-dismissed alert is a no-op that still reports true.
func (s *AlertService) DismissAlert(alertID uint, userID *uint) (bool, error) {
	var alert models.Alert
	if err := s.DB.First(&alert, alertID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if alert.IsDismissed() {
		return true, nil
	}

	now := time.Now()
	alert.DismissedAt = &now
	alert.DismissedBy = userID
	if err := s.DB.Save(&alert).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to dismiss alert %d: %v", alertID, err)
		return false, err
	}

	hub.BroadcastAlertDismissed(alert)
	return true, nil
}

// displayable scopes a query to alerts that should still be shown:
// active, not dismissed and not past their auto-dismiss time.
func (s *AlertService) displayable() *gorm.DB {
	return s.DB.Model(&models.Alert{}).
		Where("is_active = ? AND dismissed_at IS NULL", true).
		Where("auto_dismiss_at IS NULL OR auto_dismiss_at > ?", time.Now())
}

// GetActiveAlerts returns displayable alerts, newest first.
func (s *AlertService) GetActiveAlerts(limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	var alerts []models.Alert
	err := s.displayable().
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}

// GetAlertsForOperation returns non-archived alerts for one operation,
// optionally including dismissed ones.
func (s *AlertService) GetAlertsForOperation(operationID uint, includeDismissed bool) ([]models.Alert, error) {
	q := s.DB.Where("operation_id = ? AND is_active = ?", operationID, true)
	if !includeDismissed {
		q = q.Where("dismissed_at IS NULL")
	}
	var alerts []models.Alert
	err := q.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

// GetAlertsForVessel returns non-archived alerts for one vessel,
// optionally including dismissed ones.
func (s *AlertService) GetAlertsForVessel(vesselID uint, includeDismissed bool) ([]models.Alert, error) {
	q := s.DB.Where("vessel_id = ? AND is_active = ?", vesselID, true)
	if !includeDismissed {
		q = q.Where("dismissed_at IS NULL")
	}
	var alerts []models.Alert
	err := q.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

// GetAlertsBySeverity returns displayable alerts of one severity.
func (s *AlertService) GetAlertsBySeverity(severity string, limit int) ([]models.Alert, error) {
	if !models.ValidSeverity(severity) {
		return nil, fmt.Errorf("invalid severity: %q", severity)
	}
	if limit <= 0 {
		limit = 20
	}
	var alerts []models.Alert
	err := s.displayable().
		Where("severity = ?", severity).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}

// GetAlertsByType returns displayable alerts of one category.
func (s *AlertService) GetAlertsByType(alertType string, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = 20
	}
	var alerts []models.Alert
	err := s.displayable().
		Where("alert_type = ?", alertType).
		Order("created_at DESC").
		Limit(limit).
		Find(&alerts).Error
	return alerts, err
}

// CleanupExpiredAlerts archives alerts that were dismissed or auto-dismissed
// more than daysOld days ago. This is the only place is_active is cleared;
// dismissal never touches it. Returns the number of archived rows.
func (s *AlertService) CleanupExpiredAlerts(daysOld int) (int64, error) {
	if daysOld <= 0 {
		daysOld = 30
	}
	cutoff := time.Now().AddDate(0, 0, -daysOld)

	result := s.DB.Model(&models.Alert{}).
		Where("is_active = ?", true).
		Where("(dismissed_at IS NOT NULL AND dismissed_at <= ?) OR (auto_dismiss_at IS NOT NULL AND auto_dismiss_at <= ?)", cutoff, cutoff).
		Update("is_active", false)
	if result.Error != nil {
		utils.ErrorLogger.Printf("Alert cleanup failed: %v", result.Error)
		return 0, result.Error
	}

	if result.RowsAffected > 0 {
		utils.InfoLogger.Printf("Archived %d expired alerts (older than %d days)", result.RowsAffected, daysOld)
	}
	return result.RowsAffected, nil
}

// AlertStatistics summarizes the displayable alert set for the dashboard.
type AlertStatistics struct {
	Total      int64            `json:"total"`
	BySeverity map[string]int64 `json:"by_severity"`
	ByType     map[string]int64 `json:"by_type"`
	RecentHour int64            `json:"recent_hour"`
}

func emptyStatistics() AlertStatistics {
	return AlertStatistics{
		BySeverity: map[string]int64{
			models.SeverityInfo:     0,
			models.SeverityWarning:  0,
			models.SeverityError:    0,
			models.SeverityCritical: 0,
		},
		ByType: map[string]int64{},
	}
}

// GetAlertStatistics computes counts over the displayable set. The dashboard
// must never fail on a broken statistics query, so any error degrades to the
// zero-filled default.
func (s *AlertService) GetAlertStatistics() AlertStatistics {
	stats := emptyStatistics()

	if err := s.displayable().Count(&stats.Total).Error; err != nil {
		utils.ErrorLogger.Printf("Alert statistics failed: %v", err)
		return emptyStatistics()
	}

	type bucket struct {
		Label string
		Count int64
	}

	var bySeverity []bucket
	if err := s.displayable().
		Select("severity as label, count(*) as count").
		Group("severity").
		Scan(&bySeverity).Error; err != nil {
		utils.ErrorLogger.Printf("Alert statistics failed: %v", err)
		return emptyStatistics()
	}
	for _, b := range bySeverity {
		stats.BySeverity[b.Label] = b.Count
	}

	var byType []bucket
	if err := s.displayable().
		Select("alert_type as label, count(*) as count").
		Group("alert_type").
		Scan(&byType).Error; err != nil {
		utils.ErrorLogger.Printf("Alert statistics failed: %v", err)
		return emptyStatistics()
	}
	for _, b := range byType {
		stats.ByType[b.Label] = b.Count
	}

	if err := s.displayable().
		Where("created_at > ?", time.Now().Add(-time.Hour)).
		Count(&stats.RecentHour).Error; err != nil {
		utils.ErrorLogger.Printf("Alert statistics failed: %v", err)
		return emptyStatistics()
	}

	return stats
}

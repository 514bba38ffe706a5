package services

import (
	"time"

	"github.com/yeremiapane/stevedore-app/utils"
	"gorm.io/gorm"
)

// AlertMonitor periodically runs the condition checks and the retention
// cleanup. It is the scheduled caller of RunAllChecks; the checks
// themselves stay synchronous and can also be triggered from the API.
type AlertMonitor struct {
	Generator       *AlertGenerator
	Alerts          *AlertService
	StopChan        chan struct{}
	Interval        time.Duration
	CleanupInterval time.Duration
}

func NewAlertMonitor(db *gorm.DB) *AlertMonitor {
	return &AlertMonitor{
		Generator:       NewAlertGenerator(db),
		Alerts:          NewAlertService(db),
		StopChan:        make(chan struct{}),
		Interval:        5 * time.Minute,
		CleanupInterval: 12 * time.Hour,
	}
}

func (am *AlertMonitor) Start() {
	go func() {
		checkTicker := time.NewTicker(am.Interval)
		cleanupTicker := time.NewTicker(am.CleanupInterval)
		defer checkTicker.Stop()
		defer cleanupTicker.Stop()

		for {
			select {
			case <-checkTicker.C:
				am.Generator.RunAllChecks()
			case <-cleanupTicker.C:
				if _, err := am.Alerts.CleanupExpiredAlerts(30); err != nil {
					utils.ErrorLogger.Printf("Scheduled alert cleanup failed: %v", err)
				}
				utils.CleanupBlacklist()
			case <-am.StopChan:
				return
			}
		}
	}()
}

func (am *AlertMonitor) Stop() {
	close(am.StopChan)
}

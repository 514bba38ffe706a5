package models

import "time"

// TICO vehicle statuses
const (
	VehicleAvailable   = "available"
	VehicleInUse       = "in_use"
	VehicleMaintenance = "maintenance"
)

// TicoVehicle is a shuttle vehicle that moves stevedoring drivers
// between terminal zones.
type TicoVehicle struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	VehicleNumber        string     `gorm:"type:varchar(20);unique;not null" json:"vehicle_number"`
	VehicleType          string     `gorm:"type:varchar(30)" json:"vehicle_type"` // van, minibus
	Capacity             int        `gorm:"default:0" json:"capacity"`
	Status               string     `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	MaintenanceStartedAt *time.Time `json:"maintenance_started_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

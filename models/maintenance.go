package models

import "time"

// MaintenanceStatus tracks where a schedule entry sits in its cycle.
type MaintenanceStatus string

const (
	MaintenanceStatusScheduled MaintenanceStatus = "scheduled"
	MaintenanceStatusDue       MaintenanceStatus = "due"
	MaintenanceStatusOverdue   MaintenanceStatus = "overdue"
	MaintenanceStatusCompleted MaintenanceStatus = "completed"
)

// Valid reports whether s is one of the known maintenance statuses.
func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceStatusScheduled, MaintenanceStatusDue, MaintenanceStatusOverdue, MaintenanceStatusCompleted:
		return true
	}
	return false
}

// MaintenanceItem is one recurring maintenance schedule entry for a
// vehicle, tracked by miles and/or days.
type MaintenanceItem struct {
	ID              int64             `gorm:"primaryKey" json:"id"`
	VehicleID       int64             `gorm:"column:vehicle_id;not null;index" json:"vehicle_id"`
	Vehicle         *Vehicle          `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
	MaintenanceType string            `gorm:"column:maintenance_type;not null" json:"maintenance_type"`
	IntervalMiles   *int              `gorm:"column:interval_miles" json:"interval_miles"`
	IntervalDays    *int              `gorm:"column:interval_days" json:"interval_days"`
	LastServiceDate    *DateOnly      `gorm:"column:last_service_date;type:date" json:"last_service_date"`
	LastServiceMileage *int           `gorm:"column:last_service_mileage" json:"last_service_mileage"`
	NextDueDate        *DateOnly      `gorm:"column:next_due_date;type:date" json:"next_due_date"`
	NextDueMileage     *int           `gorm:"column:next_due_mileage" json:"next_due_mileage"`
	Status          MaintenanceStatus `gorm:"column:status;size:20;not null;default:scheduled;check:status IN ('scheduled','due','overdue','completed')" json:"status"`
	Notes           *string           `gorm:"column:notes" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MaintenanceItem) TableName() string { return "maintenance_schedule" }

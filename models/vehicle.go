package models

import "time"

// VehicleStatus defines the lifecycle status of a vehicle.
type VehicleStatus string

const (
	VehicleStatusActive       VehicleStatus = "active"
	VehicleStatusMaintenance  VehicleStatus = "maintenance"
	VehicleStatusOutOfService VehicleStatus = "out_of_service"
	VehicleStatusRetired      VehicleStatus = "retired"
)

// Valid reports whether s is one of the known vehicle statuses.
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleStatusActive, VehicleStatusMaintenance, VehicleStatusOutOfService, VehicleStatusRetired:
		return true
	}
	return false
}

// Vehicle is a fleet vehicle. VehicleNumber is the human-assigned natural
// key (unique, editable); ID is the stable foreign-key target for
// documents, notes, maintenance items and status history. Reports link by
// VehicleNumber instead, so they follow the number if it is reassigned.
type Vehicle struct {
	ID              int64         `gorm:"primaryKey" json:"id"`
	VehicleNumber   string        `gorm:"column:vehicle_number;size:50;not null;uniqueIndex" json:"vehicle_number"`
	Make            *string       `gorm:"column:make" json:"make"`
	Model           *string       `gorm:"column:model" json:"model"`
	Year            *int          `gorm:"column:year" json:"year"`
	Description     *string       `gorm:"column:description" json:"description"`
	VIN             *string       `gorm:"column:vin" json:"vin"`
	Driver          *string       `gorm:"column:driver" json:"driver"`
	LicensePlate    *string       `gorm:"column:license_plate" json:"license_plate"`
	Tonnage         *string       `gorm:"column:tonnage" json:"tonnage"`
	FuelType        *string       `gorm:"column:fuel_type" json:"fuel_type"`
	HasRadio        *string       `gorm:"column:has_radio" json:"has_radio"`
	ServiceStation  *string       `gorm:"column:service_station" json:"service_station"`
	SalesPrice      *float64      `gorm:"column:sales_price" json:"sales_price"`
	Coverage        *string       `gorm:"column:coverage" json:"coverage"`
	PONumber        *string       `gorm:"column:po_number" json:"po_number"`
	TitleNumber     *string       `gorm:"column:title_number" json:"title_number"`
	Status          VehicleStatus `gorm:"column:status;size:20;not null;default:active;check:status IN ('active','maintenance','out_of_service','retired')" json:"status"`
	AssignedTo      *string       `gorm:"column:assigned_to" json:"assigned_to"`
	Location        *string       `gorm:"column:location" json:"location"`
	AcquisitionDate *DateOnly     `gorm:"column:acquisition_date;type:date" json:"acquisition_date"`
	AcquisitionCost *float64      `gorm:"column:acquisition_cost" json:"acquisition_cost"`
	CurrentMileage  *int          `gorm:"column:current_mileage" json:"current_mileage"`
	LastServiceDate *DateOnly     `gorm:"column:last_service_date;type:date" json:"last_service_date"`
	Notes           *string       `gorm:"column:notes" json:"notes"`
	ThumbnailPath   *string       `gorm:"column:thumbnail_path" json:"thumbnail_path"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Vehicle) TableName() string { return "vehicles" }

// StatusHistory records one vehicle status transition, for the timeline.
type StatusHistory struct {
	ID            int64         `gorm:"primaryKey" json:"id"`
	VehicleID     int64         `gorm:"column:vehicle_id;not null;index" json:"vehicle_id"`
	Vehicle       *Vehicle      `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
	Status        VehicleStatus `gorm:"column:status;size:20;not null" json:"status"`
	Reason        *string       `gorm:"column:reason" json:"reason"`
	ChangedBy     *string       `gorm:"column:changed_by" json:"changed_by"`
	EffectiveDate DateOnly      `gorm:"column:effective_date;type:date;not null" json:"effective_date"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (StatusHistory) TableName() string { return "vehicle_status_history" }

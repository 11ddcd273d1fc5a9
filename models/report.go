package models

import "time"

// Report status values derived from the defects field.
const (
	ReportStatusPass      = "PASS"
	ReportStatusAttention = "ATTENTION"
)

// Report is one periodic inspection report. It references its vehicle by
// VehicleNumber, not by internal id; creating or updating a report upserts
// the vehicle first so the link never dangles.
type Report struct {
	ID            int64    `gorm:"primaryKey" json:"id"`
	VehicleNumber string   `gorm:"column:vehicle_number;size:50;not null;index" json:"vehicle_number"`
	InspectionDate DateOnly `gorm:"column:inspection_date;type:date;not null" json:"inspection_date"`
	InspectorName string   `gorm:"column:inspector_name;not null" json:"inspector_name"`

	Make               *string `gorm:"column:make" json:"make"`
	Year               *int    `gorm:"column:year" json:"year"`
	Mileage            *int    `gorm:"column:mileage" json:"mileage"`
	LastMileageServiced *int   `gorm:"column:last_mileage_serviced" json:"last_mileage_serviced"`
	HourMeter          *float64 `gorm:"column:hour_meter" json:"hour_meter"`
	HoursPTO           *float64 `gorm:"column:hours_pto" json:"hours_pto"`

	SteeringGood           *bool `gorm:"column:steering_good" json:"steering_good"`
	BrakesWork             *bool `gorm:"column:brakes_work" json:"brakes_work"`
	ParkingBrakeWork       *bool `gorm:"column:parking_brake_work" json:"parking_brake_work"`
	HeadlightsWorking      *bool `gorm:"column:headlights_working" json:"headlights_working"`
	ParkingLightsWorking   *bool `gorm:"column:parking_lights_working" json:"parking_lights_working"`
	TaillightsWorking      *bool `gorm:"column:taillights_working" json:"taillights_working"`
	BackupLightsWorking    *bool `gorm:"column:backup_lights_working" json:"backup_lights_working"`
	SignalDevicesGood      *bool `gorm:"column:signal_devices_good" json:"signal_devices_good"`
	AuxiliaryLightsWorking *bool `gorm:"column:auxiliary_lights_working" json:"auxiliary_lights_working"`

	WindshieldCondition      *string `gorm:"column:windshield_condition" json:"windshield_condition"`
	WindshieldWiperWorking   *bool   `gorm:"column:windshield_wiper_working" json:"windshield_wiper_working"`
	TiresSafe                *bool   `gorm:"column:tires_safe" json:"tires_safe"`
	FlagsFlaresPresent       *bool   `gorm:"column:flags_flares_present" json:"flags_flares_present"`
	FirstAidKitStocked       *bool   `gorm:"column:first_aid_kit_stocked" json:"first_aid_kit_stocked"`
	AEDLocation              *string `gorm:"column:aed_location" json:"aed_location"`
	FireExtinguisherCondition *string `gorm:"column:fire_extinguisher_condition" json:"fire_extinguisher_condition"`

	TirePressureRF      *float64 `gorm:"column:tire_pressure_rf" json:"tire_pressure_rf"`
	TirePressureRR      *float64 `gorm:"column:tire_pressure_rr" json:"tire_pressure_rr"`
	TirePressureRROuter *float64 `gorm:"column:tire_pressure_rr_outer" json:"tire_pressure_rr_outer"`
	TirePressureLF      *float64 `gorm:"column:tire_pressure_lf" json:"tire_pressure_lf"`
	TirePressureLR      *float64 `gorm:"column:tire_pressure_lr" json:"tire_pressure_lr"`
	TirePressureLROuter *float64 `gorm:"column:tire_pressure_lr_outer" json:"tire_pressure_lr_outer"`

	Defects   *string `gorm:"column:defects" json:"defects"`
	Signature *string `gorm:"column:signature" json:"signature"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Report) TableName() string { return "reports" }

// Status is derived, never stored: a report with recorded defects needs
// attention, everything else passes.
func (r *Report) Status() string {
	if r.Defects != nil && *r.Defects != "" {
		return ReportStatusAttention
	}
	return ReportStatusPass
}

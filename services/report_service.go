package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"p9e.in/fleet/models"
)

var reportSortColumns = map[string]string{
	"id":              "id",
	"vehicle_number":  "vehicle_number",
	"inspection_date": "inspection_date",
	"inspector_name":  "inspector_name",
	"mileage":         "mileage",
	"created_at":      "created_at",
}

// ReportService owns inspection reports. Every write that names a vehicle
// number goes through the vehicle upsert first, so a report can never
// reference a number the vehicle table does not know.
type ReportService struct {
	db       *gorm.DB
	vehicles *VehicleService
	log      *zap.Logger
}

func NewReportService(db *gorm.DB, vehicles *VehicleService, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{db: db, vehicles: vehicles, log: log}
}

// ReportListOptions filters, sorts and paginates the report list.
type ReportListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	Order     string
	Vehicle   string
	Inspector string
	DateFrom  string // YYYY-MM-DD inclusive
	DateTo    string // YYYY-MM-DD inclusive
	Search    string
}

// ReportPage is one page of reports.
type ReportPage struct {
	Items      []models.Report `json:"reports"`
	Pagination Pagination      `json:"pagination"`
}

// List returns reports matching the filters, default order newest
// inspection first. Date bounds compare as YYYY-MM-DD strings, which is
// also how the column stores them.
func (s *ReportService) List(opts ReportListOptions) (*ReportPage, error) {
	page, limit, offset := clampPage(opts.Page, opts.Limit, 50)

	q := s.db.Model(&models.Report{})
	if opts.Vehicle != "" {
		q = q.Where("vehicle_number = ?", opts.Vehicle)
	}
	if opts.Inspector != "" {
		q = q.Where("inspector_name LIKE ?", "%"+opts.Inspector+"%")
	}
	if opts.DateFrom != "" {
		q = q.Where("inspection_date >= ?", opts.DateFrom)
	}
	if opts.DateTo != "" {
		q = q.Where("inspection_date <= ?", opts.DateTo)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		q = q.Where("(vehicle_number LIKE ? OR inspector_name LIKE ? OR defects LIKE ?)",
			pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, translateDBError("count reports", err)
	}

	col := sortColumn(reportSortColumns, opts.SortBy, "inspection_date")
	dir := "DESC"
	if !sortDirection(opts.Order, true) {
		dir = "ASC"
	}

	var items []models.Report
	if err := q.Order(fmt.Sprintf("%s %s, id %s", col, dir, dir)).
		Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, translateDBError("list reports", err)
	}

	return &ReportPage{Items: items, Pagination: newPagination(page, limit, total)}, nil
}

// All returns every report, newest inspection first, without pagination.
// Export dumps read through this so no row is ever clipped by a page
// limit.
func (s *ReportService) All() ([]models.Report, error) {
	var items []models.Report
	if err := s.db.Order("inspection_date DESC, id DESC").Find(&items).Error; err != nil {
		return nil, translateDBError("all reports", err)
	}
	return items, nil
}

// Get returns one report by id.
func (s *ReportService) Get(id int64) (*models.Report, error) {
	var r models.Report
	if err := s.db.First(&r, id).Error; err != nil {
		return nil, translateDBError("get report", err)
	}
	return &r, nil
}

// futureDate compares calendar days, so a report filed later today is
// still valid.
func futureDate(d models.DateOnly) bool {
	return d.String() > time.Now().Format("2006-01-02")
}

func validateReport(r *models.Report) error {
	if r.VehicleNumber == "" {
		return invalid("vehicle_number", "is required")
	}
	if r.InspectionDate.IsZero() {
		return invalid("inspection_date", "is required")
	}
	if futureDate(r.InspectionDate) {
		return invalid("inspection_date", "cannot be in the future")
	}
	if r.InspectorName == "" {
		return invalid("inspector_name", "is required")
	}
	if r.Mileage != nil && *r.Mileage < 0 {
		return invalid("mileage", "must not be negative")
	}
	pressures := map[string]*float64{
		"tire_pressure_rf":       r.TirePressureRF,
		"tire_pressure_rr":       r.TirePressureRR,
		"tire_pressure_rr_outer": r.TirePressureRROuter,
		"tire_pressure_lf":       r.TirePressureLF,
		"tire_pressure_lr":       r.TirePressureLR,
		"tire_pressure_lr_outer": r.TirePressureLROuter,
	}
	for field, p := range pressures {
		if p != nil && (*p < 0 || *p > 200) {
			return invalid(field, "must be between 0 and 200")
		}
	}
	return nil
}

// Create validates and stores a report, upserting its vehicle first so the
// number link is live before the report exists.
func (s *ReportService) Create(r *models.Report) (*models.Report, error) {
	if err := validateReport(r); err != nil {
		return nil, err
	}

	if _, err := s.vehicles.Upsert(UpsertVehicleInput{
		Number: r.VehicleNumber,
		Make:   r.Make,
		Year:   r.Year,
	}); err != nil {
		return nil, err
	}

	if err := s.db.Create(r).Error; err != nil {
		return nil, translateDBError("create report", err)
	}
	return r, nil
}

// ReportPatch is the explicit set of mutable report fields.
type ReportPatch struct {
	VehicleNumber  *string          `json:"vehicle_number"`
	InspectionDate *models.DateOnly `json:"inspection_date"`
	InspectorName  *string          `json:"inspector_name"`

	Make                *string  `json:"make"`
	Year                *int     `json:"year"`
	Mileage             *int     `json:"mileage"`
	LastMileageServiced *int     `json:"last_mileage_serviced"`
	HourMeter           *float64 `json:"hour_meter"`
	HoursPTO            *float64 `json:"hours_pto"`

	SteeringGood           *bool `json:"steering_good"`
	BrakesWork             *bool `json:"brakes_work"`
	ParkingBrakeWork       *bool `json:"parking_brake_work"`
	HeadlightsWorking      *bool `json:"headlights_working"`
	ParkingLightsWorking   *bool `json:"parking_lights_working"`
	TaillightsWorking      *bool `json:"taillights_working"`
	BackupLightsWorking    *bool `json:"backup_lights_working"`
	SignalDevicesGood      *bool `json:"signal_devices_good"`
	AuxiliaryLightsWorking *bool `json:"auxiliary_lights_working"`

	WindshieldCondition       *string `json:"windshield_condition"`
	WindshieldWiperWorking    *bool   `json:"windshield_wiper_working"`
	TiresSafe                 *bool   `json:"tires_safe"`
	FlagsFlaresPresent        *bool   `json:"flags_flares_present"`
	FirstAidKitStocked        *bool   `json:"first_aid_kit_stocked"`
	AEDLocation               *string `json:"aed_location"`
	FireExtinguisherCondition *string `json:"fire_extinguisher_condition"`

	TirePressureRF      *float64 `json:"tire_pressure_rf"`
	TirePressureRR      *float64 `json:"tire_pressure_rr"`
	TirePressureRROuter *float64 `json:"tire_pressure_rr_outer"`
	TirePressureLF      *float64 `json:"tire_pressure_lf"`
	TirePressureLR      *float64 `json:"tire_pressure_lr"`
	TirePressureLROuter *float64 `json:"tire_pressure_lr_outer"`

	Defects   *string `json:"defects"`
	Signature *string `json:"signature"`
}

func (p ReportPatch) updates() map[string]interface{} {
	u := map[string]interface{}{}
	set := func(col string, v interface{}, present bool) {
		if present {
			u[col] = v
		}
	}
	set("vehicle_number", p.VehicleNumber, p.VehicleNumber != nil)
	set("inspection_date", p.InspectionDate, p.InspectionDate != nil)
	set("inspector_name", p.InspectorName, p.InspectorName != nil)
	set("make", p.Make, p.Make != nil)
	set("year", p.Year, p.Year != nil)
	set("mileage", p.Mileage, p.Mileage != nil)
	set("last_mileage_serviced", p.LastMileageServiced, p.LastMileageServiced != nil)
	set("hour_meter", p.HourMeter, p.HourMeter != nil)
	set("hours_pto", p.HoursPTO, p.HoursPTO != nil)
	set("steering_good", p.SteeringGood, p.SteeringGood != nil)
	set("brakes_work", p.BrakesWork, p.BrakesWork != nil)
	set("parking_brake_work", p.ParkingBrakeWork, p.ParkingBrakeWork != nil)
	set("headlights_working", p.HeadlightsWorking, p.HeadlightsWorking != nil)
	set("parking_lights_working", p.ParkingLightsWorking, p.ParkingLightsWorking != nil)
	set("taillights_working", p.TaillightsWorking, p.TaillightsWorking != nil)
	set("backup_lights_working", p.BackupLightsWorking, p.BackupLightsWorking != nil)
	set("signal_devices_good", p.SignalDevicesGood, p.SignalDevicesGood != nil)
	set("auxiliary_lights_working", p.AuxiliaryLightsWorking, p.AuxiliaryLightsWorking != nil)
	set("windshield_condition", p.WindshieldCondition, p.WindshieldCondition != nil)
	set("windshield_wiper_working", p.WindshieldWiperWorking, p.WindshieldWiperWorking != nil)
	set("tires_safe", p.TiresSafe, p.TiresSafe != nil)
	set("flags_flares_present", p.FlagsFlaresPresent, p.FlagsFlaresPresent != nil)
	set("first_aid_kit_stocked", p.FirstAidKitStocked, p.FirstAidKitStocked != nil)
	set("aed_location", p.AEDLocation, p.AEDLocation != nil)
	set("fire_extinguisher_condition", p.FireExtinguisherCondition, p.FireExtinguisherCondition != nil)
	set("tire_pressure_rf", p.TirePressureRF, p.TirePressureRF != nil)
	set("tire_pressure_rr", p.TirePressureRR, p.TirePressureRR != nil)
	set("tire_pressure_rr_outer", p.TirePressureRROuter, p.TirePressureRROuter != nil)
	set("tire_pressure_lf", p.TirePressureLF, p.TirePressureLF != nil)
	set("tire_pressure_lr", p.TirePressureLR, p.TirePressureLR != nil)
	set("tire_pressure_lr_outer", p.TirePressureLROuter, p.TirePressureLROuter != nil)
	set("defects", p.Defects, p.Defects != nil)
	set("signature", p.Signature, p.Signature != nil)
	return u
}

// Update applies a partial update. Renaming the vehicle re-runs the
// vehicle upsert so the new number is live before the report points at it.
func (s *ReportService) Update(id int64, patch ReportPatch) (*models.Report, error) {
	updates := patch.updates()
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	if patch.VehicleNumber != nil && *patch.VehicleNumber == "" {
		return nil, invalid("vehicle_number", "cannot be empty")
	}
	if patch.InspectorName != nil && *patch.InspectorName == "" {
		return nil, invalid("inspector_name", "cannot be empty")
	}
	if patch.InspectionDate != nil && futureDate(*patch.InspectionDate) {
		return nil, invalid("inspection_date", "cannot be in the future")
	}
	pressures := map[string]*float64{
		"tire_pressure_rf":       patch.TirePressureRF,
		"tire_pressure_rr":       patch.TirePressureRR,
		"tire_pressure_rr_outer": patch.TirePressureRROuter,
		"tire_pressure_lf":       patch.TirePressureLF,
		"tire_pressure_lr":       patch.TirePressureLR,
		"tire_pressure_lr_outer": patch.TirePressureLROuter,
	}
	for field, p := range pressures {
		if p != nil && (*p < 0 || *p > 200) {
			return nil, invalid(field, "must be between 0 and 200")
		}
	}

	var current models.Report
	if err := s.db.First(&current, id).Error; err != nil {
		return nil, translateDBError("get report", err)
	}

	if patch.VehicleNumber != nil && *patch.VehicleNumber != current.VehicleNumber {
		if _, err := s.vehicles.Upsert(UpsertVehicleInput{
			Number: *patch.VehicleNumber,
			Make:   patch.Make,
			Year:   patch.Year,
		}); err != nil {
			return nil, err
		}
	}

	if err := s.db.Model(&models.Report{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, translateDBError("update report", err)
	}
	return s.Get(id)
}

// Delete removes one report. It returns false when the id does not exist.
func (s *ReportService) Delete(id int64) (bool, error) {
	res := s.db.Delete(&models.Report{}, id)
	if res.Error != nil {
		return false, translateDBError("delete report", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Statistics is the fleet-wide dashboard block.
type Statistics struct {
	TotalReports      int64            `json:"totalReports"`
	TotalVehicles     int64            `json:"totalVehicles"`
	ReportsLast30Days int64            `json:"reportsLast30Days"`
	VehiclesByStatus  map[string]int64 `json:"vehiclesByStatus"`
}

// Statistics computes the dashboard counters.
func (s *ReportService) Statistics() (*Statistics, error) {
	out := &Statistics{VehiclesByStatus: map[string]int64{}}

	if err := s.db.Model(&models.Report{}).Count(&out.TotalReports).Error; err != nil {
		return nil, translateDBError("report statistics", err)
	}
	if err := s.db.Model(&models.Vehicle{}).Count(&out.TotalVehicles).Error; err != nil {
		return nil, translateDBError("report statistics", err)
	}

	cutoff := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	if err := s.db.Model(&models.Report{}).
		Where("inspection_date >= ?", cutoff).
		Count(&out.ReportsLast30Days).Error; err != nil {
		return nil, translateDBError("report statistics", err)
	}

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := s.db.Model(&models.Vehicle{}).
		Select("status, COUNT(*) as count").
		Group("status").Scan(&byStatus).Error; err != nil {
		return nil, translateDBError("report statistics", err)
	}
	for _, row := range byStatus {
		out.VehiclesByStatus[row.Status] = row.Count
	}

	return out, nil
}

package services

import (
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"p9e.in/fleet/models"
	"p9e.in/fleet/storage"
)

// vehicleSortColumns maps caller sort keys to column literals. The natural
// vehicle_number order is handled separately in List.
var vehicleSortColumns = map[string]string{
	"id":                "id",
	"make":              "make",
	"model":             "model",
	"year":              "year",
	"status":            "status",
	"assigned_to":       "assigned_to",
	"location":          "location",
	"current_mileage":   "current_mileage",
	"last_service_date": "last_service_date",
}

// VehicleService owns vehicle records, their dependents' lifecycle, and the
// cascading delete protocol.
type VehicleService struct {
	db    *gorm.DB
	files *storage.Store
	log   *zap.Logger
}

func NewVehicleService(db *gorm.DB, files *storage.Store, log *zap.Logger) *VehicleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &VehicleService{db: db, files: files, log: log}
}

// VehicleListOptions filters, sorts and paginates the vehicle list. All
// filters are conjunctive.
type VehicleListOptions struct {
	Page     int
	Limit    int
	SortBy   string
	Order    string
	Status   string
	Location string
	Search   string
}

// VehiclePage is one page of vehicles.
type VehiclePage struct {
	Items      []models.Vehicle `json:"vehicles"`
	Pagination Pagination       `json:"pagination"`
}

// List returns vehicles matching the filters. Count and page fetch share
// one predicate, so the totals always agree with the items.
func (s *VehicleService) List(opts VehicleListOptions) (*VehiclePage, error) {
	page, limit, offset := clampPage(opts.Page, opts.Limit, 100)

	q := s.db.Model(&models.Vehicle{})
	if opts.Status != "" {
		q = q.Where("status = ?", opts.Status)
	}
	if opts.Location != "" {
		q = q.Where("location LIKE ?", "%"+opts.Location+"%")
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		q = q.Where("(vehicle_number LIKE ? OR make LIKE ? OR model LIKE ? OR driver LIKE ? OR vin LIKE ?)",
			pattern, pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, translateDBError("count vehicles", err)
	}

	desc := sortDirection(opts.Order, false)
	var order string
	if col, ok := vehicleSortColumns[opts.SortBy]; ok {
		order = col + " ASC"
		if desc {
			order = col + " DESC"
		}
	} else {
		// Default and "vehicle_number" both use the natural order.
		order = vehicleNumberOrder(desc)
	}

	var items []models.Vehicle
	if err := q.Order(order).Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, translateDBError("list vehicles", err)
	}

	return &VehiclePage{Items: items, Pagination: newPagination(page, limit, total)}, nil
}

// Get returns the vehicle with the given internal id.
func (s *VehicleService) Get(id int64) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.db.First(&v, id).Error; err != nil {
		return nil, translateDBError("get vehicle", err)
	}
	return &v, nil
}

// GetByNumber returns the vehicle with the given human-assigned number.
func (s *VehicleService) GetByNumber(number string) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.db.Where("vehicle_number = ?", number).First(&v).Error; err != nil {
		return nil, translateDBError("get vehicle by number", err)
	}
	return &v, nil
}

// UpsertVehicleInput carries the fields a report submission may attach to
// its vehicle. Omitted fields never overwrite existing values.
type UpsertVehicleInput struct {
	Number string  `json:"vehicle_number"`
	Make   *string `json:"make"`
	Year   *int    `json:"year"`
}

// Upsert inserts the vehicle if its number is unseen, otherwise coalesces
// the supplied fields into the existing row and refreshes updated_at.
// Earlier non-null values are never erased by a later null.
func (s *VehicleService) Upsert(in UpsertVehicleInput) (*models.Vehicle, error) {
	if in.Number == "" {
		return nil, invalid("vehicle_number", "is required")
	}

	now := time.Now()
	err := s.db.Exec(`
		INSERT INTO vehicles (vehicle_number, make, year, status, created_at, updated_at)
		VALUES (?, ?, ?, 'active', ?, ?)
		ON CONFLICT(vehicle_number) DO UPDATE SET
			make = COALESCE(excluded.make, vehicles.make),
			year = COALESCE(excluded.year, vehicles.year),
			updated_at = excluded.updated_at`,
		in.Number, in.Make, in.Year, now, now).Error
	if err != nil {
		return nil, translateDBError("upsert vehicle", err)
	}

	return s.GetByNumber(in.Number)
}

// VehiclePatch is the explicit set of mutable vehicle fields. Nil fields
// are left untouched. StatusReason only feeds the status-history row.
type VehiclePatch struct {
	VehicleNumber   *string               `json:"vehicle_number"`
	Make            *string               `json:"make"`
	Model           *string               `json:"model"`
	Year            *int                  `json:"year"`
	Description     *string               `json:"description"`
	VIN             *string               `json:"vin"`
	Driver          *string               `json:"driver"`
	LicensePlate    *string               `json:"license_plate"`
	Tonnage         *string               `json:"tonnage"`
	FuelType        *string               `json:"fuel_type"`
	HasRadio        *string               `json:"has_radio"`
	ServiceStation  *string               `json:"service_station"`
	SalesPrice      *float64              `json:"sales_price"`
	Coverage        *string               `json:"coverage"`
	PONumber        *string               `json:"po_number"`
	TitleNumber     *string               `json:"title_number"`
	Status          *models.VehicleStatus `json:"status"`
	AssignedTo      *string               `json:"assigned_to"`
	Location        *string               `json:"location"`
	AcquisitionDate *models.DateOnly      `json:"acquisition_date"`
	AcquisitionCost *float64              `json:"acquisition_cost"`
	CurrentMileage  *int                  `json:"current_mileage"`
	LastServiceDate *models.DateOnly      `json:"last_service_date"`
	Notes           *string               `json:"notes"`
	StatusReason    *string               `json:"status_reason"`
}

func (p VehiclePatch) updates() map[string]interface{} {
	u := map[string]interface{}{}
	set := func(col string, v interface{}, present bool) {
		if present {
			u[col] = v
		}
	}
	set("vehicle_number", p.VehicleNumber, p.VehicleNumber != nil)
	set("make", p.Make, p.Make != nil)
	set("model", p.Model, p.Model != nil)
	set("year", p.Year, p.Year != nil)
	set("description", p.Description, p.Description != nil)
	set("vin", p.VIN, p.VIN != nil)
	set("driver", p.Driver, p.Driver != nil)
	set("license_plate", p.LicensePlate, p.LicensePlate != nil)
	set("tonnage", p.Tonnage, p.Tonnage != nil)
	set("fuel_type", p.FuelType, p.FuelType != nil)
	set("has_radio", p.HasRadio, p.HasRadio != nil)
	set("service_station", p.ServiceStation, p.ServiceStation != nil)
	set("sales_price", p.SalesPrice, p.SalesPrice != nil)
	set("coverage", p.Coverage, p.Coverage != nil)
	set("po_number", p.PONumber, p.PONumber != nil)
	set("title_number", p.TitleNumber, p.TitleNumber != nil)
	set("status", p.Status, p.Status != nil)
	set("assigned_to", p.AssignedTo, p.AssignedTo != nil)
	set("location", p.Location, p.Location != nil)
	set("acquisition_date", p.AcquisitionDate, p.AcquisitionDate != nil)
	set("acquisition_cost", p.AcquisitionCost, p.AcquisitionCost != nil)
	set("current_mileage", p.CurrentMileage, p.CurrentMileage != nil)
	set("last_service_date", p.LastServiceDate, p.LastServiceDate != nil)
	set("notes", p.Notes, p.Notes != nil)
	return u
}

// Update applies a partial update. A patch with no recognized fields fails
// with ErrNoFieldsToUpdate; a status change also writes a history row.
func (s *VehicleService) Update(id int64, patch VehiclePatch) (*models.Vehicle, error) {
	updates := patch.updates()
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	if patch.VehicleNumber != nil && *patch.VehicleNumber == "" {
		return nil, invalid("vehicle_number", "cannot be empty")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalid("status", "must be one of active, maintenance, out_of_service, retired")
	}

	var current models.Vehicle
	if err := s.db.First(&current, id).Error; err != nil {
		return nil, translateDBError("get vehicle", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Vehicle{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if patch.Status != nil && *patch.Status != current.Status {
			history := models.StatusHistory{
				VehicleID:     id,
				Status:        *patch.Status,
				Reason:        patch.StatusReason,
				EffectiveDate: models.DateOnly(time.Now()),
			}
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, translateDBError("update vehicle", err)
	}

	return s.Get(id)
}

// SoftDelete retires the vehicle, preserving all dependent data. It
// returns false when the id does not exist.
func (s *VehicleService) SoftDelete(id int64, reason *string) (bool, error) {
	var v models.Vehicle
	if err := s.db.First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, translateDBError("get vehicle", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Vehicle{}).Where("id = ?", id).
			Update("status", models.VehicleStatusRetired).Error; err != nil {
			return err
		}
		if v.Status == models.VehicleStatusRetired {
			return nil
		}
		history := models.StatusHistory{
			VehicleID:     id,
			Status:        models.VehicleStatusRetired,
			Reason:        reason,
			EffectiveDate: models.DateOnly(time.Now()),
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return false, translateDBError("soft delete vehicle", err)
	}
	return true, nil
}

// PermanentDelete hard-removes the vehicle and every dependent record as
// one transaction: documents, notes, maintenance items and status history
// by vehicle id, reports by the vehicle's current number (read inside the
// same transaction). Any failure rolls the whole cascade back. Attachment
// files are pruned best-effort only after the commit.
func (s *VehicleService) PermanentDelete(id int64) (bool, error) {
	found := true
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var v models.Vehicle
		if err := tx.First(&v, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				found = false
				return nil
			}
			return err
		}

		steps := []*gorm.DB{
			tx.Where("vehicle_id = ?", id).Delete(&models.Document{}),
			tx.Where("vehicle_id = ?", id).Delete(&models.VehicleNote{}),
			tx.Where("vehicle_id = ?", id).Delete(&models.MaintenanceItem{}),
			tx.Where("vehicle_id = ?", id).Delete(&models.StatusHistory{}),
			tx.Where("vehicle_number = ?", v.VehicleNumber).Delete(&models.Report{}),
			tx.Delete(&models.Vehicle{}, id),
		}
		for _, step := range steps {
			if step.Error != nil {
				return step.Error
			}
		}
		return nil
	})
	if err != nil {
		return false, translateDBError("permanently delete vehicle", err)
	}
	if !found {
		return false, nil
	}

	if s.files != nil {
		if err := s.files.RemoveVehicle(id); err != nil {
			s.log.Warn("failed to prune vehicle attachments",
				zap.Int64("vehicle_id", id), zap.Error(err))
		}
	}
	return true, nil
}

// VehicleSummary is the per-vehicle dashboard block: the record itself,
// dependent-record counts, the five most recent reports and the document
// spread by category.
type VehicleSummary struct {
	models.Vehicle
	Stats struct {
		ReportsCount             int64 `json:"reportsCount"`
		DocumentsCount           int64 `json:"documentsCount"`
		NotesCount               int64 `json:"notesCount"`
		MaintenanceCount         int64 `json:"maintenanceCount"`
		OverdueMaintenanceCount  int64 `json:"overdueMaintenanceCount"`
	} `json:"stats"`
	RecentReports       []models.Report  `json:"recentReports"`
	DocumentsByCategory map[string]int64 `json:"documentsByCategory"`
}

// Summary assembles the vehicle summary.
func (s *VehicleService) Summary(id int64) (*VehicleSummary, error) {
	v, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	out := &VehicleSummary{Vehicle: *v, DocumentsByCategory: map[string]int64{}}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&out.Stats.ReportsCount, s.db.Model(&models.Report{}).Where("vehicle_number = ?", v.VehicleNumber)},
		{&out.Stats.DocumentsCount, s.db.Model(&models.Document{}).Where("vehicle_id = ?", id)},
		{&out.Stats.NotesCount, s.db.Model(&models.VehicleNote{}).Where("vehicle_id = ?", id)},
		{&out.Stats.MaintenanceCount, s.db.Model(&models.MaintenanceItem{}).Where("vehicle_id = ?", id)},
		{&out.Stats.OverdueMaintenanceCount, s.db.Model(&models.MaintenanceItem{}).Where("vehicle_id = ? AND status = ?", id, models.MaintenanceStatusOverdue)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, translateDBError("vehicle summary", err)
		}
	}

	if err := s.db.Where("vehicle_number = ?", v.VehicleNumber).
		Order("inspection_date DESC").Limit(5).Find(&out.RecentReports).Error; err != nil {
		return nil, translateDBError("vehicle summary", err)
	}

	var byCategory []struct {
		Category string
		Count    int64
	}
	if err := s.db.Model(&models.Document{}).
		Select("category, COUNT(*) as count").
		Where("vehicle_id = ?", id).
		Group("category").Scan(&byCategory).Error; err != nil {
		return nil, translateDBError("vehicle summary", err)
	}
	for _, row := range byCategory {
		out.DocumentsByCategory[row.Category] = row.Count
	}

	return out, nil
}

// ReportsFor returns every report for a vehicle number, newest first.
func (s *VehicleService) ReportsFor(number string) ([]models.Report, error) {
	var reports []models.Report
	if err := s.db.Where("vehicle_number = ?", number).
		Order("inspection_date DESC").Find(&reports).Error; err != nil {
		return nil, translateDBError("vehicle reports", err)
	}
	return reports, nil
}

// TimelineEvent is one entry in a vehicle's merged history.
type TimelineEvent struct {
	ID     int64     `json:"id"`
	Type   string    `json:"type"` // report, document, note or status_change
	Date   time.Time `json:"date"`
	Title  string    `json:"title,omitempty"`
	Detail string    `json:"detail,omitempty"`
}

// Timeline merges reports, documents, notes and status changes into one
// list ordered by event date, most recent first.
func (s *VehicleService) Timeline(id int64) ([]TimelineEvent, error) {
	v, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	var events []TimelineEvent

	var reports []models.Report
	if err := s.db.Where("vehicle_number = ?", v.VehicleNumber).Find(&reports).Error; err != nil {
		return nil, translateDBError("vehicle timeline", err)
	}
	for _, r := range reports {
		detail := ""
		if r.Defects != nil {
			detail = *r.Defects
		}
		events = append(events, TimelineEvent{
			ID: r.ID, Type: "report", Date: r.InspectionDate.Time(),
			Title: r.InspectorName, Detail: detail,
		})
	}

	var docs []models.Document
	if err := s.db.Where("vehicle_id = ?", id).Find(&docs).Error; err != nil {
		return nil, translateDBError("vehicle timeline", err)
	}
	for _, d := range docs {
		events = append(events, TimelineEvent{
			ID: d.ID, Type: "document", Date: d.UploadDate,
			Title: d.Title, Detail: string(d.Category),
		})
	}

	var notes []models.VehicleNote
	if err := s.db.Where("vehicle_id = ?", id).Find(&notes).Error; err != nil {
		return nil, translateDBError("vehicle timeline", err)
	}
	for _, n := range notes {
		events = append(events, TimelineEvent{
			ID: n.ID, Type: "note", Date: n.CreatedAt,
			Title: n.Title, Detail: string(n.NoteType),
		})
	}

	var changes []models.StatusHistory
	if err := s.db.Where("vehicle_id = ?", id).Find(&changes).Error; err != nil {
		return nil, translateDBError("vehicle timeline", err)
	}
	for _, c := range changes {
		detail := ""
		if c.Reason != nil {
			detail = *c.Reason
		}
		events = append(events, TimelineEvent{
			ID: c.ID, Type: "status_change", Date: c.EffectiveDate.Time(),
			Title: string(c.Status), Detail: detail,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})
	return events, nil
}

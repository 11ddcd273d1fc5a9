package services

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"p9e.in/fleet/models"
)

// MaintenanceService owns the recurring maintenance schedule.
type MaintenanceService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewMaintenanceService(db *gorm.DB, log *zap.Logger) *MaintenanceService {
	if log == nil {
		log = zap.NewNop()
	}
	return &MaintenanceService{db: db, log: log}
}

// Create validates and stores a schedule entry against an existing vehicle.
func (s *MaintenanceService) Create(m *models.MaintenanceItem) (*models.MaintenanceItem, error) {
	if m.MaintenanceType == "" {
		return nil, invalid("maintenance_type", "is required")
	}
	if m.Status == "" {
		m.Status = models.MaintenanceStatusScheduled
	}
	if !m.Status.Valid() {
		return nil, invalid("status", "must be one of scheduled, due, overdue, completed")
	}
	if m.IntervalMiles != nil && *m.IntervalMiles <= 0 {
		return nil, invalid("interval_miles", "must be positive")
	}
	if m.IntervalDays != nil && *m.IntervalDays <= 0 {
		return nil, invalid("interval_days", "must be positive")
	}

	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, m.VehicleID).Error; err != nil {
		return nil, translateDBError("get vehicle", err)
	}

	if err := s.db.Create(m).Error; err != nil {
		return nil, translateDBError("create maintenance item", err)
	}
	return m, nil
}

// Get returns one schedule entry by id.
func (s *MaintenanceService) Get(id int64) (*models.MaintenanceItem, error) {
	var m models.MaintenanceItem
	if err := s.db.First(&m, id).Error; err != nil {
		return nil, translateDBError("get maintenance item", err)
	}
	return &m, nil
}

// ListForVehicle returns a vehicle's schedule, nearest due date first,
// optionally filtered by status.
func (s *MaintenanceService) ListForVehicle(vehicleID int64, status string) ([]models.MaintenanceItem, error) {
	q := s.db.Where("vehicle_id = ?", vehicleID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var items []models.MaintenanceItem
	if err := q.Order("next_due_date ASC, id ASC").Find(&items).Error; err != nil {
		return nil, translateDBError("list maintenance items", err)
	}
	return items, nil
}

// ListDue returns every entry across the fleet whose status is due or
// overdue, after first refreshing statuses against today's date.
func (s *MaintenanceService) ListDue() ([]models.MaintenanceItem, error) {
	if err := s.RefreshStatuses(); err != nil {
		return nil, err
	}
	var items []models.MaintenanceItem
	if err := s.db.
		Where("status IN ?", []models.MaintenanceStatus{models.MaintenanceStatusDue, models.MaintenanceStatusOverdue}).
		Order("next_due_date ASC, id ASC").Find(&items).Error; err != nil {
		return nil, translateDBError("list due maintenance", err)
	}
	return items, nil
}

// RefreshStatuses promotes scheduled entries to due once their next due
// date arrives and to overdue once it is past. Completed entries and
// entries without a due date are left alone.
func (s *MaintenanceService) RefreshStatuses() error {
	today := time.Now().Format("2006-01-02")

	if err := s.db.Model(&models.MaintenanceItem{}).
		Where("status IN ? AND next_due_date IS NOT NULL AND next_due_date < ?",
			[]models.MaintenanceStatus{models.MaintenanceStatusScheduled, models.MaintenanceStatusDue}, today).
		Update("status", models.MaintenanceStatusOverdue).Error; err != nil {
		return translateDBError("refresh maintenance statuses", err)
	}
	if err := s.db.Model(&models.MaintenanceItem{}).
		Where("status = ? AND next_due_date IS NOT NULL AND next_due_date = ?",
			models.MaintenanceStatusScheduled, today).
		Update("status", models.MaintenanceStatusDue).Error; err != nil {
		return translateDBError("refresh maintenance statuses", err)
	}
	return nil
}

// MaintenancePatch is the explicit set of mutable schedule fields.
type MaintenancePatch struct {
	MaintenanceType    *string                   `json:"maintenance_type"`
	IntervalMiles      *int                      `json:"interval_miles"`
	IntervalDays       *int                      `json:"interval_days"`
	LastServiceDate    *models.DateOnly          `json:"last_service_date"`
	LastServiceMileage *int                      `json:"last_service_mileage"`
	NextDueDate        *models.DateOnly          `json:"next_due_date"`
	NextDueMileage     *int                      `json:"next_due_mileage"`
	Status             *models.MaintenanceStatus `json:"status"`
	Notes              *string                   `json:"notes"`
}

func (p MaintenancePatch) updates() map[string]interface{} {
	u := map[string]interface{}{}
	set := func(col string, v interface{}, present bool) {
		if present {
			u[col] = v
		}
	}
	set("maintenance_type", p.MaintenanceType, p.MaintenanceType != nil)
	set("interval_miles", p.IntervalMiles, p.IntervalMiles != nil)
	set("interval_days", p.IntervalDays, p.IntervalDays != nil)
	set("last_service_date", p.LastServiceDate, p.LastServiceDate != nil)
	set("last_service_mileage", p.LastServiceMileage, p.LastServiceMileage != nil)
	set("next_due_date", p.NextDueDate, p.NextDueDate != nil)
	set("next_due_mileage", p.NextDueMileage, p.NextDueMileage != nil)
	set("status", p.Status, p.Status != nil)
	set("notes", p.Notes, p.Notes != nil)
	return u
}

// Update applies a partial schedule update.
func (s *MaintenanceService) Update(id int64, patch MaintenancePatch) (*models.MaintenanceItem, error) {
	updates := patch.updates()
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	if patch.MaintenanceType != nil && *patch.MaintenanceType == "" {
		return nil, invalid("maintenance_type", "cannot be empty")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, invalid("status", "must be one of scheduled, due, overdue, completed")
	}
	if patch.IntervalMiles != nil && *patch.IntervalMiles <= 0 {
		return nil, invalid("interval_miles", "must be positive")
	}
	if patch.IntervalDays != nil && *patch.IntervalDays <= 0 {
		return nil, invalid("interval_days", "must be positive")
	}

	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.MaintenanceItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, translateDBError("update maintenance item", err)
	}
	return s.Get(id)
}

// Complete marks an entry completed, records the service point, and when
// an interval is configured rolls the next due markers forward from it.
func (s *MaintenanceService) Complete(id int64, serviceDate models.DateOnly, serviceMileage *int) (*models.MaintenanceItem, error) {
	m, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if serviceDate.IsZero() {
		serviceDate = models.DateOnly(time.Now())
	}

	updates := map[string]interface{}{
		"status":            models.MaintenanceStatusCompleted,
		"last_service_date": serviceDate,
	}
	if serviceMileage != nil {
		updates["last_service_mileage"] = serviceMileage
	}
	if m.IntervalDays != nil {
		next := models.DateOnly(serviceDate.Time().AddDate(0, 0, *m.IntervalDays))
		updates["next_due_date"] = next
		updates["status"] = models.MaintenanceStatusScheduled
	}
	if m.IntervalMiles != nil && serviceMileage != nil {
		updates["next_due_mileage"] = *serviceMileage + *m.IntervalMiles
		updates["status"] = models.MaintenanceStatusScheduled
	}

	if err := s.db.Model(&models.MaintenanceItem{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, translateDBError("complete maintenance item", err)
	}
	return s.Get(id)
}

// Delete removes one schedule entry. It returns false when the id does not
// exist.
func (s *MaintenanceService) Delete(id int64) (bool, error) {
	res := s.db.Delete(&models.MaintenanceItem{}, id)
	if res.Error != nil {
		return false, translateDBError("delete maintenance item", res.Error)
	}
	return res.RowsAffected > 0, nil
}

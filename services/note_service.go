package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"p9e.in/fleet/models"
)

// NoteService owns free-text vehicle notes.
type NoteService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewNoteService(db *gorm.DB, log *zap.Logger) *NoteService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NoteService{db: db, log: log}
}

// Create validates and stores a note against an existing vehicle.
func (s *NoteService) Create(n *models.VehicleNote) (*models.VehicleNote, error) {
	if n.NoteType == "" {
		n.NoteType = models.NoteTypeGeneral
	}
	if !n.NoteType.Valid() {
		return nil, invalid("note_type", "must be one of general, maintenance, incident, assignment")
	}
	if n.Title == "" {
		return nil, invalid("title", "is required")
	}
	if n.Content == "" {
		return nil, invalid("content", "is required")
	}

	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, n.VehicleID).Error; err != nil {
		return nil, translateDBError("get vehicle", err)
	}

	if err := s.db.Create(n).Error; err != nil {
		return nil, translateDBError("create note", err)
	}
	return n, nil
}

// Get returns one note by id.
func (s *NoteService) Get(id int64) (*models.VehicleNote, error) {
	var n models.VehicleNote
	if err := s.db.First(&n, id).Error; err != nil {
		return nil, translateDBError("get note", err)
	}
	return &n, nil
}

// ListForVehicle returns a vehicle's notes, newest first, optionally
// filtered by type.
func (s *NoteService) ListForVehicle(vehicleID int64, noteType string) ([]models.VehicleNote, error) {
	q := s.db.Where("vehicle_id = ?", vehicleID)
	if noteType != "" {
		q = q.Where("note_type = ?", noteType)
	}
	var notes []models.VehicleNote
	if err := q.Order("created_at DESC, id DESC").Find(&notes).Error; err != nil {
		return nil, translateDBError("list notes", err)
	}
	return notes, nil
}

// NotePatch is the explicit set of mutable note fields.
type NotePatch struct {
	NoteType *models.NoteType `json:"note_type"`
	Title    *string          `json:"title"`
	Content  *string          `json:"content"`
}

func (p NotePatch) updates() map[string]interface{} {
	u := map[string]interface{}{}
	if p.NoteType != nil {
		u["note_type"] = p.NoteType
	}
	if p.Title != nil {
		u["title"] = p.Title
	}
	if p.Content != nil {
		u["content"] = p.Content
	}
	return u
}

// Update applies a partial note update.
func (s *NoteService) Update(id int64, patch NotePatch) (*models.VehicleNote, error) {
	updates := patch.updates()
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	if patch.NoteType != nil && !patch.NoteType.Valid() {
		return nil, invalid("note_type", "must be one of general, maintenance, incident, assignment")
	}
	if patch.Title != nil && *patch.Title == "" {
		return nil, invalid("title", "cannot be empty")
	}
	if patch.Content != nil && *patch.Content == "" {
		return nil, invalid("content", "cannot be empty")
	}

	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.VehicleNote{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, translateDBError("update note", err)
	}
	return s.Get(id)
}

// Delete removes one note. It returns false when the id does not exist.
func (s *NoteService) Delete(id int64) (bool, error) {
	res := s.db.Delete(&models.VehicleNote{}, id)
	if res.Error != nil {
		return false, translateDBError("delete note", res.Error)
	}
	return res.RowsAffected > 0, nil
}

package models

import "time"

// NoteType classifies a vehicle note.
type NoteType string

const (
	NoteTypeGeneral     NoteType = "general"
	NoteTypeMaintenance NoteType = "maintenance"
	NoteTypeIncident    NoteType = "incident"
	NoteTypeAssignment  NoteType = "assignment"
)

// Valid reports whether t is one of the known note types.
func (t NoteType) Valid() bool {
	switch t {
	case NoteTypeGeneral, NoteTypeMaintenance, NoteTypeIncident, NoteTypeAssignment:
		return true
	}
	return false
}

// VehicleNote is a free-text note attached to a vehicle.
type VehicleNote struct {
	ID        int64    `gorm:"primaryKey" json:"id"`
	VehicleID int64    `gorm:"column:vehicle_id;not null;index" json:"vehicle_id"`
	Vehicle   *Vehicle `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
	NoteType  NoteType `gorm:"column:note_type;size:20;not null;check:note_type IN ('general','maintenance','incident','assignment')" json:"note_type"`
	Title     string   `gorm:"column:title;not null" json:"title"`
	Content   string   `gorm:"column:content;not null" json:"content"`
	CreatedBy *string  `gorm:"column:created_by" json:"created_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (VehicleNote) TableName() string { return "vehicle_notes" }

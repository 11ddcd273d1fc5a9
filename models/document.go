package models

import (
	"time"

	"gorm.io/datatypes"
)

// DocumentCategory defines where an attachment is filed.
type DocumentCategory string

const (
	DocumentCategoryService    DocumentCategory = "service"
	DocumentCategoryInvoice    DocumentCategory = "invoice"
	DocumentCategoryOilTest    DocumentCategory = "oil_test"
	DocumentCategoryInspection DocumentCategory = "inspection"
	DocumentCategoryPhoto      DocumentCategory = "photo"
	DocumentCategoryOther      DocumentCategory = "other"
)

// DocumentCategories lists every valid category, in directory order.
var DocumentCategories = []DocumentCategory{
	DocumentCategoryService,
	DocumentCategoryInvoice,
	DocumentCategoryOilTest,
	DocumentCategoryInspection,
	DocumentCategoryPhoto,
	DocumentCategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c DocumentCategory) Valid() bool {
	for _, known := range DocumentCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Document is the metadata record for one stored attachment file. The file
// itself lives in the attachment store at FilePath, relative to the store
// root; exactly one Document row references each stored file.
type Document struct {
	ID          int64            `gorm:"primaryKey" json:"id"`
	VehicleID   int64            `gorm:"column:vehicle_id;not null;index" json:"vehicle_id"`
	Vehicle     *Vehicle         `gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE" json:"-"`
	Category    DocumentCategory `gorm:"column:category;size:20;not null;check:category IN ('service','invoice','oil_test','inspection','photo','other')" json:"category"`
	Title       string           `gorm:"column:title;not null" json:"title"`
	Description *string          `gorm:"column:description" json:"description"`

	FileName string `gorm:"column:file_name;not null" json:"file_name"`
	FilePath string `gorm:"column:file_path;not null" json:"file_path"`
	FileSize int64  `gorm:"column:file_size" json:"file_size"`
	FileType string `gorm:"column:file_type" json:"file_type"`

	UploadedBy   *string        `gorm:"column:uploaded_by" json:"uploaded_by"`
	UploadDate   time.Time      `gorm:"column:upload_date;autoCreateTime" json:"upload_date"`
	DocumentDate *DateOnly      `gorm:"column:document_date;type:date" json:"document_date"`
	Cost         *float64       `gorm:"column:cost" json:"cost"`
	Vendor       *string        `gorm:"column:vendor" json:"vendor"`
	Tags         *string        `gorm:"column:tags" json:"tags"`
	Metadata     datatypes.JSON `gorm:"column:metadata" json:"metadata"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Document) TableName() string { return "documents" }

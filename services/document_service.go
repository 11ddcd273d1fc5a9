package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"p9e.in/fleet/models"
	"p9e.in/fleet/storage"
)

var documentSortColumns = map[string]string{
	"id":            "id",
	"title":         "title",
	"category":      "category",
	"upload_date":   "upload_date",
	"document_date": "document_date",
	"file_size":     "file_size",
	"cost":          "cost",
}

// DocumentService owns attachment metadata and coordinates it with the
// file store. On create the file lands before the row; on delete the row
// goes before the file. Under either order a crash leaves at worst an
// orphan file, never a row pointing at nothing.
type DocumentService struct {
	db    *gorm.DB
	files *storage.Store
	log   *zap.Logger
}

func NewDocumentService(db *gorm.DB, files *storage.Store, log *zap.Logger) *DocumentService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DocumentService{db: db, files: files, log: log}
}

// CreateDocumentInput carries the metadata accompanying an upload.
type CreateDocumentInput struct {
	VehicleID    int64
	Category     models.DocumentCategory
	Title        string
	Description  *string
	UploadedBy   *string
	DocumentDate *models.DateOnly
	Cost         *float64
	Vendor       *string
	Tags         *string
}

// Create stores the uploaded file and then its metadata row. If the row
// insert fails the just-written file is removed again.
func (s *DocumentService) Create(in CreateDocumentInput, up storage.Upload) (*models.Document, error) {
	if !in.Category.Valid() {
		return nil, invalid("category", "must be one of service, invoice, oil_test, inspection, photo, other")
	}
	if in.Title == "" {
		return nil, invalid("title", "is required")
	}

	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, in.VehicleID).Error; err != nil {
		return nil, translateDBError("get vehicle", err)
	}

	saved, err := s.files.Save(in.VehicleID, string(in.Category), up)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrTooLarge):
			return nil, invalid("file", fmt.Sprintf("exceeds %d bytes", storage.MaxFileSize))
		case errors.Is(err, storage.ErrUnsupportedType):
			return nil, invalid("file", "type not allowed")
		default:
			return nil, &StorageError{Op: "save attachment", Err: err}
		}
	}

	doc := &models.Document{
		VehicleID:    in.VehicleID,
		Category:     in.Category,
		Title:        in.Title,
		Description:  in.Description,
		FileName:     up.OriginalName,
		FilePath:     saved.RelativePath,
		FileSize:     saved.Size,
		FileType:     saved.MimeType,
		UploadedBy:   in.UploadedBy,
		DocumentDate: in.DocumentDate,
		Cost:         in.Cost,
		Vendor:       in.Vendor,
		Tags:         in.Tags,
	}
	if err := s.db.Create(doc).Error; err != nil {
		if rmErr := s.files.Remove(saved.RelativePath); rmErr != nil {
			s.log.Warn("failed to remove orphaned attachment",
				zap.String("path", saved.RelativePath), zap.Error(rmErr))
		}
		return nil, translateDBError("create document", err)
	}
	return doc, nil
}

// Get returns one document by id.
func (s *DocumentService) Get(id int64) (*models.Document, error) {
	var d models.Document
	if err := s.db.First(&d, id).Error; err != nil {
		return nil, translateDBError("get document", err)
	}
	return &d, nil
}

// DocumentListOptions filters and sorts a vehicle's documents.
type DocumentListOptions struct {
	Category string
	Search   string
	SortBy   string
	Order    string
}

// ListForVehicle returns a vehicle's documents, default newest upload
// first.
func (s *DocumentService) ListForVehicle(vehicleID int64, opts DocumentListOptions) ([]models.Document, error) {
	q := s.db.Where("vehicle_id = ?", vehicleID)
	if opts.Category != "" {
		q = q.Where("category = ?", opts.Category)
	}
	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		q = q.Where("(title LIKE ? OR description LIKE ? OR vendor LIKE ? OR tags LIKE ?)",
			pattern, pattern, pattern, pattern)
	}

	col := sortColumn(documentSortColumns, opts.SortBy, "upload_date")
	dir := "DESC"
	if !sortDirection(opts.Order, true) {
		dir = "ASC"
	}

	var docs []models.Document
	if err := q.Order(fmt.Sprintf("%s %s, id %s", col, dir, dir)).Find(&docs).Error; err != nil {
		return nil, translateDBError("list documents", err)
	}
	return docs, nil
}

// DocumentPatch is the explicit set of mutable document metadata fields.
// The stored file itself is immutable; replace it by delete and re-upload.
type DocumentPatch struct {
	Category     *models.DocumentCategory `json:"category"`
	Title        *string                  `json:"title"`
	Description  *string                  `json:"description"`
	DocumentDate *models.DateOnly         `json:"document_date"`
	Cost         *float64                 `json:"cost"`
	Vendor       *string                  `json:"vendor"`
	Tags         *string                  `json:"tags"`
}

func (p DocumentPatch) updates() map[string]interface{} {
	u := map[string]interface{}{}
	set := func(col string, v interface{}, present bool) {
		if present {
			u[col] = v
		}
	}
	set("category", p.Category, p.Category != nil)
	set("title", p.Title, p.Title != nil)
	set("description", p.Description, p.Description != nil)
	set("document_date", p.DocumentDate, p.DocumentDate != nil)
	set("cost", p.Cost, p.Cost != nil)
	set("vendor", p.Vendor, p.Vendor != nil)
	set("tags", p.Tags, p.Tags != nil)
	return u
}

// Update applies a partial metadata update. Changing the category does not
// move the stored file; the row's file_path remains authoritative.
func (s *DocumentService) Update(id int64, patch DocumentPatch) (*models.Document, error) {
	updates := patch.updates()
	if len(updates) == 0 {
		return nil, ErrNoFieldsToUpdate
	}
	if patch.Category != nil && !patch.Category.Valid() {
		return nil, invalid("category", "must be one of service, invoice, oil_test, inspection, photo, other")
	}
	if patch.Title != nil && *patch.Title == "" {
		return nil, invalid("title", "cannot be empty")
	}

	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Document{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, translateDBError("update document", err)
	}
	return s.Get(id)
}

// Delete removes the metadata row and then the stored file. A file removal
// failure after the commit is logged and swallowed: the row is gone, so no
// metadata dangles.
func (s *DocumentService) Delete(id int64) (bool, error) {
	doc, err := s.Get(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.db.Delete(&models.Document{}, id).Error; err != nil {
		return false, translateDBError("delete document", err)
	}

	if err := s.files.Remove(doc.FilePath); err != nil {
		s.log.Warn("failed to remove attachment file",
			zap.String("path", doc.FilePath), zap.Error(err))
	}
	return true, nil
}

// DownloadPath resolves a document's file to an absolute path for serving.
func (s *DocumentService) DownloadPath(id int64) (string, *models.Document, error) {
	doc, err := s.Get(id)
	if err != nil {
		return "", nil, err
	}
	full, err := s.files.FullPath(doc.FilePath)
	if err != nil {
		return "", nil, &StorageError{Op: "resolve attachment", Err: err}
	}
	if !s.files.Exists(doc.FilePath) {
		return "", nil, ErrNotFound
	}
	return full, doc, nil
}

// DocumentStats summarizes a vehicle's attachments.
type DocumentStats struct {
	TotalCount int64            `json:"totalCount"`
	TotalSize  int64            `json:"totalSize"`
	ByCategory map[string]int64 `json:"byCategory"`
}

// Stats computes attachment counts and sizes for one vehicle.
func (s *DocumentService) Stats(vehicleID int64) (*DocumentStats, error) {
	out := &DocumentStats{ByCategory: map[string]int64{}}

	var rows []struct {
		Category string
		Count    int64
		Size     int64
	}
	if err := s.db.Model(&models.Document{}).
		Select("category, COUNT(*) as count, COALESCE(SUM(file_size), 0) as size").
		Where("vehicle_id = ?", vehicleID).
		Group("category").Scan(&rows).Error; err != nil {
		return nil, translateDBError("document stats", err)
	}
	for _, row := range rows {
		out.ByCategory[row.Category] = row.Count
		out.TotalCount += row.Count
		out.TotalSize += row.Size
	}
	return out, nil
}

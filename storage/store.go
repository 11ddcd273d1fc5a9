package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxFileSize is the largest accepted upload, in bytes.
const MaxFileSize = 10 << 20

// Store errors surfaced to the service layer.
var (
	// ErrTooLarge means the upload exceeds MaxFileSize.
	ErrTooLarge = errors.New("file exceeds maximum size")

	// ErrUnsupportedType means the mime type is outside the allow-list.
	ErrUnsupportedType = errors.New("file type not allowed")

	// ErrInvalidPath means a relative path escapes the store root.
	ErrInvalidPath = errors.New("path outside attachment root")
)

// allowedTypes is the accepted upload mime-type set: PDF, common images,
// Excel, Word, plain text and CSV.
var allowedTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
	"text/csv":   true,
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// Upload describes an incoming file already spooled to a temp location on
// the same filesystem as the store, so the final placement is one rename.
type Upload struct {
	TempPath     string
	OriginalName string
	ContentType  string
	Size         int64
}

// SavedFile describes a stored attachment.
type SavedFile struct {
	StoredName   string
	RelativePath string
	MimeType     string
	Size         int64
}

// Store is the file-backed attachment tree. Files live under
// <root>/vehicles/<vehicleId>/<category>/<timestamp>_<sanitizedName>; the
// metadata rows that reference them live in the record store.
type Store struct {
	root string
	log  *zap.Logger
}

// NewStore opens (and if necessary creates) the attachment tree at root.
func NewStore(root string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	for _, dir := range []string{root, filepath.Join(root, "vehicles"), filepath.Join(root, "tmp")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create attachment directory %s: %w", dir, err)
		}
	}
	return &Store{root: root, log: log}, nil
}

// Root returns the store's base directory.
func (s *Store) Root() string { return s.root }

// TempFile creates a spool file in the store's temp directory. Callers
// write the upload there and hand the path to Save, which renames it.
func (s *Store) TempFile() (*os.File, error) {
	name := fmt.Sprintf("upload-%s", uuid.New().String())
	return os.Create(filepath.Join(s.root, "tmp", name))
}

// Save validates the upload and moves it into final position. The rename
// is atomic with respect to the temp spool, so a partially written file is
// never visible at the final path.
func (s *Store) Save(vehicleID int64, category string, up Upload) (SavedFile, error) {
	if up.Size > MaxFileSize {
		return SavedFile{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, up.Size)
	}
	if !allowedTypes[up.ContentType] {
		return SavedFile{}, fmt.Errorf("%w: %s", ErrUnsupportedType, up.ContentType)
	}

	dir := filepath.Join(s.root, "vehicles", strconv.FormatInt(vehicleID, 10), category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return SavedFile{}, fmt.Errorf("create category directory: %w", err)
	}

	sanitized := sanitizeName(up.OriginalName)
	ts := time.Now().UnixMilli()
	var storedName string
	for {
		storedName = fmt.Sprintf("%d_%s", ts, sanitized)
		if _, err := os.Stat(filepath.Join(dir, storedName)); os.IsNotExist(err) {
			break
		}
		ts++
	}

	finalPath := filepath.Join(dir, storedName)
	if err := os.Rename(up.TempPath, finalPath); err != nil {
		return SavedFile{}, fmt.Errorf("move upload into place: %w", err)
	}

	rel := filepath.ToSlash(filepath.Join("vehicles", strconv.FormatInt(vehicleID, 10), category, storedName))
	return SavedFile{
		StoredName:   storedName,
		RelativePath: rel,
		MimeType:     up.ContentType,
		Size:         up.Size,
	}, nil
}

// Remove deletes a stored file, best effort. An already-absent file is not
// an error: the invariant is no metadata pointing nowhere, not a perfectly
// matching filesystem.
func (s *Store) Remove(relPath string) error {
	full, err := s.FullPath(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// RemoveVehicle prunes a vehicle's whole attachment subtree.
func (s *Store) RemoveVehicle(vehicleID int64) error {
	return os.RemoveAll(filepath.Join(s.root, "vehicles", strconv.FormatInt(vehicleID, 10)))
}

// FullPath resolves a stored relative path, rejecting traversal outside
// the root.
func (s *Store) FullPath(relPath string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, relPath)
	}
	return filepath.Join(s.root, clean), nil
}

// Open opens a stored file for reading.
func (s *Store) Open(relPath string) (*os.File, error) {
	full, err := s.FullPath(relPath)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Exists reports whether the stored file is present on disk.
func (s *Store) Exists(relPath string) bool {
	full, err := s.FullPath(relPath)
	if err != nil {
		return false
	}
	_, err = os.Stat(full)
	return err == nil
}

func sanitizeName(name string) string {
	base := filepath.Base(name)
	cleaned := unsafeChars.ReplaceAllString(base, "_")
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		cleaned = "file"
	}
	return cleaned
}

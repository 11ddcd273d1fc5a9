package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func spool(t *testing.T, s *Store, content string) string {
	t.Helper()
	f, err := s.TempFile()
	if err != nil {
		t.Fatalf("temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	f.Close()
	return f.Name()
}

func TestSaveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	tmp := spool(t, s, "hello")

	saved, err := s.Save(7, "invoice", Upload{
		TempPath:     tmp,
		OriginalName: "june invoice.pdf",
		ContentType:  "application/pdf",
		Size:         5,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if !strings.HasPrefix(saved.RelativePath, "vehicles/7/invoice/") {
		t.Errorf("relative path = %s, want vehicles/7/invoice/ prefix", saved.RelativePath)
	}
	if !strings.HasSuffix(saved.StoredName, "_june_invoice.pdf") {
		t.Errorf("stored name = %s, want sanitized suffix", saved.StoredName)
	}

	f, err := s.Open(saved.RelativePath)
	if err != nil {
		t.Fatalf("open saved: %v", err)
	}
	defer f.Close()
	data := make([]byte, 5)
	if _, err := f.Read(data); err != nil {
		t.Fatalf("read saved: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("content = %q, want hello", data)
	}

	// The spool file is gone after the rename.
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Fatal("spool file still present after save")
	}
}

func TestSaveRejectsOversize(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save(1, "other", Upload{
		TempPath:     spool(t, s, "x"),
		OriginalName: "big.pdf",
		ContentType:  "application/pdf",
		Size:         MaxFileSize + 1,
	})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestSaveRejectsUnknownType(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Save(1, "other", Upload{
		TempPath:     spool(t, s, "x"),
		OriginalName: "tool.exe",
		ContentType:  "application/x-msdownload",
		Size:         1,
	})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestSaveCollisionBumpsTimestamp(t *testing.T) {
	s := newTestStore(t)

	first, err := s.Save(1, "photo", Upload{
		TempPath: spool(t, s, "a"), OriginalName: "img.png", ContentType: "image/png", Size: 1,
	})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := s.Save(1, "photo", Upload{
		TempPath: spool(t, s, "b"), OriginalName: "img.png", ContentType: "image/png", Size: 1,
	})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first.RelativePath == second.RelativePath {
		t.Fatal("two saves of the same name landed on the same path")
	}
	if !s.Exists(first.RelativePath) || !s.Exists(second.RelativePath) {
		t.Fatal("one of the saved files is missing")
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report final.pdf", "report_final.pdf"},
		{"über-fileü.txt", "_ber-file_.txt"},
		{"../../etc/passwd", "passwd"},
		{"...", "file"},
		{"normal-v1.2.pdf", "normal-v1.2.pdf"},
	}
	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRemoveAbsentOK(t *testing.T) {
	s := newTestStore(t)
	if err := s.Remove("vehicles/1/other/nothing.pdf"); err != nil {
		t.Fatalf("remove absent = %v, want nil", err)
	}
}

func TestFullPathRejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	for _, bad := range []string{"../outside.txt", "../../etc/passwd", filepath.Join("..", "x")} {
		if _, err := s.FullPath(bad); !errors.Is(err, ErrInvalidPath) {
			t.Errorf("FullPath(%q) err = %v, want ErrInvalidPath", bad, err)
		}
	}
	if _, err := s.FullPath("vehicles/1/other/file.pdf"); err != nil {
		t.Errorf("FullPath(valid) err = %v, want nil", err)
	}
}

func TestRemoveVehicle(t *testing.T) {
	s := newTestStore(t)
	saved, err := s.Save(3, "photo", Upload{
		TempPath: spool(t, s, "x"), OriginalName: "img.png", ContentType: "image/png", Size: 1,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := s.RemoveVehicle(3); err != nil {
		t.Fatalf("remove vehicle: %v", err)
	}
	if s.Exists(saved.RelativePath) {
		t.Fatal("file survived vehicle subtree removal")
	}
}

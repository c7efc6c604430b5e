package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/campusguard/campusguard-backend/internal/models"
)

// makeFileHeader builds a *multipart.FileHeader the way Fiber would
// hand one to the service.
func makeFileHeader(t *testing.T, filename, mimetype string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", mimetype)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create form part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form part: %v", err)
	}
	writer.Close()

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("failed to parse form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	files := form.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected 1 file in form, got %d", len(files))
	}
	return files[0]
}

func TestSaveAttachment_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()

	reportSvc := NewReportService(db)
	report, err := reportSvc.Submit(context.Background(), "harassment", "high", "Screenshots attached", nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	svc := NewAttachmentService(db, dir, 1<<20)
	content := []byte("fake png bytes")
	file := makeFileHeader(t, "evidence.png", "image/png", content)

	attachment, err := svc.Save(context.Background(), report.TrackingID, file)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if attachment.Filename != "evidence.png" {
		t.Errorf("expected client filename preserved as metadata, got %q", attachment.Filename)
	}
	if attachment.StoredName == "" || attachment.StoredName == attachment.Filename {
		t.Errorf("stored name must be server-generated, got %q", attachment.StoredName)
	}
	if attachment.Size != int64(len(content)) {
		t.Errorf("size: got %d, want %d", attachment.Size, len(content))
	}

	blob, err := os.ReadFile(filepath.Join(dir, attachment.StoredName))
	if err != nil {
		t.Fatalf("stored blob missing: %v", err)
	}
	if !bytes.Equal(blob, content) {
		t.Error("stored blob differs from upload")
	}

	listed, err := svc.ListForReport(context.Background(), report.TrackingID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != attachment.ID {
		t.Errorf("expected the saved attachment back, got %+v", listed)
	}
}

func TestSaveAttachment_UnknownReport(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttachmentService(db, t.TempDir(), 1<<20)

	file := makeFileHeader(t, "evidence.png", "image/png", []byte("x"))
	if _, err := svc.Save(context.Background(), "CG0000000000000000", file); err != ErrReportNotFound {
		t.Fatalf("expected ErrReportNotFound, got: %v", err)
	}
}

func TestSaveAttachment_TooLarge(t *testing.T) {
	db := setupTestDB(t)
	reportSvc := NewReportService(db)
	report, err := reportSvc.Submit(context.Background(), "other", "low", "Oversized upload", nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	svc := NewAttachmentService(db, t.TempDir(), 8)
	file := makeFileHeader(t, "big.png", "image/png", []byte("way more than eight bytes"))
	if _, err := svc.Save(context.Background(), report.TrackingID, file); err != ErrAttachmentTooLarge {
		t.Fatalf("expected ErrAttachmentTooLarge, got: %v", err)
	}

	var count int64
	db.Model(&models.Attachment{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no metadata row for rejected upload, got %d", count)
	}
}

func TestSaveAttachment_UnsupportedType(t *testing.T) {
	db := setupTestDB(t)
	reportSvc := NewReportService(db)
	report, err := reportSvc.Submit(context.Background(), "other", "low", "Executable upload", nil)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	svc := NewAttachmentService(db, t.TempDir(), 1<<20)
	file := makeFileHeader(t, "payload.exe", "application/x-msdownload", []byte("MZ"))
	if _, err := svc.Save(context.Background(), report.TrackingID, file); err != ErrUnsupportedFileType {
		t.Fatalf("expected ErrUnsupportedFileType, got: %v", err)
	}
}

func TestListAttachments_UnknownReport(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAttachmentService(db, t.TempDir(), 1<<20)

	if _, err := svc.ListForReport(context.Background(), "CG0000000000000000"); err != ErrReportNotFound {
		t.Fatalf("expected ErrReportNotFound, got: %v", err)
	}
}

package host

import (
	"context"
	"testing"

	"github.com/spf13/afero"
)

func TestReadDocumentReturnsBytesAndLastModified(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := NewHost(fs)
	if err := afero.WriteFile(fs, "doc.md", []byte("# Title\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	data, lastModified, err := h.ReadDocument(context.Background(), "doc.md")
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if string(data) != "# Title\n" {
		t.Errorf("got %q", data)
	}
	if lastModified == "" {
		t.Errorf("expected a non-empty LastModified marker")
	}
}

func TestReadDocumentMissingFileErrors(t *testing.T) {
	h := NewMemHost()
	_, _, err := h.ReadDocument(context.Background(), "missing.md")
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestApplyEditsWritesContent(t *testing.T) {
	h := NewMemHost()
	if err := h.ApplyEdits(context.Background(), "out.md", []byte("content\n")); err != nil {
		t.Fatalf("ApplyEdits: %v", err)
	}
	data, _, err := h.ReadDocument(context.Background(), "out.md")
	if err != nil {
		t.Fatalf("ReadDocument after write: %v", err)
	}
	if string(data) != "content\n" {
		t.Errorf("got %q", data)
	}
}

func TestLastModifiedChangesWithContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	h := NewHost(fs)
	afero.WriteFile(fs, "doc.md", []byte("v1"), 0o644)
	_, lm1, _ := h.ReadDocument(context.Background(), "doc.md")
	afero.WriteFile(fs, "doc.md", []byte("v2"), 0o644)
	_, lm2, _ := h.ReadDocument(context.Background(), "doc.md")
	if lm1 == lm2 {
		t.Errorf("expected LastModified to differ across distinct content")
	}
}

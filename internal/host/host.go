// Package host implements the filesystem collaborator the core never
// touches directly: "read document by path" and "apply atomic text edits".
// It is backed by afero.Fs so production code runs against
// the real filesystem and tests run against an in-memory one without any
// interface divergence.
package host

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

// Host is the facade's sole filesystem collaborator.
type Host interface {
	// ReadDocument returns a document's bytes and an opaque LastModified
	// marker combining content fingerprint and mtime.
	ReadDocument(ctx context.Context, path string) (data []byte, lastModified string, err error)

	// ApplyEdits writes newContent to path as a single atomic operation
	// from the caller's perspective; a returned error means no bytes were
	// written.
	ApplyEdits(ctx context.Context, path string, newContent []byte) error
}

// AferoHost is the concrete Host backed by an afero.Fs.
type AferoHost struct {
	fs afero.Fs
}

// NewHost wraps any afero.Fs as a Host.
func NewHost(fs afero.Fs) *AferoHost {
	return &AferoHost{fs: fs}
}

// NewOSHost returns a Host rooted at the real filesystem.
func NewOSHost() *AferoHost {
	return NewHost(afero.NewOsFs())
}

// NewMemHost returns a Host backed by an in-memory filesystem, for tests.
func NewMemHost() *AferoHost {
	return NewHost(afero.NewMemMapFs())
}

func (h *AferoHost) ReadDocument(ctx context.Context, path string) ([]byte, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", ctx.Err()
	default:
	}

	data, err := afero.ReadFile(h.fs, path)
	if err != nil {
		return nil, "", err
	}

	mtime := time.Time{}
	if info, statErr := h.fs.Stat(path); statErr == nil {
		mtime = info.ModTime()
	}
	lastModified := fmt.Sprintf("%016x-%d", xxhash.Sum64(data), mtime.UnixNano())
	return data, lastModified, nil
}

func (h *AferoHost) ApplyEdits(ctx context.Context, path string, newContent []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return afero.WriteFile(h.fs, path, newContent, 0o644)
}

// Fs exposes the underlying afero.Fs for callers that need to seed fixtures
// (tests) or perform workspace-level operations (CLI watch command).
func (h *AferoHost) Fs() afero.Fs {
	return h.fs
}

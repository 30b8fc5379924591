package engine

import (
	"fmt"

	"structdoc/internal/edit"
)

// PathError is a pre-parse, batch-scoped failure: the target path could not
// be resolved or was rejected as unsafe.
type PathError struct {
	Kind    edit.ErrorKind
	Message string
}

func (e *PathError) Error() string { return e.Message }

func errUnsafePath(path string) error {
	return &PathError{Kind: edit.ErrUnsafePath, Message: fmt.Sprintf("unsafe path: %q", path)}
}

func errNoWorkspace() error {
	return &PathError{Kind: edit.ErrNoWorkspace, Message: "no project base directory or workspace root is known"}
}

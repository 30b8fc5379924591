package config

import "errors"

// ErrNoWorkspace is returned by ResolveBaseDir when neither a project base
// directory nor a workspace root is known.
var ErrNoWorkspace = errors.New("no workspace or project base directory known")

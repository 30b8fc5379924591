package engine

import (
	"path/filepath"
	"strings"

	"structdoc/internal/config"
)

// resolvePath turns targetFile into a usable absolute path: absolute paths
// are used as-is; relative paths resolve against the project base
// directory, falling back to the workspace root. ".." components and paths
// under a configured unsafe prefix are rejected.
func resolvePath(cfg *config.Config, targetFile string) (string, error) {
	if strings.Contains(filepath.ToSlash(targetFile), "..") {
		return "", errUnsafePath(targetFile)
	}

	var candidate string
	if filepath.IsAbs(targetFile) {
		candidate = targetFile
	} else {
		base, err := cfg.ResolveBaseDir()
		if err != nil {
			return "", errNoWorkspace()
		}
		candidate = filepath.Join(base, targetFile)
	}

	cleaned := filepath.Clean(candidate)
	for _, prefix := range cfg.Workspace.UnsafePrefixes {
		if cleaned == prefix || strings.HasPrefix(cleaned, prefix+string(filepath.Separator)) {
			return "", errUnsafePath(targetFile)
		}
	}
	return cleaned, nil
}

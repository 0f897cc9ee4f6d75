// Package workspace materializes generated projects into the working-directory tree.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/pagesmith/internal/types"
)

// licenseText is the fixed boilerplate written to every project.
const licenseText = "MIT License\n\nCopyright (c) 2025\n\nPermission is hereby granted..."

// Materialize writes the three-file project for a deployment under
// root/<projectID> and returns the project directory path.
//
// Creating an already-existing directory is not an error: a repeated
// (task, round) pair silently overwrites the previous project, and
// concurrent requests with the same identity race on the same
// directory with no mutual exclusion.
func Materialize(root, projectID, artifact string, req *types.DeployRequest) (string, error) {
	dir := filepath.Join(root, projectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create project dir %s: %w", dir, err)
	}

	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(artifact), 0o644); err != nil {
		return "", fmt.Errorf("failed to write index.html: %w", err)
	}

	readme := fmt.Sprintf("# %s\n\n%s\n\nAuto-generated for %s (Round %d).",
		req.Task, req.Brief, req.Email, req.Round)
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte(readme), 0o644); err != nil {
		return "", fmt.Errorf("failed to write README.md: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "LICENSE"), []byte(licenseText), 0o644); err != nil {
		return "", fmt.Errorf("failed to write LICENSE: %w", err)
	}

	return dir, nil
}

package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Workspace is a job-private scratch directory. Giving every job its own
// uuid-named directory eliminates temp-file collisions when several jobs run
// the same two-pass tool concurrently.
type Workspace struct {
	JobID string
	Dir   string
}

// NewWorkspace creates a job-scoped directory under root.
func NewWorkspace(root string) (Workspace, error) {
	id := uuid.NewString()
	dir := filepath.Join(root, "job-"+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Workspace{}, fmt.Errorf("create job workspace: %w", err)
	}
	return Workspace{JobID: id, Dir: dir}, nil
}

// Path returns the location of a private file inside the workspace.
func (w Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Cleanup removes the workspace. Called on every exit path.
func (w Workspace) Cleanup() {
	if strings.TrimSpace(w.Dir) == "" {
		return
	}
	_ = os.RemoveAll(w.Dir)
}

// ensureOutputDir creates the parent directory of an output path on demand
// so nested output structures work without caller setup.
func ensureOutputDir(outputPath string) error {
	dir := filepath.Dir(outputPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// sanitizeFileName strips characters that are unsafe in generated segment
// file names.
func sanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(b.String(), "_")
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ppiankov/specsynth/internal/model"
)

// DefaultOutDir is used when neither --out nor ISA_PHASE3_OUT is set
const DefaultOutDir = "docs/spec"

// ErrNoInputs is returned when no inputs directory can be determined
var ErrNoInputs = errors.New("no inputs path specified: use --inputs or ISA_PHASE3_INPUTS")

// UnsafeOutputPathError reports an output directory outside the repository root
type UnsafeOutputPathError struct {
	Out      string
	RepoRoot string
}

func (e *UnsafeOutputPathError) Error() string {
	return fmt.Sprintf("output path %s is outside repo root %s (use --allow-external-output to override)", e.Out, e.RepoRoot)
}

// DetectRepoRoot returns the nearest ancestor of dir containing .git, or dir itself
func DetectRepoRoot(dir string) string {
	current := dir
	for {
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return dir
		}
		current = parent
	}
}

// ResolveRepoRoot picks the explicit root, else detects one from workDir
func ResolveRepoRoot(explicit, workDir string) (string, error) {
	root := explicit
	if root == "" {
		root = DetectRepoRoot(workDir)
	}
	return resolve(root, workDir)
}

// ResolveOutput returns the absolute output directory without checking safety
func ResolveOutput(repoRoot, out string) (string, error) {
	if out == "" {
		out = DefaultOutDir
	}
	return resolve(out, repoRoot)
}

// ResolveInputs returns the absolute inputs directory. When explicit is
// empty the parent directory of input_artifacts.document_index is used.
func ResolveInputs(repoRoot, explicit string, cfg *model.RunConfig) (string, error) {
	inputs := explicit
	if inputs == "" && cfg != nil && cfg.InputArtifacts.DocumentIndex != "" {
		inputs = filepath.Dir(cfg.InputArtifacts.DocumentIndex)
	}
	if inputs == "" {
		return "", ErrNoInputs
	}
	return resolve(inputs, repoRoot)
}

// CheckOutput fails with UnsafeOutputPathError when out escapes repoRoot
// and allowExternal is false.
func CheckOutput(out, repoRoot string, allowExternal bool) error {
	if allowExternal || Within(out, repoRoot) {
		return nil
	}
	return &UnsafeOutputPathError{Out: out, RepoRoot: repoRoot}
}

// Within reports whether path is root or lies beneath it
func Within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	if rel == ".." || filepath.IsAbs(rel) {
		return false
	}
	return len(rel) < 3 || rel[:3] != ".."+string(filepath.Separator)
}

// resolve makes p absolute against base and follows symlinks on the
// longest existing prefix, so a not-yet-created output dir still resolves.
func resolve(p, base string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(base, p)
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", p, err)
	}

	existing := abs
	var rest []string
	for {
		if resolved, err := filepath.EvalSymlinks(existing); err == nil {
			parts := append([]string{resolved}, rest...)
			return filepath.Join(parts...), nil
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			return abs, nil
		}
		rest = append([]string{filepath.Base(existing)}, rest...)
		existing = parent
	}
}

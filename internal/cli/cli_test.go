package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func fixtureRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "inputs", "document_index.json"),
		`[{"path": "rules.md", "document_status": "NORMATIVE_CANDIDATE", "normative_intent": "explicit", "authority_candidate": false}]`)
	writeFile(t, filepath.Join(root, "inputs", "cluster_map.json"),
		`[{"cluster_name": "Quality Gates", "included_documents": ["rules.md"], "secondary_documents": [], "conflict_sets": []}]`)
	writeFile(t, filepath.Join(root, "inputs", "authority_candidates.json"), `[]`)
	writeFile(t, filepath.Join(root, "rules.md"), "## Gates\nEvery release MUST pass the IRON gate.\n")
	return root
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "specsynth "+Version+"\n", out)
}

func TestSynthConfigValidate(t *testing.T) {
	root := fixtureRepo(t)
	specDir := filepath.Join(root, "docs", "spec")

	out, err := execute(t, "config", "init", "--repo-root", root, "--out", "docs/spec")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Created default configuration")
	assert.FileExists(t, filepath.Join(specDir, "RUN_CONFIG.json"))

	_, err = execute(t, "config", "init", "--repo-root", root, "--out", "docs/spec")
	require.Error(t, err, "init refuses to overwrite")

	out, err = execute(t, "config", "show", "--repo-root", root, "--out", "docs/spec", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"max_core_sources_per_cluster": 15`)
	assert.Contains(t, out, `"version": "1.0"`)

	out, err = execute(t, "synth", "--repo-root", root, "--inputs", "inputs", "--out", "docs/spec")
	require.NoError(t, err)
	assert.Contains(t, out, "Processing: Quality Gates")
	assert.Contains(t, out, "  Created: quality-gates.md")
	assert.Contains(t, out, "Synthesis complete!")
	assert.NotContains(t, out, "FALLBACK")

	spec, err := os.ReadFile(filepath.Join(specDir, "quality-gates.md"))
	require.NoError(t, err)
	assert.Contains(t, string(spec), "**INV-1:** Every release MUST pass the IRON gate.")

	out, err = execute(t, "validate", specDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "VALIDATION PASSED")
}

func TestSynthRecordsRun(t *testing.T) {
	root := fixtureRepo(t)
	db := filepath.Join(t.TempDir(), "trace.db")

	out, err := execute(t, "synth", "--repo-root", root, "--inputs", "inputs", "--out", "docs/spec", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded run")
	assert.FileExists(t, db)

	_, err = execute(t, "synth", "--repo-root", root, "--inputs", "inputs", "--out", "docs/spec", "--db", "")
	require.NoError(t, err)
}

func TestHistoryCommand(t *testing.T) {
	root := fixtureRepo(t)
	db := filepath.Join(t.TempDir(), "trace.db")

	for i := 0; i < 2; i++ {
		_, err := execute(t, "synth", "--repo-root", root, "--inputs", "inputs", "--out", "docs/spec", "--db", db)
		require.NoError(t, err)
	}
	_, err := execute(t, "synth", "--repo-root", root, "--inputs", "inputs", "--out", "docs/spec", "--db", "")
	require.NoError(t, err)

	out, err := execute(t, "history", "--db", db, "--source", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Database: "+db)
	assert.Contains(t, out, "  Config mode: fallback\n")
	assert.Contains(t, out, "  Clusters: 1\n")
	assert.Contains(t, out, "  Claims: 1\n")
	assert.Contains(t, out, "  quality-gates.md: 1\n")
	assert.NotContains(t, out, "History of")

	out, err = execute(t, "history", "--db", db, "--source", "rules.md")
	require.NoError(t, err)
	assert.Contains(t, out, "History of rules.md:")
	assert.Equal(t, 2, strings.Count(out, ": 1 claims\n"), "one line per recorded run")

	_, err = execute(t, "history", "--db", filepath.Join(t.TempDir(), "none.db"), "--source", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database not found")
}

func TestSynthMissingInputs(t *testing.T) {
	root := t.TempDir()

	_, err := execute(t, "synth", "--repo-root", root, "--inputs", "nowhere", "--out", "docs/spec")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required input files")
	assert.NoDirExists(t, filepath.Join(root, "docs", "spec"))
}

func TestValidateFails(t *testing.T) {
	out, err := execute(t, "validate", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, out, "VALIDATION FAILED: 2 errors found")
	assert.Contains(t, out, "  - TRACEABILITY_MATRIX.csv not found")
}

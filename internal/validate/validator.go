// Package validate checks a generated spec directory before it is published.
package validate

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ppiankov/specsynth/internal/config"
	"github.com/ppiankov/specsynth/internal/report"
)

const (
	minCoreSourcesLimit = 5
	defaultWorkers      = 8
)

// Files that live in a spec directory but are not canonical specs
var reservedFiles = map[string]bool{
	report.MasterIndexFile:      true,
	report.ConflictRegisterFile: true,
	report.DeprecationMapFile:   true,
	"DECISION_LOG_PHASE3.md":    true,
	"README.md":                 true,
}

var requiredSections = []string{"Core Sources", "Invariants"}

var normativePattern = regexp.MustCompile(`\b(MUST|SHALL|INV-)\b`)

var requiredColumns = []string{"canonical_spec", "claim_id", "statement", "source_path"}

// ErrDirectoryNotFound is returned when the spec directory does not exist
var ErrDirectoryNotFound = errors.New("directory not found")

// Report lists every problem found in a spec directory
type Report struct {
	Dir       string
	SpecFiles int
	Errors    []string
}

// Passed reports whether no errors were found
func (r *Report) Passed() bool {
	return len(r.Errors) == 0
}

// Validator checks spec files concurrently
type Validator struct {
	maxWorkers int
}

// NewValidator creates a new validator
func NewValidator(maxWorkers int) *Validator {
	if maxWorkers <= 0 {
		maxWorkers = defaultWorkers
	}
	return &Validator{maxWorkers: maxWorkers}
}

// Validate checks every canonical spec, the traceability matrix and the
// run config in dir. Only a missing directory is returned as an error;
// everything else is collected in the report.
func (v *Validator) Validate(ctx context.Context, dir string) (*Report, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	specs, err := specFiles(dir)
	if err != nil {
		return nil, err
	}

	rep := &Report{Dir: dir, SpecFiles: len(specs)}
	for _, errs := range v.checkSpecs(ctx, specs) {
		rep.Errors = append(rep.Errors, errs...)
	}

	matrixPath := filepath.Join(dir, report.MatrixFile)
	if fileExists(matrixPath) {
		rep.Errors = append(rep.Errors, CheckMatrix(matrixPath)...)
	} else {
		rep.Errors = append(rep.Errors, report.MatrixFile+" not found")
	}

	configPath := filepath.Join(dir, config.DefaultFilename)
	if fileExists(configPath) {
		rep.Errors = append(rep.Errors, CheckRunConfig(configPath)...)
	} else {
		rep.Errors = append(rep.Errors, config.DefaultFilename+" not found")
	}

	return rep, nil
}

// checkSpecs checks spec files concurrently; results keep the order of paths
func (v *Validator) checkSpecs(ctx context.Context, paths []string) [][]string {
	results := make([][]string, len(paths))
	var wg sync.WaitGroup

	semaphore := make(chan struct{}, v.maxWorkers)

	for i, p := range paths {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = []string{fmt.Sprintf("%s: %v", filepath.Base(path), ctx.Err())}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = CheckSpec(path)
		}(i, p)
	}

	wg.Wait()
	return results
}

// specFiles lists the canonical spec files of dir, sorted by name
func specFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("list spec files: %w", err)
	}

	var specs []string
	for _, m := range matches {
		if reservedFiles[filepath.Base(m)] {
			continue
		}
		specs = append(specs, m)
	}
	return specs, nil
}

// CheckSpec checks that a canonical spec has its required sections and
// at least one normative statement.
func CheckSpec(path string) []string {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", name, err)}
	}
	content := string(data)

	var errs []string
	for _, section := range requiredSections {
		if !strings.Contains(content, section) {
			errs = append(errs, fmt.Sprintf("%s: Missing required section '%s'", name, section))
		}
	}
	if !normativePattern.MatchString(content) {
		errs = append(errs, fmt.Sprintf("%s: No MUST/SHALL/INV statements found", name))
	}
	return errs
}

// CheckMatrix checks the traceability matrix columns and rows. Either
// "status" or "trace_status" is accepted as the status column.
func CheckMatrix(path string) []string {
	name := report.MatrixFile

	f, err := os.Open(path)
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", name, err)}
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return []string{name + ": Empty file"}
	}
	if err != nil {
		return []string{fmt.Sprintf("%s: Invalid CSV - %v", name, err)}
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	columns := make(map[string]int, len(header))
	for i, col := range header {
		if _, ok := columns[col]; !ok {
			columns[col] = i
		}
	}

	records, err := r.ReadAll()
	if err != nil {
		return []string{fmt.Sprintf("%s: Invalid CSV - %v", name, err)}
	}
	if len(records) == 0 {
		return []string{name + ": Empty file"}
	}

	var errs []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			errs = append(errs, fmt.Sprintf("%s: Missing required column '%s'", name, col))
		}
	}

	field := func(rec []string, col string) string {
		i, ok := columns[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return rec[i]
	}

	statusCol := ""
	if _, ok := columns["status"]; ok {
		statusCol = "status"
	} else if _, ok := columns["trace_status"]; ok {
		statusCol = "trace_status"
	}

	if statusCol == "" {
		errs = append(errs, name+": Missing 'status' or 'trace_status' column for traceability verification")
	} else {
		untraceable := 0
		for _, rec := range records {
			if field(rec, statusCol) == "untraceable" {
				untraceable++
			}
		}
		if untraceable > 0 {
			errs = append(errs, fmt.Sprintf("%s: %d untraceable claims", name, untraceable))
		}
	}

	emptySources := 0
	for _, rec := range records {
		if field(rec, "source_path") == "" {
			emptySources++
		}
	}
	if emptySources > 0 {
		errs = append(errs, fmt.Sprintf("%s: %d claims without source_path", name, emptySources))
	}

	return errs
}

// CheckRunConfig checks that RUN_CONFIG.json parses and has sane limits
func CheckRunConfig(path string) []string {
	name := config.DefaultFilename

	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("%s: %v", name, err)}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{fmt.Sprintf("%s: Invalid JSON - %v", name, err)}
	}

	var errs []string
	for _, field := range []string{"version", "configuration"} {
		if _, ok := raw[field]; !ok {
			errs = append(errs, fmt.Sprintf("%s: Missing required field '%s'", name, field))
		}
	}

	if cfgRaw, ok := raw["configuration"]; ok {
		var limits struct {
			MaxCoreSources *float64 `json:"max_core_sources_per_cluster"`
		}
		if err := json.Unmarshal(cfgRaw, &limits); err != nil {
			errs = append(errs, fmt.Sprintf("%s: Invalid configuration - %v", name, err))
		} else if limits.MaxCoreSources == nil || *limits.MaxCoreSources < minCoreSourcesLimit {
			errs = append(errs, fmt.Sprintf("%s: max_core_sources_per_cluster should be >= %d", name, minCoreSourcesLimit))
		}
	}

	return errs
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

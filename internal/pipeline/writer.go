package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppiankov/specsynth/internal/config"
	"github.com/ppiankov/specsynth/internal/report"
)

// Write creates outDir and overwrites every output file of res. It
// returns the written filenames in write order.
func Write(outDir string, res *Result, progress io.Writer) ([]string, error) {
	if progress == nil {
		progress = io.Discard
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	var written []string
	write := func(name string, data []byte) error {
		path := filepath.Join(outDir, name)
		if !config.Within(path, outDir) {
			return fmt.Errorf("output file %s escapes %s", name, outDir)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		written = append(written, name)
		fmt.Fprintf(progress, "  Created: %s\n", name)
		return nil
	}

	for _, c := range res.Clusters {
		if err := write(c.Spec.Filename, []byte(c.Spec.Body)); err != nil {
			return written, err
		}
	}

	fmt.Fprintln(progress, "\nGenerating global artifacts...")

	if err := write(report.MasterIndexFile, []byte(res.MasterIndex)); err != nil {
		return written, err
	}

	var matrix bytes.Buffer
	if err := report.WriteMatrix(&matrix, res.Rows); err != nil {
		return written, err
	}
	if err := write(report.MatrixFile, matrix.Bytes()); err != nil {
		return written, err
	}

	if err := write(report.ConflictRegisterFile, []byte(res.ConflictRegister)); err != nil {
		return written, err
	}
	if err := write(report.DeprecationMapFile, []byte(res.DeprecationMap)); err != nil {
		return written, err
	}

	return written, nil
}

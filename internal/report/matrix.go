package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ppiankov/specsynth/internal/model"
)

// WriteMatrix writes the traceability matrix as CSV with a header row.
// Lines end in CRLF.
func WriteMatrix(w io.Writer, rows []model.TraceabilityRow) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(model.TraceabilityColumns); err != nil {
		return fmt.Errorf("write matrix header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return fmt.Errorf("write matrix row %s: %w", r.ClaimID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/stratus-wx/stratus/internal/contract"
	"github.com/stratus-wx/stratus/schema"
)

// PrintRuns outputs persisted run records, dispatching based on the output
// format configured.
func PrintRuns(cfg *contract.Config, runs []contract.RunRecord) error {
	fmtFloat := createFloatFormatter(3)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsCSV(w, runs, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only supported for the forecast command")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsTable(w, cfg, runs, fmtFloat)
		}, "Wrote table")
	}
}

// writeRunsTable generates and writes the human-readable table.
func writeRunsTable(w io.Writer, cfg *contract.Config, runs []contract.RunRecord, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Created", "Lat", "Lon", "Sources", "Points", "Agreement", "Label"})

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range runs {
		data = append(data, []string{
			shortID(r.ID),
			r.CreatedAt.UTC().Format("Jan 02 15:04"),
			fmt.Sprintf("%.2f", r.Latitude),
			fmt.Sprintf("%.2f", r.Longitude),
			r.Sources,
			strconv.Itoa(r.PointCount),
			fmtFloat(r.Agreement),
			labelFor(cfg, r.Agreement),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "\n%d run(s)\n", len(runs))
	return nil
}

// shortID truncates a UUID for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// writeRunsCSV emits one row per run record.
func writeRunsCSV(w io.Writer, runs []contract.RunRecord, fmtFloat func(float64) string) error {
	header := []string{"id", "created_at", "latitude", "longitude", "as_of", "sources", "points", "agreement", "duration_ms"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range runs {
			row := []string{
				r.ID,
				r.CreatedAt.UTC().Format(time.RFC3339),
				strconv.FormatFloat(r.Latitude, 'f', 4, 64),
				strconv.FormatFloat(r.Longitude, 'f', 4, 64),
				r.AsOf.UTC().Format(time.RFC3339),
				r.Sources,
				strconv.Itoa(r.PointCount),
				fmtFloat(r.Agreement),
				strconv.FormatInt(r.Duration.Milliseconds(), 10),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

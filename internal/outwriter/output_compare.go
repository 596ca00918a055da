package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/stratus-wx/stratus/internal/contract"
	"github.com/stratus-wx/stratus/schema"
)

// PrintCompare outputs the per-source comparison, dispatching based on the
// output format configured.
func PrintCompare(cfg *contract.Config, res schema.CompareResult) error {
	fmtFloat := createFloatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, res)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCompareCSV(w, res, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only supported for the forecast command")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCompareTable(w, cfg, res, fmtFloat)
		}, "Wrote table")
	}
}

// writeCompareTable prints source temperatures side by side with the
// per-instant agreement, the headline comparison view.
func writeCompareTable(w io.Writer, cfg *contract.Config, res schema.CompareResult, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Time"}
	for _, s := range res.Series {
		headers = append(headers, s.SourceID+" °C")
	}
	headers = append(headers, "Agree")
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, pt := range res.Agreement.Points {
		row := []string{pt.Time.UTC().Format("Jan 02 15:04")}
		for _, s := range res.Series {
			cell := "-"
			for _, obs := range s.Observations {
				if obs.Time.Equal(pt.Time) {
					if v, ok := obs.Value(schema.TemperatureC); ok {
						cell = fmtFloat(v)
					}
					break
				}
			}
			row = append(row, cell)
		}
		if score, ok := pt.Scores[schema.TemperatureC]; ok && pt.Counts[schema.TemperatureC] >= 2 {
			row = append(row, labelFor(cfg, score))
		} else {
			row = append(row, "-")
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nSources: %s | Agreement: %s (%.3f over %d cells)\n",
		strings.Join(res.Agreement.Sources, ", "),
		labelFor(cfg, res.Agreement.Aggregate), res.Agreement.Aggregate, res.Agreement.ScoredPairs)
	for _, f := range res.Failures {
		fmt.Fprintf(w, "Source %s failed: %s\n", f.SourceID, f.Message)
	}
	if res.Duration > 0 {
		fmt.Fprintf(w, "Compared in %s\n", res.Duration.Round(time.Millisecond))
	}
	return nil
}

// writeCompareCSV emits one row per (timestamp, source, parameter) value.
func writeCompareCSV(w io.Writer, res schema.CompareResult, fmtFloat func(float64) string) error {
	header := []string{"time", "source", "parameter", "value", "agreement", "contributors"}
	scoreByTime := make(map[int64]schema.AgreementPoint, len(res.Agreement.Points))
	for _, pt := range res.Agreement.Points {
		scoreByTime[pt.Time.Unix()] = pt
	}

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range res.Series {
			for _, obs := range s.Observations {
				pt := scoreByTime[obs.Time.Unix()]
				for _, p := range schema.AllParameters {
					v, ok := obs.Value(p)
					if !ok {
						continue
					}
					score := ""
					if sc, scored := pt.Scores[p]; scored && pt.Counts[p] >= 2 {
						score = fmtFloat(sc)
					}
					row := []string{
						obs.Time.UTC().Format(time.RFC3339),
						s.SourceID,
						string(p),
						fmtFloat(v),
						score,
						strconv.Itoa(pt.Counts[p]),
					}
					if err := cw.Write(row); err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}

package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/stratus-wx/stratus/internal/contract"
	"github.com/stratus-wx/stratus/schema"
)

// Segment markers for the timeline views.
const (
	historySegment  = "history"
	forecastSegment = "forecast"
)

// PrintTimeline outputs the merged past-and-future view, dispatching based
// on the output format configured.
func PrintTimeline(cfg *contract.Config, res schema.TimelineResult) error {
	fmtFloat := createFloatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, res)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTimelineCSV(w, res, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only supported for the forecast command")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTimelineTable(w, res, fmtFloat)
		}, "Wrote table")
	}
}

// segmentOf labels an observation by its side of the transition instant.
func segmentOf(tl schema.Timeline, t time.Time) string {
	if t.Before(tl.Transition) {
		return historySegment
	}
	return forecastSegment
}

// writeTimelineTable generates and writes the human-readable table.
func writeTimelineTable(w io.Writer, res schema.TimelineResult, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Time", "Segment"}
	for _, p := range schema.AllParameters {
		headers = append(headers, parameterHeaders[p])
	}
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, obs := range res.Timeline.Observations {
		row := []string{
			obs.Time.UTC().Format("Jan 02 15:04"),
			segmentOf(res.Timeline, obs.Time),
		}
		for _, p := range schema.AllParameters {
			if v, ok := obs.Value(p); ok {
				row = append(row, fmtFloat(v))
			} else {
				row = append(row, "-")
			}
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	tl := res.Timeline
	fmt.Fprintf(w, "\nLocation: %.4f, %.4f | Transition: %s | %s -> %s\n",
		tl.Latitude, tl.Longitude, tl.Transition.UTC().Format(time.RFC3339),
		tl.HistoricalID, tl.ForecastID)
	fmt.Fprintf(w, "Observations: %d (%d history, %d forecast)\n",
		len(tl.Observations), tl.ForecastStart(), len(tl.Observations)-tl.ForecastStart())
	if res.Duration > 0 {
		fmt.Fprintf(w, "Assembled in %s\n", res.Duration.Round(time.Millisecond))
	}
	return nil
}

// writeTimelineCSV emits one row per (timestamp, parameter) value.
func writeTimelineCSV(w io.Writer, res schema.TimelineResult, fmtFloat func(float64) string) error {
	header := []string{"time", "segment", "parameter", "value"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, obs := range res.Timeline.Observations {
			for _, p := range schema.AllParameters {
				v, ok := obs.Value(p)
				if !ok {
					continue
				}
				row := []string{
					obs.Time.UTC().Format(time.RFC3339),
					segmentOf(res.Timeline, obs.Time),
					string(p),
					fmtFloat(v),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/stratus-wx/stratus/internal/contract"
	"github.com/stratus-wx/stratus/internal/parquet"
	"github.com/stratus-wx/stratus/schema"
)

// parameterHeaders maps the canonical vocabulary to table column names.
var parameterHeaders = map[schema.Parameter]string{
	schema.TemperatureC:    "Temp °C",
	schema.HumidityPct:     "Hum %",
	schema.WindSpeedMS:     "Wind m/s",
	schema.WindDirDeg:      "Dir °",
	schema.PressureHPa:     "Press hPa",
	schema.PrecipitationMM: "Precip mm",
}

// visibleParameters trims the table columns on narrow terminals. File and
// machine-readable outputs always carry the full vocabulary.
func visibleParameters(cfg *contract.Config) []schema.Parameter {
	if getTerminalWidth(cfg) < 100 {
		return []schema.Parameter{schema.TemperatureC, schema.WindSpeedMS, schema.PrecipitationMM}
	}
	return schema.AllParameters
}

// PrintForecast outputs the ensemble result, dispatching based on the
// output format configured.
func PrintForecast(cfg *contract.Config, res schema.ForecastResult) error {
	fmtFloat := createFloatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, res)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastCSV(w, res, fmtFloat)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return parquet.WriteForecastFile(cfg.OutputFile, res)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeForecastTable(w, cfg, res, fmtFloat)
		}, "Wrote table")
	}
}

// writeForecastTable generates and writes the human-readable table.
func writeForecastTable(w io.Writer, cfg *contract.Config, res schema.ForecastResult, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)

	params := visibleParameters(cfg)
	headers := []string{"Time"}
	for _, p := range params {
		headers = append(headers, parameterHeaders[p])
	}
	headers = append(headers, "Agree")
	table.Header(headers)

	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	scoreByTime := make(map[int64]schema.AgreementPoint, len(res.Agreement.Points))
	for _, pt := range res.Agreement.Points {
		scoreByTime[pt.Time.Unix()] = pt
	}

	var data [][]string
	for _, obs := range res.Ensemble.Observations {
		row := []string{obs.Time.UTC().Format("Jan 02 15:04")}
		for _, p := range params {
			est, ok := obs.Values[p]
			if !ok {
				row = append(row, "-")
				continue
			}
			cell := fmtFloat(est.Mean)
			if est.Count > 1 {
				cell += " ±" + fmtFloat(math.Sqrt(est.Variance))
			}
			row = append(row, cell)
		}
		row = append(row, rowAgreementLabel(cfg, scoreByTime[obs.Time.Unix()]))
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	writeForecastSummary(w, cfg, res)
	return nil
}

// rowAgreementLabel averages the multi-contributor scores at one instant.
func rowAgreementLabel(cfg *contract.Config, pt schema.AgreementPoint) string {
	var sum float64
	var n int
	for p, score := range pt.Scores {
		if pt.Counts[p] >= 2 {
			sum += score
			n++
		}
	}
	if n == 0 {
		return "-"
	}
	return labelFor(cfg, sum/float64(n))
}

// writeForecastSummary prints the trailing run statistics.
func writeForecastSummary(w io.Writer, cfg *contract.Config, res schema.ForecastResult) {
	fmt.Fprintf(w, "\nLocation: %.4f, %.4f | Window: %s .. %s @ %s\n",
		res.Latitude, res.Longitude,
		res.Grid.Start.UTC().Format(time.RFC3339), res.Grid.End.UTC().Format(time.RFC3339), res.Grid.Step)
	fmt.Fprintf(w, "Sources: %s | Agreement: %s (%.3f over %d cells)\n",
		strings.Join(res.Ensemble.Sources, ", "),
		labelFor(cfg, res.Agreement.Aggregate), res.Agreement.Aggregate, res.Agreement.ScoredPairs)
	for _, f := range res.Failures {
		fmt.Fprintf(w, "Source %s failed: %s\n", f.SourceID, f.Message)
	}
	if len(res.Warnings) > 0 {
		fmt.Fprintf(w, "Validation warnings: %d (first: %s %s=%v, %s)\n",
			len(res.Warnings), res.Warnings[0].SourceID, res.Warnings[0].Field,
			res.Warnings[0].Value, res.Warnings[0].Reason)
	}
	if res.RunID != "" {
		fmt.Fprintf(w, "Run %s completed in %s\n", res.RunID, res.Duration.Round(time.Millisecond))
	}
}

// writeForecastCSV emits one row per (timestamp, parameter) estimate.
func writeForecastCSV(w io.Writer, res schema.ForecastResult, fmtFloat func(float64) string) error {
	header := []string{"time", "parameter", "mean", "variance", "count"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, obs := range res.Ensemble.Observations {
			for _, p := range schema.AllParameters {
				est, ok := obs.Values[p]
				if !ok {
					continue
				}
				row := []string{
					obs.Time.UTC().Format(time.RFC3339),
					string(p),
					fmtFloat(est.Mean),
					fmtFloat(est.Variance),
					strconv.Itoa(est.Count),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Package contract has the runtime configuration and shared plumbing that
// the command layer, the core and the stores all depend on.
package contract

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/stratus-wx/stratus/schema"
)

// Default values for configuration.
const (
	DefaultLookBack    = 24 * time.Hour
	DefaultLookAhead   = 72 * time.Hour
	DefaultGridStep    = time.Hour
	DefaultMaxGap      = 6 * time.Hour
	DefaultPrecision   = 1
	MaxForecastHorizon = 16 * 24 * time.Hour
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// WeightsRawInput holds ensemble weight overrides from the YAML config file.
// Use float64 pointers so an absent field keeps the stock weight.
type WeightsRawInput struct {
	AIFS      *float64 `mapstructure:"aifs"`
	GraphCast *float64 `mapstructure:"graphcast"`
	Meteosat  *float64 `mapstructure:"meteosat"`
}

// RangeRawInput holds one plausibility bound override from the config file.
type RangeRawInput struct {
	Min *float64 `mapstructure:"min"`
	Max *float64 `mapstructure:"max"`
}

// PlausibilityRawInput holds plausibility overrides from the YAML config
// file, keyed by canonical parameter name.
type PlausibilityRawInput struct {
	Temperature   *RangeRawInput `mapstructure:"temperature_c"`
	Humidity      *RangeRawInput `mapstructure:"humidity_pct"`
	WindSpeed     *RangeRawInput `mapstructure:"wind_speed_ms"`
	WindDir       *RangeRawInput `mapstructure:"wind_dir_deg"`
	Pressure      *RangeRawInput `mapstructure:"pressure_hpa"`
	Precipitation *RangeRawInput `mapstructure:"precipitation_mm"`
}

// Config holds the runtime configuration for a harmonization run.
// This struct remains the "final, validated" config.
type Config struct {
	Latitude  float64
	Longitude float64
	AsOf      time.Time

	LookBack  time.Duration
	LookAhead time.Duration
	GridStep  time.Duration
	MaxGap    time.Duration

	Sources []string
	Offline bool
	Workers int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	StoreBackend   schema.StoreBackend
	StoreDBConnect string // Please use env var as this is plaintext

	// TimelineSource is the forecast source used for the merged timeline view.
	TimelineSource string
	// AlignMerged resamples the merged timeline onto the canonical grid.
	AlignMerged bool

	// Ensemble is the final weight mapping, computed from defaults + overrides.
	Ensemble schema.EnsembleConfig

	// Plausibility is the final bounds table, computed from defaults + overrides.
	Plausibility map[schema.Parameter]schema.ParamRange
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Latitude       float64 `mapstructure:"lat"`
	Longitude      float64 `mapstructure:"lon"`
	AsOf           string  `mapstructure:"as-of"`
	Back           string  `mapstructure:"back"`
	Ahead          string  `mapstructure:"ahead"`
	Step           string  `mapstructure:"step"`
	MaxGap         string  `mapstructure:"max-gap"`
	Sources        string  `mapstructure:"sources"`
	Offline        bool    `mapstructure:"offline"`
	Workers        int     `mapstructure:"workers"`
	Precision      int     `mapstructure:"precision"`
	Output         string  `mapstructure:"output"`
	OutputFile     string  `mapstructure:"output-file"`
	Width          int     `mapstructure:"width"`
	Color          string  `mapstructure:"color"`
	StoreBackend   string  `mapstructure:"store-backend"`
	StoreDBConnect string  `mapstructure:"store-db-connect"`

	// --- Fields from timelineCmd.Flags() ---
	ForecastSource string `mapstructure:"forecast-source"`
	Align          bool   `mapstructure:"align"`

	// --- Ensemble weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`

	// --- Plausibility bounds from config file ---
	Plausibility PlausibilityRawInput `mapstructure:"plausibility"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Sources != nil {
		clone.Sources = make([]string, len(c.Sources))
		copy(clone.Sources, c.Sources)
	}
	if c.Ensemble.Weights != nil {
		clone.Ensemble.Weights = make(map[string]float64, len(c.Ensemble.Weights))
		for id, w := range c.Ensemble.Weights {
			clone.Ensemble.Weights[id] = w
		}
	}
	if c.Plausibility != nil {
		clone.Plausibility = make(map[schema.Parameter]schema.ParamRange, len(c.Plausibility))
		for p, r := range c.Plausibility {
			clone.Plausibility[p] = r
		}
	}
	return &clone
}

// Grid derives the canonical time grid for this run's window, anchored at
// AsOf and truncated to whole steps.
func (c *Config) Grid() schema.Grid {
	anchor := c.AsOf.Truncate(c.GridStep)
	return schema.Grid{
		Start: anchor.Add(-c.LookBack.Truncate(c.GridStep)),
		End:   anchor.Add(c.LookAhead.Truncate(c.GridStep)),
		Step:  c.GridStep,
	}
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processWindow(cfg, input); err != nil {
		return err
	}
	if err := processSources(cfg, input); err != nil {
		return err
	}
	if err := processWeights(cfg, input); err != nil {
		return err
	}
	if err := processPlausibility(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-window fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Offline = input.Offline
	cfg.AlignMerged = input.Align

	// --- 1. Location ---
	if input.Latitude < -90 || input.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", input.Latitude)
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", input.Longitude)
	}
	cfg.Latitude = input.Latitude
	cfg.Longitude = input.Longitude

	// --- 2. Workers ---
	cfg.Workers = input.Workers
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	// --- 3. Precision ---
	cfg.Precision = input.Precision
	if cfg.Precision < 0 || cfg.Precision > 6 {
		return fmt.Errorf("precision %d out of range [0, 6]", input.Precision)
	}

	// --- 4. Output mode ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output mode '%s'. must be text, csv, json, parquet", input.Output)
	}

	// --- 5. Width and colors ---
	cfg.Width = input.Width
	if cfg.Width < 0 {
		return fmt.Errorf("width %d must be non-negative", input.Width)
	}
	useColors, err := ParseBoolString(input.Color, true)
	if err != nil {
		return fmt.Errorf("invalid color setting '%s': %w", input.Color, err)
	}
	cfg.UseColors = useColors

	return nil
}

// processWindow parses the as-of anchor and the look-back/look-ahead window.
func processWindow(cfg *Config, input *ConfigRawInput) error {
	cfg.AsOf = time.Now().UTC().Truncate(time.Second)
	if input.AsOf != "" {
		t, err := time.Parse(DateTimeFormat, input.AsOf)
		if err != nil {
			return fmt.Errorf("invalid as-of time '%s': %w", input.AsOf, err)
		}
		cfg.AsOf = t.UTC()
	}

	var err error
	if cfg.LookBack, err = parsePositiveDuration("back", input.Back, DefaultLookBack); err != nil {
		return err
	}
	if cfg.LookAhead, err = parsePositiveDuration("ahead", input.Ahead, DefaultLookAhead); err != nil {
		return err
	}
	if cfg.GridStep, err = parsePositiveDuration("step", input.Step, DefaultGridStep); err != nil {
		return err
	}
	if cfg.MaxGap, err = parsePositiveDuration("max-gap", input.MaxGap, DefaultMaxGap); err != nil {
		return err
	}

	if cfg.LookAhead > MaxForecastHorizon {
		return fmt.Errorf("ahead %s exceeds the maximum forecast horizon %s", cfg.LookAhead, MaxForecastHorizon)
	}
	if cfg.GridStep > cfg.LookBack+cfg.LookAhead {
		return fmt.Errorf("step %s larger than the whole window", cfg.GridStep)
	}
	return nil
}

// processSources parses the comma-separated source list.
func processSources(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.Sources) == "" {
		cfg.Sources = []string{schema.SourceAIFS, schema.SourceGraphCast, schema.SourceMeteosat}
	} else {
		seen := make(map[string]struct{})
		for _, raw := range strings.Split(input.Sources, ",") {
			id := strings.ToLower(strings.TrimSpace(raw))
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("duplicate source '%s'", id)
			}
			seen[id] = struct{}{}
			cfg.Sources = append(cfg.Sources, id)
		}
		if len(cfg.Sources) == 0 {
			return fmt.Errorf("no sources selected")
		}
		sort.Strings(cfg.Sources)
	}

	cfg.TimelineSource = strings.ToLower(strings.TrimSpace(input.ForecastSource))
	if cfg.TimelineSource == "" {
		cfg.TimelineSource = schema.SourceAIFS
	}
	return nil
}

// processWeights merges config-file weight overrides onto the stock weights.
func processWeights(cfg *Config, input *ConfigRawInput) error {
	weights := make(map[string]float64, len(schema.DefaultSourceWeights))
	for id, w := range schema.DefaultSourceWeights {
		weights[id] = w
	}
	overrides := map[string]*float64{
		schema.SourceAIFS:      input.Weights.AIFS,
		schema.SourceGraphCast: input.Weights.GraphCast,
		schema.SourceMeteosat:  input.Weights.Meteosat,
	}
	for id, w := range overrides {
		if w == nil {
			continue
		}
		if *w < 0 {
			return fmt.Errorf("weight for %s must be non-negative, got %v", id, *w)
		}
		weights[id] = *w
	}
	cfg.Ensemble = schema.EnsembleConfig{Weights: weights}
	if !cfg.Ensemble.HasPositiveWeight() {
		return fmt.Errorf("at least one ensemble weight must be positive")
	}
	return nil
}

// processPlausibility merges config-file bound overrides onto the stock table.
func processPlausibility(cfg *Config, input *ConfigRawInput) error {
	table := schema.DefaultPlausibility()
	overrides := map[schema.Parameter]*RangeRawInput{
		schema.TemperatureC:    input.Plausibility.Temperature,
		schema.HumidityPct:     input.Plausibility.Humidity,
		schema.WindSpeedMS:     input.Plausibility.WindSpeed,
		schema.WindDirDeg:      input.Plausibility.WindDir,
		schema.PressureHPa:     input.Plausibility.Pressure,
		schema.PrecipitationMM: input.Plausibility.Precipitation,
	}
	for p, o := range overrides {
		if o == nil {
			continue
		}
		r := table[p]
		if o.Min != nil {
			r.Min = *o.Min
		}
		if o.Max != nil {
			r.Max = *o.Max
		}
		if r.Max < r.Min {
			return fmt.Errorf("plausibility range for %s has max %v below min %v", p, r.Max, r.Min)
		}
		table[p] = r
	}
	cfg.Plausibility = table
	return nil
}

// validateBackendConfig validates the run store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.StoreBackend(strings.ToLower(input.StoreBackend))
	if cfg.StoreBackend == "" {
		cfg.StoreBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidStoreBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	return ValidateStoreConnectionString(cfg.StoreBackend, cfg.StoreDBConnect)
}

// ValidateStoreConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateStoreConnectionString(backend schema.StoreBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// parsePositiveDuration parses a flag value as a positive duration, with a
// fallback for the empty string.
func parsePositiveDuration(name, raw string, fallback time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration '%s': %w", name, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, raw)
	}
	return d, nil
}

package schema

// Custom string types for type safety.
type (
	// Parameter is a canonical weather parameter name.
	Parameter string

	// SourceKind distinguishes observed history from model forecasts.
	SourceKind string

	// OutputMode represents the format of the output.
	OutputMode string

	// StoreBackend represents the database backend for run tracking.
	StoreBackend string
)

// Canonical parameter vocabulary. Normalization rejects anything else.
const (
	TemperatureC    Parameter = "temperature_c"
	HumidityPct     Parameter = "humidity_pct"
	WindSpeedMS     Parameter = "wind_speed_ms"
	WindDirDeg      Parameter = "wind_dir_deg"
	PressureHPa     Parameter = "pressure_hpa"
	PrecipitationMM Parameter = "precipitation_mm"
)

// AllParameters lists the vocabulary in stable display order.
var AllParameters = []Parameter{
	TemperatureC,
	HumidityPct,
	WindSpeedMS,
	WindDirDeg,
	PressureHPa,
	PrecipitationMM,
}

// ValidParameters lists the vocabulary for membership checks.
var ValidParameters = map[Parameter]struct{}{
	TemperatureC:    {},
	HumidityPct:     {},
	WindSpeedMS:     {},
	WindDirDeg:      {},
	PressureHPa:     {},
	PrecipitationMM: {},
}

// All source kinds supported.
const (
	HistoricalKind SourceKind = "historical"
	ForecastKind   SourceKind = "forecast"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     StoreBackend = "sqlite" // default
	MySQLBackend      StoreBackend = "mysql"
	PostgreSQLBackend StoreBackend = "postgresql"
	NoneBackend       StoreBackend = "none"
)

// Well-known source identifiers.
const (
	SourceAIFS      = "aifs"      // ECMWF AIFS AI forecast model
	SourceGraphCast = "graphcast" // GraphCast via the Open-Meteo API
	SourceMeteosat  = "meteosat"  // Meteosat satellite-derived observations
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[StoreBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// DefaultSourceWeights is the stock ensemble weighting: AIFS carries the
// most weight, GraphCast slightly less, satellite observations the rest.
var DefaultSourceWeights = map[string]float64{
	SourceAIFS:      0.40,
	SourceGraphCast: 0.35,
	SourceMeteosat:  0.25,
}

// ParamRange bounds the physically plausible values for one parameter.
type ParamRange struct {
	Min float64
	Max float64
}

// DefaultPlausibility returns the stock plausibility table. Values outside
// these bounds are replaced with missing during normalization.
func DefaultPlausibility() map[Parameter]ParamRange {
	return map[Parameter]ParamRange{
		TemperatureC:    {Min: -90, Max: 60},
		HumidityPct:     {Min: 0, Max: 100},
		WindSpeedMS:     {Min: 0, Max: 120},
		WindDirDeg:      {Min: 0, Max: 360},
		PressureHPa:     {Min: 850, Max: 1100},
		PrecipitationMM: {Min: 0, Max: 500},
	}
}

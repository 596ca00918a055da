package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// Agreement label constants.
const (
	StrongValue = "Strong" // Sources agree closely
	GoodValue   = "Good"   // Minor spread
	FairValue   = "Fair"   // Noticeable spread
	PoorValue   = "Poor"   // Sources diverge
)

// Color variables for console output.
var (
	StrongColor = color.New(color.FgGreen, color.Bold)
	GoodColor   = color.New(color.FgCyan)
	FairColor   = color.New(color.FgYellow)
	PoorColor   = color.New(color.FgRed, color.Bold)
)

// GetPlainLabel returns a plain text label for an agreement score in [0,1].
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 0.9:
		return StrongValue
	case score >= 0.75:
		return GoodValue
	case score >= 0.5:
		return FairValue
	default:
		return PoorValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case StrongValue:
		return StrongColor.Sprint(text)
	case GoodValue:
		return GoodColor.Sprint(text)
	case FairValue:
		return FairColor.Sprint(text)
	default: // "Poor"
		return PoorColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout on the empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ParseBoolString parses a tri-state flag value: empty means the fallback,
// anything else must be a boolean literal.
func ParseBoolString(raw string, fallback bool) (bool, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return strconv.ParseBool(strings.TrimSpace(raw))
}

// GetRunDBFilePath returns the path to the SQLite DB file for run storage.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".stratus_runs.db"
	}
	return filepath.Join(homeDir, ".stratus_runs.db")
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warning %s: %v\n", msg, err)
}

//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedStratusPath holds the path to a shared stratus binary built once for all tests.
	sharedStratusPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getStratusBinary returns the path to the stratus binary, building it once if needed.
func getStratusBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "stratus-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		stratusPath := filepath.Join(tempDir, "stratus")
		buildCmd := exec.Command("go", "build", "-o", stratusPath, "./cmd/stratus")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build stratus: %v\n%s", err, out))
		}

		sharedStratusPath = stratusPath
	})

	return sharedStratusPath
}

// runStratusCommand runs the shared binary with the given arguments.
func runStratusCommand(t *testing.T, args ...string) error {
	t.Helper()

	cmd := exec.Command(getStratusBinary(), args...)
	cmd.Env = os.Environ()
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("stratus %v output:\n%s", args, out)
	}
	return err
}

package calculation

import (
	"os"
	"testing"

	"github.com/GriffinCanCode/perfcalc/internal/strategy"
)

// Process-mode tests re-execute this binary as the worker.
func TestMain(m *testing.M) {
	strategy.ServeWorkerIfRequested()
	os.Exit(m.Run())
}

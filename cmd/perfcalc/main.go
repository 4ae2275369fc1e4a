package main

import (
	"fmt"
	"os"

	"github.com/GriffinCanCode/perfcalc/internal/strategy"
)

func main() {
	// Child processes of the multiprocessing strategy re-enter here.
	strategy.ServeWorkerIfRequested()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

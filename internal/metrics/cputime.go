//go:build unix

package metrics

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// processCPUTime returns user+system time consumed by this process and by
// all of its terminated, waited-for children.
func processCPUTime() (time.Duration, error) {
	var self, children unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &self); err != nil {
		return 0, fmt.Errorf("getrusage self: %w", err)
	}
	if err := unix.Getrusage(unix.RUSAGE_CHILDREN, &children); err != nil {
		return 0, fmt.Errorf("getrusage children: %w", err)
	}
	ns := self.Utime.Nano() + self.Stime.Nano() + children.Utime.Nano() + children.Stime.Nano()
	return time.Duration(ns), nil
}

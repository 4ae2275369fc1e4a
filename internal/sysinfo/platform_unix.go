//go:build unix

package sysinfo

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

// platformString formats uname as system-release-machine.
func platformString() string {
	var u unix.Utsname
	if err := unix.Uname(&u); err != nil {
		return runtime.GOOS + "-" + runtime.GOARCH
	}
	return fmt.Sprintf("%s-%s-%s",
		unix.ByteSliceToString(u.Sysname[:]),
		unix.ByteSliceToString(u.Release[:]),
		unix.ByteSliceToString(u.Machine[:]),
	)
}

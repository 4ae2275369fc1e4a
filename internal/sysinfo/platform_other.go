//go:build !unix

package sysinfo

import "runtime"

func platformString() string {
	return runtime.GOOS + "-" + runtime.GOARCH
}

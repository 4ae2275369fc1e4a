//go:build unix

package strategy

import (
	"errors"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

// assertReaped checks that no pid is still present in the process table,
// not even as a zombie.
func assertReaped(t *testing.T, pids []int) {
	t.Helper()
	for _, pid := range pids {
		err := syscall.Kill(pid, 0)
		assert.True(t, errors.Is(err, syscall.ESRCH), "pid %d still present: %v", pid, err)
	}
}

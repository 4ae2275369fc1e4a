package calculation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/perfcalc/internal/compute"
	"github.com/GriffinCanCode/perfcalc/internal/strategy"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		message string
		target  error
	}{
		{"lower below one", Request{0, 10, "sequential"}, "Lower bound must be >= 1", compute.ErrInvalidRange},
		{"unknown mode", Request{1, 10, "gpu"}, "Invalid processing mode", compute.ErrUnknownMode},
		{"empty mode", Request{1, 10, ""}, "Invalid processing mode", compute.ErrUnknownMode},
		{"upper equals lower", Request{5, 5, "threading"}, "Upper bound must be greater than lower bound", compute.ErrInvalidRange},
		{"upper below lower", Request{10, 2, "threading"}, "Upper bound must be greater than lower bound", compute.ErrInvalidRange},
		{"span too large", Request{1, 10_000_002, "multiprocessing"}, "Range too large. Maximum range is 10 million", ErrRangeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.req.Validate(DefaultMaxSpan)
			require.Error(t, err)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.message, verr.Message)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestRequestValidateAccepts(t *testing.T) {
	r, mode, err := Request{1, 10_000_001, "multiprocessing"}.Validate(DefaultMaxSpan)
	require.NoError(t, err)
	assert.Equal(t, compute.Range{Lower: 1, Upper: 10_000_001}, r)
	assert.Equal(t, strategy.ModeMultiprocessing, mode)

	// Zero disables the span limit
	_, _, err = Request{1, 50_000_000, "sequential"}.Validate(0)
	assert.NoError(t, err)
}

func TestFormatSpan(t *testing.T) {
	assert.Equal(t, "10 million", formatSpan(10_000_000))
	assert.Equal(t, "2500", formatSpan(2500))
}

package motion

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	seq, err := Interpolate(100, 160, 6)
	require.NoError(t, err)

	got := slices.Collect(seq)
	require.Len(t, got, 6)
	assert.InDeltaSlice(t, []float64{110, 120, 130, 140, 150, 160}, got, 1e-9)
	assert.Equal(t, 160.0, got[5])

	for i := 1; i < len(got); i++ {
		assert.Greater(t, got[i], got[i-1], "value %d not increasing", i)
	}
}

func TestInterpolate_EndIsExact(t *testing.T) {
	tests := []struct {
		start, end float64
		n          int
	}{
		{0.1, 0.7, 3},
		{175, 160, 7},
		{95.3, 120.1, 11},
		{42, 42, 4},
	}

	for _, tt := range tests {
		seq, err := Interpolate(tt.start, tt.end, tt.n)
		require.NoError(t, err)
		got := slices.Collect(seq)
		require.Len(t, got, tt.n)
		if got[len(got)-1] != tt.end {
			t.Errorf("Interpolate(%v, %v, %d) ends at %v, want %v", tt.start, tt.end, tt.n, got[len(got)-1], tt.end)
		}
	}
}

func TestInterpolate_Decreasing(t *testing.T) {
	seq, err := Interpolate(120, 95, 5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{115, 110, 105, 100, 95}, slices.Collect(seq), 1e-9)
}

func TestInterpolate_Restartable(t *testing.T) {
	seq, err := Interpolate(0, 10, 4)
	require.NoError(t, err)

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)
}

func TestInterpolate_EarlyBreak(t *testing.T) {
	seq, err := Interpolate(0, 10, 10)
	require.NoError(t, err)

	var got []float64
	for v := range seq {
		got = append(got, v)
		if len(got) == 3 {
			break
		}
	}
	assert.InDeltaSlice(t, []float64{1, 2, 3}, got, 1e-9)
}

func TestInterpolate_InvalidSteps(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		seq, err := Interpolate(100, 160, n)
		assert.ErrorIs(t, err, ErrInvalidSteps, "n=%d", n)
		assert.Nil(t, seq, "n=%d", n)
	}
}

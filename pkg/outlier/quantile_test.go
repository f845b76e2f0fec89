package outlier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 100}

	tests := []struct {
		name   string
		method Interpolation
		wantQ1 float64
		wantQ3 float64
	}{
		{name: "linear", method: Linear, wantQ1: 2.25, wantQ3: 4.75},
		{name: "lower", method: Lower, wantQ1: 2, wantQ3: 4},
		{name: "higher", method: Higher, wantQ1: 3, wantQ3: 5},
		{name: "midpoint", method: Midpoint, wantQ1: 2.5, wantQ3: 4.5},
		{name: "nearest", method: Nearest, wantQ1: 2, wantQ3: 5},
		{name: "empirical", method: Empirical, wantQ1: 2, wantQ3: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.wantQ1, Quantile(sorted, 0.25, tt.method), 1e-12)
			assert.InDelta(t, tt.wantQ3, Quantile(sorted, 0.75, tt.method), 1e-12)
		})
	}
}

func TestQuantile_Extremes(t *testing.T) {
	sorted := []float64{-3, 0, 7, 11}

	for _, m := range Interpolations() {
		t.Run(m.String(), func(t *testing.T) {
			assert.Equal(t, -3.0, Quantile(sorted, 0, m))
			assert.Equal(t, 11.0, Quantile(sorted, 1, m))
		})
	}
}

func TestQuantile_NearestTiesToEven(t *testing.T) {
	// n=5: p=0.125 gives h=0.5 (rounds to rank 0), p=0.375 gives h=1.5 (rounds to rank 2)
	sorted := []float64{10, 20, 30, 40, 50}
	assert.Equal(t, 10.0, Quantile(sorted, 0.125, Nearest))
	assert.Equal(t, 30.0, Quantile(sorted, 0.375, Nearest))
}

func TestQuantile_Invalid(t *testing.T) {
	assert.True(t, math.IsNaN(Quantile(nil, 0.5, Linear)))
	assert.True(t, math.IsNaN(Quantile([]float64{1, 2}, -0.1, Linear)))
	assert.True(t, math.IsNaN(Quantile([]float64{1, 2}, 1.1, Linear)))
	assert.True(t, math.IsNaN(Quantile([]float64{1, 2}, math.NaN(), Linear)))
	assert.Equal(t, 7.0, Quantile([]float64{7}, 0.9, Empirical))
}

func TestParseInterpolation(t *testing.T) {
	tests := []struct {
		in      string
		want    Interpolation
		wantErr bool
	}{
		{in: "linear", want: Linear},
		{in: "", want: Linear},
		{in: "LOWER", want: Lower},
		{in: " higher ", want: Higher},
		{in: "midpoint", want: Midpoint},
		{in: "nearest", want: Nearest},
		{in: "empirical", want: Empirical},
		{in: "cubic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterpolation(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "expected one of: linear, lower, higher, midpoint, nearest, empirical")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterpolation_Text(t *testing.T) {
	var m Interpolation
	require.NoError(t, m.UnmarshalText([]byte("midpoint")))
	assert.Equal(t, Midpoint, m)

	text, err := Empirical.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "empirical", string(text))

	_, err = Interpolation(99).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Interpolation(99)", Interpolation(99).String())
}

func TestComputeBounds(t *testing.T) {
	b, err := ComputeBounds([]float64{100, 5, 4, math.NaN(), 3, 2, 1}, Options{})
	require.NoError(t, err)
	assert.Equal(t, NewBounds(2.25, 4.75, 1.5), b)

	_, err = ComputeBounds([]float64{math.NaN()}, Options{})
	var empty *EmptyDatasetError
	assert.ErrorAs(t, err, &empty)

	_, err = ComputeBounds([]float64{1, 2}, Options{Multiplier: -2})
	assert.Error(t, err)
}

func TestBounds_Helpers(t *testing.T) {
	b := NewBounds(2.25, 4.75, 1.5)

	assert.True(t, b.IsOutlier(8.51))
	assert.True(t, b.IsOutlier(-1.51))
	assert.False(t, b.IsOutlier(8.5))
	assert.False(t, b.IsOutlier(-1.5))
	assert.False(t, b.IsOutlier(math.NaN()))

	assert.True(t, b.Contains(8.5))
	assert.False(t, b.Contains(math.NaN()))

	assert.Equal(t, 8.5, b.Clamp(100))
	assert.Equal(t, -1.5, b.Clamp(-100))
	assert.Equal(t, 3.0, b.Clamp(3))
	assert.True(t, math.IsNaN(b.Clamp(math.NaN())))

	assert.Equal(t, "[-1.5, 8.5] (Q1=2.25 Q3=4.75 IQR=2.5)", b.String())
}

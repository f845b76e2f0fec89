package outlier

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
)

// DefaultMultiplier is the IQR multiplier used for the fences (Tukey's inner fence).
const DefaultMultiplier = 1.5

// Bounds holds the quartiles and fences computed for one column.
type Bounds struct {
	Q1    float64 `json:"q1" yaml:"q1"`
	Q3    float64 `json:"q3" yaml:"q3"`
	IQR   float64 `json:"iqr" yaml:"iqr"`
	Lower float64 `json:"lower_bound" yaml:"lower_bound"`
	Upper float64 `json:"upper_bound" yaml:"upper_bound"`
}

// NewBounds derives the fences from the quartiles and the IQR multiplier.
func NewBounds(q1, q3, multiplier float64) Bounds {
	iqr := q3 - q1
	return Bounds{
		Q1:    q1,
		Q3:    q3,
		IQR:   iqr,
		Lower: q1 - multiplier*iqr,
		Upper: q3 + multiplier*iqr,
	}
}

// IsOutlier reports whether v lies strictly outside the fences.
// NaN is never an outlier.
func (b Bounds) IsOutlier(v float64) bool {
	return v < b.Lower || v > b.Upper
}

// Contains reports whether v lies within the fences, inclusive.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// Clamp caps v into [Lower, Upper]. NaN is returned unchanged.
func (b Bounds) Clamp(v float64) float64 {
	if v > b.Upper {
		return b.Upper
	}
	if v < b.Lower {
		return b.Lower
	}
	return v
}

// MarshalJSON writes non-finite values as null. They occur when more than a
// quarter of the values are infinite.
func (b Bounds) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Q1    *float64 `json:"q1"`
		Q3    *float64 `json:"q3"`
		IQR   *float64 `json:"iqr"`
		Lower *float64 `json:"lower_bound"`
		Upper *float64 `json:"upper_bound"`
	}{finite(b.Q1), finite(b.Q3), finite(b.IQR), finite(b.Lower), finite(b.Upper)})
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%g, %g] (Q1=%g Q3=%g IQR=%g)", b.Lower, b.Upper, b.Q1, b.Q3, b.IQR)
}

// ComputeBounds computes the IQR fences for values. NaN entries are ignored.
// It returns an *EmptyDatasetError when no non-NaN values remain.
func ComputeBounds(values []float64, opts Options) (Bounds, error) {
	opts, err := opts.normalize()
	if err != nil {
		return Bounds{}, err
	}

	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return Bounds{}, &EmptyDatasetError{}
	}
	slices.Sort(sorted)

	q1 := Quantile(sorted, 0.25, opts.Method)
	q3 := Quantile(sorted, 0.75, opts.Method)
	return NewBounds(q1, q3, opts.Multiplier), nil
}

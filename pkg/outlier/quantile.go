package outlier

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Interpolation selects the quantile estimator used for Q1 and Q3.
type Interpolation int

const (
	// Linear interpolates between the two closest ranks: h = p*(n-1),
	// q = x[floor h] + (h - floor h)*(x[ceil h] - x[floor h]).
	Linear Interpolation = iota
	// Lower takes the order statistic at floor h.
	Lower
	// Higher takes the order statistic at ceil h.
	Higher
	// Midpoint averages the order statistics at floor h and ceil h.
	Midpoint
	// Nearest takes the order statistic closest to h, ties to the even rank.
	Nearest
	// Empirical returns the lowest value whose empirical CDF reaches p.
	Empirical
)

var interpolationNames = map[Interpolation]string{
	Linear:    "linear",
	Lower:     "lower",
	Higher:    "higher",
	Midpoint:  "midpoint",
	Nearest:   "nearest",
	Empirical: "empirical",
}

// Interpolations returns every supported estimator in declaration order.
func Interpolations() []Interpolation {
	return []Interpolation{Linear, Lower, Higher, Midpoint, Nearest, Empirical}
}

func (m Interpolation) String() string {
	if name, ok := interpolationNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Interpolation(%d)", int(m))
}

// ParseInterpolation parses an estimator name, case-insensitively.
func ParseInterpolation(s string) (Interpolation, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return Linear, nil
	}
	for _, m := range Interpolations() {
		if interpolationNames[m] == name {
			return m, nil
		}
	}
	names := make([]string, 0, len(interpolationNames))
	for _, m := range Interpolations() {
		names = append(names, m.String())
	}
	return Linear, fmt.Errorf("unknown interpolation method %q (expected one of: %s)", s, strings.Join(names, ", "))
}

// MarshalText implements encoding.TextMarshaler.
func (m Interpolation) MarshalText() ([]byte, error) {
	if _, ok := interpolationNames[m]; !ok {
		return nil, fmt.Errorf("unknown interpolation method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Interpolation) UnmarshalText(text []byte) error {
	parsed, err := ParseInterpolation(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Quantile returns the p-th quantile (0 <= p <= 1) of sorted using method m.
// sorted must be in ascending order and free of NaN. It returns NaN for an
// empty slice or p outside [0, 1].
func Quantile(sorted []float64, p float64, m Interpolation) float64 {
	n := len(sorted)
	if n == 0 || math.IsNaN(p) || p < 0 || p > 1 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}

	if m == Empirical {
		return stat.Quantile(p, stat.Empirical, sorted, nil)
	}

	h := p * float64(n-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if hi >= n {
		hi = n - 1
	}

	switch m {
	case Lower:
		return sorted[lo]
	case Higher:
		return sorted[hi]
	case Midpoint:
		return (sorted[lo] + sorted[hi]) / 2
	case Nearest:
		return sorted[int(math.RoundToEven(h))]
	default:
		if lo == hi {
			return sorted[lo]
		}
		frac := h - float64(lo)
		return sorted[lo] + frac*(sorted[hi]-sorted[lo])
	}
}

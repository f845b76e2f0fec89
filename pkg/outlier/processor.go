package outlier

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Options configures a Processor. The zero value uses linear interpolation
// and DefaultMultiplier.
type Options struct {
	// Multiplier scales the IQR to place the fences. Zero means DefaultMultiplier.
	Multiplier float64
	// Method selects the quartile estimator.
	Method Interpolation
}

// DefaultOptions returns the options matching the classic 1.5 x IQR rule.
func DefaultOptions() Options {
	return Options{Multiplier: DefaultMultiplier, Method: Linear}
}

func (o Options) normalize() (Options, error) {
	if o.Multiplier == 0 {
		o.Multiplier = DefaultMultiplier
	}
	if math.IsNaN(o.Multiplier) || math.IsInf(o.Multiplier, 0) || o.Multiplier < 0 {
		return o, fmt.Errorf("invalid IQR multiplier %v: must be a positive finite number", o.Multiplier)
	}
	if _, ok := interpolationNames[o.Method]; !ok {
		return o, fmt.Errorf("unknown interpolation method %d", int(o.Method))
	}
	return o, nil
}

// Result holds everything produced by one Process call.
// All frames are independently owned copies.
type Result struct {
	Column string
	Bounds Bounds

	// Outliers holds the rows outside the fences with their original values.
	Outliers dataframe.DataFrame
	// NonOutliers holds the remaining rows, missing values included.
	NonOutliers dataframe.DataFrame
	// Capped is the full dataset with the column clamped into the fences.
	Capped dataframe.DataFrame

	// Below and Above count the outliers on each side of the fences.
	Below int
	Above int
	// Missing counts NaN cells in the column.
	Missing int
}

// Total returns the number of rows that were processed.
func (r *Result) Total() int {
	return r.Outliers.Nrow() + r.NonOutliers.Nrow()
}

// Processor computes IQR fences for one column and derives the outlier,
// non-outlier and capped views of a dataset.
type Processor struct {
	opts Options
}

// New creates a Processor, validating opts.
func New(opts Options) (*Processor, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}
	return &Processor{opts: opts}, nil
}

// Options returns the effective options of the processor.
func (p *Processor) Options() Options {
	return p.opts
}

// Process runs the IQR procedure over column of df using the default options.
func Process(df dataframe.DataFrame, column string) (*Result, error) {
	p, err := New(DefaultOptions())
	if err != nil {
		return nil, err
	}
	return p.Process(df, column)
}

// Process computes the fences from the column's current values, partitions the
// rows and builds the capped copy. All validation happens before any frame is
// built; on error no result is returned and df is untouched.
func (p *Processor) Process(df dataframe.DataFrame, column string) (*Result, error) {
	values, err := columnValues(df, column)
	if err != nil {
		return nil, err
	}

	b, err := p.bounds(values, column)
	if err != nil {
		return nil, err
	}

	res := &Result{Column: column, Bounds: b}
	outIdx := make([]int, 0)
	inIdx := make([]int, 0, len(values))
	capped := make([]float64, len(values))
	for i, v := range values {
		switch {
		case math.IsNaN(v):
			res.Missing++
			inIdx = append(inIdx, i)
		case v < b.Lower:
			res.Below++
			outIdx = append(outIdx, i)
		case v > b.Upper:
			res.Above++
			outIdx = append(outIdx, i)
		default:
			inIdx = append(inIdx, i)
		}
		capped[i] = b.Clamp(v)
	}

	res.Outliers = df.Subset(outIdx)
	if res.Outliers.Err != nil {
		return nil, fmt.Errorf("failed to select outlier rows: %w", res.Outliers.Err)
	}
	res.NonOutliers = df.Subset(inIdx)
	if res.NonOutliers.Err != nil {
		return nil, fmt.Errorf("failed to select non-outlier rows: %w", res.NonOutliers.Err)
	}
	res.Capped = df.Mutate(series.New(capped, series.Float, column))
	if res.Capped.Err != nil {
		return nil, fmt.Errorf("failed to build capped dataset: %w", res.Capped.Err)
	}

	return res, nil
}

// Bounds computes the fences for column of df without building any frames.
func (p *Processor) Bounds(df dataframe.DataFrame, column string) (Bounds, error) {
	values, err := columnValues(df, column)
	if err != nil {
		return Bounds{}, err
	}
	return p.bounds(values, column)
}

func (p *Processor) bounds(values []float64, column string) (Bounds, error) {
	b, err := ComputeBounds(values, p.opts)
	if err != nil {
		var empty *EmptyDatasetError
		if errors.As(err, &empty) {
			return Bounds{}, &EmptyDatasetError{Column: column}
		}
		return Bounds{}, err
	}
	return b, nil
}

// Cap returns a copy of df with column clamped into b. It is used to reapply
// previously computed fences; the fences are not recomputed.
func Cap(df dataframe.DataFrame, column string, b Bounds) (dataframe.DataFrame, error) {
	values, err := columnValues(df, column)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	for i, v := range values {
		values[i] = b.Clamp(v)
	}
	out := df.Mutate(series.New(values, series.Float, column))
	if out.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to build capped dataset: %w", out.Err)
	}
	return out, nil
}

// Partition splits df into rows outside and inside b for column.
func Partition(df dataframe.DataFrame, column string, b Bounds) (outliers, nonOutliers dataframe.DataFrame, err error) {
	values, err := columnValues(df, column)
	if err != nil {
		return dataframe.DataFrame{}, dataframe.DataFrame{}, err
	}
	outIdx := make([]int, 0)
	inIdx := make([]int, 0, len(values))
	for i, v := range values {
		if b.IsOutlier(v) {
			outIdx = append(outIdx, i)
		} else {
			inIdx = append(inIdx, i)
		}
	}
	outliers = df.Subset(outIdx)
	if outliers.Err != nil {
		return dataframe.DataFrame{}, dataframe.DataFrame{}, fmt.Errorf("failed to select outlier rows: %w", outliers.Err)
	}
	nonOutliers = df.Subset(inIdx)
	if nonOutliers.Err != nil {
		return dataframe.DataFrame{}, dataframe.DataFrame{}, fmt.Errorf("failed to select non-outlier rows: %w", nonOutliers.Err)
	}
	return outliers, nonOutliers, nil
}

// columnValues validates the column and returns its values as float64, with
// NaN for missing cells.
func columnValues(df dataframe.DataFrame, column string) ([]float64, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", df.Err)
	}
	names := df.Names()
	if !slices.Contains(names, column) {
		return nil, &ColumnNotFoundError{Column: column, Available: names}
	}
	if df.Nrow() == 0 {
		return nil, &EmptyDatasetError{Column: column}
	}
	s := df.Col(column)
	if s.Err != nil {
		return nil, fmt.Errorf("failed to read column %q: %w", column, s.Err)
	}
	switch s.Type() {
	case series.Int, series.Float:
	default:
		return nil, &NonNumericColumnError{Column: column, Type: string(s.Type())}
	}
	return s.Float(), nil
}

// Package outlier detects and caps extreme values in a single numeric column
// of a dataframe using interquartile range (IQR) fences.
//
// Given a column, the processor computes the first and third quartiles (Q1,
// Q3), derives the fences
//
//	lower = Q1 - k*IQR
//	upper = Q3 + k*IQR
//
// with k = 1.5 unless configured otherwise, and produces three frames:
//
//   - Outliers: rows whose value lies strictly outside [lower, upper]
//   - NonOutliers: every other row, fences inclusive
//   - Capped: the full dataset with the column clamped into [lower, upper]
//
// The input frame is never modified. Every output frame is independently
// owned, so callers can keep using the original data after processing.
//
// Quartiles use linear interpolation between closest ranks by default
// (h = p*(n-1)). Other estimators are selected through Options.Method.
//
// Missing values (NaN) are excluded from the quartile computation, are never
// classified as outliers and are carried through capping unchanged.
//
// Usage:
//
//	res, err := outlier.Process(df, "price")
//	if err != nil {
//	    var notFound *outlier.ColumnNotFoundError
//	    if errors.As(err, &notFound) { ... }
//	}
//	fmt.Println(res.Bounds.Lower, res.Bounds.Upper, res.Outliers.Nrow())
package outlier

// Package agreement computes method-comparison statistics for paired readings:
// Pearson correlation with its two-sided p-value, R², and Bland-Altman mean
// difference with 95% limits of agreement.
//
// Correlation is undefined when either series is constant. Such results keep
// CorrelationDefined false and NaN correlation fields, while the agreement
// statistics are still reported.
//
//	res, err := agreement.Calculate(pairs.A(), pairs.B())
//	if errors.Is(err, apperrors.ErrInsufficientData) {
//	    // skip the measurement
//	}
//	fmt.Println(res.Interpretation(), res.Significance())
package agreement

package ports

// FDistribution provides the F-distribution primitives the ANOVA engine
// treats as a black box. Implementations must be pure: the same arguments
// always yield the same result.
type FDistribution interface {
	// Quantile returns x such that P(F <= x) = p for F(df1, df2)
	Quantile(p, df1, df2 float64) (float64, error)

	// Survival returns P(F > x) for F(df1, df2)
	Survival(x, df1, df2 float64) (float64, error)
}

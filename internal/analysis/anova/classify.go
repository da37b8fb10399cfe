package anova

import domainAnova "goanova/domain/anova"

// Classify grades an F statistic against its critical values. Both tiers
// compare the statistic itself and both are strict: F equal to F(0.95) is
// not significant, F equal to F(0.99) is only significant.
func Classify(f float64, critical domainAnova.CriticalValues) domainAnova.Significance {
	switch {
	case f > critical.F99:
		return domainAnova.VerySignificant
	case f > critical.F95:
		return domainAnova.Significant
	default:
		return domainAnova.NotSignificant
	}
}

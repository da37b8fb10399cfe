package anova

import "goanova/internal/errors"

// Sentinel errors. Callers match them with errors.Is; the code survives
// wrapping so transport layers can branch on errors.GetCode.
var (
	// ErrMalformedMatrix: empty matrix, unequal row lengths or non-finite values.
	ErrMalformedMatrix = errors.New(errors.CodeMalformedInput, "anova: malformed observation matrix")

	// ErrDegenerateDesign: not enough treatments, replicates or error DF,
	// or a zero divisor in a mean square or F ratio.
	ErrDegenerateDesign = errors.New(errors.CodeDegenerateDesign, "anova: degenerate design")

	// ErrNotApplicable: block figures requested from a design without blocks.
	ErrNotApplicable = errors.New(errors.CodeNotApplicable, "anova: not applicable to this design")
)

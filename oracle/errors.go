package oracle

import "errors"

// Sentinel errors for the oracle package.
var (
	// ErrInfeasible indicates no feasible panel exists for the quota
	// specification and pool given to Init; every downstream solver must
	// short-circuit on this error.
	ErrInfeasible = errors.New("oracle: no feasible panel exists")

	// ErrEmptyWeights indicates BestPanel was called with an empty (or
	// nil) weight map.
	ErrEmptyWeights = errors.New("oracle: weight vector is empty")
)

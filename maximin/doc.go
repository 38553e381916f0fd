// Package maximin computes a continuous distribution over feasible
// panels maximizing the minimum selection marginal across covered
// respondents, via column generation.
//
// The outer loop solves a growing "weights LP" (minimize z subject to
// every known panel's weighted coverage being at most z, weights summing
// to 1), prices the resulting dual-like weights through the shared Panel
// Oracle, and either stops (the priced panel cannot beat the current
// bound by more than epsilon) or adds the new panel and repeats. An
// optional speed heuristic performs a bounded number of cheap rescale-
// and-reprice steps between full LP solves, enlarging the panel set
// without extra solves and without affecting correctness.
//
// Once the outer loop stops, a second LP (the "primal") recovers the
// actual distribution over the accumulated panel set.
package maximin

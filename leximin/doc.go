// Package leximin computes a continuous distribution over feasible
// panels that is lexicographically optimal in the sorted vector of
// respondent marginals: the smallest marginal is as large as possible,
// then the next smallest given that, and so on.
//
// It fixes marginals outward from the bottom of the lex order. Each
// outer stage solves a dual LP over the current column set B and the
// marginals already fixed in F, prices the optimal dual weights through
// the Panel Oracle, and runs inner column generation (grow B, resolve
// the dual) until the priced panel can no longer beat the current dual
// cap. At that point every respondent with strictly positive dual weight
// has its marginal fixed for the rest of the run, by LP strong duality
// and strict complementarity. Once every respondent is fixed, a final
// primal recovers a distribution meeting every fixed marginal up to a
// minimized slack.
package leximin

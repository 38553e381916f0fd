// Package oracle implements the Panel Oracle: given per-respondent
// weights, it returns a feasible panel maximizing weighted inclusion by
// solving a 0/1 integer program over the respondent pool's binary
// inclusion variables, subject to the panel-size and per-feature-value
// quota constraints.
//
// One Oracle wraps one backend.Problem built once at Init and reused for
// every subsequent BestPanel call: only the objective row is replaced
// (via backend.Problem.SetObjectiveCoeff), never the constraints, so
// repeated pricing during column generation pays for one model build.
//
// Seed runs the multiplicative-weights warm start that produces an
// initial diverse panel set and the set of respondents any feasible
// panel can cover, used by every solver package to seed its column set B.
package oracle

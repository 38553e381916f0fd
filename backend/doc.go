// Package backend is the narrow LP/ILP/convex-program solver interface the
// rest of the engine consumes, plus one concrete implementation grounded
// on gonum.org/v1/gonum.
//
// The abstraction mirrors the source system's documented contract
// (add_binary_var, add_continuous_var, add_integer_var,
// add_linear_constraint, remove_constraint, set_objective, solve, status,
// value, solve_convex): a Problem is built incrementally with AddXxxVar /
// AddLinearConstraint, its objective row can be replaced in place with
// SetObjectiveCoeff (the Panel Oracle reuses one Problem across many
// best-panel calls by mutating only the objective), and Solve dispatches
// to one of two engines depending on whether any variable carries an
// integrality constraint:
//
//   - All variables continuous: a single call to the LP relaxation solver
//     (gonum.org/v1/gonum/optimize/convex/lp.Simplex).
//   - Any integer/binary variable: branch-and-bound over that same LP
//     relaxation (see branchbound.go), grounded on the same
//     subproblem/incumbent idiom the teacher repository's TSP
//     Branch-and-Bound engine uses, generalized from Hamiltonian-cycle
//     search to 0/1 and bounded-integer mixed programs.
//
// ConvexProblem.Solve is a separate entry point used only by the Nash solver,
// which needs to maximize a smooth concave objective (a sum of logs)
// rather than a linear one; it is backed by gonum.org/v1/gonum/optimize's
// general nonlinear minimizers.
//
// Every blocking call accepts a context.Context for cancellation, per the
// source system's suspension-point model: the backend is the only
// component that may block for a nontrivial duration.
package backend

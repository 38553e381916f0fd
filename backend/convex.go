package backend

import (
	"context"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// ConvexProblem is a smooth concave-maximization program over a box plus
// linear equality constraints, solved by penalizing constraint
// violation rather than by a constrained solver: gonum/optimize only
// ships unconstrained and box-constrained minimizers, so linear
// constraints are folded into the objective with a quadratic penalty
// of fixed weight (penaltyWeight, 1e3) in a single minimization; the
// weight is not increased, so equalities hold only approximately, and
// the result is clamped to the box afterwards. This is the shape the Nash welfare
// column-generation loop needs: maximize Σ log((A λ)_i) over λ in the
// probability simplex.
type ConvexProblem struct {
	dim int

	lower, upper []float64

	// negObjective returns -f(x) and its gradient, since gonum/optimize
	// minimizes; f is the concave function being maximized (the Nash
	// log-welfare sum).
	negObjective func(x []float64) float64
	negGradient  func(grad, x []float64)

	// equalityRows, when non-nil, are folded in as a quadratic penalty
	// Σ_r penaltyWeight*(row·x - rhs)^2 (the simplex normalization
	// constraint Σλ=1 for Nash).
	equalityRows [][]float64
	equalityRHS  []float64
	penaltyWeight float64

	x0 []float64

	status Status
	x      []float64
	fval   float64
}

// NewConvexProblem declares a dim-dimensional concave-maximization
// program over [lower,upper] boxes.
func NewConvexProblem(dim int, lower, upper []float64) *ConvexProblem {
	return &ConvexProblem{dim: dim, lower: lower, upper: upper, penaltyWeight: 1e3}
}

// SetObjective installs f (to maximize) and its gradient.
func (c *ConvexProblem) SetObjective(f func(x []float64) float64, grad func(x []float64) []float64) {
	c.negObjective = func(x []float64) float64 { return -f(x) }
	c.negGradient = func(g, x []float64) {
		dg := grad(x)
		for i := range g {
			g[i] = -dg[i]
		}
	}
}

// AddEqualityConstraint adds row·x == rhs as a soft penalty term.
func (c *ConvexProblem) AddEqualityConstraint(row []float64, rhs float64) {
	c.equalityRows = append(c.equalityRows, row)
	c.equalityRHS = append(c.equalityRHS, rhs)
}

// SetInitial sets the warm-start point; if unset, the box midpoint is used.
func (c *ConvexProblem) SetInitial(x0 []float64) { c.x0 = append([]float64(nil), x0...) }

func (c *ConvexProblem) penalty(x []float64) (float64, []float64) {
	if len(c.equalityRows) == 0 {
		return 0, make([]float64, len(x))
	}
	grad := make([]float64, len(x))
	total := 0.0
	for r, row := range c.equalityRows {
		var dot float64
		for i, coeff := range row {
			dot += coeff * x[i]
		}
		residual := dot - c.equalityRHS[r]
		total += c.penaltyWeight * residual * residual
		for i, coeff := range row {
			grad[i] += 2 * c.penaltyWeight * residual * coeff
		}
	}

	return total, grad
}

// Solve minimizes -f(x) + penalty(x) with gonum/optimize's L-BFGS
// method, falling back to Nelder-Mead (derivative-free) if L-BFGS fails
// to converge, matching the "primary method with a documented fallback"
// idiom the rest of this package uses for branch-and-bound's deadline.
func (c *ConvexProblem) Solve(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return StatusNumericalFailure, err
	}

	x0 := c.x0
	if x0 == nil {
		x0 = make([]float64, c.dim)
		for i := range x0 {
			lo, hi := c.lower[i], c.upper[i]
			if math.IsInf(hi, 1) {
				x0[i] = lo + 1
			} else {
				x0[i] = (lo + hi) / 2
			}
		}
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			obj := c.negObjective(x)
			pen, _ := c.penalty(x)

			return obj + pen
		},
		Grad: func(grad, x []float64) {
			c.negGradient(grad, x)
			_, penGrad := c.penalty(x)
			for i := range grad {
				grad[i] += penGrad[i]
			}
		},
	}

	result, err := optimize.Minimize(problem, x0, nil, &optimize.LBFGS{})
	if err != nil || result.Status != optimize.Success {
		result, err = optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	}
	if err != nil {
		c.status = StatusNumericalFailure

		return c.status, &StatusError{Status: c.status, Native: err}
	}

	c.x = clampBox(result.X, c.lower, c.upper)
	c.fval = -c.negObjective(c.x)
	c.status = StatusOptimal

	return c.status, nil
}

// X returns the optimizing point found by the most recent Solve.
func (c *ConvexProblem) X() []float64 { return c.x }

// Value returns f(x*) (in the original maximize sense) from the most recent Solve.
func (c *ConvexProblem) Value() float64 { return c.fval }

func clampBox(x, lower, upper []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		if v < lower[i] {
			v = lower[i]
		}
		if v > upper[i] {
			v = upper[i]
		}
		out[i] = v
	}

	return out
}

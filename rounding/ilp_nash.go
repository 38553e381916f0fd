package rounding

import (
	"context"
	"math"
	"time"

	"github.com/civiclot/sortition/backend"
	"github.com/civiclot/sortition/panel"
)

// nashILPTimeLimit and nashILPGap are the Nash-variant rounder's
// time budget and absolute branch-and-bound pruning gap.
const (
	nashILPTimeLimit = 7200 * time.Second
	nashILPGap       = 5e-4
)

// logApproxRelError is the target relative error of the piecewise-linear
// log approximation used to linearize Σ log(u_i) for the solver.
const logApproxRelError = 1e-4

// ILPNash solves the exact integer program: Σx_j=M; integer utilities
// u_i=Σ_{j:i∈P_j}x_j; maximize Σ log(u_i), with log modelled as a
// piecewise-linear concave envelope (a set of tangent-line upper
// bounds, whose min equals log to within logApproxRelError over the
// achievable utility range [1,M]). Since the envelope is concave, no
// integrality is needed on the z_i variables: max z_i s.t. z_i ≤ each
// tangent is already a valid LP-representable concave function.
func ILPNash(ctx context.Context, B []panel.Panel, covered []panel.RespondentID, M int) (panel.UniformDistribution, error) {
	if len(B) == 0 {
		return panel.UniformDistribution{}, ErrEmptyPanelSet
	}

	prob := backend.NewProblem()

	xVar := make([]backend.VarHandle, len(B))
	for j := range B {
		v, err := prob.AddIntegerVar("x", 0, float64(M))
		if err != nil {
			return panel.UniformDistribution{}, err
		}
		xVar[j] = v
	}

	sumTerms := make(map[backend.VarHandle]float64, len(xVar))
	for _, v := range xVar {
		sumTerms[v] = 1
	}
	if _, err := prob.AddLinearConstraint("sum_x", sumTerms, backend.EQ, float64(M)); err != nil {
		return panel.UniformDistribution{}, err
	}

	breakpoints := tangentBreakpoints(M, logApproxRelError)

	objTerms := map[backend.VarHandle]float64{}
	for _, id := range covered {
		zVar, err := prob.AddContinuousVar("log_u", math.Log(1), math.Log(float64(M)))
		if err != nil {
			return panel.UniformDistribution{}, err
		}

		uTerms := map[backend.VarHandle]float64{}
		for j, p := range B {
			if p.Contains(id) {
				uTerms[xVar[j]] = 1
			}
		}

		for _, bp := range breakpoints {
			// z <= log(bp) + (u - bp)/bp  <=>  z - u/bp <= log(bp) - 1
			terms := map[backend.VarHandle]float64{zVar: 1}
			for v, coeff := range uTerms {
				terms[v] -= coeff / bp
			}
			rhs := math.Log(bp) - 1
			if _, err := prob.AddLinearConstraint("tangent", terms, backend.LE, rhs); err != nil {
				return panel.UniformDistribution{}, err
			}
		}

		objTerms[zVar] = 1
	}

	if err := prob.SetObjective(objTerms, backend.Maximize); err != nil {
		return panel.UniformDistribution{}, err
	}

	if _, err := prob.Solve(ctx, nashILPTimeLimit, nashILPGap); err != nil && prob.Status() != backend.StatusTimeLimit {
		return panel.UniformDistribution{}, err
	}

	mult := make([]int, len(B))
	for j, v := range xVar {
		mult[j] = int(roundNearest(prob.Value(v)))
	}

	return buildUniform(B, mult, M), nil
}

// tangentBreakpoints returns sample points spanning [1,M] dense enough
// that the min-of-tangents envelope approximates log to within relErr.
// log's curvature (second derivative -1/u^2) is largest near u=1, so a
// bounded relative error needs a bounded RATIO between neighboring
// breakpoints, not a bounded absolute gap: points sit at 1, r, r^2, ...,
// r^(n-1)=M for a fixed ratio r, i.e. evenly spaced in log-space rather
// than evenly spaced across [1,M]. An even absolute spacing leaves the
// envelope accurate only near u=M and badly underresolved near u=1.
func tangentBreakpoints(M int, relErr float64) []float64 {
	if M < 1 {
		M = 1
	}
	if M == 1 {
		return []float64{1}
	}

	// Between two breakpoints at ratio r=1+h, the envelope's worst-case
	// gap above log is O(h^2/8); picking h proportional to sqrt(relErr)
	// keeps that gap on the order of relErr regardless of M.
	ratio := 1 + 4*math.Sqrt(relErr)
	n := int(math.Ceil(math.Log(float64(M))/math.Log(ratio))) + 1
	if n < 2 {
		n = 2
	}
	if n > 2000 {
		n = 2000
	}

	logM := math.Log(float64(M))
	points := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		points[i] = math.Exp(t * logM)
	}

	return points
}

// TestHookTangentBreakpoints exposes tangentBreakpoints for black-box
// tests.
func TestHookTangentBreakpoints(M int, relErr float64) []float64 {
	return tangentBreakpoints(M, relErr)
}

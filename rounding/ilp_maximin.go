package rounding

import (
	"context"
	"time"

	"github.com/civiclot/sortition/backend"
	"github.com/civiclot/sortition/panel"
)

// ilpTimeLimit bounds the two exact integer programs that optimize a
// linear (non-log) objective directly (the maximin and minimax-change
// variants), per the source system's rounder time budget.
const ilpTimeLimit = 1800 * time.Second

// ILPMaximin solves the exact integer program: Σx_j=M; ℓ∈ℕ; for every
// respondent i, ℓ ≤ Σ_{j:i∈P_j} x_j; maximize ℓ. Returns the best
// incumbent found within ilpTimeLimit, divided by M; a time-limit expiry
// is non-fatal and still yields a usable (possibly suboptimal) result.
func ILPMaximin(ctx context.Context, B []panel.Panel, covered []panel.RespondentID, M int) (panel.UniformDistribution, error) {
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
	lVar, err := prob.AddIntegerVar("l", 0, float64(M))
	if err != nil {
		return panel.UniformDistribution{}, err
	}

	sumTerms := make(map[backend.VarHandle]float64, len(xVar))
	for _, v := range xVar {
		sumTerms[v] = 1
	}
	if _, err := prob.AddLinearConstraint("sum_x", sumTerms, backend.EQ, float64(M)); err != nil {
		return panel.UniformDistribution{}, err
	}

	for _, id := range covered {
		terms := map[backend.VarHandle]float64{lVar: 1}
		for j, p := range B {
			if p.Contains(id) {
				terms[xVar[j]] -= 1
			}
		}
		if _, err := prob.AddLinearConstraint("marginal_"+string(id), terms, backend.LE, 0); err != nil {
			return panel.UniformDistribution{}, err
		}
	}

	if err := prob.SetObjective(map[backend.VarHandle]float64{lVar: 1}, backend.Maximize); err != nil {
		return panel.UniformDistribution{}, err
	}

	if _, err := prob.Solve(ctx, ilpTimeLimit, 1e-6); err != nil && prob.Status() != backend.StatusTimeLimit {
		return panel.UniformDistribution{}, err
	}

	mult := make([]int, len(B))
	for j, v := range xVar {
		mult[j] = int(roundNearest(prob.Value(v)))
	}

	return buildUniform(B, mult, M), nil
}

func roundNearest(x float64) float64 {
	if x < 0 {
		return 0
	}

	return float64(int64(x + 0.5))
}

package rounding

import (
	"context"

	"github.com/civiclot/sortition/backend"
	"github.com/civiclot/sortition/panel"
)

// MinimaxChange solves the exact integer program: Σx_j=M; u≥0; for every
// respondent i, −u ≤ m_i·M − Σ_{j:i∈P_j} x_j ≤ u; minimize u, where m is
// a map of target marginals. Time-bounded to ilpTimeLimit; returns the
// best incumbent found on expiry.
func MinimaxChange(ctx context.Context, B []panel.Panel, targets map[panel.RespondentID]float64, M int) (panel.UniformDistribution, error) {
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
	uVar, err := prob.AddContinuousVar("u", 0, float64(M))
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

	for id, m := range targets {
		coverTerms := map[backend.VarHandle]float64{}
		for j, p := range B {
			if p.Contains(id) {
				coverTerms[xVar[j]] = 1
			}
		}
		target := m * float64(M)

		upper := map[backend.VarHandle]float64{uVar: 1}
		for v, c := range coverTerms {
			upper[v] += c
		}
		if _, err := prob.AddLinearConstraint("upper_"+string(id), upper, backend.GE, target); err != nil {
			return panel.UniformDistribution{}, err
		}

		lower := map[backend.VarHandle]float64{uVar: 1}
		for v, c := range coverTerms {
			lower[v] -= c
		}
		if _, err := prob.AddLinearConstraint("lower_"+string(id), lower, backend.GE, -target); err != nil {
			return panel.UniformDistribution{}, err
		}
	}

	if err := prob.SetObjective(map[backend.VarHandle]float64{uVar: 1}, backend.Minimize); err != nil {
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

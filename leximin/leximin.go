package leximin

import (
	"context"
	"fmt"

	"github.com/civiclot/sortition/backend"
	"github.com/civiclot/sortition/oracle"
	"github.com/civiclot/sortition/panel"
)

// epsilon is the column-generation stopping tolerance, shared with maximin.
const epsilon = 5e-4

// relaxStep is the per-retry reduction applied to every fixed
// probability when the dual LP reports a non-optimal status, per the
// source system's numerical-failure recovery for this solver.
const relaxStep = 1e-4

// maxRelaxAttempts bounds the relax-and-retry loop; the source system
// expects a small number of relaxations in practice, so exceeding this
// is treated as the fatal "unexpected solver status" case.
const maxRelaxAttempts = 200

// Result is the outcome of iterated column generation.
type Result struct {
	Distribution panel.Distribution
	Fixed        map[panel.RespondentID]float64
	Iterations   int
}

type columnSet struct {
	panels []panel.Panel
	seen   map[uint64]struct{}
}

func newColumnSet(seed []panel.Panel) *columnSet {
	cs := &columnSet{seen: map[uint64]struct{}{}}
	for _, p := range seed {
		cs.add(p)
	}

	return cs
}

func (cs *columnSet) add(p panel.Panel) bool {
	if _, ok := cs.seen[p.Hash()]; ok {
		return false
	}
	cs.seen[p.Hash()] = struct{}{}
	cs.panels = append(cs.panels, p)

	return true
}

// Solve runs the outer fix loop until every respondent in covered has a
// fixed marginal, then recovers a distribution meeting every fixed
// marginal up to a minimized slack.
func Solve(ctx context.Context, orc *oracle.Oracle, covered []panel.RespondentID, seed []panel.Panel) (Result, error) {
	B := newColumnSet(seed)
	F := map[panel.RespondentID]float64{}
	iterations := 0

	for len(F) < len(covered) {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		if _, err := runInnerColumnGeneration(ctx, orc, B, covered, F); err != nil {
			return Result{}, err
		}
		iterations++
	}

	lambda, err := recoverPrimal(ctx, B.panels, covered, F)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Distribution: panel.Distribution{Panels: B.panels, Weights: lambda}.Renormalize(),
		Fixed:        F,
		Iterations:   iterations,
	}, nil
}

// runInnerColumnGeneration grows B and prices against the dual until the
// priced panel can no longer beat the dual cap, then fixes every
// respondent with strictly positive dual weight into F.
func runInnerColumnGeneration(ctx context.Context, orc *oracle.Oracle, B *columnSet, covered []panel.RespondentID, F map[panel.RespondentID]float64) (float64, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		y, yHat, dStar, err := solveDualWithRetry(ctx, B.panels, covered, F)
		if err != nil {
			return 0, err
		}

		p, v, err := orc.BestPanel(ctx, y)
		if err != nil {
			return 0, err
		}

		if v <= yHat+epsilon {
			for _, id := range covered {
				if _, fixed := F[id]; fixed {
					continue
				}
				if y[id] > epsilon {
					F[id] = maxFloat(0, dStar)
				}
			}

			return dStar, nil
		}

		B.add(p)
	}
}

// solveDualWithRetry solves the dual LP, relaxing F by relaxStep on
// every non-optimal status until it succeeds or the attempt budget is exhausted.
func solveDualWithRetry(ctx context.Context, B []panel.Panel, covered []panel.RespondentID, F map[panel.RespondentID]float64) (map[panel.RespondentID]float64, float64, float64, error) {
	for attempt := 0; attempt < maxRelaxAttempts; attempt++ {
		y, yHat, dStar, status, err := solveDual(ctx, B, covered, F)
		if err == nil && status == backend.StatusOptimal {
			return y, yHat, dStar, nil
		}
		for id, val := range F {
			F[id] = maxFloat(0, val-relaxStep)
		}
	}

	return nil, 0, 0, fmt.Errorf("leximin: dual LP did not reach optimal status after %d relaxations", maxRelaxAttempts)
}

// solveDual builds and solves: y_i≥0 ∀i; ŷ≥0; Σ_{i∉F} y_i=1;
// Σ_{i∈P} y_i ≤ ŷ ∀P∈B; minimize ŷ − Σ_{i∈F} F[i]·y_i.
func solveDual(ctx context.Context, B []panel.Panel, covered []panel.RespondentID, F map[panel.RespondentID]float64) (map[panel.RespondentID]float64, float64, float64, backend.Status, error) {
	prob := backend.NewProblem()

	yVar := make(map[panel.RespondentID]backend.VarHandle, len(covered))
	for _, id := range covered {
		v, err := prob.AddContinuousVar(string(id), 0, 1)
		if err != nil {
			return nil, 0, 0, backend.StatusNumericalFailure, err
		}
		yVar[id] = v
	}
	yHatVar, err := prob.AddContinuousVar("yhat", 0, 1)
	if err != nil {
		return nil, 0, 0, backend.StatusNumericalFailure, err
	}

	sumTerms := map[backend.VarHandle]float64{}
	for _, id := range covered {
		if _, fixed := F[id]; fixed {
			continue
		}
		sumTerms[yVar[id]] = 1
	}
	if _, err := prob.AddLinearConstraint("sum_unfixed_y", sumTerms, backend.EQ, 1); err != nil {
		return nil, 0, 0, backend.StatusNumericalFailure, err
	}

	for j, p := range B {
		terms := map[backend.VarHandle]float64{yHatVar: -1}
		for _, id := range covered {
			if p.Contains(id) {
				terms[yVar[id]] += 1
			}
		}
		if _, err := prob.AddLinearConstraint(fmt.Sprintf("panel_%d", j), terms, backend.LE, 0); err != nil {
			return nil, 0, 0, backend.StatusNumericalFailure, err
		}
	}

	objTerms := map[backend.VarHandle]float64{yHatVar: 1}
	for id, fixedVal := range F {
		objTerms[yVar[id]] -= fixedVal
	}
	if err := prob.SetObjective(objTerms, backend.Minimize); err != nil {
		return nil, 0, 0, backend.StatusNumericalFailure, err
	}

	status, err := prob.Solve(ctx, 0, 0)
	if err != nil || status != backend.StatusOptimal {
		return nil, 0, 0, status, err
	}

	y := make(map[panel.RespondentID]float64, len(covered))
	for _, id := range covered {
		y[id] = prob.Value(yVar[id])
	}

	return y, prob.Value(yHatVar), prob.ObjectiveValue(), status, nil
}

// recoverPrimal solves for λ over B minimizing slack subject to
// marginal(i) ≥ F[i] − slack for every covered respondent, then clips
// and renormalizes.
func recoverPrimal(ctx context.Context, B []panel.Panel, covered []panel.RespondentID, F map[panel.RespondentID]float64) ([]float64, error) {
	prob := backend.NewProblem()

	lambdaVar := make([]backend.VarHandle, len(B))
	for j := range B {
		v, err := prob.AddContinuousVar(fmt.Sprintf("lambda_%d", j), 0, 1)
		if err != nil {
			return nil, err
		}
		lambdaVar[j] = v
	}
	slackVar, err := prob.AddContinuousVar("slack", 0, 1)
	if err != nil {
		return nil, err
	}

	sumTerms := map[backend.VarHandle]float64{}
	for _, v := range lambdaVar {
		sumTerms[v] = 1
	}
	if _, err := prob.AddLinearConstraint("sum_lambda", sumTerms, backend.EQ, 1); err != nil {
		return nil, err
	}

	for _, id := range covered {
		terms := map[backend.VarHandle]float64{slackVar: 1}
		for j, p := range B {
			if p.Contains(id) {
				terms[lambdaVar[j]] += 1
			}
		}
		target := F[id]
		if _, err := prob.AddLinearConstraint("marginal_"+string(id), terms, backend.GE, target); err != nil {
			return nil, err
		}
	}

	if err := prob.SetObjective(map[backend.VarHandle]float64{slackVar: 1}, backend.Minimize); err != nil {
		return nil, err
	}

	status, err := prob.Solve(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	if status != backend.StatusOptimal {
		return nil, &backend.StatusError{Status: status}
	}

	lambda := make([]float64, len(B))
	for j, v := range lambdaVar {
		lambda[j] = clip01(prob.Value(v))
	}

	return lambda, nil
}

func clip01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}

	return x
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}

	return b
}

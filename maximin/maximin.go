package maximin

import (
	"context"
	"strconv"

	"github.com/civiclot/sortition/backend"
	"github.com/civiclot/sortition/oracle"
	"github.com/civiclot/sortition/panel"
)

// epsilon is the column-generation stopping tolerance used throughout
// this package, per the source system's single shared epsilon for LP-backed solvers.
const epsilon = 5e-4

// speedHeuristicRounds bounds the number of cheap rescale-and-reprice
// steps attempted after each accepted panel, before falling back to a
// full LP re-solve.
const speedHeuristicRounds = 10

// columnSet is a hash-deduplicated, insertion-ordered collection of
// panels, the in-memory form of the "growing panel set B" every
// column-generation solver maintains.
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

func (cs *columnSet) has(p panel.Panel) bool {
	_, ok := cs.seen[p.Hash()]

	return ok
}

// Result is the outcome of column generation: the accumulated panel set,
// the recovered distribution, and the best dual bound seen (against
// which the maximin-optimality property can be checked).
type Result struct {
	Distribution panel.Distribution
	DualBound    float64
	Iterations   int
}

// Solve runs column generation to maximize the minimum marginal over
// covered. seed is the Panel Oracle's initial diverse panel set.
func Solve(ctx context.Context, orc *oracle.Oracle, covered []panel.RespondentID, seed []panel.Panel) (Result, error) {
	B := newColumnSet(seed)

	for iteration := 0; ; iteration++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		y, z, err := solveWeightsLP(ctx, B.panels, covered)
		if err != nil {
			return Result{}, err
		}

		p, v, err := orc.BestPanel(ctx, y)
		if err != nil {
			return Result{}, err
		}

		if v <= z+epsilon {
			lambda, err := solvePrimalLP(ctx, B.panels, covered)
			if err != nil {
				return Result{}, err
			}

			return Result{
				Distribution: panel.Distribution{Panels: B.panels, Weights: lambda}.Renormalize(),
				DualBound:    z,
				Iterations:   iteration,
			}, nil
		}

		B.add(p)
		runSpeedHeuristic(ctx, orc, B, y, z, v, p)
	}
}

// runSpeedHeuristic attempts up to speedHeuristicRounds cheap rescale
// and reprice steps on a scratch copy of y, adding any newly discovered
// panel to B without ever re-solving the weights LP. It never changes
// the recovered distribution's correctness: it only enlarges B.
func runSpeedHeuristic(ctx context.Context, orc *oracle.Oracle, B *columnSet, y map[panel.RespondentID]float64, z, v float64, last panel.Panel) {
	trial := make(map[panel.RespondentID]float64, len(y))
	for id, val := range y {
		trial[id] = val
	}
	trialZ := z
	latest := last

	for round := 0; round < speedHeuristicRounds; round++ {
		if ctx.Err() != nil {
			return
		}

		scale := 0.0
		if v != 0 {
			scale = trialZ / v
		}
		for _, id := range orc.Respondents() {
			if latest.Contains(id) {
				trial[id] *= scale
			}
		}
		sum := 0.0
		for _, val := range trial {
			sum += val
		}
		if sum == 0 {
			return
		}
		renormScale := 1.0 / sum
		for id := range trial {
			trial[id] *= renormScale
		}
		trialZ *= renormScale

		p, pv, err := orc.BestPanel(ctx, trial)
		if err != nil {
			return
		}
		if pv > trialZ+epsilon && !B.has(p) {
			B.add(p)
			latest = p
			v = pv
		} else {
			return
		}
	}
}

// solveWeightsLP solves: minimize z s.t. Σ_{i∈P} y_i ≤ z ∀P∈B; Σ y_i=1; y≥0.
func solveWeightsLP(ctx context.Context, B []panel.Panel, covered []panel.RespondentID) (map[panel.RespondentID]float64, float64, error) {
	prob := backend.NewProblem()

	yVar := make(map[panel.RespondentID]backend.VarHandle, len(covered))
	for _, id := range covered {
		v, err := prob.AddContinuousVar(string(id), 0, 1)
		if err != nil {
			return nil, 0, err
		}
		yVar[id] = v
	}
	zVar, err := prob.AddContinuousVar("z", 0, 1)
	if err != nil {
		return nil, 0, err
	}

	sumTerms := make(map[backend.VarHandle]float64, len(yVar))
	for _, v := range yVar {
		sumTerms[v] = 1
	}
	if _, err := prob.AddLinearConstraint("sum_y", sumTerms, backend.EQ, 1); err != nil {
		return nil, 0, err
	}

	for j, p := range B {
		terms := map[backend.VarHandle]float64{zVar: -1}
		for _, id := range covered {
			if p.Contains(id) {
				terms[yVar[id]] += 1
			}
		}
		if _, err := prob.AddLinearConstraint(panelRowName(j), terms, backend.LE, 0); err != nil {
			return nil, 0, err
		}
	}

	if err := prob.SetObjective(map[backend.VarHandle]float64{zVar: 1}, backend.Minimize); err != nil {
		return nil, 0, err
	}

	status, err := prob.Solve(ctx, 0, 0)
	if err != nil {
		return nil, 0, err
	}
	if status != backend.StatusOptimal {
		return nil, 0, &backend.StatusError{Status: status}
	}

	y := make(map[panel.RespondentID]float64, len(covered))
	for _, id := range covered {
		y[id] = prob.Value(yVar[id])
	}

	return y, prob.Value(zVar), nil
}

// solvePrimalLP solves: maximize ℓ s.t. Σλ=1; ℓ ≤ Σ_{j:i∈P_j} λ_j ∀ covered i; λ≥0.
func solvePrimalLP(ctx context.Context, B []panel.Panel, covered []panel.RespondentID) ([]float64, error) {
	prob := backend.NewProblem()

	lambdaVar := make([]backend.VarHandle, len(B))
	for j := range B {
		v, err := prob.AddContinuousVar(panelRowName(j), 0, 1)
		if err != nil {
			return nil, err
		}
		lambdaVar[j] = v
	}
	lVar, err := prob.AddContinuousVar("l", 0, 1)
	if err != nil {
		return nil, err
	}

	sumTerms := make(map[backend.VarHandle]float64, len(lambdaVar))
	for _, v := range lambdaVar {
		sumTerms[v] = 1
	}
	if _, err := prob.AddLinearConstraint("sum_lambda", sumTerms, backend.EQ, 1); err != nil {
		return nil, err
	}

	for _, id := range covered {
		terms := map[backend.VarHandle]float64{lVar: 1}
		for j, p := range B {
			if p.Contains(id) {
				terms[lambdaVar[j]] -= 1
			}
		}
		if _, err := prob.AddLinearConstraint("marginal_"+string(id), terms, backend.LE, 0); err != nil {
			return nil, err
		}
	}

	if err := prob.SetObjective(map[backend.VarHandle]float64{lVar: 1}, backend.Maximize); err != nil {
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

func panelRowName(j int) string {
	return "panel_" + strconv.Itoa(j)
}

package rounding

import (
	"context"
	"math"

	"github.com/civiclot/sortition/backend"
	"github.com/civiclot/sortition/panel"
)

// fixEpsilon is the distance from {0,1} at which a Beck-Fiala variable
// is considered fixed.
const fixEpsilon = 1e-6

// BeckFiala performs dependent rounding of a continuous distribution
// lambda (aligned with B) to integer multiplicities of M, bounding the
// marginal drift of every respondent by k (the panel size, used as the
// Beck-Fiala slack tolerance).
func BeckFiala(ctx context.Context, B []panel.Panel, covered []panel.RespondentID, lambda []float64, M, k int) (panel.UniformDistribution, error) {
	if len(B) == 0 {
		return panel.UniformDistribution{}, ErrEmptyPanelSet
	}

	n := len(B)
	floors := make([]int, n)
	fracs := make([]float64, n)
	sumFrac := 0.0
	for j, lam := range lambda {
		r := float64(M) * lam
		f := math.Floor(r)
		floors[j] = int(f)
		fracs[j] = r - f
		sumFrac += fracs[j]
	}

	degree := make(map[panel.RespondentID]int, len(covered))
	target := make(map[panel.RespondentID]float64, len(covered))
	for _, id := range covered {
		d := 0
		t := 0.0
		for j, p := range B {
			if p.Contains(id) {
				d++
				t += fracs[j]
			}
		}
		degree[id] = d
		target[id] = t
	}

	fixed := make([]bool, n)
	c := make([]float64, n)
	copy(c, fracs)

	optimistic := map[panel.RespondentID]float64{}
	pessimistic := map[panel.RespondentID]float64{}
	activeCount := map[panel.RespondentID]int{}
	for _, id := range covered {
		optimistic[id] = float64(degree[id])
		pessimistic[id] = 0
		activeCount[id] = degree[id]
	}

	droppedConstraint := map[panel.RespondentID]bool{}

	for {
		if err := ctx.Err(); err != nil {
			return panel.UniformDistribution{}, err
		}

		allFixed := true
		for _, f := range fixed {
			if !f {
				allFixed = false

				break
			}
		}
		if allFixed {
			break
		}

		solved, err := solveBeckFialaLP(ctx, B, covered, fixed, c, sumFrac, target, droppedConstraint)
		if err != nil {
			return panel.UniformDistribution{}, err
		}
		for j := range c {
			if !fixed[j] {
				c[j] = solved[j]
			}
		}

		progressed := false
		for j := range c {
			if fixed[j] {
				continue
			}
			if c[j] < fixEpsilon {
				fixed[j] = true
				c[j] = 0
				adjustBounds(B[j], covered, optimistic, activeCount, -1)
				progressed = true
			} else if c[j] > 1-fixEpsilon {
				fixed[j] = true
				c[j] = 1
				adjustBounds(B[j], covered, pessimistic, activeCount, 1)
				progressed = true
			}
		}

		if progressed {
			continue
		}

		droppedAny := false
		for _, id := range covered {
			if droppedConstraint[id] {
				continue
			}
			withinSlack := optimistic[id]-pessimistic[id] <= float64(k)
			allActivePanelsContainIt := activeCount[id] == countActivePanels(fixed)
			if withinSlack || allActivePanelsContainIt {
				droppedConstraint[id] = true
				droppedAny = true
			}
		}
		if !droppedAny {
			// No legal drop and no variable near {0,1}: accept the
			// current fractional LP solution as the fixed point.
			break
		}
	}

	mult := make([]int, n)
	for j := range mult {
		mult[j] = floors[j] + int(roundNearest(c[j]))
	}

	return buildUniform(B, mult, M), nil
}

// adjustBounds updates bound by delta (+1 when fixing a panel to 1
// tightens the pessimistic lower bound up, -1 when fixing to 0 tightens
// the optimistic upper bound down) and decrements the active-panel count
// for every member of p.
func adjustBounds(p panel.Panel, covered []panel.RespondentID, bound map[panel.RespondentID]float64, active map[panel.RespondentID]int, delta float64) {
	for _, id := range covered {
		if !p.Contains(id) {
			continue
		}
		bound[id] += delta
		active[id]--
	}
}

// countActivePanels reports how many panels are not yet fixed.
func countActivePanels(fixed []bool) int {
	count := 0
	for _, f := range fixed {
		if !f {
			count++
		}
	}

	return count
}

// solveBeckFialaLP solves: c_j∈[0,1] (fixed ones clamped), Σc_j=Σq_j,
// and Σ_{j:i∈P_j} c_j = t_i for every respondent whose constraint has
// not been dropped.
func solveBeckFialaLP(ctx context.Context, B []panel.Panel, covered []panel.RespondentID, fixed []bool, current []float64, sumFrac float64, target map[panel.RespondentID]float64, dropped map[panel.RespondentID]bool) ([]float64, error) {
	prob := backend.NewProblem()

	cVar := make([]backend.VarHandle, len(B))
	for j := range B {
		lb, ub := 0.0, 1.0
		if fixed[j] {
			lb, ub = current[j], current[j]
		}
		v, err := prob.AddContinuousVar("c", lb, ub)
		if err != nil {
			return nil, err
		}
		cVar[j] = v
	}

	sumTerms := make(map[backend.VarHandle]float64, len(cVar))
	for _, v := range cVar {
		sumTerms[v] = 1
	}
	if _, err := prob.AddLinearConstraint("sum_c", sumTerms, backend.EQ, sumFrac); err != nil {
		return nil, err
	}

	for _, id := range covered {
		if dropped[id] {
			continue
		}
		terms := map[backend.VarHandle]float64{}
		for j, p := range B {
			if p.Contains(id) {
				terms[cVar[j]] = 1
			}
		}
		if len(terms) == 0 {
			continue
		}
		if _, err := prob.AddLinearConstraint("target_"+string(id), terms, backend.EQ, target[id]); err != nil {
			return nil, err
		}
	}

	// Feasibility probe only: any objective works since we just need a
	// point satisfying the equalities; minimize 0.
	if err := prob.SetObjective(map[backend.VarHandle]float64{}, backend.Minimize); err != nil {
		return nil, err
	}

	status, err := prob.Solve(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	if status != backend.StatusOptimal {
		return nil, &backend.StatusError{Status: status}
	}

	out := make([]float64, len(B))
	for j, v := range cVar {
		out[j] = clip01(prob.Value(v))
	}

	return out, nil
}

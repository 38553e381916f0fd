package backend

import (
	"context"
	"math"
	"time"
)

// bbEngine holds all branch-and-bound search data and policy, mirroring
// the teacher's TSP Branch-and-Bound engine: a dedicated struct instead
// of closures keeps dependencies explicit and the hot path predictable.
// Here the search tree branches on fractional integer variables of an LP
// relaxation rather than on the next city of a Hamiltonian path, but the
// node shape (bound, prune, branch, recurse) and the sparse deadline
// check are the same idiom.
type bbEngine struct {
	p    *Problem
	gap  float64
	eps  float64

	useDeadline bool
	deadline    time.Time
	steps       int

	ctx context.Context

	bestSolution []float64
	bestObj      float64 // in the internal minimize sense
	foundAny     bool

	nodesExplored int
}

// deadlineCheck performs a rare wall-clock test (every 4096 node events),
// matching the teacher's "steps&4095" idiom so the check stays practically free.
func (e *bbEngine) deadlineCheck() bool {
	e.steps++
	if e.ctx.Err() != nil {
		return true
	}
	if !e.useDeadline || (e.steps&4095) != 0 {
		return false
	}

	return time.Now().After(e.deadline)
}

// bbNode is one subproblem: per-variable bound tightenings relative to
// the root Problem, applied on top of each variable's own [lb,ub].
type bbNode struct {
	lower []float64
	upper []float64
}

// solveRelaxation solves the LP relaxation of node's bounds and reports
// whether it is feasible.
func (e *bbEngine) solveRelaxation(node bbNode) (x []float64, obj float64, feasible bool) {
	sf := e.p.buildStandardForm(node.lower, node.upper)
	if sf.A.RawMatrix().Rows == 0 {
		return nil, 0, false
	}
	opt, sol, err := simplexSolve(sf)
	if err != nil {
		return nil, 0, false
	}

	return sol[:sf.nOrig], opt, true
}

// mostFractional picks the integer variable whose relaxed value is
// farthest from an integer, the generalization of the teacher's
// deterministic-branching-order idiom: ties broken by lowest variable
// index keep the search reproducible.
func (e *bbEngine) mostFractional(x []float64) (int, bool) {
	bestIdx := -1
	bestFrac := e.eps
	for i, v := range e.p.vars {
		if !v.integer {
			continue
		}
		frac := x[i] - math.Floor(x[i])
		dist := math.Min(frac, 1-frac)
		if dist > bestFrac {
			bestFrac = dist
			bestIdx = i
		}
	}

	return bestIdx, bestIdx >= 0
}

// recordIncumbent commits a new best integral solution.
func (e *bbEngine) recordIncumbent(x []float64, obj float64) {
	e.bestSolution = append([]float64(nil), x...)
	e.bestObj = obj
	e.foundAny = true
}

// search runs depth-first branch-and-bound starting from node, pruning
// whenever the relaxation's bound cannot beat the incumbent by more than
// gap, exactly mirroring the teacher's "lb >= bestCost - eps" prune test.
func (e *bbEngine) search(node bbNode) {
	if e.deadlineCheck() {
		return
	}
	e.nodesExplored++

	x, obj, feasible := e.solveRelaxation(node)
	if !feasible {
		return
	}
	if e.foundAny && obj >= e.bestObj-e.gap {
		return
	}

	idx, fractional := e.mostFractional(x)
	if !fractional {
		if !e.foundAny || obj < e.bestObj-e.eps {
			e.recordIncumbent(x, obj)
		}

		return
	}

	floorVal := math.Floor(x[idx])

	down := cloneNode(node)
	down.upper[idx] = math.Min(down.upper[idx], floorVal)
	e.search(down)

	up := cloneNode(node)
	up.lower[idx] = math.Max(up.lower[idx], floorVal+1)
	e.search(up)
}

func cloneNode(n bbNode) bbNode {
	return bbNode{
		lower: append([]float64(nil), n.lower...),
		upper: append([]float64(nil), n.upper...),
	}
}

// solveBranchAndBound runs the branch-and-bound search and records the
// outcome. timeLimit <= 0 means no deadline.
func (p *Problem) solveBranchAndBound(ctx context.Context, timeLimit time.Duration, gap float64) (Status, error) {
	if err := ctx.Err(); err != nil {
		return StatusNumericalFailure, err
	}
	if gap <= 0 {
		gap = 1e-6
	}

	n := len(p.vars)
	root := bbNode{lower: make([]float64, n), upper: make([]float64, n)}
	for i, v := range p.vars {
		root.lower[i] = v.lb
		root.upper[i] = v.ub
	}

	e := &bbEngine{p: p, gap: gap, eps: 1e-7, ctx: ctx}
	if timeLimit > 0 {
		e.useDeadline = true
		e.deadline = time.Now().Add(timeLimit)
	}

	e.search(root)

	timedOut := e.useDeadline && time.Now().After(e.deadline)
	cancelled := ctx.Err() != nil

	if !e.foundAny {
		if timedOut || cancelled {
			p.status = StatusTimeLimit

			return p.status, &StatusError{Status: p.status}
		}
		p.status = StatusInfeasible

		return p.status, &StatusError{Status: p.status}
	}

	p.solution = e.bestSolution
	sign := 1.0
	if p.sense == Maximize {
		sign = -1.0
	}
	p.objValue = sign * e.bestObj

	if timedOut || cancelled {
		p.status = StatusTimeLimit

		return p.status, nil
	}

	p.status = StatusOptimal

	return p.status, nil
}

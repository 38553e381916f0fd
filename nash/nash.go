package nash

import (
	"context"
	"math"

	"github.com/civiclot/sortition/backend"
	"github.com/civiclot/sortition/oracle"
	"github.com/civiclot/sortition/panel"
)

// epsNash is the Nash column-generation stopping tolerance. It is
// deliberately coarser than the LP solvers' epsilon because the
// reciprocal weights and log-derivative scale differently.
const epsNash = 1.0

// logFloor prevents -Inf/NaN from an intermediate iterate driving a
// covered respondent's coverage to exactly zero during the convex solve.
const logFloor = 1e-9

// Result is the outcome of Nash convex column generation.
type Result struct {
	Distribution panel.Distribution
	Uncovered    []panel.RespondentID
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

// Solve runs convex column generation maximizing Σ log(marginal(i)) over
// covered respondents. uncovered is reported in the result but
// contributes marginal 0 and is excluded from the objective.
func Solve(ctx context.Context, orc *oracle.Oracle, covered, uncovered []panel.RespondentID, seed []panel.Panel) (Result, error) {
	B := newColumnSet(seed)
	lambda := uniform(len(B.panels))

	iterations := 0
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		A := buildCoverageMatrix(covered, B.panels)

		var err error
		lambda, err = solveConvexStep(ctx, A, lambda)
		if err != nil {
			return Result{}, err
		}

		marginals := applyMatrix(A, lambda)
		reciprocals := make(map[panel.RespondentID]float64, len(covered))
		for i, id := range covered {
			m := marginals[i]
			if m < logFloor {
				m = logFloor
			}
			reciprocals[id] = 1 / m
		}

		p, v, err := orc.BestPanel(ctx, reciprocals)
		if err != nil {
			return Result{}, err
		}

		dMax := math.Inf(-1)
		for _, col := range B.panels {
			d := 0.0
			for _, id := range covered {
				if col.Contains(id) {
					d += reciprocals[id]
				}
			}
			if d > dMax {
				dMax = d
			}
		}

		if v <= dMax+epsNash {
			dist := panel.Distribution{Panels: B.panels, Weights: clipAndRenormalize(lambda)}

			return Result{Distribution: dist, Uncovered: uncovered, Iterations: iterations}, nil
		}

		B.add(p)
		lambda = append(lambda, 0)
		iterations++
	}
}

// buildCoverageMatrix returns a dense |covered| x |B| 0/1 matrix, A[i][j]=1 iff covered[i] in B[j].
func buildCoverageMatrix(covered []panel.RespondentID, B []panel.Panel) [][]float64 {
	A := make([][]float64, len(covered))
	for i, id := range covered {
		row := make([]float64, len(B))
		for j, p := range B {
			if p.Contains(id) {
				row[j] = 1
			}
		}
		A[i] = row
	}

	return A
}

func applyMatrix(A [][]float64, lambda []float64) []float64 {
	out := make([]float64, len(A))
	for i, row := range A {
		s := 0.0
		for j, a := range row {
			s += a * lambda[j]
		}
		out[i] = s
	}

	return out
}

// solveConvexStep maximizes Σ log(max((Aλ)_i, logFloor)) over the
// probability simplex, warm-started at lambda.
func solveConvexStep(ctx context.Context, A [][]float64, lambda []float64) ([]float64, error) {
	dim := len(lambda)
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for j := range lower {
		upper[j] = 1
	}

	cp := backend.NewConvexProblem(dim, lower, upper)
	cp.SetObjective(
		func(x []float64) float64 {
			total := 0.0
			for _, row := range A {
				total += math.Log(coverage(row, x))
			}

			return total
		},
		func(x []float64) []float64 {
			grad := make([]float64, dim)
			for _, row := range A {
				c := coverage(row, x)
				for j, a := range row {
					if a != 0 {
						grad[j] += a / c
					}
				}
			}

			return grad
		},
	)
	ones := make([]float64, dim)
	for j := range ones {
		ones[j] = 1
	}
	cp.AddEqualityConstraint(ones, 1)
	cp.SetInitial(lambda)

	status, err := cp.Solve(ctx)
	if err != nil {
		return nil, err
	}
	if status != backend.StatusOptimal {
		return nil, &backend.StatusError{Status: status}
	}

	return cp.X(), nil
}

func coverage(row, x []float64) float64 {
	s := 0.0
	for j, a := range row {
		s += a * x[j]
	}
	if s < logFloor {
		s = logFloor
	}

	return s
}

func uniform(n int) []float64 {
	if n == 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = 1 / float64(n)
	}

	return out
}

func clipAndRenormalize(lambda []float64) []float64 {
	out := make([]float64, len(lambda))
	sum := 0.0
	for i, v := range lambda {
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		out[i] = v
		sum += v
	}
	if sum == 0 {
		return out
	}
	for i := range out {
		out[i] /= sum
	}

	return out
}

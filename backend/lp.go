package backend

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// standardForm is the Ax=b, x>=0 encoding gonum's simplex consumes, plus
// the bookkeeping needed to map its solution back onto this Problem's
// variables (finite upper bounds and positive lower bounds are folded in
// as extra rows with their own slack columns; tombstoned constraints are
// skipped).
type standardForm struct {
	c      []float64
	A      *mat.Dense
	b      []float64
	nOrig  int // number of columns that correspond to p.vars, in order
}

// buildStandardForm lowers p's constraints and bounds into Ax=b, x>=0
// form. Every declared variable already has lb>=0 (enforced at
// AddContinuousVar/AddIntegerVar time), so a bound becomes a row only
// when it is a finite upper bound or a lower bound above 0; every LE/GE
// row gets one slack column and EQ rows get none.
//
// extraLower/extraUpper let branch-and-bound tighten a variable's bounds
// for one subproblem without mutating the Problem itself.
func (p *Problem) buildStandardForm(extraLower, extraUpper []float64) standardForm {
	n := len(p.vars)

	type row struct {
		coeffs []float64
		op     CompareOp
		rhs    float64
	}
	var rows []row

	for _, cons := range p.constraints {
		if cons.removed {
			continue
		}
		coeffs := make([]float64, n)
		for _, t := range cons.terms {
			coeffs[int(t.v)] += t.coeff
		}
		rows = append(rows, row{coeffs: coeffs, op: cons.op, rhs: cons.rhs})
	}

	for i, v := range p.vars {
		ub := v.ub
		if extraUpper != nil && !math.IsInf(extraUpper[i], 1) {
			ub = math.Min(ub, extraUpper[i])
		}
		if !math.IsInf(ub, 1) {
			coeffs := make([]float64, n)
			coeffs[i] = 1
			rows = append(rows, row{coeffs: coeffs, op: LE, rhs: ub})
		}
		lb := v.lb
		if extraLower != nil && extraLower[i] > lb {
			lb = extraLower[i]
		}
		if lb > 0 {
			coeffs := make([]float64, n)
			coeffs[i] = 1
			rows = append(rows, row{coeffs: coeffs, op: GE, rhs: lb})
		}
	}

	nSlack := 0
	for _, r := range rows {
		if r.op != EQ {
			nSlack++
		}
	}
	total := n + nSlack

	c := make([]float64, total)
	sign := 1.0
	if p.sense == Maximize {
		sign = -1.0
	}
	for i, v := range p.vars {
		c[i] = sign * v.objCoeff
	}

	A := mat.NewDense(len(rows), total, nil)
	b := make([]float64, len(rows))
	slackCol := n
	for i, r := range rows {
		rowVals := make([]float64, total)
		flip := 1.0
		if r.op == GE {
			flip = -1.0
		}
		for j := 0; j < n; j++ {
			rowVals[j] = flip * r.coeffs[j]
		}
		if r.op != EQ {
			rowVals[slackCol] = 1
			slackCol++
		}
		A.SetRow(i, rowVals)
		b[i] = flip * r.rhs
	}

	return standardForm{c: c, A: A, b: b, nOrig: n}
}

// simplexSolve runs gonum's simplex on an already-built standard form,
// used directly by branch-and-bound nodes (which build a standardForm
// per subproblem without going through solveLPOnly's Status bookkeeping).
func simplexSolve(sf standardForm) (float64, []float64, error) {
	if sf.A.RawMatrix().Rows == 0 {
		return 0, nil, lp.ErrUnbounded
	}

	return lp.Simplex(nil, sf.c, sf.A, sf.b, 0)
}

// solveLPOnly runs the LP relaxation of p (every variable continuous) and
// records the result.
func (p *Problem) solveLPOnly(ctx context.Context) (Status, error) {
	if err := ctx.Err(); err != nil {
		return StatusNumericalFailure, err
	}

	sf := p.buildStandardForm(nil, nil)
	if sf.A.RawMatrix().Rows == 0 {
		// No constraints at all: only meaningful if every variable is
		// bounded, which buildStandardForm already turned into rows
		// unless every variable is unbounded above with lb==0.
		p.status = StatusUnbounded

		return p.status, &StatusError{Status: p.status}
	}

	opt, x, err := lp.Simplex(nil, sf.c, sf.A, sf.b, 0)
	return p.recordLPResult(opt, x, sf, err)
}

// recordLPResult translates a gonum lp.Simplex outcome into this
// package's Status taxonomy and stores the solution restricted to the
// original (non-slack) columns.
func (p *Problem) recordLPResult(opt float64, x []float64, sf standardForm, err error) (Status, error) {
	if err != nil {
		switch err {
		case lp.ErrInfeasible:
			p.status = StatusInfeasible

			return p.status, &StatusError{Status: p.status, Native: err}
		case lp.ErrUnbounded:
			p.status = StatusUnbounded

			return p.status, &StatusError{Status: p.status, Native: err}
		default:
			p.status = StatusNumericalFailure

			return p.status, &StatusError{Status: p.status, Native: err}
		}
	}

	p.status = StatusOptimal
	p.solution = append([]float64(nil), x[:sf.nOrig]...)
	sign := 1.0
	if p.sense == Maximize {
		sign = -1.0
	}
	p.objValue = sign * opt

	return p.status, nil
}

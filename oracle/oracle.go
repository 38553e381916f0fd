package oracle

import (
	"context"
	"fmt"

	"github.com/civiclot/sortition/backend"
	"github.com/civiclot/sortition/panel"
)

// Oracle answers "what is the best feasible panel under these weights"
// by solving a binary program over one backend.Problem that is built
// once and reused for the life of the Oracle.
type Oracle struct {
	pool *panel.Pool
	prob *backend.Problem

	ids  []panel.RespondentID
	vars []backend.VarHandle

	// log, if non-nil, receives one-line diagnostics (Seed's coverage
	// probe, in particular); diagnostics carry no semantic role, per the
	// source system's error-handling taxonomy.
	log func(string)
}

// Init builds the binary program for pool (Σx_i=k, per-feature-value
// quota rows) and probes it with a uniform objective to confirm at least
// one feasible panel exists. It returns ErrInfeasible if not.
func Init(ctx context.Context, pool *panel.Pool, log func(string)) (*Oracle, error) {
	prob := backend.NewProblem()

	respondents := pool.Respondents()
	ids := make([]panel.RespondentID, len(respondents))
	vars := make([]backend.VarHandle, len(respondents))
	for i, r := range respondents {
		ids[i] = r.ID
		vars[i] = prob.AddBinaryVar(string(r.ID))
	}

	sizeTerms := make(map[backend.VarHandle]float64, len(vars))
	for _, v := range vars {
		sizeTerms[v] = 1
	}
	if _, err := prob.AddLinearConstraint("panel_size", sizeTerms, backend.EQ, float64(pool.K())); err != nil {
		return nil, err
	}

	for feature, values := range pool.Quotas() {
		for value, quota := range values {
			terms := map[backend.VarHandle]float64{}
			for i, r := range respondents {
				if fv, ok := r.Features[feature]; ok && fv == value {
					terms[vars[i]] = 1
				}
			}
			name := fmt.Sprintf("quota_%s_%s", feature, value)
			if quota.Min > 0 {
				if _, err := prob.AddLinearConstraint(name+"_min", terms, backend.GE, float64(quota.Min)); err != nil {
					return nil, err
				}
			}
			if _, err := prob.AddLinearConstraint(name+"_max", terms, backend.LE, float64(quota.Max)); err != nil {
				return nil, err
			}
		}
	}

	uniform := make(map[backend.VarHandle]float64, len(vars))
	for _, v := range vars {
		uniform[v] = 1
	}
	if err := prob.SetObjective(uniform, backend.Maximize); err != nil {
		return nil, err
	}

	status, err := prob.Solve(ctx, 0, 0)
	if status == backend.StatusInfeasible {
		return nil, ErrInfeasible
	}
	if err != nil {
		return nil, err
	}

	return &Oracle{pool: pool, prob: prob, ids: ids, vars: vars, log: log}, nil
}

// BestPanel solves for the feasible panel maximizing Σ w_i*x_i over its
// members. Respondents absent from w are treated as weight 0.
func (o *Oracle) BestPanel(ctx context.Context, w map[panel.RespondentID]float64) (panel.Panel, float64, error) {
	if len(w) == 0 {
		return panel.Panel{}, 0, ErrEmptyWeights
	}

	dense := make([]float64, len(o.ids))
	for i, id := range o.ids {
		dense[i] = w[id]
	}

	return o.bestPanelForWeight(ctx, dense)
}

// bestPanelForWeight reprices with a dense weight slice aligned with
// o.ids, the path used by reprice/seed loops that already hold such a
// slice and would otherwise pay a map allocation per price call.
func (o *Oracle) bestPanelForWeight(ctx context.Context, w []float64) (panel.Panel, float64, error) {
	for i, v := range o.vars {
		if err := o.prob.SetObjectiveCoeff(v, w[i]); err != nil {
			return panel.Panel{}, 0, err
		}
	}

	status, err := o.prob.Solve(ctx, 0, 0)
	if err != nil {
		return panel.Panel{}, 0, err
	}
	if status != backend.StatusOptimal {
		return panel.Panel{}, 0, &backend.StatusError{Status: status}
	}

	var members []panel.RespondentID
	for i, id := range o.ids {
		if o.prob.Value(o.vars[i]) > 0.5 {
			members = append(members, id)
		}
	}

	p := panel.NewPanel(members)
	if err := o.pool.Feasible(p); err != nil {
		return panel.Panel{}, 0, err
	}

	return p, o.prob.ObjectiveValue(), nil
}

// Respondents returns the respondent ids in the order Oracle's internal
// variables are laid out; the dense weight slices Seed prices with are
// aligned on this order.
func (o *Oracle) Respondents() []panel.RespondentID { return o.ids }

// Pool returns the respondent pool this Oracle was built from.
func (o *Oracle) Pool() *panel.Pool { return o.pool }

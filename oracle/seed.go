package oracle

import (
	"context"
	"fmt"

	"github.com/civiclot/sortition/panel"
)

// SeedResult is the output of the multiplicative-weights warm start: an
// initial diverse panel set, the subset of the pool any feasible panel
// covers, and free-form progress diagnostics.
type SeedResult struct {
	Panels      []panel.Panel
	Covered     map[panel.RespondentID]bool
	Diagnostics []string
}

// Seed runs the multiplicative-weights procedure: repeatedly price the
// current weight vector, decay the weight of newly-selected members by
// 0.8, renormalize to Σw=n, and smooth toward uniform on a repeat
// selection, for `rounds` iterations. It then probes every respondent
// not yet covered with an indicator objective, recording any that no
// feasible panel can include.
func (o *Oracle) Seed(ctx context.Context, rounds int) (SeedResult, error) {
	n := len(o.ids)
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}

	seen := map[uint64]panel.Panel{}
	covered := map[panel.RespondentID]bool{}
	var diagnostics []string

	for round := 0; round < rounds; round++ {
		p, _, err := o.bestPanelForWeight(ctx, w)
		if err != nil {
			return SeedResult{}, err
		}

		isNew := seen[p.Hash()].Len() == 0 || !seen[p.Hash()].Equal(p)
		for i, id := range o.ids {
			if p.Contains(id) {
				w[i] *= 0.8
				covered[id] = true
			}
		}
		renormalize(w, float64(n))

		if isNew {
			seen[p.Hash()] = p
		} else {
			for i := range w {
				w[i] = 0.9*w[i] + 0.1
			}
			renormalize(w, float64(n))
		}
	}

	for _, id := range o.ids {
		if covered[id] {
			continue
		}
		indicator := make([]float64, n)
		for i, other := range o.ids {
			if other == id {
				indicator[i] = 1
			}
		}
		p, _, err := o.bestPanelForWeight(ctx, indicator)
		if err != nil {
			return SeedResult{}, err
		}
		if p.Contains(id) {
			seen[p.Hash()] = p
			covered[id] = true
		} else {
			diagnostics = append(diagnostics, fmt.Sprintf("respondent %s not in any feasible panel", id))
		}
	}

	panels := make([]panel.Panel, 0, len(seen))
	for _, p := range seen {
		panels = append(panels, p)
	}

	o.logf("seed: %d panels, %d/%d respondents covered", len(panels), len(covered), n)

	return SeedResult{Panels: panels, Covered: covered, Diagnostics: diagnostics}, nil
}

func renormalize(w []float64, target float64) {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if sum == 0 {
		return
	}
	scale := target / sum
	for i := range w {
		w[i] *= scale
	}
}

func (o *Oracle) logf(format string, args ...any) {
	if o.log != nil {
		o.log(fmt.Sprintf(format, args...))
	}
}

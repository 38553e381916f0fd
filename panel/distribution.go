package panel

import "math"

// distTol is the tolerance on |sum(weights) - 1| for a continuous
// Distribution, per the source system's invariant (10^-8 at construction
// time, relaxed to 10^-6 for downstream validation of solver output).
const distTol = 1e-6

// Distribution is a finite continuous distribution over feasible panels:
// parallel slices Panels and Weights, with Weights summing to 1 within
// distTol and every weight non-negative.
type Distribution struct {
	Panels  []Panel
	Weights []float64
}

// Validate checks the two structural invariants: non-negative weights and
// a sum within distTol of 1. It does not re-check panel feasibility,
// which is the producer's responsibility at insertion time.
func (d Distribution) Validate() error {
	if len(d.Panels) != len(d.Weights) {
		return ErrBadDistribution
	}
	var sum float64
	for _, w := range d.Weights {
		if w < 0 {
			return ErrBadDistribution
		}
		sum += w
	}
	if math.Abs(sum-1) > distTol {
		return ErrBadDistribution
	}

	return nil
}

// Marginal returns Σ{j : id ∈ Panels[j]} Weights[j], the probability that
// id is selected under this distribution. Complexity: O(n·log k).
func (d Distribution) Marginal(id RespondentID) float64 {
	var m float64
	for i, p := range d.Panels {
		if p.Contains(id) {
			m += d.Weights[i]
		}
	}

	return m
}

// Marginals computes Marginal for every respondent in ids at once,
// amortizing the panel scan. Complexity: O(n·k) where n = len(Panels).
func (d Distribution) Marginals(ids []RespondentID) map[RespondentID]float64 {
	out := make(map[RespondentID]float64, len(ids))
	for _, id := range ids {
		out[id] = 0
	}
	for i, p := range d.Panels {
		w := d.Weights[i]
		if w == 0 {
			continue
		}
		for _, id := range p.Members() {
			if _, tracked := out[id]; tracked {
				out[id] += w
			}
		}
	}

	return out
}

// Renormalize clips negative noise to zero and rescales so weights sum to
// exactly 1. It mutates and returns the receiver's Weights slice in
// place; if every weight is zero there is nothing to rescale and the
// all-zero weights are returned as they are.
func (d Distribution) Renormalize() Distribution {
	var sum float64
	for i, w := range d.Weights {
		if w < 0 {
			d.Weights[i] = 0
			w = 0
		}
		sum += w
	}
	if sum == 0 {
		return d
	}
	for i := range d.Weights {
		d.Weights[i] /= sum
	}

	return d
}

// UniformDistribution is a uniform-over-M distribution: parallel slices
// Panels and Multiplicities, with Multiplicities non-negative integers
// summing exactly to M. The realized probability of Panels[j] is
// Multiplicities[j] / M.
type UniformDistribution struct {
	Panels         []Panel
	Multiplicities []int
	M              int
}

// Validate checks the structural invariant: non-negative integer
// multiplicities summing exactly to M.
func (u UniformDistribution) Validate() error {
	if len(u.Panels) != len(u.Multiplicities) || u.M <= 0 {
		return ErrBadUniformDistribution
	}
	sum := 0
	for _, m := range u.Multiplicities {
		if m < 0 {
			return ErrBadUniformDistribution
		}
		sum += m
	}
	if sum != u.M {
		return ErrBadUniformDistribution
	}

	return nil
}

// Marginal returns the fraction of the M copies that include id.
func (u UniformDistribution) Marginal(id RespondentID) float64 {
	count := 0
	for i, p := range u.Panels {
		if p.Contains(id) {
			count += u.Multiplicities[i]
		}
	}

	return float64(count) / float64(u.M)
}

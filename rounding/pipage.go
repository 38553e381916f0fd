package rounding

import (
	"math"

	"golang.org/x/exp/rand"

	"github.com/civiclot/sortition/panel"
)

// pipageTieEpsilon is the distance from {0,1} at which a fractional part
// is treated as already integral.
const pipageTieEpsilon = 1e-5

// Pipage performs sequential two-coordinate pipage rounding of a
// continuous distribution lambda (aligned with B) to integer
// multiplicities of M. It preserves Σq_j exactly at every step and
// induces negative correlation between the rounded indicators, which
// bounds marginal deviation without an LP solve.
func Pipage(B []panel.Panel, lambda []float64, M int, seed uint64) (panel.UniformDistribution, error) {
	if len(B) == 0 {
		return panel.UniformDistribution{}, ErrEmptyPanelSet
	}

	n := len(B)
	floors := make([]int, n)
	q := make([]float64, n)
	for j, lam := range lambda {
		s := float64(M) * lam
		f := math.Floor(s)
		floors[j] = int(f)
		q[j] = s - f
	}

	pending := make([]int, 0, n)
	for j, v := range q {
		if !nearInt(v) {
			pending = append(pending, j)
		}
	}

	src := rand.New(rand.NewSource(seed))

	for len(pending) >= 2 {
		j1, j2 := pending[0], pending[1]
		p1, p2 := q[j1], q[j2]

		alpha := math.Min(1-p1, p2)
		beta := math.Min(p1, 1-p2)

		u := src.Float64()
		if u <= alpha/(alpha+beta) {
			q[j1] = p1 - beta
			q[j2] = p2 + beta
		} else {
			q[j1] = p1 + alpha
			q[j2] = p2 - alpha
		}

		next := pending[:0]
		for _, j := range pending {
			if !nearInt(q[j]) {
				next = append(next, j)
			}
		}
		pending = next
	}

	mult := make([]int, n)
	for j := range mult {
		mult[j] = floors[j] + int(roundNearest(q[j]))
	}

	return buildUniform(B, mult, M), nil
}

func nearInt(v float64) bool {
	return v < pipageTieEpsilon || v > 1-pipageTieEpsilon
}

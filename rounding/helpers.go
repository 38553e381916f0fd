package rounding

import "github.com/civiclot/sortition/panel"

// buildUniform packs per-panel integer multiplicities (aligned with B)
// into a panel.UniformDistribution, dropping panels with zero multiplicity.
func buildUniform(B []panel.Panel, mult []int, M int) panel.UniformDistribution {
	var panels []panel.Panel
	var multiplicities []int
	for j, m := range mult {
		if m <= 0 {
			continue
		}
		panels = append(panels, B[j])
		multiplicities = append(multiplicities, m)
	}

	return panel.UniformDistribution{Panels: panels, Multiplicities: multiplicities, M: M}
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

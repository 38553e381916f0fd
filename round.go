package sortition

import (
	"context"
	"fmt"

	"github.com/civiclot/sortition/panel"
	"github.com/civiclot/sortition/rounding"
)

// Round dispatches sol's continuous distribution to one of four
// independent rounding routines, producing a uniform lottery over
// cfg.M panels.
//
// OptILP solves the rounding problem to exact optimality: it matches
// Nash objectives against the piecewise-linear log approximation and
// matches Maximin/Leximin objectives against the maximin marginal
// directly, since both share the same "preserve the worst-off
// respondent's coverage" shape. BeckFiala, Pipage, and MinimaxChange
// are objective-agnostic: they round whatever continuous distribution
// they are given.
func Round(ctx context.Context, sol Solution, kind RounderKind, cfg Config) (panel.UniformDistribution, error) {
	if cfg.M <= 0 {
		return panel.UniformDistribution{}, ErrInvalidConfig
	}

	switch kind {
	case OptILP:
		if sol.Objective == Nash {
			return rounding.ILPNash(ctx, sol.Distribution.Panels, sol.Covered, cfg.M)
		}
		return rounding.ILPMaximin(ctx, sol.Distribution.Panels, sol.Covered, cfg.M)

	case BeckFiala:
		return rounding.BeckFiala(ctx, sol.Distribution.Panels, sol.Covered, sol.Distribution.Weights, cfg.M, sol.PanelSize)

	case Pipage:
		return rounding.Pipage(sol.Distribution.Panels, sol.Distribution.Weights, cfg.M, cfg.PipageSeed)

	case MinimaxChange:
		targets := sol.Distribution.Marginals(sol.Covered)
		return rounding.MinimaxChange(ctx, sol.Distribution.Panels, targets, cfg.M)

	default:
		return panel.UniformDistribution{}, fmt.Errorf("sortition: unknown rounder kind %d", kind)
	}
}

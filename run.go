package sortition

import (
	"context"

	"github.com/civiclot/sortition/leximin"
	"github.com/civiclot/sortition/maximin"
	"github.com/civiclot/sortition/nash"
	"github.com/civiclot/sortition/oracle"
	"github.com/civiclot/sortition/panel"
)

// Solution is a continuous distribution together with the bookkeeping
// Round needs to produce a uniform lottery from it.
type Solution struct {
	Objective    ObjectiveKind
	Distribution panel.Distribution
	Covered      []panel.RespondentID
	Uncovered    []panel.RespondentID
	PanelSize    int
}

// RunMaximin builds a Panel Oracle over pool and runs column generation
// maximizing the minimum marginal.
func RunMaximin(ctx context.Context, pool *panel.Pool, cfg Config) (Solution, error) {
	orc, seed, err := initAndSeed(ctx, pool, cfg)
	if err != nil {
		return Solution{}, err
	}

	result, err := maximin.Solve(ctx, orc, seed.covered, seed.panels)
	if err != nil {
		return Solution{}, err
	}

	return Solution{Objective: Maximin, Distribution: result.Distribution, Covered: seed.covered, PanelSize: pool.K()}, nil
}

// RunLeximin builds a Panel Oracle over pool and runs iterated column
// generation fixing marginals in lexicographic order.
func RunLeximin(ctx context.Context, pool *panel.Pool, cfg Config) (Solution, error) {
	orc, seed, err := initAndSeed(ctx, pool, cfg)
	if err != nil {
		return Solution{}, err
	}

	result, err := leximin.Solve(ctx, orc, seed.covered, seed.panels)
	if err != nil {
		return Solution{}, err
	}

	return Solution{Objective: Leximin, Distribution: result.Distribution, Covered: seed.covered, PanelSize: pool.K()}, nil
}

// RunNash builds a Panel Oracle over pool and runs convex column
// generation maximizing Σ log(marginal).
func RunNash(ctx context.Context, pool *panel.Pool, cfg Config) (Solution, error) {
	orc, seed, err := initAndSeed(ctx, pool, cfg)
	if err != nil {
		return Solution{}, err
	}

	result, err := nash.Solve(ctx, orc, seed.covered, seed.uncovered, seed.panels)
	if err != nil {
		return Solution{}, err
	}

	return Solution{
		Objective:    Nash,
		Distribution: result.Distribution,
		Covered:      seed.covered,
		Uncovered:    result.Uncovered,
		PanelSize:    pool.K(),
	}, nil
}

// seedSplit is the Panel Oracle's initial diverse panel set split into
// covered and uncovered respondents.
type seedSplit struct {
	panels    []panel.Panel
	covered   []panel.RespondentID
	uncovered []panel.RespondentID
}

// initAndSeed is shared setup for every Run* entry point: it builds the
// Panel Oracle, runs its multiplicative-weights seed procedure, and
// splits the pool into covered/uncovered respondents.
func initAndSeed(ctx context.Context, pool *panel.Pool, cfg Config) (*oracle.Oracle, seedSplit, error) {
	if cfg.PanelSize <= 0 {
		return nil, seedSplit{}, ErrInvalidConfig
	}

	orc, err := oracle.Init(ctx, pool, cfg.Log)
	if err != nil {
		return nil, seedSplit{}, err
	}

	rounds := cfg.SeedRounds
	if rounds <= 0 {
		rounds = DefaultSeedRounds
	}

	seedResult, err := orc.Seed(ctx, rounds)
	if err != nil {
		return nil, seedSplit{}, err
	}

	var split seedSplit
	split.panels = seedResult.Panels
	for _, id := range orc.Respondents() {
		if seedResult.Covered[id] {
			split.covered = append(split.covered, id)
		} else {
			split.uncovered = append(split.uncovered, id)
		}
	}

	return orc, split, nil
}

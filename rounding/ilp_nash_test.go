package rounding_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/civiclot/sortition/panel"
	"github.com/civiclot/sortition/rounding"
)

// tangentEnvelope mirrors ILPNash's own min-of-tangent-lines construction
// (z <= log(bp) + (u-bp)/bp for each breakpoint bp), so this test checks
// the envelope the solver actually optimizes against, not a reimplementation.
func tangentEnvelope(breakpoints []float64, u float64) float64 {
	best := math.Inf(1)
	for _, bp := range breakpoints {
		v := math.Log(bp) + (u-bp)/bp
		if v < best {
			best = v
		}
	}
	return best
}

// TestTangentBreakpoints_ApproximatesLogAtLargeM checks the envelope
// against math.Log directly at a utility scale (M=1000) large enough
// that evenly-spaced-in-u breakpoints would badly underresolve small u.
func TestTangentBreakpoints_ApproximatesLogAtLargeM(t *testing.T) {
	const M = 1000
	const relErr = 1e-4

	breakpoints := rounding.TestHookTangentBreakpoints(M, relErr)
	require.GreaterOrEqual(t, len(breakpoints), 2)

	for _, u := range []float64{2, 5, 10, 100, 500, 1000} {
		envelope := tangentEnvelope(breakpoints, u)
		trueLog := math.Log(u)

		require.GreaterOrEqual(t, envelope, trueLog-1e-9, "u=%v", u)

		relative := (envelope - trueLog) / trueLog
		require.Lessf(t, relative, 0.02, "relative error too large at u=%v: envelope=%v true=%v", u, envelope, trueLog)
	}
}

// TestILPNash_ProducesValidUniformDistribution smoke-tests the
// piecewise-linear log approximation on a small instance; this does not
// assert optimality, only that the output is a well-formed uniform
// distribution covering every respondent.
func TestILPNash_ProducesValidUniformDistribution(t *testing.T) {
	B := []panel.Panel{
		panel.NewPanel([]panel.RespondentID{"1", "2"}),
		panel.NewPanel([]panel.RespondentID{"1", "3"}),
		panel.NewPanel([]panel.RespondentID{"2", "3"}),
	}
	covered := []panel.RespondentID{"1", "2", "3"}

	result, err := rounding.ILPNash(context.Background(), B, covered, 6)
	require.NoError(t, err)
	require.NoError(t, result.Validate())
	for _, id := range covered {
		require.Greater(t, result.Marginal(id), 0.0)
	}
}

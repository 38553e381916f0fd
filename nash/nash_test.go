package nash_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/civiclot/sortition/nash"
	"github.com/civiclot/sortition/oracle"
	"github.com/civiclot/sortition/panel"
)

// TestSolve_UnconstrainedTripleGivesTwoThirdsMarginals reproduces the
// n=3, k=2, quota-unconstrained instance: Nash should return marginal
// 2/3 for every respondent, supported on the three size-2 subsets.
func TestSolve_UnconstrainedTripleGivesTwoThirdsMarginals(t *testing.T) {
	respondents := []panel.Respondent{
		{ID: "1", Features: map[string]string{"tag": "a"}},
		{ID: "2", Features: map[string]string{"tag": "a"}},
		{ID: "3", Features: map[string]string{"tag": "a"}},
	}
	quotas := panel.QuotaSpec{"tag": {"a": {Min: 0, Max: 2}}}
	pool, err := panel.NewPool(respondents, quotas, 2)
	require.NoError(t, err)

	orc, err := oracle.Init(context.Background(), pool, nil)
	require.NoError(t, err)

	seed, err := orc.Seed(context.Background(), 8)
	require.NoError(t, err)
	require.Empty(t, seed.Diagnostics)

	result, err := nash.Solve(context.Background(), orc, orc.Respondents(), nil, seed.Panels)
	require.NoError(t, err)

	require.NoError(t, result.Distribution.Validate())
	for _, id := range orc.Respondents() {
		require.InDelta(t, 2.0/3.0, result.Distribution.Marginal(id), 1e-2)
	}
}

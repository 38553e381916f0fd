package leximin_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/civiclot/sortition/leximin"
	"github.com/civiclot/sortition/oracle"
	"github.com/civiclot/sortition/panel"
)

// TestSolve_EqualMarginalsOnSymmetricColorInstance: the fully symmetric
// red/blue instance has a unique leximin-optimal marginal vector of all
// 0.5s, matching the maximin result for this instance.
func TestSolve_EqualMarginalsOnSymmetricColorInstance(t *testing.T) {
	respondents := []panel.Respondent{
		{ID: "1", Features: map[string]string{"color": "red"}},
		{ID: "2", Features: map[string]string{"color": "red"}},
		{ID: "3", Features: map[string]string{"color": "blue"}},
		{ID: "4", Features: map[string]string{"color": "blue"}},
	}
	quotas := panel.QuotaSpec{
		"color": {
			"red":  {Min: 1, Max: 1},
			"blue": {Min: 1, Max: 1},
		},
	}
	pool, err := panel.NewPool(respondents, quotas, 2)
	require.NoError(t, err)

	orc, err := oracle.Init(context.Background(), pool, nil)
	require.NoError(t, err)

	seed, err := orc.Seed(context.Background(), 8)
	require.NoError(t, err)

	result, err := leximin.Solve(context.Background(), orc, orc.Respondents(), seed.Panels)
	require.NoError(t, err)

	require.NoError(t, result.Distribution.Validate())
	for _, id := range orc.Respondents() {
		require.InDelta(t, 0.5, result.Distribution.Marginal(id), 1e-2)
	}
}

package panel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/civiclot/sortition/panel"
)

func TestPanel_HashAndEqualAreOrderIndependent(t *testing.T) {
	a := panel.NewPanel([]panel.RespondentID{"3", "1", "2"})
	b := panel.NewPanel([]panel.RespondentID{"1", "2", "3"})

	require.True(t, a.Equal(b))
	require.Equal(t, a.Hash(), b.Hash())
	require.Equal(t, []panel.RespondentID{"1", "2", "3"}, a.Members())
}

func TestPanel_DifferentMembersDoNotCollide(t *testing.T) {
	a := panel.NewPanel([]panel.RespondentID{"1", "2"})
	b := panel.NewPanel([]panel.RespondentID{"1", "3"})

	require.False(t, a.Equal(b))
	require.NotEqual(t, a.Hash(), b.Hash())
}

func TestPanel_Contains(t *testing.T) {
	p := panel.NewPanel([]panel.RespondentID{"5", "1", "9"})

	require.True(t, p.Contains("1"))
	require.True(t, p.Contains("9"))
	require.False(t, p.Contains("2"))
}

func newColorPool(t *testing.T) *panel.Pool {
	t.Helper()
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

	return pool
}

func TestPool_FeasibleAcceptsQuotaSatisfyingPanel(t *testing.T) {
	pool := newColorPool(t)

	require.NoError(t, pool.Feasible(panel.NewPanel([]panel.RespondentID{"1", "3"})))
	require.NoError(t, pool.Feasible(panel.NewPanel([]panel.RespondentID{"2", "4"})))
}

func TestPool_FeasibleRejectsQuotaViolation(t *testing.T) {
	pool := newColorPool(t)

	require.ErrorIs(t, pool.Feasible(panel.NewPanel([]panel.RespondentID{"1", "2"})), panel.ErrQuotaViolated)
}

func TestPool_FeasibleRejectsWrongSize(t *testing.T) {
	pool := newColorPool(t)

	require.ErrorIs(t, pool.Feasible(panel.NewPanel([]panel.RespondentID{"1"})), panel.ErrWrongPanelSize)
}

func TestNewPool_RejectsInvalidQuota(t *testing.T) {
	respondents := []panel.Respondent{{ID: "1", Features: map[string]string{"color": "red"}}}
	quotas := panel.QuotaSpec{"color": {"red": {Min: 3, Max: 1}}}

	_, err := panel.NewPool(respondents, quotas, 1)
	require.ErrorIs(t, err, panel.ErrInvalidQuota)
}

func TestNewPool_RejectsDuplicateRespondent(t *testing.T) {
	respondents := []panel.Respondent{
		{ID: "1", Features: nil},
		{ID: "1", Features: nil},
	}

	_, err := panel.NewPool(respondents, panel.QuotaSpec{}, 1)
	require.ErrorIs(t, err, panel.ErrDuplicateRespondent)
}

func TestDistribution_MarginalAndValidate(t *testing.T) {
	d := panel.Distribution{
		Panels: []panel.Panel{
			panel.NewPanel([]panel.RespondentID{"1", "3"}),
			panel.NewPanel([]panel.RespondentID{"2", "4"}),
		},
		Weights: []float64{0.5, 0.5},
	}
	require.NoError(t, d.Validate())
	require.InDelta(t, 0.5, d.Marginal("1"), 1e-12)
	require.InDelta(t, 0.5, d.Marginal("4"), 1e-12)
	require.InDelta(t, 0.0, d.Marginal("99"), 1e-12)
}

func TestDistribution_ValidateRejectsBadWeights(t *testing.T) {
	d := panel.Distribution{
		Panels:  []panel.Panel{panel.NewPanel([]panel.RespondentID{"1"})},
		Weights: []float64{0.4},
	}
	require.ErrorIs(t, d.Validate(), panel.ErrBadDistribution)
}

func TestUniformDistribution_ValidateAndMarginal(t *testing.T) {
	u := panel.UniformDistribution{
		Panels: []panel.Panel{
			panel.NewPanel([]panel.RespondentID{"1", "3"}),
			panel.NewPanel([]panel.RespondentID{"2", "4"}),
		},
		Multiplicities: []int{5, 5},
		M:              10,
	}
	require.NoError(t, u.Validate())
	require.InDelta(t, 0.5, u.Marginal("1"), 1e-12)
}

func TestUniformDistribution_ValidateRejectsWrongSum(t *testing.T) {
	u := panel.UniformDistribution{
		Panels:         []panel.Panel{panel.NewPanel([]panel.RespondentID{"1"})},
		Multiplicities: []int{3},
		M:              10,
	}
	require.ErrorIs(t, u.Validate(), panel.ErrBadUniformDistribution)
}

package rounding_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/civiclot/sortition/panel"
	"github.com/civiclot/sortition/rounding"
)

// TestBeckFiala_BoundsMarginalDriftByK: a distribution with M=4,
// M*lambda=(1.5,1.5,0.5,0.5) and k=2 must leave every respondent's
// marginal within k/M of the input.
func TestBeckFiala_BoundsMarginalDriftByK(t *testing.T) {
	B := []panel.Panel{
		panel.NewPanel([]panel.RespondentID{"1", "2"}),
		panel.NewPanel([]panel.RespondentID{"1", "3"}),
		panel.NewPanel([]panel.RespondentID{"2", "4"}),
		panel.NewPanel([]panel.RespondentID{"3", "4"}),
	}
	M := 4
	lambda := []float64{1.5 / float64(M), 1.5 / float64(M), 0.5 / float64(M), 0.5 / float64(M)}
	covered := []panel.RespondentID{"1", "2", "3", "4"}
	k := 2

	inputMarginal := map[panel.RespondentID]float64{}
	for _, id := range covered {
		for j, p := range B {
			if p.Contains(id) {
				inputMarginal[id] += lambda[j]
			}
		}
	}

	result, err := rounding.BeckFiala(context.Background(), B, covered, lambda, M, k)
	require.NoError(t, err)
	require.NoError(t, result.Validate())

	for _, id := range covered {
		require.InDelta(t, inputMarginal[id], result.Marginal(id), float64(k)/float64(M)+1e-9)
	}
}

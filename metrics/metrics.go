package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/civiclot/sortition/panel"
)

// MarginalSummary reports descriptive statistics over a set of
// respondent marginals.
type MarginalSummary struct {
	Min, Max, Mean, StdDev float64
	N                      int
}

// SummarizeContinuous computes marginal statistics across every
// respondent in ids for a continuous distribution.
func SummarizeContinuous(d panel.Distribution, ids []panel.RespondentID) MarginalSummary {
	values := make([]float64, len(ids))
	marginals := d.Marginals(ids)
	for i, id := range ids {
		values[i] = marginals[id]
	}

	return summarize(values)
}

// SummarizeUniform computes marginal statistics across every respondent
// in ids for a rounded uniform-M distribution.
func SummarizeUniform(u panel.UniformDistribution, ids []panel.RespondentID) MarginalSummary {
	values := make([]float64, len(ids))
	for i, id := range ids {
		values[i] = u.Marginal(id)
	}

	return summarize(values)
}

func summarize(values []float64) MarginalSummary {
	if len(values) == 0 {
		return MarginalSummary{}
	}

	mean, stddev := stat.MeanStdDev(values, nil)

	return MarginalSummary{
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   mean,
		StdDev: stddev,
		N:      len(values),
	}
}

package backend_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/civiclot/sortition/backend"
)

// ProblemSuite exercises Problem across LP-only and mixed-integer solves.
type ProblemSuite struct {
	suite.Suite
}

func TestProblemSuite(t *testing.T) {
	suite.Run(t, new(ProblemSuite))
}

// TestLPMaximize solves max 3x+2y s.t. x+y<=4, x<=3, y<=3, x,y>=0, whose
// optimum is x=3,y=1, objective 11.
func (s *ProblemSuite) TestLPMaximize() {
	p := backend.NewProblem()
	x, err := p.AddContinuousVar("x", 0, 3)
	require.NoError(s.T(), err)
	y, err := p.AddContinuousVar("y", 0, 3)
	require.NoError(s.T(), err)

	_, err = p.AddLinearConstraint("capacity", map[backend.VarHandle]float64{x: 1, y: 1}, backend.LE, 4)
	require.NoError(s.T(), err)
	require.NoError(s.T(), p.SetObjective(map[backend.VarHandle]float64{x: 3, y: 2}, backend.Maximize))

	status, err := p.Solve(context.Background(), 0, 0)
	require.NoError(s.T(), err)
	require.Equal(s.T(), backend.StatusOptimal, status)
	require.InDelta(s.T(), 11, p.ObjectiveValue(), 1e-6)
	require.InDelta(s.T(), 3, p.Value(x), 1e-6)
	require.InDelta(s.T(), 1, p.Value(y), 1e-6)
}

// TestLPInfeasible solves x<=1, x>=2 which has no feasible point.
func (s *ProblemSuite) TestLPInfeasible() {
	p := backend.NewProblem()
	x, err := p.AddContinuousVar("x", 0, 1)
	require.NoError(s.T(), err)
	_, err = p.AddLinearConstraint("lb", map[backend.VarHandle]float64{x: 1}, backend.GE, 2)
	require.NoError(s.T(), err)
	require.NoError(s.T(), p.SetObjective(map[backend.VarHandle]float64{x: 1}, backend.Minimize))

	status, err := p.Solve(context.Background(), 0, 0)
	require.Error(s.T(), err)
	require.Equal(s.T(), backend.StatusInfeasible, status)
}

// TestBinaryKnapsack picks the best value-3 item subset under a weight
// cap of 5 from weights {4,3,2} values {10,8,6}: optimum selects the last
// two items, value 14.
func (s *ProblemSuite) TestBinaryKnapsack() {
	p := backend.NewProblem()
	weights := []float64{4, 3, 2}
	values := []float64{10, 8, 6}
	vars := make([]backend.VarHandle, len(weights))
	for i := range weights {
		vars[i] = p.AddBinaryVar("item")
	}

	terms := make(map[backend.VarHandle]float64, len(vars))
	for i, v := range vars {
		terms[v] = weights[i]
	}
	_, err := p.AddLinearConstraint("capacity", terms, backend.LE, 5)
	require.NoError(s.T(), err)

	obj := make(map[backend.VarHandle]float64, len(vars))
	for i, v := range vars {
		obj[v] = values[i]
	}
	require.NoError(s.T(), p.SetObjective(obj, backend.Maximize))

	status, err := p.Solve(context.Background(), time.Second, 1e-6)
	require.NoError(s.T(), err)
	require.Equal(s.T(), backend.StatusOptimal, status)
	require.InDelta(s.T(), 14, p.ObjectiveValue(), 1e-6)
}

// TestSetObjectiveCoeffReprices verifies a Problem can be resolved after
// mutating only its objective, the Panel Oracle's reuse pattern.
func (s *ProblemSuite) TestSetObjectiveCoeffReprices() {
	p := backend.NewProblem()
	x := p.AddBinaryVar("x")
	y := p.AddBinaryVar("y")
	_, err := p.AddLinearConstraint("atMostOne", map[backend.VarHandle]float64{x: 1, y: 1}, backend.LE, 1)
	require.NoError(s.T(), err)
	require.NoError(s.T(), p.SetObjective(map[backend.VarHandle]float64{x: 1, y: 2}, backend.Maximize))

	status, err := p.Solve(context.Background(), time.Second, 1e-6)
	require.NoError(s.T(), err)
	require.Equal(s.T(), backend.StatusOptimal, status)
	require.InDelta(s.T(), 1, p.Value(y), 1e-6)

	require.NoError(s.T(), p.SetObjectiveCoeff(x, 5))
	status, err = p.Solve(context.Background(), time.Second, 1e-6)
	require.NoError(s.T(), err)
	require.Equal(s.T(), backend.StatusOptimal, status)
	require.InDelta(s.T(), 1, p.Value(x), 1e-6)
	require.InDelta(s.T(), 0, p.Value(y), 1e-6)
}

// TestRemoveConstraintRelaxesModel verifies a tombstoned constraint no
// longer binds the solve, the mechanism Beck-Fiala dependent rounding
// relies on to drop respondent rows as their bounds tighten.
func (s *ProblemSuite) TestRemoveConstraintRelaxesModel() {
	p := backend.NewProblem()
	x, err := p.AddContinuousVar("x", 0, 10)
	require.NoError(s.T(), err)
	h, err := p.AddLinearConstraint("cap", map[backend.VarHandle]float64{x: 1}, backend.LE, 2)
	require.NoError(s.T(), err)
	require.NoError(s.T(), p.SetObjective(map[backend.VarHandle]float64{x: 1}, backend.Maximize))

	status, err := p.Solve(context.Background(), 0, 0)
	require.NoError(s.T(), err)
	require.Equal(s.T(), backend.StatusOptimal, status)
	require.InDelta(s.T(), 2, p.ObjectiveValue(), 1e-6)

	require.NoError(s.T(), p.RemoveConstraint(h))
	status, err = p.Solve(context.Background(), 0, 0)
	require.NoError(s.T(), err)
	require.Equal(s.T(), backend.StatusOptimal, status)
	require.InDelta(s.T(), 10, p.ObjectiveValue(), 1e-6)
}

// TestNegativeLowerBoundRejected locks in the documented lb>=0 limitation.
func (s *ProblemSuite) TestNegativeLowerBoundRejected() {
	p := backend.NewProblem()
	_, err := p.AddContinuousVar("x", -1, 1)
	require.ErrorIs(s.T(), err, backend.ErrNegativeLowerBound)
}

// TestSolveWithoutObjective verifies the ErrNoObjective guard.
func (s *ProblemSuite) TestSolveWithoutObjective() {
	p := backend.NewProblem()
	_, err := p.AddContinuousVar("x", 0, 1)
	require.NoError(s.T(), err)

	_, err = p.Solve(context.Background(), 0, 0)
	require.ErrorIs(s.T(), err, backend.ErrNoObjective)
}

func TestConvexProblem_MaximizesSumOfLogs(t *testing.T) {
	// maximize log(x) + log(y) s.t. x+y=1, x,y in [0.01, 0.99]: optimum
	// at x=y=0.5 by AM-GM.
	cp := backend.NewConvexProblem(2, []float64{0.01, 0.01}, []float64{0.99, 0.99})
	cp.SetObjective(
		func(x []float64) float64 { return logSum(x) },
		func(x []float64) []float64 { return []float64{1 / x[0], 1 / x[1]} },
	)
	cp.AddEqualityConstraint([]float64{1, 1}, 1)
	cp.SetInitial([]float64{0.3, 0.7})

	status, err := cp.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, backend.StatusOptimal, status)
	require.InDelta(t, 0.5, cp.X()[0], 1e-2)
	require.InDelta(t, 0.5, cp.X()[1], 1e-2)
}

func logSum(x []float64) float64 {
	total := 0.0
	for _, v := range x {
		total += math.Log(v)
	}

	return total
}

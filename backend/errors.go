package backend

import "errors"

// Sentinel errors for the backend package.
var (
	// ErrUnknownVariable indicates a VarHandle not recognized by this Problem.
	ErrUnknownVariable = errors.New("backend: unknown variable handle")

	// ErrUnknownConstraint indicates a ConstraintHandle not recognized by this Problem.
	ErrUnknownConstraint = errors.New("backend: unknown constraint handle")

	// ErrNegativeLowerBound indicates a variable was declared with lb < 0.
	// The branch-and-bound/simplex conversion in this package only supports
	// nonnegative variable domains (the same limitation the teacher
	// repository's branch-and-bound grounding documents as an open TODO).
	ErrNegativeLowerBound = errors.New("backend: variable lower bound must be >= 0")

	// ErrInvalidBounds indicates lb > ub for a declared variable.
	ErrInvalidBounds = errors.New("backend: invalid variable bounds")

	// ErrNoObjective indicates Solve was called before SetObjective.
	ErrNoObjective = errors.New("backend: objective not set")

	// ErrUnexpectedStatus wraps a non-optimal, non-infeasible status
	// returned by the underlying LP/MILP engine; per the source system's
	// error taxonomy this is always fatal to the caller.
	ErrUnexpectedStatus = errors.New("backend: unexpected solver status")
)

// StatusError reports the backend's terminal status alongside the native
// error (if any) that produced it, so a caller can log the original
// diagnostic while still matching on Status with errors.Is via Unwrap.
type StatusError struct {
	Status Status
	Native error
}

func (e *StatusError) Error() string {
	if e.Native != nil {
		return "backend: " + e.Status.String() + ": " + e.Native.Error()
	}

	return "backend: " + e.Status.String()
}

func (e *StatusError) Unwrap() error {
	if e.Status == StatusInfeasible {
		return nil
	}

	return ErrUnexpectedStatus
}

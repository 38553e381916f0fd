package sortition

import "errors"

// ErrInvalidConfig indicates a Config field is out of range for the
// requested operation (PanelSize or M not positive).
var ErrInvalidConfig = errors.New("sortition: invalid configuration")

// ObjectiveKind selects which solver an entry point runs.
type ObjectiveKind int

const (
	Maximin ObjectiveKind = iota
	Leximin
	Nash
)

// RounderKind selects which rounding routine Round dispatches to.
type RounderKind int

const (
	OptILP RounderKind = iota
	BeckFiala
	Pipage
	MinimaxChange
)

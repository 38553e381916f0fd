// Package panel defines the data model shared by every component of the
// sortition engine: respondents, quotas, feasible panels, and the two
// distribution shapes (continuous and uniform-over-M) the solvers and
// rounders produce.
//
// A Panel is a fixed-size, content-addressable set of respondent IDs. It
// carries no notion of feasibility by itself — NewPanel checks nothing;
// the Panel Oracle checks each panel it builds against its Pool's
// QuotaSpec (Pool.Feasible) before returning it, and
// every component that stores panels is expected to have already validated
// them (see Pool.Feasible). Panels compare and hash by member set, not by
// insertion order, so the same panel discovered twice by the pricing
// oracle collapses to one entry in a solver's panel set.
//
// Respondents and quotas are loaded once per run and never mutated; Panel
// sets grow monotonically within a solver run and are never pruned.
package panel

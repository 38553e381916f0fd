// Package sortition computes a probability distribution over feasible
// panels — fixed-size, quota-constrained subsets of a respondent pool —
// that optimizes a fairness objective over individual selection
// marginals, and rounds that distribution to a uniform lottery over M
// panels.
//
// The public surface is one function per objective plus one rounding
// dispatcher, taking an explicit Config and in-memory inputs, per the
// source system's "no process-wide state" design note: RunMaximin,
// RunLeximin, and RunNash each build a Panel Oracle, run their
// column-generation loop, and return a Solution holding the continuous
// Distribution; Round then dispatches that Solution to one of four
// independent rounding routines selected by RounderKind.
//
// Everything upstream of these entry points — CSV ingestion, CLI
// parameter selection, progress logging to files, the per-instance
// experiment driver — is left to the caller.
package sortition

package rounding

import "errors"

// ErrEmptyPanelSet indicates a rounder was called with no panels.
var ErrEmptyPanelSet = errors.New("rounding: empty panel set")

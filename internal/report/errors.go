// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report orchestrates report synthesis: source selection, prompt
// construction, generation, citation extraction, confidence estimation, and
// persistence.
package report

import (
	"errors"
	"fmt"
)

// ErrNoSources indicates the selector produced an empty filtered set for the
// topic. No report is written; the failure surfaces verbatim to the caller.
var ErrNoSources = errors.New("no sources found")

// BackendError tags a failure of the text-generation backend. Terminal for
// the report attempt that hit it.
type BackendError struct {
	// Op names the generation step that failed ("report", "summary").
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("generation backend failed during %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

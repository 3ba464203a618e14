// Playmaker - Personalized Sports Content Feed Ranking
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/playmaker

package feed

import (
	"errors"
	"fmt"
)

// ErrViewerNotFound is returned when the viewer record does not exist.
var ErrViewerNotFound = errors.New("feed: viewer not found")

// errPanicked marks a store call or document mapping that panicked and was
// turned into an ordinary failure.
var errPanicked = errors.New("feed: recovered panic")

// recoverAsError converts a panic in the deferring function into *err.
// It must be deferred directly.
func recoverAsError(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", errPanicked, r)
	}
}

// Drop reasons reported in PassStats and metrics.
const (
	DropSelfAuthored     = "self_authored"
	DropAuthorUnresolved = "author_unresolved"
	DropScoringError     = "scoring_error"
	DropQuality          = "quality"
	DropDiversity        = "diversity"
)

// PersistError reports that a feed was computed but could not be written.
// Result holds the computed feed so the caller can retry the write.
type PersistError struct {
	ViewerID string
	Path     string
	Result   *Result
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("feed: persist %s for viewer %s: %v", e.Path, e.ViewerID, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

// scoringError wraps a per-item failure. It never leaves the package.
type scoringError struct {
	ItemID string
	Err    error
}

func (e *scoringError) Error() string {
	return fmt.Sprintf("score item %s: %v", e.ItemID, e.Err)
}

func (e *scoringError) Unwrap() error {
	return e.Err
}

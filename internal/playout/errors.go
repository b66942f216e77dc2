/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package playout

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates the build error taxonomy of spec.md §7.
type ErrorKind string

const (
	// KindScanCanceled indicates cooperative cancellation of the build loop.
	KindScanCanceled ErrorKind = "scan_canceled"
	// KindBadConfiguration indicates a schedule item's filler configuration
	// cannot be honored (e.g. more than one pad-to-nearest-minute slot).
	KindBadConfiguration ErrorKind = "bad_configuration"
	// KindCollectionEmpty indicates an enumerator yielded no current item.
	KindCollectionEmpty ErrorKind = "collection_empty"
	// KindCollaboratorFault indicates a recoverable failure from an external
	// collaborator (metadata, artwork, subtitles); the media item is skipped.
	KindCollaboratorFault ErrorKind = "collaborator_fault"
	// KindFatal indicates an invariant violation that aborts the build.
	KindFatal ErrorKind = "fatal"
)

// BuildError is the sum-type error value threaded through the build. Only
// KindFatal propagates out of mode schedulers and the filler composer;
// every other kind is recovered at the boundary where it is produced.
type BuildError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Is reports whether target matches this error's kind, so callers can write
// errors.Is(err, ErrScanCanceled) against the sentinel values below.
func (e *BuildError) Is(target error) bool {
	var other *BuildError
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

func newBuildError(kind ErrorKind, message string, err error) *BuildError {
	return &BuildError{Kind: kind, Message: message, Err: err}
}

// Sentinel instances for errors.Is comparisons against a specific kind.
var (
	ErrScanCanceled     = &BuildError{Kind: KindScanCanceled, Message: "build canceled"}
	ErrBadConfiguration = &BuildError{Kind: KindBadConfiguration, Message: "invalid filler configuration"}
	ErrCollectionEmpty  = &BuildError{Kind: KindCollectionEmpty, Message: "collection enumerator exhausted"}
	ErrFatal            = &BuildError{Kind: KindFatal, Message: "invariant violation"}
)

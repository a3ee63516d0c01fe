package parser

import "errors"

var (
	// ErrAlreadyFinalized is returned by Feed when called after Finalize.
	ErrAlreadyFinalized = errors.New("streamparse: feed called after finalize")
	// ErrFinalizedTwice is returned by Finalize when called more than once.
	ErrFinalizedTwice = errors.New("streamparse: finalize called twice")
	// ErrNoOpenSegment signals an emitContent call with no open segment.
	//
	// This is a programming-error guard: well-formed states never trigger it. It is
	// exported only so a caller embedding states of their own can recognize the
	// failure mode.
	ErrNoOpenSegment = errors.New("streamparse: no open segment")
	// ErrUnknownParserVariant is returned by the factory for an unrecognized variant name.
	ErrUnknownParserVariant = errors.New("streamparse: unknown parser variant")
)

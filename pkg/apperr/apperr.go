// Package apperr gives every error that crosses a boundary in this tool a
// stable Kind, so presenters (HTTP status codes, CLI exit codes) can react
// to the failure category without string-matching error messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies the boundary at which an error originated.
type Kind int

const (
	// KindUnknown is the zero value; Of returns it for errors never
	// wrapped through this package.
	KindUnknown Kind = iota
	// KindTransport covers failures dialing or round-tripping the chain
	// data source (network errors, RPC transport errors).
	KindTransport
	// KindMissingStorage covers a well-formed response that is missing
	// the storage item requested (e.g. an unknown block hash).
	KindMissingStorage
	// KindEngineDegenerate covers phragmen.ErrDegenerate: the engine ran
	// but could not elect any candidate.
	KindEngineDegenerate
	// KindEngineSaturation is not itself an error condition (the engine
	// still produces a result) but is classified here so a caller that
	// wants to treat saturation as fatal has a stable Kind to check for.
	KindEngineSaturation
	// KindPresentation covers failures assembling or rendering output
	// (JSON encoding, Markdown generation, malformed request parameters).
	KindPresentation
)

// String names a Kind for logging.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindMissingStorage:
		return "missing_storage"
	case KindEngineDegenerate:
		return "engine_degenerate"
	case KindEngineSaturation:
		return "engine_saturation"
	case KindPresentation:
		return "presentation"
	default:
		return "unknown"
	}
}

type kindError struct {
	kind Kind
	msg  string
	err  error
}

func (e *kindError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.err)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *kindError) Unwrap() error { return e.err }

// Wrap annotates err with kind and a short message, suitable for
// fmt.Errorf-style boundary crossings. Returns nil if err is nil.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, msg: msg, err: err}
}

// New constructs a standalone Kind-classified error with no wrapped cause.
func New(kind Kind, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Of returns the Kind attached to err via Wrap/New anywhere in its chain,
// or KindUnknown if none is found.
func Of(err error) Kind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return KindUnknown
}

// Package errors re-exports github.com/cockroachdb/errors and declares the
// sentinel conditions shared by the chart pipeline and its transports.
//
//	if err := fetch(); err != nil {
//	    return errors.Wrap(err, "fetch ephemeris")
//	}
//	if errors.Is(err, errors.ErrFatalPipeline) { ... }
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	WithHint     = crdb.WithHint
	WithHintf    = crdb.WithHintf
	WithDetail   = crdb.WithDetail
	WithDetailf  = crdb.WithDetailf
	Mark         = crdb.Mark
)

var (
	Is           = crdb.Is
	IsAny        = crdb.IsAny
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)

// Chart pipeline conditions. Only ErrFatalPipeline and ErrInvalidInput fail a
// request; the others are degraded by omission and surfaced as report notes.
var (
	ErrMissingInput        = New("missing input")
	ErrUpstreamComputation = New("upstream computation failed")
	ErrUnknownHouseSystem  = New("unknown house system")
	ErrFatalPipeline       = New("fatal pipeline error")
	ErrInvalidInput        = New("invalid input")
)

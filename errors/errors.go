// Package errors provides error handling for webglgen.
//
// This package re-exports github.com/cockroachdb/errors so that every
// failure carries a stack trace, optional hints for the person running the
// generator, and markers that survive wrapping.
//
// Generation has exactly two failure classes:
//
//   - configuration errors: the registry handed to the generator breaks a
//     structural precondition (unresolvable name, mixin used as a type,
//     unsupported union shape, result requested for an input-only kind).
//     These are marked with ErrConfiguration and one specific sentinel.
//   - I/O errors from the output sink, which are returned untouched.
//
// Usage:
//
//	return errors.Configf(errors.ErrUnresolvedName, "type %q is not in the registry", name)
//
//	if errors.IsConfigurationError(err) {
//	    // broken registry, regenerate the document
//	}
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// ErrConfiguration marks every error caused by a registry that violates the
// generator's input contract. It is never returned on its own.
var ErrConfiguration = New("invalid generator configuration")

// Specific configuration failures. Each returned error is marked with both
// ErrConfiguration and one of these, so errors.Is works for either.
var (
	// ErrUnresolvedName: a named reference has no definition in the registry.
	ErrUnresolvedName = New("unresolved type name")

	// ErrMixinAsType: a mixin was used where a type is expected.
	ErrMixinAsType = New("mixins are not usable as types")

	// ErrUnsupportedUnion: a union is not one typed array plus optional sequences.
	ErrUnsupportedUnion = New("unsupported union shape")

	// ErrNoResultMapping: the kind exists only in the host to interface direction.
	ErrNoResultMapping = New("kind has no result mapping")

	// ErrInvalidRegistry: duplicate names, bad inheritance, or similar structural damage.
	ErrInvalidRegistry = New("invalid registry")

	// ErrUnsupportedField: a dictionary field holds a kind that has no JSON form.
	ErrUnsupportedField = New("unsupported dictionary field")

	// ErrInvalidTypeExpr: a type expression in a registry document could not be parsed.
	ErrInvalidTypeExpr = New("invalid type expression")
)

// Configf builds a configuration error marked with sentinel and ErrConfiguration.
func Configf(sentinel error, format string, args ...interface{}) error {
	err := crdb.WrapWithDepthf(1, sentinel, format, args...)
	return crdb.Mark(err, ErrConfiguration)
}

// IsConfigurationError reports whether err comes from a broken registry
// rather than from the output sink.
func IsConfigurationError(err error) bool {
	return err != nil && Is(err, ErrConfiguration)
}

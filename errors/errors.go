// Package errors provides error handling for gaspar.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Hints and details for user-facing reports
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := convert(); err != nil {
//	    return errors.Wrap(err, "failed to convert models")
//	}
//
//	// Signal a configuration the target cannot express
//	return errors.UnsupportedConfiguration("models.numericEnums", "proto3 enums must be numeric")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
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
)

// User-facing messages and details
var (
	WithHint        = crdb.WithHint
	WithHintf       = crdb.WithHintf
	WithDetail      = crdb.WithDetail
	WithDetailf     = crdb.WithDetailf
	WithSafeDetails = crdb.WithSafeDetails
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapOnce     = crdb.UnwrapOnce
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
	CombineErrors  = crdb.CombineErrors
	Join           = crdb.Join
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Sentinel errors for the generation pass.
// Wrap these with the helpers below to add context while preserving the type.
var (
	// ErrUnsupportedConfiguration indicates the configuration asks a target for
	// a construct it cannot express (e.g. string enums in proto3).
	ErrUnsupportedConfiguration = New("unsupported configuration")

	// ErrUnsupportedOperation indicates a converter was asked for a capability
	// it structurally does not have. This is a driver bug, not bad input.
	ErrUnsupportedOperation = New("unsupported operation")
)

// configKeyDetailPrefix marks the detail that carries the offending config key
const configKeyDetailPrefix = "config key: "

// UnsupportedConfiguration reports that the setting at key cannot be honoured.
func UnsupportedConfiguration(key, msg string) error {
	err := Wrap(ErrUnsupportedConfiguration, msg)
	err = WithDetail(err, configKeyDetailPrefix+key)
	return WithHintf(err, "change %q in the configuration or remove this output", key)
}

// UnsupportedOperation reports that converter does not implement op.
func UnsupportedOperation(converter, op string) error {
	return Wrapf(ErrUnsupportedOperation, "%s converter does not support %s", converter, op)
}

// IsUnsupportedConfiguration checks if an error is or wraps ErrUnsupportedConfiguration
func IsUnsupportedConfiguration(err error) bool {
	return err != nil && Is(err, ErrUnsupportedConfiguration)
}

// IsUnsupportedOperation checks if an error is or wraps ErrUnsupportedOperation
func IsUnsupportedOperation(err error) bool {
	return err != nil && Is(err, ErrUnsupportedOperation)
}

// ConfigKey returns the configuration key recorded by UnsupportedConfiguration,
// or "" when err carries none. Joined errors are searched in order.
func ConfigKey(err error) string {
	for _, e := range Flatten(err) {
		for _, d := range GetAllDetails(e) {
			if len(d) > len(configKeyDetailPrefix) && d[:len(configKeyDetailPrefix)] == configKeyDetailPrefix {
				return d[len(configKeyDetailPrefix):]
			}
		}
	}
	return ""
}

// Flatten returns the individual errors of an error built with Join, in
// order and recursively. Any other error is returned as the only element.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	for c := err; c != nil; c = UnwrapOnce(c) {
		multi, ok := c.(interface{ Unwrap() []error })
		if !ok {
			continue
		}
		var out []error
		for _, e := range multi.Unwrap() {
			out = append(out, Flatten(e)...)
		}
		return out
	}
	return []error{err}
}

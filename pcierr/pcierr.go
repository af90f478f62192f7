// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pcierr provides the error handling used in pciinfo.
// The core part is the constructor function E() and the classification
// of operating system errors into a small set of kinds.
package pcierr

import (
	"errors"
	"io/fs"
)

// Op describes an operation, usually as the name of the method.
type Op string

// Kind is the category of an enumeration failure. Kind implements error,
// so errors.Is(err, pcierr.NotFound) reports whether err is of that kind.
type Kind string

// Kinds of errors.
const (
	// PermissionDenied means the access channel exists but the caller lacks
	// the privilege to use it.
	PermissionDenied Kind = "permission denied"
	// NotFound means the access channel does not exist on this host.
	NotFound Kind = "not found"
	// OsError covers every other failure reported by the operating system.
	OsError Kind = "os error"
	// AllocationError means the device collection could not grow.
	AllocationError Kind = "allocation error"
)

// Error implements the error interface.
func (k Kind) Error() string {
	return string(k)
}

// Error provides strctured and detailed context. However, some fields
// may be left unset.
//
// An Error value should be created using the E() function.
type Error struct {
	// Op is operation beeing executed while the error occurred.
	Op Op
	// Kind is the category of the failure.
	Kind Kind
	// Err is the underlying wrapped error.
	Err error
	// Info provides further context to the error or holds the string
	// value of the triggering error if it is not wrapped.
	Info string
}

const (
	colon  string = ": "
	hyphen string = " - "
)

// Error implements the error interface.
func (e Error) Error() string {
	composed := string(e.Kind)
	if composed == "" {
		composed = string(OsError)
	}

	switch {
	case e.Op != "" && e.Info != "":
		composed += colon + string(e.Op) + hyphen + e.Info
	case e.Op != "":
		composed += colon + string(e.Op)
	case e.Info != "":
		composed += colon + e.Info
	default:
	}

	if e.Err != nil {
		composed += colon + e.Err.Error()
	}

	return composed
}

// Unwrap returns the wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the Kind of e.
func (e Error) Is(target error) bool {
	k, ok := target.(Kind)

	return ok && k == e.Kind
}

// E returns an Error constructed from its arguments.
// There should be at least one argument, or E returns an unspecifed error.
// The type of each argument determines its meaning.
// If more than one argument of a given type is presented,
// only the last one is recorded.
//
// The types are:
//
//	pcierr.Op
//		The performed operation.
//	pcierr.Kind
//		The category of the failure.
//	error
//		The underlying error if it should be wrapped.
//	string
//		Treated as error message of an error that should
//		not be wrapped or as additional information to the
//		provided error.
//
// Further types will be ignored. If no Kind is given, the kind is derived
// from the wrapped error with Classify, falling back to OsError.
func E(args ...interface{}) Error {
	if len(args) == 0 {
		return Error{Kind: OsError, Info: "unspecified"}
	}

	var err = Error{}

	for _, arg := range args {
		switch arg := arg.(type) {
		case Op:
			err.Op = arg
		case Kind:
			err.Kind = arg
		case error:
			err.Err = arg
		case string:
			err.Info = arg
		default:
		}
	}

	if err.Kind == "" {
		err.Kind = Classify(err.Err)
	}

	return err
}

// Classify maps an operating system error to a Kind. Errors that already
// carry a Kind keep it.
func Classify(err error) Kind {
	var e Error
	if errors.As(err, &e) && e.Kind != "" {
		return e.Kind
	}

	var k Kind
	if errors.As(err, &k) {
		return k
	}

	switch {
	case errors.Is(err, fs.ErrPermission):
		return PermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		return NotFound
	default:
		return OsError
	}
}

// KindOf returns the Kind of err, or the empty Kind if err is nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	return Classify(err)
}

// Equal returns true if the two provided Errors are equal.
func Equal(got, want Error) bool {
	if got.Kind != want.Kind {
		return false
	}

	if got.Op != want.Op {
		return false
	}

	if got.Info != want.Info {
		return false
	}

	if (got.Err == nil) != (want.Err == nil) {
		return false
	}

	if got.Err != nil && got.Err.Error() != want.Err.Error() {
		return false
	}

	return true
}

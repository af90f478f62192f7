// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opts

// Error reports problems while loading and validating configuration data.
type Error string

// Error implements error interface.
func (e Error) Error() string {
	return string(e)
}

const (
	ErrMissingJSONKey   = Error("missing JSON key")
	ErrNoSrcProvided    = Error("no source provided")
	ErrUnknownFormat    = Error("unknown configuration file format")
	ErrInvalidLimit     = Error("collection limit must not be negative")
	ErrInvalidRestarts  = Error("max restarts must be between 0 and 1024")
	ErrUnknownLogLevel  = Error("unknown log level")
	ErrUnknownLogOutput = Error("unknown log output")
)

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opts

const maxRestartsLimit = 1024

// Validater is the interface that wraps the Validate method.
//
// Validate takes Opts and performs validation on it. If Opts is not
// valid an Error is returned.
type Validater interface {
	Validate(*Opts) error
}

type validFunc func(*Opts) error

// ValidationSet is a colection of validation functions.
type ValidationSet []validFunc

// Validate implements Validater.
func (v *ValidationSet) Validate(opts *Opts) error {
	for _, f := range *v {
		if err := f(opts); err != nil {
			return err
		}
	}

	return nil
}

// Validation is the Validater applied by NewOpts.
func Validation() *ValidationSet {
	return &ValidationSet{
		checkLogLevel,
		checkLogOutput,
		checkCollectionLimit,
		checkMaxRestarts,
	}
}

func checkLogLevel(opts *Opts) error {
	if opts.LogLevel < LogUnset || opts.LogLevel > LogDebug {
		return ErrUnknownLogLevel
	}

	return nil
}

func checkLogOutput(opts *Opts) error {
	if opts.LogOutput != OutputStderr && opts.LogOutput != OutputSyslog {
		return ErrUnknownLogOutput
	}

	return nil
}

func checkCollectionLimit(opts *Opts) error {
	if opts.CollectionLimit < 0 {
		return ErrInvalidLimit
	}

	return nil
}

func checkMaxRestarts(opts *Opts) error {
	if opts.MaxRestarts < 0 || opts.MaxRestarts > maxRestartsLimit {
		return ErrInvalidRestarts
	}

	return nil
}

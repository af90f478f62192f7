// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package opts holds the configuration of an enumeration and the command
// line tool.
package opts

import (
	"encoding/json"
	"fmt"

	"system-transparency.org/pciinfo/internal/jsonutil"
	"system-transparency.org/pciinfo/pcilog"
)

// Loader fills particular fields of Opts depending on its source.
type Loader func(*Opts) error

// Opts controls an enumeration.
type Opts struct {
	LogLevel  LogLevel  `json:"log_level" yaml:"log_level"`
	LogOutput LogOutput `json:"log_output" yaml:"log_output"`
	// CollectionLimit caps the number of records, 0 means the default.
	CollectionLimit int `json:"collection_limit" yaml:"collection_limit"`
	// MaxRestarts caps how often a paged walk starts over when the device
	// list changes, 0 means the default.
	MaxRestarts int `json:"max_restarts" yaml:"max_restarts"`
	// Names enables vendor, device and class name lookups.
	Names bool `json:"names" yaml:"names"`
}

// NewOpts return a new Opts initialized by the provided Loaders and
// validated afterwards.
func NewOpts(loaders ...Loader) (*Opts, error) {
	opts := &Opts{}
	for _, l := range loaders {
		if err := l(opts); err != nil {
			return nil, err
		}
	}

	if err := Validation().Validate(opts); err != nil {
		return nil, err
	}

	return opts, nil
}

type optsAlias Opts

// UnmarshalJSON implements json.Unmarshaler. All keys must be present.
func (o *Opts) UnmarshalJSON(data []byte) error {
	tag, missing, err := jsonutil.MissingKey(data, o)
	if err != nil {
		return err
	}

	if missing {
		pcilog.Debug("All fields of the configuration are expected to be set. Missing json key %q", tag)

		return fmt.Errorf("%w %q", ErrMissingJSONKey, tag)
	}

	alias := optsAlias{}
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	*o = Opts(alias)

	return nil
}

// Apply configures pcilog as requested by o.
func (o *Opts) Apply() error {
	if err := pcilog.SetOutput(o.LogOutput.Pcilog()); err != nil {
		return err
	}

	pcilog.SetLevel(o.LogLevel.Pcilog())

	return nil
}

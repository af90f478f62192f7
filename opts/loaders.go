// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opts

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// WithDefaults sets the log level to info and enables name lookups.
// Limits keep their zero value, which selects the enumeration defaults.
func WithDefaults() Loader {
	return func(o *Opts) error {
		o.LogLevel = LogInfo
		o.LogOutput = OutputStderr
		o.Names = true

		return nil
	}
}

// WithJSON loads a complete configuration from r. Every key must be set.
func WithJSON(r io.Reader) Loader {
	return func(o *Opts) error {
		if r == nil {
			return ErrNoSrcProvided
		}

		var loaded Opts

		if err := json.NewDecoder(r).Decode(&loaded); err != nil {
			return fmt.Errorf("load JSON configuration: %w", err)
		}

		*o = loaded

		return nil
	}
}

// WithYAML overlays the keys present in r onto the configuration.
// Unknown keys are rejected.
func WithYAML(r io.Reader) Loader {
	return func(o *Opts) error {
		if r == nil {
			return ErrNoSrcProvided
		}

		d := yaml.NewDecoder(r)
		d.KnownFields(true)

		if err := d.Decode(o); err != nil && err != io.EOF {
			return fmt.Errorf("load YAML configuration: %w", err)
		}

		return nil
	}
}

// WithFile loads a JSON or YAML file, chosen by its extension.
func WithFile(path string) Loader {
	return func(o *Opts) error {
		var load func(io.Reader) Loader

		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			load = WithJSON
		case ".yaml", ".yml":
			load = WithYAML
		default:
			return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		defer file.Close()

		return load(file)(o)
	}
}

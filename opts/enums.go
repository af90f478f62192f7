// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opts

import (
	"encoding/json"
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
	"system-transparency.org/pciinfo/internal/jsonutil"
	"system-transparency.org/pciinfo/pcilog"
)

// LogLevel sets the verbosity of pcilog.
type LogLevel int

const (
	LogUnset LogLevel = iota
	LogError
	LogWarn
	LogInfo
	LogDebug
)

//nolint:gochecknoglobals
var logLevelNames = map[string]LogLevel{
	"error": LogError,
	"warn":  LogWarn,
	"info":  LogInfo,
	"debug": LogDebug,
}

// String implements fmt.Stringer.
func (l LogLevel) String() string {
	switch l {
	case LogError:
		return "error"
	case LogWarn:
		return "warn"
	case LogInfo:
		return "info"
	case LogDebug:
		return "debug"
	default:
		return "unset"
	}
}

// Pcilog returns the pcilog level. Unset means info.
func (l LogLevel) Pcilog() pcilog.LogLevel {
	switch l {
	case LogError:
		return pcilog.ErrorLevel
	case LogWarn:
		return pcilog.WarnLevel
	case LogDebug:
		return pcilog.DebugLevel
	default:
		return pcilog.InfoLevel
	}
}

// ParseLogLevel accepts the names used in configuration files.
func ParseLogLevel(s string) (LogLevel, error) {
	l, ok := logLevelNames[s]
	if !ok {
		return LogUnset, fmt.Errorf("%w: %q", ErrUnknownLogLevel, s)
	}

	return l, nil
}

// MarshalJSON implements json.Marshaler.
func (l LogLevel) MarshalJSON() ([]byte, error) {
	if l != LogUnset {
		return json.Marshal(l.String())
	}

	return []byte(jsonutil.Null), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *LogLevel) UnmarshalJSON(data []byte) error {
	if jsonutil.IsNull(data) {
		*l = LogUnset

		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	level, ok := logLevelNames[str]
	if !ok {
		return &json.UnmarshalTypeError{
			Value: fmt.Sprintf("string %q", str),
			Type:  reflect.TypeOf(l),
		}
	}

	*l = level

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	level, err := ParseLogLevel(str)
	if err != nil {
		return err
	}

	*l = level

	return nil
}

// LogOutput selects the pcilog backend.
type LogOutput int

const (
	OutputStderr LogOutput = iota
	OutputSyslog
)

// String implements fmt.Stringer.
func (o LogOutput) String() string {
	if o == OutputSyslog {
		return "syslog"
	}

	return "stderr"
}

// Pcilog returns the pcilog output.
func (o LogOutput) Pcilog() pcilog.LogOutput {
	if o == OutputSyslog {
		return pcilog.KernelSyslog
	}

	return pcilog.StdError
}

func parseLogOutput(s string) (LogOutput, bool) {
	o, ok := map[string]LogOutput{
		"stderr": OutputStderr,
		"syslog": OutputSyslog,
	}[s]

	return o, ok
}

// MarshalJSON implements json.Marshaler.
func (o LogOutput) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *LogOutput) UnmarshalJSON(data []byte) error {
	if jsonutil.IsNull(data) {
		*o = OutputStderr

		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	out, ok := parseLogOutput(str)
	if !ok {
		return &json.UnmarshalTypeError{
			Value: fmt.Sprintf("string %q", str),
			Type:  reflect.TypeOf(o),
		}
	}

	*o = out

	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *LogOutput) UnmarshalYAML(value *yaml.Node) error {
	var str string
	if err := value.Decode(&str); err != nil {
		return err
	}

	out, ok := parseLogOutput(str)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLogOutput, str)
	}

	*o = out

	return nil
}

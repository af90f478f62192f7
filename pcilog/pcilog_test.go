// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pcilog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardLoggerMessages(t *testing.T) {
	for _, tt := range []struct {
		name  string
		level LogLevel
		tag   string
		input string
	}{
		{
			name:  "LogLevel Zero valid",
			level: ErrorLevel,
			tag:   errorTag,
			input: "LogLevel 0",
		},
		{
			name:  "LogLevel One valid",
			level: WarnLevel,
			tag:   warnTag,
			input: "LogLevel 1",
		},
		{
			name:  "LogLevel Two valid",
			level: InfoLevel,
			tag:   infoTag,
			input: "LogLevel 2",
		},
		{
			name:  "LogLevel Three valid",
			level: DebugLevel,
			tag:   debugTag,
			input: "LogLevel 3",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.Buffer{}
			l := newStandardLogger(&buf)
			l.setLevel(tt.level)

			switch tt.level {
			case ErrorLevel:
				l.error("%s", tt.input)
			case WarnLevel:
				l.warn("%s", tt.input)
			case InfoLevel:
				l.info("%s", tt.input)
			default:
				l.debug("%s", tt.input)
			}

			got := buf.String()
			assert.Contains(t, got, tt.tag)
			assert.Contains(t, got, prefix)
			assert.Contains(t, got, tt.input)
		})
	}
}

func TestStandardLoggerLevel(t *testing.T) {
	for _, level := range []LogLevel{ErrorLevel, WarnLevel, InfoLevel, DebugLevel} {
		buf := bytes.Buffer{}
		l := newStandardLogger(&buf)
		l.setLevel(level)

		l.error("e")
		l.warn("w")
		l.info("i")
		l.debug("d")

		lines := strings.Count(buf.String(), "\n")
		assert.Equal(t, int(level)+1, lines, "level %d", level)
	}
}

func TestPackageLevel(t *testing.T) {
	buf := bytes.Buffer{}
	SetWriter(&buf)
	defer SetWriter(&bytes.Buffer{})

	SetLevel(WarnLevel)
	Debug("hidden")
	Info("hidden")
	Warn("shown %d", 1)
	Error("shown %d", 2)

	got := buf.String()
	assert.NotContains(t, got, "hidden")
	assert.Contains(t, got, warnTag+prefix+"shown 1")
	assert.Contains(t, got, errorTag+prefix+"shown 2")

	SetLevel(LogLevel(17))
	assert.Equal(t, DebugLevel, Level())

	SetWriter(&buf)
	assert.Equal(t, DebugLevel, Level(), "a new writer keeps the level")
}

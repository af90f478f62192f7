// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pcilog exposes leveled logging capabilities.
//
// pcilog wraps two loggers and adds log levels to them:
// There is a standard "log" package logger writing to stderr and another
// using the kernel syslog system.
package pcilog

import (
	"io"
	"os"
	"sync"
)

const (
	prefix   string = "pciinfo: "
	errorTag string = "[ERROR] "
	warnTag  string = "[WARN]  "
	infoTag  string = "[INFO]  "
	debugTag string = "[DEBUG] "
)

type LogLevel int

const (
	ErrorLevel LogLevel = iota
	WarnLevel
	InfoLevel
	DebugLevel
)

type LogOutput int

const (
	StdError LogOutput = iota
	KernelSyslog
)

//nolint:gochecknoglobals
var (
	mu  sync.Mutex
	pcl levelLogger = newStandardLogger(os.Stderr)
)

type levelLogger interface {
	setLevel(level LogLevel)
	logLevel() LogLevel
	error(format string, v ...interface{})
	warn(format string, v ...interface{})
	info(format string, v ...interface{})
	debug(format string, v ...interface{})
}

func current() levelLogger {
	mu.Lock()
	defer mu.Unlock()

	return pcl
}

func replace(l levelLogger) {
	mu.Lock()
	defer mu.Unlock()

	l.setLevel(pcl.logLevel())
	pcl = l
}

// SetOutput sets the packages underlying logger. If the kernel log cannot
// be initialized the current logger stays in place.
func SetOutput(o LogOutput) error {
	switch o {
	case KernelSyslog:
		kl, err := newKernelLogger()
		if err != nil {
			return err
		}

		replace(kl)
	default:
		replace(newStandardLogger(os.Stderr))
	}

	return nil
}

// SetWriter makes the standard logger write to w.
func SetWriter(w io.Writer) {
	replace(newStandardLogger(w))
}

// SetLevel sets the logging level of pcilog package.
// Unknown levels select DebugLevel.
func SetLevel(l LogLevel) {
	switch l {
	case ErrorLevel, WarnLevel, InfoLevel, DebugLevel:
	default:
		l = DebugLevel
	}

	current().setLevel(l)
}

// Level returns the active log level.
func Level() LogLevel {
	return current().logLevel()
}

// Error prints error messages to the currently active logger when permitted
// by the log level. Input can be formatted according to fmt.Printf.
func Error(format string, v ...interface{}) {
	current().error(format, v...)
}

// Warn prints waring messages to the currently active logger when permitted
// by the log level. Input can be formatted according to fmt.Printf.
func Warn(format string, v ...interface{}) {
	current().warn(format, v...)
}

// Info prints info messages to the currently active logger when permitted
// by the log level. Input can be formatted according to fmt.Printf.
func Info(format string, v ...interface{}) {
	current().info(format, v...)
}

// Debug prints debug messages to the currently active logger when permitted
// by the log level. Input can be formatted according to fmt.Printf.
func Debug(format string, v ...interface{}) {
	current().debug(format, v...)
}

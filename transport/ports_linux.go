// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && (amd64 || 386)

package transport

import (
	"github.com/u-root/u-root/pkg/memio"
)

// DevPort accesses I/O ports through /dev/port.
type DevPort struct{}

// In8 reads a byte from port.
func (DevPort) In8(port uint16) (uint8, error) {
	var v memio.Uint8
	err := memio.In(port, &v)

	return uint8(v), err
}

// In16 reads a word from port.
func (DevPort) In16(port uint16) (uint16, error) {
	var v memio.Uint16
	err := memio.In(port, &v)

	return uint16(v), err
}

// In32 reads a dword from port.
func (DevPort) In32(port uint16) (uint32, error) {
	var v memio.Uint32
	err := memio.In(port, &v)

	return uint32(v), err
}

// Out8 writes a byte to port.
func (DevPort) Out8(port uint16, v uint8) error {
	d := memio.Uint8(v)

	return memio.Out(port, &d)
}

// Out16 writes a word to port.
func (DevPort) Out16(port uint16, v uint16) error {
	d := memio.Uint16(v)

	return memio.Out(port, &d)
}

// Out32 writes a dword to port.
func (DevPort) Out32(port uint16, v uint32) error {
	d := memio.Uint32(v)

	return memio.Out(port, &d)
}

// OpenPortIO detects mechanism #1 through /dev/port.
func OpenPortIO() (*PortIO, error) {
	return NewPortIO(DevPort{}, &PortLock)
}

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package transport provides raw access channels to PCI configuration
// space. Each realization hides one operating system mechanism behind
// the ConfigSpace interface.
package transport

import (
	"fmt"

	"system-transparency.org/pciinfo/pci"
)

// Error reports invalid configuration space accesses.
type Error string

// Error implements error interface.
func (e Error) Error() string {
	return string(e)
}

const (
	ErrWidth       = Error("access width must be 1, 2 or 4 bytes")
	ErrRegister    = Error("register offset outside configuration space")
	ErrAlignment   = Error("register offset not aligned to access width")
	ErrAddress     = Error("address not reachable by this transport")
	ErrClosed      = Error("transport closed")
	ErrNoMechanism = Error("configuration mechanism not present")
	ErrPageBuffer  = Error("page buffer must not be empty")
)

// Width is the size of a single configuration space access in bytes.
type Width uint8

const (
	Byte  Width = 1
	Word  Width = 2
	Dword Width = 4
)

// Valid reports whether w is a supported access width.
func (w Width) Valid() bool {
	return w == Byte || w == Word || w == Dword
}

func (w Width) mask() uint32 {
	switch w {
	case Byte:
		return 0xff
	case Word:
		return 0xffff
	default:
		return 0xffffffff
	}
}

// ConfigSpace reads registers of a function's configuration space.
type ConfigSpace interface {
	ReadConfig(a pci.Address, reg uint16, w Width) (uint32, error)
	Close() error
}

// ConfigWriter is implemented by transports that can also write
// configuration registers.
type ConfigWriter interface {
	WriteConfig(a pci.Address, reg uint16, w Width, v uint32) error
}

// check validates an access independent of the transport.
func check(a pci.Address, reg uint16, w Width) error {
	if !w.Valid() {
		return fmt.Errorf("%w: got %d", ErrWidth, w)
	}

	if reg >= pci.ConfigSpaceSize {
		return fmt.Errorf("%w: %#x", ErrRegister, reg)
	}

	if reg&uint16(w-1) != 0 {
		return fmt.Errorf("%w: %#x/%d", ErrAlignment, reg, w)
	}

	if a.Device >= pci.DevicesPerBus || a.Function >= pci.FunctionsPerDevice {
		return fmt.Errorf("%w: %s", ErrAddress, a)
	}

	return nil
}

// extract returns the w wide value at reg from the dword covering it.
func extract(dword uint32, reg uint16, w Width) uint32 {
	return (dword >> (8 * uint32(reg&3))) & w.mask()
}

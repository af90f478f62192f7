// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"fmt"
	"sync"

	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcierr"
)

// Configuration mechanism #1 ports.
const (
	ConfigAddressPort uint16 = 0xcf8
	ConfigDataPort    uint16 = 0xcfc

	enableBit uint32 = 0x80000000
)

// PortLock serializes the address/data port pairs of every PortIO in the
// process. Pass it to NewPortIO unless a test needs its own locker.
//
//nolint:gochecknoglobals
var PortLock sync.Mutex

// Ports is raw x86 I/O port access.
type Ports interface {
	In8(port uint16) (uint8, error)
	In16(port uint16) (uint16, error)
	In32(port uint16) (uint32, error)
	Out8(port uint16, v uint8) error
	Out16(port uint16, v uint16) error
	Out32(port uint16, v uint32) error
}

// ConfigAddress encodes the value written to ConfigAddressPort to select
// register reg of bus/device/function. Bits 11:8 of reg land in bits 27:24
// for extended register access.
func ConfigAddress(bus, device, function uint8, reg uint16) uint32 {
	devfn := uint32(device&0x1f)<<3 | uint32(function&0x7)

	return enableBit |
		uint32(reg&0xf00)<<16 |
		uint32(bus)<<16 |
		devfn<<8 |
		uint32(reg&0xfc)
}

// DecodeConfigAddress is the inverse of ConfigAddress.
func DecodeConfigAddress(v uint32) (bus, device, function uint8, reg uint16, enabled bool) {
	bus = uint8(v >> 16)
	device = uint8(v>>11) & 0x1f
	function = uint8(v>>8) & 0x7
	reg = uint16(v&0xfc) | uint16(v>>16)&0xf00
	enabled = v&enableBit != 0

	return bus, device, function, reg, enabled
}

// PortIO reads and writes configuration space through mechanism #1.
type PortIO struct {
	ports Ports
	lock  sync.Locker
}

// NewPortIO detects mechanism #1 on p and returns a transport using it.
// Detection and every access hold l.
func NewPortIO(p Ports, l sync.Locker) (*PortIO, error) {
	const op = pcierr.Op("open port I/O")

	if l == nil {
		l = &PortLock
	}

	t := &PortIO{ports: p, lock: l}

	ok, err := t.detect()
	if err != nil {
		return nil, pcierr.E(op, err)
	}

	if !ok {
		return nil, pcierr.E(op, pcierr.OsError, ErrNoMechanism)
	}

	return t, nil
}

// detect checks that the address port latches the enable bit and restores
// its previous content.
func (t *PortIO) detect() (bool, error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	if err := t.ports.Out8(0xcfb, 0x01); err != nil {
		return false, err
	}

	saved, err := t.ports.In32(ConfigAddressPort)
	if err != nil {
		return false, err
	}

	if err := t.ports.Out32(ConfigAddressPort, enableBit); err != nil {
		return false, err
	}

	got, err := t.ports.In32(ConfigAddressPort)
	if err != nil {
		return false, err
	}

	if err := t.ports.Out32(ConfigAddressPort, saved); err != nil {
		return false, err
	}

	return got == enableBit, nil
}

func portCheck(a pci.Address, reg uint16, w Width) error {
	if err := check(a, reg, w); err != nil {
		return err
	}

	if a.Domain != 0 {
		return fmt.Errorf("%w: domain %#x", ErrAddress, a.Domain)
	}

	return nil
}

// ReadConfig implements ConfigSpace.
func (t *PortIO) ReadConfig(a pci.Address, reg uint16, w Width) (uint32, error) {
	if err := portCheck(a, reg, w); err != nil {
		return 0, err
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.ports == nil {
		return 0, ErrClosed
	}

	if err := t.ports.Out32(ConfigAddressPort, ConfigAddress(a.Bus, a.Device, a.Function, reg)); err != nil {
		return 0, err
	}

	switch w {
	case Byte:
		v, err := t.ports.In8(ConfigDataPort + reg&3)

		return uint32(v), err
	case Word:
		v, err := t.ports.In16(ConfigDataPort + reg&2)

		return uint32(v), err
	default:
		return t.ports.In32(ConfigDataPort)
	}
}

// WriteConfig implements ConfigWriter.
func (t *PortIO) WriteConfig(a pci.Address, reg uint16, w Width, v uint32) error {
	if err := portCheck(a, reg, w); err != nil {
		return err
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	if t.ports == nil {
		return ErrClosed
	}

	if err := t.ports.Out32(ConfigAddressPort, ConfigAddress(a.Bus, a.Device, a.Function, reg)); err != nil {
		return err
	}

	switch w {
	case Byte:
		return t.ports.Out8(ConfigDataPort+reg&3, uint8(v))
	case Word:
		return t.ports.Out16(ConfigDataPort+reg&2, uint16(v))
	default:
		return t.ports.Out32(ConfigDataPort, v)
	}
}

// Close implements ConfigSpace.
func (t *PortIO) Close() error {
	t.lock.Lock()
	defer t.lock.Unlock()

	t.ports = nil

	return nil
}

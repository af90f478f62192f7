// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pci holds the normalized PCI device record, the collection
// enumeration results are gathered in, and the layout of the fixed
// configuration space header.
package pci

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxBus is the highest bus number in a domain.
	MaxBus = 255
	// DevicesPerBus is the number of device slots on a bus.
	DevicesPerBus = 32
	// FunctionsPerDevice is the number of functions of a multi-function device.
	FunctionsPerDevice = 8

	// InvalidVendorID is read back from slots without a device.
	InvalidVendorID uint16 = 0xffff
)

// Error reports malformed PCI data.
type Error string

// Error implements error interface.
func (e Error) Error() string {
	return string(e)
}

const (
	ErrAddressFormat = Error("malformed PCI address")
	ErrAddressRange  = Error("PCI address out of range")
)

// Address is the location of a PCI function.
type Address struct {
	Domain   uint32 `json:"domain"`
	Bus      uint8  `json:"bus"`
	Device   uint8  `json:"device"`
	Function uint8  `json:"function"`
}

// UnavailableAddress is reported by platforms that cannot tell where a
// function is located. No real function number is ever 0xff.
var UnavailableAddress = Address{
	Domain:   0xffffffff,
	Bus:      0xff,
	Device:   0xff,
	Function: 0xff,
}

// Available reports whether a is a real location rather than
// UnavailableAddress.
func (a Address) Available() bool {
	return a.Function < FunctionsPerDevice && a.Device < DevicesPerBus
}

// String implements fmt.Stringer.
func (a Address) String() string {
	if !a.Available() {
		return "[address inaccessible]"
	}

	return fmt.Sprintf("%04x:%02x:%02x.%x", a.Domain, a.Bus, a.Device, a.Function)
}

// Less orders addresses domain first, then bus, device and function.
func (a Address) Less(b Address) bool {
	if a.Domain != b.Domain {
		return a.Domain < b.Domain
	}

	if a.Bus != b.Bus {
		return a.Bus < b.Bus
	}

	if a.Device != b.Device {
		return a.Device < b.Device
	}

	return a.Function < b.Function
}

// ParseAddress parses "dddd:bb:dd.f" or "bb:dd.f", all fields hexadecimal.
func ParseAddress(s string) (Address, error) {
	var (
		a     Address
		parts = strings.Split(s, ":")
	)

	switch len(parts) {
	case 2:
	case 3:
		d, err := strconv.ParseUint(parts[0], 16, 32)
		if err != nil {
			return Address{}, fmt.Errorf("%w %q: %v", ErrAddressFormat, s, err)
		}

		a.Domain = uint32(d)
		parts = parts[1:]
	default:
		return Address{}, fmt.Errorf("%w %q", ErrAddressFormat, s)
	}

	bus, err := strconv.ParseUint(parts[0], 16, 8)
	if err != nil {
		return Address{}, fmt.Errorf("%w %q: %v", ErrAddressFormat, s, err)
	}

	devfn := strings.Split(parts[1], ".")
	if len(devfn) != 2 {
		return Address{}, fmt.Errorf("%w %q", ErrAddressFormat, s)
	}

	dev, err := strconv.ParseUint(devfn[0], 16, 8)
	if err != nil {
		return Address{}, fmt.Errorf("%w %q: %v", ErrAddressFormat, s, err)
	}

	fn, err := strconv.ParseUint(devfn[1], 16, 8)
	if err != nil {
		return Address{}, fmt.Errorf("%w %q: %v", ErrAddressFormat, s, err)
	}

	if dev >= DevicesPerBus || fn >= FunctionsPerDevice {
		return Address{}, fmt.Errorf("%w: %q", ErrAddressRange, s)
	}

	a.Bus = uint8(bus)
	a.Device = uint8(dev)
	a.Function = uint8(fn)

	return a, nil
}

// Device is the normalized record of one PCI function.
type Device struct {
	Address

	VendorID          uint16 `json:"vendor_id"`
	DeviceID          uint16 `json:"device_id"`
	SubsystemVendorID uint16 `json:"subsystem_vendor_id"`
	SubsystemDeviceID uint16 `json:"subsystem_device_id"`

	Class                uint8 `json:"class"`
	Subclass             uint8 `json:"subclass"`
	ProgrammingInterface uint8 `json:"programming_interface"`
	RevisionID           uint8 `json:"revision_id"`
}

// ClassCode returns the packed 24-bit class code.
func (d Device) ClassCode() uint32 {
	return uint32(d.Class)<<16 | uint32(d.Subclass)<<8 | uint32(d.ProgrammingInterface)
}

// String implements fmt.Stringer.
func (d Device) String() string {
	return fmt.Sprintf("%s: (%04x:%04x) SVID=%04x SDID=%04x Class=%02x Subclass=%02x PIF=%02x Rev=%02x",
		d.Address, d.VendorID, d.DeviceID, d.SubsystemVendorID, d.SubsystemDeviceID,
		d.Class, d.Subclass, d.ProgrammingInterface, d.RevisionID)
}

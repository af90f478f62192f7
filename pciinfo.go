// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pciinfo lists the PCI functions of the running host.
//
// Enumerate picks the access channel compiled for the build target, walks
// it and returns an owned collection of device records. FieldAvailability
// tells which record fields that channel can fill in.
package pciinfo

import (
	"fmt"
	"strings"

	"system-transparency.org/pciinfo/host"
	"system-transparency.org/pciinfo/opts"
	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcierr"
	"system-transparency.org/pciinfo/pciids"
)

// Error reports failed lookups.
type Error string

// Error implements error interface.
func (e Error) Error() string {
	return string(e)
}

const ErrNoDevice = Error("no PCI function with this vendor and device ID")

// Enumerate lists the PCI functions with the default configuration.
func Enumerate() (*pci.Collection, error) {
	return EnumerateWith(nil)
}

// EnumerateWith lists the PCI functions. A nil o selects the defaults.
// Errors are of type pcierr.Error.
func EnumerateWith(o *opts.Opts) (*pci.Collection, error) {
	return host.Enumerate(hostConfig(o))
}

func hostConfig(o *opts.Opts) host.Config {
	if o == nil {
		return host.Config{}
	}

	return host.Config{
		CollectionLimit: o.CollectionLimit,
		MaxRestarts:     o.MaxRestarts,
	}
}

// FieldAvailability reports which Device fields this build can fill.
func FieldAvailability() pci.FieldAvailability {
	return host.FieldAvailability()
}

// FindByID enumerates the host and returns the first function matching
// vendor and device.
func FindByID(vendor, device uint16) (pci.Device, error) {
	c, err := Enumerate()
	if err != nil {
		return pci.Device{}, err
	}
	defer c.Release()

	return find(c, vendor, device)
}

func find(c *pci.Collection, vendor, device uint16) (pci.Device, error) {
	const op = pcierr.Op("find device")

	for i := 0; i < c.Len(); i++ {
		if d := c.At(i); d.VendorID == vendor && d.DeviceID == device {
			return d, nil
		}
	}

	return pci.Device{}, pcierr.E(op, pcierr.NotFound, ErrNoDevice, fmt.Sprintf("%04x:%04x", vendor, device))
}

// Describe renders d in the style of lspci:
//
//	0000:00:14.0 USB controller: Intel Corporation Cannon Lake PCH USB 3.1 xHCI Host Controller (rev 10)
//
// The second return value is false if the subclass, vendor or device name
// is unknown.
func Describe(d pci.Device) (string, bool) {
	n := pciids.Lookup(d)
	if n.Subclass == "" || n.Vendor == "" || n.Device == "" {
		return "", false
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s %s: %s %s", d.Address, n.Subclass, n.Vendor, n.Device)

	if d.RevisionID != 0 {
		fmt.Fprintf(&b, " (rev %02x)", d.RevisionID)
	}

	return b.String(), true
}

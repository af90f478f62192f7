// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pciids resolves PCI identifiers to human readable names.
//
// Vendor and device names come from the pci.ids database compiled into
// github.com/siderolabs/go-pcidb. Class names are built in.
package pciids

import (
	"github.com/siderolabs/go-pcidb/pkg/pcidb"
	"system-transparency.org/pciinfo/pci"
)

//nolint:gochecknoglobals
var (
	lookupVendor  = pcidb.LookupVendor
	lookupProduct = pcidb.LookupProduct
)

// VendorName returns the name of vendor.
func VendorName(vendor uint16) (string, bool) {
	return lookupVendor(vendor)
}

// DeviceName returns the name of the device of vendor.
func DeviceName(vendor, device uint16) (string, bool) {
	return lookupProduct(vendor, device)
}

// ClassName returns the name of a base class.
func ClassName(class uint8) (string, bool) {
	name, ok := classes[class]

	return name, ok
}

// SubclassName returns the name of subclass within class.
func SubclassName(class, subclass uint8) (string, bool) {
	name, ok := subclasses[uint16(class)<<8|uint16(subclass)]

	return name, ok
}

// ProgIfName returns the name of a programming interface.
func ProgIfName(class, subclass, progIf uint8) (string, bool) {
	name, ok := progIfs[uint32(class)<<16|uint32(subclass)<<8|uint32(progIf)]

	return name, ok
}

// Names holds the resolved names of a device. Unknown names are empty.
type Names struct {
	Vendor   string `json:"vendor,omitempty"`
	Device   string `json:"device,omitempty"`
	Class    string `json:"class,omitempty"`
	Subclass string `json:"subclass,omitempty"`
	ProgIf   string `json:"prog_if,omitempty"`
}

// Lookup resolves every name of d.
func Lookup(d pci.Device) Names {
	var n Names

	n.Vendor, _ = VendorName(d.VendorID)
	n.Device, _ = DeviceName(d.VendorID, d.DeviceID)
	n.Class, _ = ClassName(d.Class)
	n.Subclass, _ = SubclassName(d.Class, d.Subclass)
	n.ProgIf, _ = ProgIfName(d.Class, d.Subclass, d.ProgrammingInterface)

	return n
}

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registry reads PCI devices from operating system device
// registries that already hold decoded records: the Linux sysfs tree,
// the Darwin I/O Registry and the Windows SetupAPI device database.
//
// The decoding of registry values is platform independent. Only the
// iteration over the registry lives in build constrained files.
package registry

import "system-transparency.org/pciinfo/pci"

// Error reports malformed registry content.
type Error string

// Error implements error interface.
func (e Error) Error() string {
	return string(e)
}

const (
	ErrMissingID    = Error("hardware ID lacks vendor or device")
	ErrBadAttribute = Error("malformed device attribute")
)

// le decodes up to four little endian bytes.
func le(b []byte) uint32 {
	var v uint32

	for i := len(b) - 1; i >= 0; i-- {
		if i < 4 {
			v = v<<8 | uint32(b[i])
		}
	}

	return v
}

// optionalIDs marks the fields registries may leave out of a record.
func optionalIDs() pci.FieldAvailability {
	f := pci.AllFields(pci.Available)
	f.SubsystemVendorID, f.SubsystemDeviceID = pci.Unknown, pci.Unknown
	f.Class, f.Subclass, f.ProgrammingInterface = pci.Unknown, pci.Unknown, pci.Unknown
	f.RevisionID = pci.Unknown

	return f
}

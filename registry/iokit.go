// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"fmt"

	"system-transparency.org/pciinfo/pci"
)

// I/O Registry property names of IOPCIDevice services.
const (
	PropVendorID          = "vendor-id"
	PropDeviceID          = "device-id"
	PropSubsystemID       = "subsystem-id"
	PropSubsystemVendorID = "subsystem-vendor-id"
	PropRevisionID        = "revision-id"
	PropClassCode         = "class-code"
	PropReg               = "reg"
)

// IOKitProperties lists the properties read for every service.
//
//nolint:gochecknoglobals
var IOKitProperties = []string{
	PropVendorID,
	PropDeviceID,
	PropSubsystemID,
	PropSubsystemVendorID,
	PropRevisionID,
	PropClassCode,
	PropReg,
}

// IOKitFields reports the fields DecodeIOKit can vouch for. Only the
// vendor and device IDs are required; a service may omit the other
// properties, which then decode as zero. Locations are Unknown when
// withLocation is set and Unavailable otherwise.
func IOKitFields(withLocation bool) pci.FieldAvailability {
	f := optionalIDs()
	if withLocation {
		return f.WithLocation(pci.Unknown)
	}

	return f.WithLocation(pci.Unavailable)
}

// DecodeIOKit builds a Device from the raw property data of an IOPCIDevice
// service. vendor-id and device-id are required. Other missing properties
// leave their field zero. The location is taken from the first
// IOPCIAddressSpace entry of "reg" if withLocation is set and the entry
// exists, otherwise it is pci.UnavailableAddress.
func DecodeIOKit(props map[string][]byte, withLocation bool) (pci.Device, error) {
	ven, okVen := props[PropVendorID]
	dev, okDev := props[PropDeviceID]

	if !okVen || !okDev {
		return pci.Device{}, fmt.Errorf("%w: service has no %s or %s", ErrMissingID, PropVendorID, PropDeviceID)
	}

	d := pci.Device{
		Address:           pci.UnavailableAddress,
		VendorID:          uint16(le(ven)),
		DeviceID:          uint16(le(dev)),
		SubsystemDeviceID: uint16(le(props[PropSubsystemID])),
		SubsystemVendorID: uint16(le(props[PropSubsystemVendorID])),
		RevisionID:        uint8(le(props[PropRevisionID])),
	}

	d.Class, d.Subclass, d.ProgrammingInterface = pci.DecodeClassCode(le(props[PropClassCode]))

	if reg, ok := props[PropReg]; withLocation && ok && len(reg) >= 4 {
		hi := le(reg[:4])
		d.Address = pci.Address{
			Bus:      uint8(hi >> 16),
			Device:   uint8(hi>>11) & 0x1f,
			Function: uint8(hi>>8) & 0x7,
		}
	}

	return d, nil
}

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"fmt"
	"strconv"
	"strings"

	"system-transparency.org/pciinfo/pci"
)

// SetupAPIFields reports the fields ParseHardwareIDs and DecodeLocation
// can vouch for. The location and the VEN and DEV IDs are always
// present; a device node may omit SUBSYS, REV and CC.
func SetupAPIFields() pci.FieldAvailability {
	return optionalIDs()
}

// ParseHardwareIDs decodes the hardware ID strings of a PCI device node,
// for example
//
//	PCI\VEN_8086&DEV_A36D&SUBSYS_08691028&REV_10
//	PCI\VEN_8086&DEV_A36D&CC_0C0330
//
// Fields of all strings are merged. VEN and DEV are required, SUBSYS,
// REV and CC default to zero.
func ParseHardwareIDs(ids []string) (pci.Device, error) {
	fields := map[string]uint64{}

	for _, id := range ids {
		id = strings.TrimPrefix(strings.ToUpper(id), `PCI\`)

		for _, kv := range strings.Split(id, "&") {
			k, v, ok := strings.Cut(kv, "_")
			if !ok {
				continue
			}

			n, err := strconv.ParseUint(v, 16, 32)
			if err != nil {
				continue
			}

			// CC_ccss omits the programming interface.
			if k == "CC" && len(v) == 4 {
				n <<= 8
			}

			if _, seen := fields[k]; !seen {
				fields[k] = n
			}
		}
	}

	ven, okVen := fields["VEN"]
	dev, okDev := fields["DEV"]

	if !okVen || !okDev {
		return pci.Device{}, fmt.Errorf("%w: %q", ErrMissingID, ids)
	}

	subsys := fields["SUBSYS"]

	d := pci.Device{
		VendorID:          uint16(ven),
		DeviceID:          uint16(dev),
		SubsystemDeviceID: uint16(subsys >> 16),
		SubsystemVendorID: uint16(subsys),
		RevisionID:        uint8(fields["REV"]),
	}
	d.Class, d.Subclass, d.ProgrammingInterface = pci.DecodeClassCode(uint32(fields["CC"]))

	return d, nil
}

// DecodeLocation builds an Address from the SPDRP_BUSNUMBER and SPDRP_ADDRESS
// properties. The bus number carries the domain in bits 31:8, the address
// carries the device in its high and the function in its low word.
func DecodeLocation(busNumber, address uint32) pci.Address {
	return pci.Address{
		Domain:   busNumber >> 8,
		Bus:      uint8(busNumber),
		Device:   uint8(address >> 16),
		Function: uint8(address),
	}
}

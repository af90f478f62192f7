// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package walk

import (
	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcilog"
	"system-transparency.org/pciinfo/transport"
)

// Exhaustive reads bus 0 to 255 and device 0 to 31 of domain 0 through
// cs and appends every present function to c in bus, device, function
// order. The header type of function 0 decides whether functions 1 to 7
// are read. Slots that cannot be read are skipped. Only a failing
// Append aborts the walk.
func Exhaustive(cs transport.ConfigSpace, c *pci.Collection) error {
	for bus := 0; bus <= pci.MaxBus; bus++ {
		for dev := 0; dev < pci.DevicesPerBus; dev++ {
			if err := slot(cs, c, uint8(bus), uint8(dev)); err != nil {
				return err
			}
		}
	}

	return nil
}

func slot(cs transport.ConfigSpace, c *pci.Collection, bus, dev uint8) error {
	head := pci.Address{Bus: bus, Device: dev}

	bhlc, err := cs.ReadConfig(head, pci.RegBHLC, transport.Dword)
	if err != nil {
		pcilog.Debug("%s: skip device, header type: %v", head, err)

		return nil
	}

	functions := 1
	if pci.IsMultiFunction(bhlc) {
		functions = pci.FunctionsPerDevice
	}

	for fn := 0; fn < functions; fn++ {
		a := head
		a.Function = uint8(fn)

		d, ok := function(cs, a)
		if !ok {
			continue
		}

		if err := c.Append(d); err != nil {
			return err
		}
	}

	return nil
}

func function(cs transport.ConfigSpace, a pci.Address) (pci.Device, bool) {
	id, err := cs.ReadConfig(a, pci.RegID, transport.Dword)
	if err != nil {
		pcilog.Debug("%s: skip function, ID: %v", a, err)

		return pci.Device{}, false
	}

	if !pci.ValidVendor(pci.VendorID(id)) {
		return pci.Device{}, false
	}

	class, err := cs.ReadConfig(a, pci.RegClass, transport.Dword)
	if err != nil {
		pcilog.Debug("%s: skip function, class: %v", a, err)

		return pci.Device{}, false
	}

	subsys, err := cs.ReadConfig(a, pci.RegSubsystem, transport.Dword)
	if err != nil {
		pcilog.Debug("%s: skip function, subsystem: %v", a, err)

		return pci.Device{}, false
	}

	return pci.FromRegisters(a, id, class, subsys), true
}

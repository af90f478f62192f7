// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin && cgo

package host

import (
	"runtime"

	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcierr"
	"system-transparency.org/pciinfo/registry"
	"system-transparency.org/pciinfo/walk"
)

// Backend names the access channel of this build.
const Backend = "I/O Registry"

// Apple silicon does not publish the location of PCI functions.
func locationKnown() bool {
	return runtime.GOARCH != "arm64"
}

func enumerate(_ Config, c *pci.Collection) error {
	it, err := registry.OpenIOKit(locationKnown())
	if err != nil {
		return pcierr.E(pcierr.Op("match IOPCIDevice"), pcierr.OsError, err)
	}
	defer it.Close()

	return walk.Drain(it, c)
}

func fieldAvailability() pci.FieldAvailability {
	return registry.IOKitFields(locationKnown())
}

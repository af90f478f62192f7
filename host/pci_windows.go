// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcierr"
	"system-transparency.org/pciinfo/registry"
	"system-transparency.org/pciinfo/walk"
)

// Backend names the access channel of this build.
const Backend = "SetupAPI"

func enumerate(_ Config, c *pci.Collection) error {
	it, err := registry.OpenSetupAPI()
	if err != nil {
		return pcierr.E(pcierr.Op("open PCI device information set"), err)
	}
	defer it.Close()

	return walk.Drain(it, c)
}

func fieldAvailability() pci.FieldAvailability {
	return registry.SetupAPIFields()
}

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && !(portio && (amd64 || 386))

package host

import (
	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcierr"
	"system-transparency.org/pciinfo/registry"
	"system-transparency.org/pciinfo/walk"
)

// Backend names the access channel of this build.
const Backend = "sysfs"

func enumerate(cfg Config, c *pci.Collection) error {
	s, err := registry.OpenSysfs(cfg.SysfsRoot)
	if err != nil {
		return pcierr.E(pcierr.Op("open sysfs"), err)
	}
	defer s.Close()

	return walk.Drain(s, c)
}

func fieldAvailability() pci.FieldAvailability {
	return pci.AllFields(pci.Available)
}

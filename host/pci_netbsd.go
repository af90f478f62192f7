// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/transport"
	"system-transparency.org/pciinfo/walk"
)

// Backend names the access channel of this build.
const Backend = "/dev/pci0 ioctl"

func enumerate(_ Config, c *pci.Collection) error {
	t, err := transport.OpenNetBSD()
	if err != nil {
		return err
	}
	defer t.Close()

	return walk.Exhaustive(t, c)
}

func fieldAvailability() pci.FieldAvailability {
	return pci.AllFields(pci.Elevated)
}

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build freebsd && (amd64 || arm64)

package host

import (
	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/transport"
	"system-transparency.org/pciinfo/walk"
)

// Backend names the access channel of this build.
const Backend = "PCIOCGETCONF"

func enumerate(cfg Config, c *pci.Collection) error {
	open := func() (transport.Pager, error) {
		return transport.OpenGetConf()
	}

	return walk.Paged(open, c, cfg.MaxRestarts)
}

func fieldAvailability() pci.FieldAvailability {
	return pci.AllFields(pci.Available)
}

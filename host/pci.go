// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host binds the PCI access channel of the build target.
//
// Exactly one backend is compiled into a binary, selected by build
// constraints. On Linux the sysfs tree is used unless the portio build
// tag selects direct port I/O on x86.
package host

import (
	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcilog"
)

// Config tunes an enumeration.
type Config struct {
	// CollectionLimit caps the number of records, 0 selects pci.DefaultLimit.
	CollectionLimit int
	// MaxRestarts caps how often a paged walk starts over, 0 selects the
	// walk package default.
	MaxRestarts int
	// SysfsRoot overrides the sysfs device directory on Linux.
	SysfsRoot string
}

// Enumerate lists the PCI functions of the host. The access channel is
// closed before Enumerate returns. Errors are of type pcierr.Error.
func Enumerate(cfg Config) (*pci.Collection, error) {
	c := pci.NewCollection(pci.WithLimit(cfg.CollectionLimit))

	pcilog.Info("enumerate PCI functions via %s", Backend)

	if err := enumerate(cfg, c); err != nil {
		c.Release()

		return nil, err
	}

	pcilog.Debug("found %d PCI functions", c.Len())

	return c, nil
}

// FieldAvailability reports which Device fields the backend of this build
// target can fill. The answer does not depend on the host.
func FieldAvailability() pci.FieldAvailability {
	return fieldAvailability()
}

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux && !(freebsd && (amd64 || arm64)) && !netbsd && !openbsd && !(darwin && cgo) && !windows

package host

import (
	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcierr"
)

// Backend names the access channel of this build.
const Backend = "none"

func enumerate(_ Config, _ *pci.Collection) error {
	return pcierr.E(pcierr.Op("enumerate"), pcierr.NotFound, ErrUnsupported)
}

func fieldAvailability() pci.FieldAvailability {
	return pci.AllFields(pci.Unavailable)
}

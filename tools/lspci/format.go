// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pciids"
)

type listFormat struct {
	numeric int
	verbose int
	names   bool
	avail   pci.FieldAvailability
}

func writeList(w io.Writer, devices []pci.Device, f listFormat) error {
	for _, d := range devices {
		if _, err := fmt.Fprintln(w, f.line(d)); err != nil {
			return err
		}

		for _, l := range f.details(d) {
			if _, err := fmt.Fprintf(w, "\t%s\n", l); err != nil {
				return err
			}
		}
	}

	return nil
}

func (f listFormat) line(d pci.Device) string {
	numeric := f.numeric
	if !f.names {
		numeric = 1
	}

	var s string

	switch numeric {
	case 0:
		n := pciids.Lookup(d)
		s = fmt.Sprintf("%s %s: %s %s %s", d.Address, className(d, n), vendorName(n), deviceName(d, n), revision(d))
	case 1:
		s = fmt.Sprintf("%s %02x%02x: %04x:%04x %s", d.Address, d.Class, d.Subclass, d.VendorID, d.DeviceID, revision(d))
	default:
		n := pciids.Lookup(d)
		s = fmt.Sprintf("%s %s [%02x%02x]: %s %s [%04x:%04x] %s",
			d.Address, className(d, n), d.Class, d.Subclass,
			vendorName(n), deviceName(d, n), d.VendorID, d.DeviceID, revision(d))
	}

	return strings.TrimSpace(s)
}

func (f listFormat) details(d pci.Device) []string {
	var lines []string

	if f.verbose >= 1 {
		if f.avail.SubsystemVendorID == pci.Unavailable {
			lines = append(lines, "Subsystem: unavailable")
		} else {
			lines = append(lines, fmt.Sprintf("Subsystem: %04x:%04x", d.SubsystemVendorID, d.SubsystemDeviceID))
		}
	}

	if f.verbose >= 2 {
		l := fmt.Sprintf("Class code: %06x", d.ClassCode())
		if name, ok := pciids.ProgIfName(d.Class, d.Subclass, d.ProgrammingInterface); ok && f.names {
			l += fmt.Sprintf(" (prog-if %02x [%s])", d.ProgrammingInterface, name)
		}

		lines = append(lines, l, d.String())
	}

	return lines
}

func className(d pci.Device, n pciids.Names) string {
	switch {
	case n.Subclass != "":
		return n.Subclass
	case n.Class != "":
		return n.Class
	default:
		return fmt.Sprintf("<unknown class %02x%02x>", d.Class, d.Subclass)
	}
}

func vendorName(n pciids.Names) string {
	if n.Vendor == "" {
		return "<unknown vendor>"
	}

	return n.Vendor
}

func deviceName(d pci.Device, n pciids.Names) string {
	if n.Device == "" {
		return fmt.Sprintf("<unknown device %04x:%04x>", d.VendorID, d.DeviceID)
	}

	return n.Device
}

func revision(d pci.Device) string {
	if d.RevisionID == 0 {
		return ""
	}

	return fmt.Sprintf("(rev %02x)", d.RevisionID)
}

type record struct {
	pci.Device
	Names *pciids.Names `json:"names,omitempty"`
}

type report struct {
	Availability pci.FieldAvailability `json:"availability"`
	Devices      []record              `json:"devices"`
}

func writeJSON(w io.Writer, devices []pci.Device, avail pci.FieldAvailability, names bool) error {
	r := report{Availability: avail, Devices: make([]record, 0, len(devices))}

	for _, d := range devices {
		rec := record{Device: d}

		if names {
			n := pciids.Lookup(d)
			rec.Names = &n
		}

		r.Devices = append(r.Devices, rec)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(r)
}

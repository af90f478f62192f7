// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"system-transparency.org/pciinfo/pci"
)

// SysfsRoot is where Linux lists PCI functions.
const SysfsRoot = "/sys/bus/pci/devices"

// Sysfs iterates over the function directories below a sysfs root.
type Sysfs struct {
	root    string
	entries []string
}

// OpenSysfs lists root. Directory entries are visited in address order.
func OpenSysfs(root string) (*Sysfs, error) {
	if root == "" {
		root = SysfsRoot
	}

	dir, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	entries := make([]string, 0, len(dir))
	for _, e := range dir {
		entries = append(entries, e.Name())
	}

	sort.Strings(entries)

	return &Sysfs{root: root, entries: entries}, nil
}

// Next returns the next function or io.EOF. Unreadable attributes abort
// the iteration with the underlying error.
func (s *Sysfs) Next() (pci.Device, error) {
	if len(s.entries) == 0 {
		return pci.Device{}, io.EOF
	}

	name := s.entries[0]
	s.entries = s.entries[1:]

	a, err := pci.ParseAddress(name)
	if err != nil {
		return pci.Device{}, err
	}

	dir := filepath.Join(s.root, name)
	d := pci.Device{Address: a}

	for _, attr := range []struct {
		file string
		bits int
		set  func(uint64)
	}{
		{"vendor", 16, func(v uint64) { d.VendorID = uint16(v) }},
		{"device", 16, func(v uint64) { d.DeviceID = uint16(v) }},
		{"subsystem_vendor", 16, func(v uint64) { d.SubsystemVendorID = uint16(v) }},
		{"subsystem_device", 16, func(v uint64) { d.SubsystemDeviceID = uint16(v) }},
		{"class", 24, func(v uint64) {
			d.Class, d.Subclass, d.ProgrammingInterface = pci.DecodeClassCode(uint32(v))
		}},
		{"revision", 8, func(v uint64) { d.RevisionID = uint8(v) }},
	} {
		v, err := readHex(filepath.Join(dir, attr.file), attr.bits)
		if err != nil {
			return pci.Device{}, err
		}

		attr.set(v)
	}

	return d, nil
}

// Close implements walk.Iterator.
func (s *Sysfs) Close() error {
	s.entries = nil

	return nil
}

func readHex(path string, bits int) (uint64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	str := strings.TrimPrefix(strings.TrimSpace(string(b)), "0x")

	v, err := strconv.ParseUint(str, 16, bits)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %v", ErrBadAttribute, path, err)
	}

	return v, nil
}

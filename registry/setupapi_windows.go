// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/windows"
	"system-transparency.org/pciinfo/pci"
)

// SetupAPI iterates over the present device nodes of the PCI enumerator.
type SetupAPI struct {
	info  windows.DevInfo
	index int
	open  bool
}

// OpenSetupAPI opens the device information set of the PCI enumerator.
func OpenSetupAPI() (*SetupAPI, error) {
	info, err := windows.SetupDiGetClassDevsEx(nil, "PCI", 0,
		windows.DIGCF_ALLCLASSES|windows.DIGCF_PRESENT, 0, "")
	if err != nil {
		return nil, fmt.Errorf("SetupDiGetClassDevsEx: %w", err)
	}

	return &SetupAPI{info: info, open: true}, nil
}

// Next implements walk.Iterator.
func (s *SetupAPI) Next() (pci.Device, error) {
	if !s.open {
		return pci.Device{}, io.EOF
	}

	data, err := s.info.EnumDeviceInfo(s.index)
	if errors.Is(err, windows.ERROR_NO_MORE_ITEMS) {
		return pci.Device{}, io.EOF
	}

	if err != nil {
		return pci.Device{}, fmt.Errorf("SetupDiEnumDeviceInfo %d: %w", s.index, err)
	}

	s.index++

	ids, err := s.strings(data, windows.SPDRP_HARDWAREID)
	if err != nil {
		return pci.Device{}, err
	}

	d, err := ParseHardwareIDs(ids)
	if err != nil {
		return pci.Device{}, err
	}

	bus, err := s.dword(data, windows.SPDRP_BUSNUMBER)
	if err != nil {
		return pci.Device{}, err
	}

	addr, err := s.dword(data, windows.SPDRP_ADDRESS)
	if err != nil {
		return pci.Device{}, err
	}

	d.Address = DecodeLocation(bus, addr)

	return d, nil
}

func (s *SetupAPI) strings(data *windows.DevInfoData, p windows.SPDRP) ([]string, error) {
	v, err := s.info.DeviceRegistryProperty(data, p)
	if err != nil {
		return nil, fmt.Errorf("SetupDiGetDeviceRegistryProperty %d: %w", p, err)
	}

	switch v := v.(type) {
	case []string:
		return v, nil
	case string:
		return []string{v}, nil
	default:
		return nil, fmt.Errorf("%w: property %d has type %T", ErrBadAttribute, p, v)
	}
}

func (s *SetupAPI) dword(data *windows.DevInfoData, p windows.SPDRP) (uint32, error) {
	v, err := s.info.DeviceRegistryProperty(data, p)
	if err != nil {
		return 0, fmt.Errorf("SetupDiGetDeviceRegistryProperty %d: %w", p, err)
	}

	n, ok := v.(uint32)
	if !ok {
		return 0, fmt.Errorf("%w: property %d has type %T", ErrBadAttribute, p, v)
	}

	return n, nil
}

// Close implements walk.Iterator.
func (s *SetupAPI) Close() error {
	if !s.open {
		return nil
	}

	s.open = false

	return s.info.Close()
}

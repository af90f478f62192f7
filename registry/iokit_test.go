// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"system-transparency.org/pciinfo/pci"
)

func TestDecodeIOKit(t *testing.T) {
	props := map[string][]byte{
		PropVendorID:          {0x6b, 0x10, 0x00, 0x00},
		PropDeviceID:          {0x03, 0x20, 0x00, 0x00},
		PropSubsystemID:       {0x19, 0x00, 0x00, 0x00},
		PropSubsystemVendorID: {0x6b, 0x10, 0x00, 0x00},
		PropRevisionID:        {0x02, 0x00, 0x00, 0x00},
		PropClassCode:         {0x30, 0x03, 0x0c, 0x00},
		// bus 0x1b, device 4, function 1, register 0x10
		PropReg: {0x10, 0x21, 0x1b, 0x00, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	}

	want := pci.Device{
		Address:              pci.Address{Bus: 0x1b, Device: 4, Function: 1},
		VendorID:             0x106b,
		DeviceID:             0x2003,
		SubsystemVendorID:    0x106b,
		SubsystemDeviceID:    0x0019,
		Class:                0x0c,
		Subclass:             0x03,
		ProgrammingInterface: 0x30,
		RevisionID:           0x02,
	}

	got, err := DecodeIOKit(props, true)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	noLoc, err := DecodeIOKit(props, false)
	require.NoError(t, err)
	assert.Equal(t, pci.UnavailableAddress, noLoc.Address)
	assert.Equal(t, want.VendorID, noLoc.VendorID)
}

func TestDecodeIOKitMissingProperties(t *testing.T) {
	d, err := DecodeIOKit(map[string][]byte{
		PropVendorID: {0x86, 0x80},
		PropDeviceID: {0x3d, 0xa3},
	}, true)
	require.NoError(t, err)

	assert.Equal(t, uint16(0x8086), d.VendorID)
	assert.Equal(t, uint16(0xa33d), d.DeviceID)
	assert.Equal(t, uint16(0), d.SubsystemVendorID)
	assert.Equal(t, uint8(0), d.Class)
	assert.Equal(t, pci.UnavailableAddress, d.Address, "no reg property")
}

func TestDecodeIOKitMissingID(t *testing.T) {
	for _, tt := range []struct {
		name  string
		props map[string][]byte
	}{
		{"empty", map[string][]byte{}},
		{"no device-id", map[string][]byte{PropVendorID: {0x86, 0x80}}},
		{"no vendor-id", map[string][]byte{PropDeviceID: {0x3d, 0xa3}}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeIOKit(tt.props, true)
			assert.ErrorIs(t, err, ErrMissingID)
		})
	}
}

func TestIOKitFields(t *testing.T) {
	for _, tt := range []struct {
		name         string
		withLocation bool
		location     pci.Availability
	}{
		{"with location", true, pci.Unknown},
		{"without location", false, pci.Unavailable},
	} {
		t.Run(tt.name, func(t *testing.T) {
			f := IOKitFields(tt.withLocation)

			assert.Equal(t, tt.location, f.Bus)
			assert.Equal(t, tt.location, f.Function)
			assert.Equal(t, pci.Available, f.VendorID)
			assert.Equal(t, pci.Available, f.DeviceID)
			assert.Equal(t, pci.Unknown, f.SubsystemVendorID)
			assert.Equal(t, pci.Unknown, f.SubsystemDeviceID)
			assert.Equal(t, pci.Unknown, f.Class)
			assert.Equal(t, pci.Unknown, f.ProgrammingInterface)
			assert.Equal(t, pci.Unknown, f.RevisionID)
			assert.False(t, f.Trusted())
		})
	}
}

func TestLittleEndian(t *testing.T) {
	assert.Equal(t, uint32(0), le(nil))
	assert.Equal(t, uint32(0x12), le([]byte{0x12}))
	assert.Equal(t, uint32(0x04030201), le([]byte{1, 2, 3, 4, 5, 6}))
}

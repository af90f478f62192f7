// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pciinfo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"system-transparency.org/pciinfo/host"
	"system-transparency.org/pciinfo/opts"
	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcierr"
)

func e1000(rev uint8) pci.Device {
	return pci.Device{
		Address:    pci.Address{Device: 3},
		VendorID:   0x8086,
		DeviceID:   0x100e,
		Class:      0x02,
		RevisionID: rev,
	}
}

func TestDescribe(t *testing.T) {
	got, ok := Describe(e1000(3))
	require.True(t, ok)
	assert.Equal(t, "0000:00:03.0 Ethernet controller: Intel Corporation 82540EM Gigabit Ethernet Controller (rev 03)", got)

	got, ok = Describe(e1000(0))
	require.True(t, ok)
	assert.Equal(t, "0000:00:03.0 Ethernet controller: Intel Corporation 82540EM Gigabit Ethernet Controller", got)

	unknown := e1000(0)
	unknown.Class = 0x77
	_, ok = Describe(unknown)
	assert.False(t, ok)
}

func TestFind(t *testing.T) {
	c := pci.NewCollection()
	defer c.Release()

	bridge := pci.Device{VendorID: 0x8086, DeviceID: 0x29c0, Class: 0x06}
	require.NoError(t, c.Append(bridge))
	require.NoError(t, c.Append(e1000(3)))

	got, err := find(c, 0x8086, 0x100e)
	require.NoError(t, err)
	assert.Equal(t, e1000(3), got)

	_, err = find(c, 0x1af4, 0x1000)
	assert.Equal(t, pcierr.NotFound, pcierr.KindOf(err))
	assert.True(t, errors.Is(err, ErrNoDevice))
}

func TestHostConfig(t *testing.T) {
	assert.Equal(t, host.Config{}, hostConfig(nil))
	assert.Equal(t,
		host.Config{CollectionLimit: 64, MaxRestarts: 2},
		hostConfig(&opts.Opts{CollectionLimit: 64, MaxRestarts: 2, Names: true}))
}

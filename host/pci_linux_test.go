// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux && !(portio && (amd64 || 386))

package host

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcierr"
)

func fakeSysfs(t *testing.T, functions map[string][6]string) string {
	t.Helper()

	root := t.TempDir()
	names := []string{"vendor", "device", "subsystem_vendor", "subsystem_device", "class", "revision"}

	for addr, values := range functions {
		dir := filepath.Join(root, addr)
		require.NoError(t, os.MkdirAll(dir, 0o755))

		for i, name := range names {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(values[i]+"\n"), 0o600))
		}
	}

	return root
}

func TestEnumerateSysfs(t *testing.T) {
	root := fakeSysfs(t, map[string][6]string{
		"0000:00:00.0": {"0x8086", "0x3e30", "0x1028", "0x0869", "0x060000", "0x0d"},
		"0000:00:1f.3": {"0x8086", "0xa348", "0x1028", "0x0869", "0x040300", "0x10"},
		"0000:01:00.0": {"0x10de", "0x1eb8", "0x10de", "0x12a2", "0x030200", "0xa1"},
	})

	c, err := Enumerate(Config{SysfsRoot: root})
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())

	assert.Equal(t, pci.Address{Device: 0x1f, Function: 3}, c.At(1).Address)
	assert.Equal(t, uint8(0x04), c.At(1).Class)
	assert.Equal(t, uint8(0x03), c.At(1).Subclass)
	assert.Equal(t, uint16(0x10de), c.At(2).VendorID)
}

func TestEnumerateSysfsLimit(t *testing.T) {
	root := fakeSysfs(t, map[string][6]string{
		"0000:00:00.0": {"0x8086", "0x3e30", "0x1028", "0x0869", "0x060000", "0x0d"},
		"0000:00:02.0": {"0x8086", "0x3e9b", "0x1028", "0x0869", "0x030000", "0x02"},
	})

	_, err := Enumerate(Config{SysfsRoot: root, CollectionLimit: 1})
	assert.Equal(t, pcierr.AllocationError, pcierr.KindOf(err))
}

func TestEnumerateSysfsMissing(t *testing.T) {
	_, err := Enumerate(Config{SysfsRoot: filepath.Join(t.TempDir(), "absent")})
	require.Error(t, err)
	assert.Equal(t, pcierr.NotFound, pcierr.KindOf(err))
}

func TestFieldAvailabilitySysfs(t *testing.T) {
	assert.True(t, FieldAvailability().Trusted())
	assert.Equal(t, FieldAvailability(), FieldAvailability())
	assert.Equal(t, "sysfs", Backend)
}

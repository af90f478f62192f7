// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registry

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"system-transparency.org/pciinfo/pci"
)

func writeFunction(t *testing.T, root, addr string, attrs map[string]string) {
	t.Helper()

	dir := filepath.Join(root, addr)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	for name, content := range attrs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content+"\n"), 0o600))
	}
}

func attrs(vendor, device, class, rev string) map[string]string {
	return map[string]string{
		"vendor":           vendor,
		"device":           device,
		"subsystem_vendor": "0x1028",
		"subsystem_device": "0x0869",
		"class":            class,
		"revision":         rev,
	}
}

func drain(t *testing.T, s *Sysfs) ([]pci.Device, error) {
	t.Helper()

	var out []pci.Device

	for {
		d, err := s.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return out, err
		}

		out = append(out, d)
	}
}

func TestSysfs(t *testing.T) {
	root := t.TempDir()
	writeFunction(t, root, "0000:00:14.0", attrs("0x8086", "0xa36d", "0x0c0330", "0x10"))
	writeFunction(t, root, "0000:00:02.0", attrs("0x8086", "0x3e9b", "0x030000", "0x02"))
	writeFunction(t, root, "0001:3a:00.1", attrs("0x15b3", "0x1017", "0x020000", "0x00"))

	s, err := OpenSysfs(root)
	require.NoError(t, err)

	defer s.Close()

	got, err := drain(t, s)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, pci.Address{Device: 2}, got[0].Address)
	assert.Equal(t, pci.Address{Device: 0x14}, got[1].Address)
	assert.Equal(t, pci.Address{Domain: 1, Bus: 0x3a, Function: 1}, got[2].Address)

	assert.Equal(t, pci.Device{
		Address:              pci.Address{Device: 0x14},
		VendorID:             0x8086,
		DeviceID:             0xa36d,
		SubsystemVendorID:    0x1028,
		SubsystemDeviceID:    0x0869,
		Class:                0x0c,
		Subclass:             0x03,
		ProgrammingInterface: 0x30,
		RevisionID:           0x10,
	}, got[1])
}

func TestSysfsErrors(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, err := OpenSysfs(filepath.Join(t.TempDir(), "nope"))
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("missing attribute", func(t *testing.T) {
		root := t.TempDir()
		a := attrs("0x8086", "0xa36d", "0x0c0330", "0x10")
		delete(a, "revision")
		writeFunction(t, root, "0000:00:14.0", a)

		s, err := OpenSysfs(root)
		require.NoError(t, err)

		_, err = drain(t, s)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("malformed attribute", func(t *testing.T) {
		root := t.TempDir()
		writeFunction(t, root, "0000:00:14.0", attrs("0x8086", "zz", "0x0c0330", "0x10"))

		s, err := OpenSysfs(root)
		require.NoError(t, err)

		_, err = drain(t, s)
		assert.True(t, errors.Is(err, ErrBadAttribute))
	})

	t.Run("closed", func(t *testing.T) {
		root := t.TempDir()
		writeFunction(t, root, "0000:00:14.0", attrs("0x8086", "0xa36d", "0x0c0330", "0x10"))

		s, err := OpenSysfs(root)
		require.NoError(t, err)
		require.NoError(t, s.Close())

		_, err = s.Next()
		assert.True(t, errors.Is(err, io.EOF))
	})
}

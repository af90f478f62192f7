// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
	"system-transparency.org/pciinfo/pci"
)

const netbsdDevice = "/dev/pci0"

// PCI_IOC_BDF_CFGREAD and PCI_IOC_BDF_CFGWRITE of <dev/pci/pciio.h>.
//
//nolint:gochecknoglobals
var (
	pciIOCBDFCfgRead  = ioc(iocInOut, 'P', 2, unsafe.Sizeof(bdfCfgReg{}))
	pciIOCBDFCfgWrite = ioc(iocIn, 'P', 3, unsafe.Sizeof(bdfCfgReg{}))
)

// struct pciio_bdf_cfgreg
type bdfCfgReg struct {
	bus      uint32
	device   uint32
	function uint32
	reg      uint32
	val      uint32
}

// NetBSDIoctl reads configuration space through /dev/pci0.
type NetBSDIoctl struct {
	fd int
}

// OpenNetBSD opens /dev/pci0. Writes need the device to be opened
// read-write, so that is tried first.
func OpenNetBSD() (*NetBSDIoctl, error) {
	fd, err := openDevice(netbsdDevice, unix.O_RDWR)
	if err != nil {
		fd, err = openDevice(netbsdDevice, unix.O_RDONLY)
		if err != nil {
			return nil, err
		}
	}

	return &NetBSDIoctl{fd: fd}, nil
}

func netbsdCheck(a pci.Address, reg uint16, w Width) error {
	if err := check(a, reg, w); err != nil {
		return err
	}

	if a.Domain != 0 {
		return fmt.Errorf("%w: domain %#x", ErrAddress, a.Domain)
	}

	return nil
}

// ReadConfig implements ConfigSpace. The kernel only does dword accesses,
// narrower reads are cut out of the covering dword.
func (t *NetBSDIoctl) ReadConfig(a pci.Address, reg uint16, w Width) (uint32, error) {
	if t.fd < 0 {
		return 0, ErrClosed
	}

	if err := netbsdCheck(a, reg, w); err != nil {
		return 0, err
	}

	r := bdfCfgReg{
		bus:      uint32(a.Bus),
		device:   uint32(a.Device),
		function: uint32(a.Function),
		reg:      uint32(reg &^ 3),
	}

	if err := ioctl(t.fd, pciIOCBDFCfgRead, unsafe.Pointer(&r)); err != nil {
		return 0, err
	}

	return extract(r.val, reg, w), nil
}

// WriteConfig implements ConfigWriter for dword accesses.
func (t *NetBSDIoctl) WriteConfig(a pci.Address, reg uint16, w Width, v uint32) error {
	if t.fd < 0 {
		return ErrClosed
	}

	if err := netbsdCheck(a, reg, w); err != nil {
		return err
	}

	if w != Dword {
		return fmt.Errorf("%w: kernel writes whole dwords", ErrWidth)
	}

	r := bdfCfgReg{
		bus:      uint32(a.Bus),
		device:   uint32(a.Device),
		function: uint32(a.Function),
		reg:      uint32(reg),
		val:      v,
	}

	return ioctl(t.fd, pciIOCBDFCfgWrite, unsafe.Pointer(&r))
}

// Close implements ConfigSpace.
func (t *NetBSDIoctl) Close() error {
	if t.fd < 0 {
		return nil
	}

	err := unix.Close(t.fd)
	t.fd = -1

	return err
}

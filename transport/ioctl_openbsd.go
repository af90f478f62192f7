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

const openbsdDevice = "/dev/pci"

// PCIOCREAD and PCIOCWRITE of <sys/pciio.h>.
//
//nolint:gochecknoglobals
var (
	pciocRead  = ioc(iocInOut, 'p', 2, unsafe.Sizeof(pciIO{}))
	pciocWrite = ioc(iocInOut, 'p', 3, unsafe.Sizeof(pciIO{}))
)

// struct pcisel
type pciSel struct {
	bus uint8
	dev uint8
	fn  uint8
	_   uint8
}

// struct pci_io
type pciIO struct {
	sel   pciSel
	reg   int32
	width int32
	data  uint32
}

// OpenBSDIoctl reads and writes configuration space through /dev/pci.
type OpenBSDIoctl struct {
	fd int
}

// OpenOpenBSD opens /dev/pci, read-write if permitted.
func OpenOpenBSD() (*OpenBSDIoctl, error) {
	fd, err := openDevice(openbsdDevice, unix.O_RDWR)
	if err != nil {
		fd, err = openDevice(openbsdDevice, unix.O_RDONLY)
		if err != nil {
			return nil, err
		}
	}

	return &OpenBSDIoctl{fd: fd}, nil
}

func (t *OpenBSDIoctl) request(a pci.Address, reg uint16, w Width) (pciIO, error) {
	if t.fd < 0 {
		return pciIO{}, ErrClosed
	}

	if err := check(a, reg, w); err != nil {
		return pciIO{}, err
	}

	if a.Domain != 0 {
		return pciIO{}, fmt.Errorf("%w: domain %#x", ErrAddress, a.Domain)
	}

	return pciIO{
		sel:   pciSel{bus: a.Bus, dev: a.Device, fn: a.Function},
		reg:   int32(reg &^ 3),
		width: int32(Dword),
	}, nil
}

// ReadConfig implements ConfigSpace.
func (t *OpenBSDIoctl) ReadConfig(a pci.Address, reg uint16, w Width) (uint32, error) {
	io, err := t.request(a, reg, w)
	if err != nil {
		return 0, err
	}

	if err := ioctl(t.fd, pciocRead, unsafe.Pointer(&io)); err != nil {
		return 0, err
	}

	return extract(io.data, reg, w), nil
}

// WriteConfig implements ConfigWriter for dword accesses.
func (t *OpenBSDIoctl) WriteConfig(a pci.Address, reg uint16, w Width, v uint32) error {
	io, err := t.request(a, reg, w)
	if err != nil {
		return err
	}

	if w != Dword {
		return fmt.Errorf("%w: kernel writes whole dwords", ErrWidth)
	}

	io.data = v

	return ioctl(t.fd, pciocWrite, unsafe.Pointer(&io))
}

// Close implements ConfigSpace.
func (t *OpenBSDIoctl) Close() error {
	if t.fd < 0 {
		return nil
	}

	err := unix.Close(t.fd)
	t.fd = -1

	return err
}

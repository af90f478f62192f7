// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build freebsd && (amd64 || arm64)

package transport

import (
	"unsafe"

	"golang.org/x/sys/unix"
	"system-transparency.org/pciinfo/pci"
)

// PCIOCGETCONF of <sys/pciio.h>.
//
//nolint:gochecknoglobals
var pciocGetConf = ioc(iocInOut, 'p', 10, unsafe.Sizeof(fbsdConfIO{}))

const (
	freebsdDevice = "/dev/pci"

	getconfLastDevice  = 0
	getconfListChanged = 1
	getconfMoreDevs    = 2
)

// struct pcisel
type fbsdSel struct {
	domain uint32
	bus    uint8
	dev    uint8
	fn     uint8
	_      uint8
}

// struct pci_conf
type fbsdConf struct {
	sel         fbsdSel
	hdr         uint8
	subvendor   uint16
	subdevice   uint16
	vendor      uint16
	device      uint16
	class       uint8
	subclass    uint8
	progif      uint8
	revid       uint8
	name        [17]int8
	unit        uint64
	numaDomain  int32
	reportedLen uint64
	spare       [64]int8
}

// struct pci_conf_io
type fbsdConfIO struct {
	patBufLen   uint32
	numPatterns uint32
	patterns    uintptr
	matchBufLen uint32
	numMatches  uint32
	matches     *fbsdConf
	offset      uint32
	generation  uint32
	status      uint32
	_           [4]byte
}

// GetConf pages through the kernel device list with PCIOCGETCONF.
type GetConf struct {
	fd    int
	req   fbsdConfIO
	confs []fbsdConf
}

// OpenGetConf opens /dev/pci for paging. Listing devices needs read
// access only.
func OpenGetConf() (*GetConf, error) {
	fd, err := openDevice(freebsdDevice, unix.O_RDONLY)
	if err != nil {
		return nil, err
	}

	return &GetConf{fd: fd}, nil
}

// Next implements Pager.
func (g *GetConf) Next(buf []pci.Device) (int, PageStatus, error) {
	if g.fd < 0 {
		return 0, PageError, ErrClosed
	}

	if len(buf) == 0 {
		return 0, PageError, ErrPageBuffer
	}

	if len(g.confs) != len(buf) {
		g.confs = make([]fbsdConf, len(buf))
	}

	g.req.matchBufLen = uint32(len(g.confs)) * uint32(unsafe.Sizeof(g.confs[0]))
	g.req.matches = &g.confs[0]

	if err := ioctl(g.fd, pciocGetConf, unsafe.Pointer(&g.req)); err != nil {
		return 0, PageError, err
	}

	n := int(g.req.numMatches)
	if n > len(buf) {
		n = len(buf)
	}

	for i := 0; i < n; i++ {
		c := &g.confs[i]
		buf[i] = pci.Device{
			Address: pci.Address{
				Domain:   c.sel.domain,
				Bus:      c.sel.bus,
				Device:   c.sel.dev,
				Function: c.sel.fn,
			},
			VendorID:             c.vendor,
			DeviceID:             c.device,
			SubsystemVendorID:    c.subvendor,
			SubsystemDeviceID:    c.subdevice,
			Class:                c.class,
			Subclass:             c.subclass,
			ProgrammingInterface: c.progif,
			RevisionID:           c.revid,
		}
	}

	switch g.req.status {
	case getconfLastDevice:
		return n, PageLast, nil
	case getconfListChanged:
		return n, PageListChanged, nil
	case getconfMoreDevs:
		return n, PageMore, nil
	default:
		return n, PageError, nil
	}
}

// Close implements Pager.
func (g *GetConf) Close() error {
	if g.fd < 0 {
		return nil
	}

	err := unix.Close(g.fd)
	g.fd = -1

	return err
}

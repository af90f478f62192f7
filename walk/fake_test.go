// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package walk

import (
	"errors"
	"io"

	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/transport"
)

var errSlot = errors.New("slot read failed")

type header struct {
	id, class, subsys, bhlc uint32
}

type key struct {
	a   pci.Address
	reg uint16
}

// space emulates configuration space. Absent functions read all ones.
type space struct {
	regs   map[key]uint32
	fail   map[key]bool
	reads  int
	closed bool
}

func newSpace() *space {
	return &space{regs: map[key]uint32{}, fail: map[key]bool{}}
}

func (s *space) add(a pci.Address, f header) {
	s.regs[key{a, pci.RegID}] = f.id
	s.regs[key{a, pci.RegClass}] = f.class
	s.regs[key{a, pci.RegSubsystem}] = f.subsys
	s.regs[key{a, pci.RegBHLC}] = f.bhlc
}

func (s *space) ReadConfig(a pci.Address, reg uint16, w transport.Width) (uint32, error) {
	s.reads++

	if s.fail[key{a, reg}] {
		return 0, errSlot
	}

	v, ok := s.regs[key{a, reg}]
	if !ok {
		return 0xffffffff, nil
	}

	return v, nil
}

func (s *space) Close() error {
	s.closed = true

	return nil
}

type sliceIterator struct {
	devices []pci.Device
	err     error
}

func (it *sliceIterator) Next() (pci.Device, error) {
	if len(it.devices) == 0 {
		if it.err != nil {
			return pci.Device{}, it.err
		}

		return pci.Device{}, io.EOF
	}

	d := it.devices[0]
	it.devices = it.devices[1:]

	return d, nil
}

func (it *sliceIterator) Close() error {
	return nil
}

type page struct {
	devices []pci.Device
	status  transport.PageStatus
	err     error
}

// scriptedPager replays one session worth of pages.
type scriptedPager struct {
	pages  []page
	closed *int
}

func (p *scriptedPager) Next(buf []pci.Device) (int, transport.PageStatus, error) {
	if len(p.pages) == 0 {
		return 0, transport.PageLast, nil
	}

	pg := p.pages[0]
	p.pages = p.pages[1:]

	n := copy(buf, pg.devices)

	return n, pg.status, pg.err
}

func (p *scriptedPager) Close() error {
	*p.closed++

	return nil
}

func dev(bus, device, fn uint8, vendor uint16) pci.Device {
	return pci.Device{
		Address:  pci.Address{Bus: bus, Device: device, Function: fn},
		VendorID: vendor,
		DeviceID: 0x1000 + uint16(fn),
	}
}

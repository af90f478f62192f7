// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcierr"
)

// bridge emulates a mechanism #1 host bridge.
type bridge struct {
	addr    uint32
	absent  bool
	failOut error
	space   map[uint32]uint32 // config address with reg bits cleared -> dword at reg
	log     *[]string
}

func newBridge(log *[]string) *bridge {
	return &bridge{space: map[uint32]uint32{}, log: log}
}

func (b *bridge) record(format string, v ...interface{}) {
	*b.log = append(*b.log, fmt.Sprintf(format, v...))
}

func (b *bridge) dword() uint32 {
	return b.space[b.addr&^0x3]
}

func (b *bridge) set(bus, dev, fn uint8, reg uint16, v uint32) {
	b.space[ConfigAddress(bus, dev, fn, reg)] = v
}

func (b *bridge) In8(port uint16) (uint8, error) {
	b.record("in8 %#x", port)

	return uint8(b.dword() >> (8 * uint32(port-ConfigDataPort))), nil
}

func (b *bridge) In16(port uint16) (uint16, error) {
	b.record("in16 %#x", port)

	return uint16(b.dword() >> (8 * uint32(port-ConfigDataPort))), nil
}

func (b *bridge) In32(port uint16) (uint32, error) {
	b.record("in32 %#x", port)

	if port == ConfigAddressPort {
		return b.addr, nil
	}

	return b.dword(), nil
}

func (b *bridge) Out8(port uint16, v uint8) error {
	b.record("out8 %#x %#x", port, v)

	return b.failOut
}

func (b *bridge) Out16(port uint16, v uint16) error {
	b.record("out16 %#x %#x", port, v)

	return b.failOut
}

func (b *bridge) Out32(port uint16, v uint32) error {
	b.record("out32 %#x %#x", port, v)

	if b.failOut != nil {
		return b.failOut
	}

	if port == ConfigAddressPort && !b.absent {
		b.addr = v
	}

	if port == ConfigDataPort {
		b.space[b.addr&^0x3] = v
	}

	return nil
}

type recordingLock struct {
	log  *[]string
	held bool
}

func (l *recordingLock) Lock() {
	if l.held {
		panic("lock taken twice")
	}

	l.held = true
	*l.log = append(*l.log, "lock")
}

func (l *recordingLock) Unlock() {
	l.held = false
	*l.log = append(*l.log, "unlock")
}

func TestConfigAddress(t *testing.T) {
	for _, tt := range []struct {
		name         string
		bus, dev, fn uint8
		reg          uint16
		want         uint32
	}{
		{"bus 2 function 1 reg 0x10", 2, 0, 1, 0x10, 0x80020110},
		{"device 3", 2, 3, 1, 0x10, 0x80021910},
		{"unaligned reg", 0, 0, 0, 0x13, 0x80000010},
		{"extended reg", 0, 0x1f, 7, 0x104, 0x8100ff04},
		{"max bus", 0xff, 0, 0, 0, 0x80ff0000},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfigAddress(tt.bus, tt.dev, tt.fn, tt.reg)
			assert.Equal(t, fmt.Sprintf("%#08x", tt.want), fmt.Sprintf("%#08x", got))

			bus, dev, fn, reg, enabled := DecodeConfigAddress(got)
			assert.True(t, enabled)
			assert.Equal(t, tt.bus, bus)
			assert.Equal(t, tt.dev, dev)
			assert.Equal(t, tt.fn, fn)
			assert.Equal(t, tt.reg&^3, reg)
		})
	}
}

func TestPortIODetect(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		var log []string
		b := newBridge(&log)
		b.addr = 0x1234

		p, err := NewPortIO(b, &recordingLock{log: &log})
		require.NoError(t, err)
		require.NotNil(t, p)

		assert.Equal(t, []string{
			"lock",
			"out8 0xcfb 0x1",
			"in32 0xcf8",
			"out32 0xcf8 0x80000000",
			"in32 0xcf8",
			"out32 0xcf8 0x1234",
			"unlock",
		}, log)
		assert.Equal(t, uint32(0x1234), b.addr, "address port restored")
	})

	t.Run("absent", func(t *testing.T) {
		var log []string
		b := newBridge(&log)
		b.absent = true

		_, err := NewPortIO(b, &recordingLock{log: &log})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoMechanism))
		assert.Equal(t, pcierr.OsError, pcierr.KindOf(err))
		assert.Equal(t, "unlock", log[len(log)-1])
	})

	t.Run("port access denied", func(t *testing.T) {
		var log []string
		b := newBridge(&log)
		b.failOut = fmt.Errorf("open /dev/port: %w", fs.ErrPermission)

		_, err := NewPortIO(b, &recordingLock{log: &log})
		assert.Equal(t, pcierr.PermissionDenied, pcierr.KindOf(err))
	})
}

func TestPortIOReadConfig(t *testing.T) {
	var log []string
	b := newBridge(&log)
	lock := &recordingLock{log: &log}

	p, err := NewPortIO(b, lock)
	require.NoError(t, err)

	b.set(2, 0, 1, 0x10, 0xaabbccdd)

	a := pci.Address{Bus: 2, Function: 1}

	for _, tt := range []struct {
		name string
		reg  uint16
		w    Width
		want uint32
		data string
	}{
		{"dword", 0x10, Dword, 0xaabbccdd, "in32 0xcfc"},
		{"word low", 0x10, Word, 0xccdd, "in16 0xcfc"},
		{"word high", 0x12, Word, 0xaabb, "in16 0xcfe"},
		{"byte 1", 0x11, Byte, 0xcc, "in8 0xcfd"},
		{"byte 3", 0x13, Byte, 0xaa, "in8 0xcff"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			log = log[:0]

			got, err := p.ReadConfig(a, tt.reg, tt.w)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			assert.Equal(t, []string{
				"lock",
				fmt.Sprintf("out32 0xcf8 %#x", ConfigAddress(2, 0, 1, tt.reg)),
				tt.data,
				"unlock",
			}, log)
			assert.False(t, lock.held)
		})
	}
}

func TestPortIOWriteConfig(t *testing.T) {
	var log []string
	b := newBridge(&log)

	p, err := NewPortIO(b, &recordingLock{log: &log})
	require.NoError(t, err)

	a := pci.Address{Bus: 1, Device: 4}
	require.NoError(t, p.WriteConfig(a, 0x04, Dword, 0x00100007))

	got, err := p.ReadConfig(a, 0x04, Dword)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00100007), got)

	log = log[:0]
	require.NoError(t, p.WriteConfig(a, 0x06, Word, 0xffff))
	assert.Equal(t, "out16 0xcfe 0xffff", log[2])
	assert.Equal(t, "unlock", log[3])
}

func TestPortIORejects(t *testing.T) {
	var log []string

	p, err := NewPortIO(newBridge(&log), &recordingLock{log: &log})
	require.NoError(t, err)

	for _, tt := range []struct {
		name string
		a    pci.Address
		reg  uint16
		w    Width
		want error
	}{
		{"domain", pci.Address{Domain: 1}, 0, Dword, ErrAddress},
		{"device", pci.Address{Device: 32}, 0, Dword, ErrAddress},
		{"function", pci.Address{Function: 8}, 0, Dword, ErrAddress},
		{"register", pci.Address{}, 4096, Byte, ErrRegister},
		{"width", pci.Address{}, 0, Width(3), ErrWidth},
		{"alignment", pci.Address{}, 0x02, Dword, ErrAlignment},
	} {
		t.Run(tt.name, func(t *testing.T) {
			log = log[:0]

			_, err := p.ReadConfig(tt.a, tt.reg, tt.w)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Empty(t, log, "no port access on rejected request")
		})
	}

	require.NoError(t, p.Close())
	_, err = p.ReadConfig(pci.Address{}, 0, Dword)
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestPortIOClose(t *testing.T) {
	var log []string
	b := newBridge(&log)
	lock := &recordingLock{log: &log}

	p, err := NewPortIO(b, lock)
	require.NoError(t, err)

	log = log[:0]
	require.NoError(t, p.Close())
	assert.Equal(t, []string{"lock", "unlock"}, log, "close holds the lock")
	assert.False(t, lock.held)

	log = log[:0]
	_, err = p.ReadConfig(pci.Address{Bus: 1}, 0, Dword)
	assert.True(t, errors.Is(err, ErrClosed), "got %v", err)

	err = p.WriteConfig(pci.Address{Bus: 1}, 0, Dword, 0)
	assert.True(t, errors.Is(err, ErrClosed), "got %v", err)

	assert.Equal(t, []string{"lock", "unlock", "lock", "unlock"}, log, "no port access after close")
	assert.NoError(t, p.Close(), "closing twice")
}

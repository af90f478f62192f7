// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pci

import (
	"fmt"

	"system-transparency.org/pciinfo/pcierr"
)

const (
	minCapacity = 16

	// DefaultLimit bounds the number of records a Collection accepts.
	// It is sixteen full domains of 256 buses with 32 eight-function devices.
	DefaultLimit = 16 * (MaxBus + 1) * DevicesPerBus * FunctionsPerDevice
)

// Allocator returns empty storage with room for capacity records.
type Allocator func(capacity int) ([]Device, error)

func makeStorage(capacity int) ([]Device, error) {
	return make([]Device, 0, capacity), nil
}

// CollectionOption configures a Collection.
type CollectionOption func(*Collection)

// WithLimit caps the number of records. Values below 1 select DefaultLimit.
func WithLimit(n int) CollectionOption {
	return func(c *Collection) {
		if n < 1 {
			n = DefaultLimit
		}

		c.limit = n
	}
}

// WithAllocator replaces the storage allocator.
func WithAllocator(a Allocator) CollectionOption {
	return func(c *Collection) {
		if a != nil {
			c.alloc = a
		}
	}
}

// Collection is an ordered, growable sequence of Device records.
// Records keep the order they were appended in.
//
// A Collection is not safe for concurrent use.
type Collection struct {
	devices []Device
	limit   int
	alloc   Allocator
}

// NewCollection returns an empty Collection.
func NewCollection(opts ...CollectionOption) *Collection {
	c := &Collection{
		limit: DefaultLimit,
		alloc: makeStorage,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Append adds d at the end of c. If c cannot grow, an error of kind
// pcierr.AllocationError is returned and c is left unchanged.
func (c *Collection) Append(d Device) error {
	const op = pcierr.Op("append device")

	if len(c.devices) == cap(c.devices) {
		if len(c.devices) >= c.limit {
			return pcierr.E(op, pcierr.AllocationError, fmt.Sprintf("limit of %d records reached", c.limit))
		}

		newCap := 2 * cap(c.devices)
		if newCap < minCapacity {
			newCap = minCapacity
		}

		if newCap > c.limit {
			newCap = c.limit
		}

		buf, err := c.alloc(newCap)
		if err != nil {
			return pcierr.E(op, pcierr.AllocationError, err)
		}

		if cap(buf) < newCap {
			return pcierr.E(op, pcierr.AllocationError, fmt.Sprintf("got storage for %d records, want %d", cap(buf), newCap))
		}

		c.devices = append(buf[:0], c.devices...)
	}

	c.devices = append(c.devices, d)

	return nil
}

// Pop removes and returns the most recently appended record.
// Storage shrinks as the collection empties and is released once the
// last record is removed. Pop panics if c is empty.
func (c *Collection) Pop() Device {
	n := len(c.devices)
	if n == 0 {
		panic("pci: Pop on empty collection")
	}

	d := c.devices[n-1]
	c.devices = c.devices[:n-1]

	switch {
	case n-1 == 0:
		c.devices = nil
	case cap(c.devices) > minCapacity && n-1 <= cap(c.devices)/4:
		if buf, err := c.alloc(cap(c.devices) / 2); err == nil && cap(buf) >= n-1 {
			c.devices = append(buf[:0], c.devices...)
		}
	}

	return d
}

// Len returns the number of records in c.
func (c *Collection) Len() int {
	return len(c.devices)
}

// At returns the i-th record.
func (c *Collection) At(i int) Device {
	return c.devices[i]
}

// Devices returns a copy of the records in append order.
func (c *Collection) Devices() []Device {
	out := make([]Device, len(c.devices))
	copy(out, c.devices)

	return out
}

// Truncate drops every record from position n on.
func (c *Collection) Truncate(n int) {
	if n < 0 {
		n = 0
	}

	if n >= len(c.devices) {
		return
	}

	for len(c.devices) > n {
		c.Pop()
	}
}

// Release frees the storage of c. Releasing an empty collection is a
// no-op.
func (c *Collection) Release() {
	c.devices = nil
}

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package walk

import (
	"errors"
	"io"

	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcierr"
)

// Iterator yields decoded records until it returns io.EOF.
type Iterator interface {
	Next() (pci.Device, error)
	Close() error
}

// Drain appends every record of it to c in the order it yields them.
// Any error other than io.EOF aborts the walk and is classified.
func Drain(it Iterator, c *pci.Collection) error {
	const op = pcierr.Op("drain device source")

	for {
		d, err := it.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return pcierr.E(op, err)
		}

		if err := c.Append(d); err != nil {
			return err
		}
	}
}

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package walk

import (
	"system-transparency.org/pciinfo/pci"
	"system-transparency.org/pciinfo/pcierr"
	"system-transparency.org/pciinfo/pcilog"
	"system-transparency.org/pciinfo/transport"
)

const (
	// PageSize is the number of records fetched per page.
	PageSize = 512
	// DefaultMaxRestarts bounds how often Paged starts over.
	DefaultMaxRestarts = 16
)

// OpenPager opens a fresh paging session.
type OpenPager func() (transport.Pager, error)

// Paged fetches pages from sessions returned by open and appends their
// records to c. When the source reports that the list changed, the
// records of the current attempt are dropped and a new session starts.
// After maxRestarts restarts the walk fails. Values below 1 select
// DefaultMaxRestarts.
func Paged(open OpenPager, c *pci.Collection, maxRestarts int) error {
	const op = pcierr.Op("page device list")

	if maxRestarts < 1 {
		maxRestarts = DefaultMaxRestarts
	}

	start := c.Len()
	buf := make([]pci.Device, PageSize)

	for restarts := 0; ; restarts++ {
		p, err := open()
		if err != nil {
			return pcierr.E(op, err)
		}

		changed, err := pages(p, c, buf)

		if cerr := p.Close(); cerr != nil {
			pcilog.Warn("close device list: %v", cerr)
		}

		if err != nil {
			c.Truncate(start)

			return err
		}

		if !changed {
			return nil
		}

		c.Truncate(start)

		if restarts >= maxRestarts {
			return pcierr.E(op, pcierr.OsError, ErrListUnstable)
		}

		pcilog.Warn("device list changed while reading it, restarting (%d/%d)", restarts+1, maxRestarts)
	}
}

// pages appends every page of p to c. It reports whether the list
// changed before the last page was read.
func pages(p transport.Pager, c *pci.Collection, buf []pci.Device) (bool, error) {
	const op = pcierr.Op("read device list page")

	for {
		n, status, err := p.Next(buf)
		if err != nil {
			return false, pcierr.E(op, err)
		}

		if n > len(buf) {
			n = len(buf)
		}

		switch status {
		case transport.PageListChanged:
			return true, nil
		case transport.PageLast, transport.PageMore:
		default:
			return false, pcierr.E(op, pcierr.OsError, ErrSourceFailed)
		}

		for _, d := range buf[:n] {
			if err := c.Append(d); err != nil {
				return false, err
			}
		}

		if status == transport.PageLast {
			return false, nil
		}
	}
}

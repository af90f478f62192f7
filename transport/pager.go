// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import "system-transparency.org/pciinfo/pci"

// PageStatus is reported by a Pager with every page.
type PageStatus int

const (
	// PageLast means the page holds the final records.
	PageLast PageStatus = iota
	// PageListChanged means the device list changed since paging started.
	// The records gathered so far are stale.
	PageListChanged
	// PageMore means further pages follow.
	PageMore
	// PageError means the source failed to produce the page.
	PageError
)

// String implements fmt.Stringer.
func (s PageStatus) String() string {
	switch s {
	case PageLast:
		return "last page"
	case PageListChanged:
		return "list changed"
	case PageMore:
		return "more pages"
	default:
		return "error"
	}
}

// Pager hands out a device list in pages of a fixed buffer size.
type Pager interface {
	// Next fills buf with the next page and returns the number of
	// records written.
	Next(buf []pci.Device) (int, PageStatus, error)
	Close() error
}

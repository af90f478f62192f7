// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package walk turns an access channel into a device collection.
//
// Three strategies exist. Exhaustive reads every bus, device and function
// through a register transport. Drain pulls finished records from a
// source that already knows the device list. Paged reads such a list
// in fixed size pages and starts over when the list changes under it.
package walk

// Error reports failed walks.
type Error string

// Error implements error interface.
func (e Error) Error() string {
	return string(e)
}

const (
	ErrListUnstable = Error("device list kept changing")
	ErrSourceFailed = Error("device source reported an error")
)

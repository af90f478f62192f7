// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestNetBSDRequests(t *testing.T) {
	assert.Equal(t, uintptr(20), unsafe.Sizeof(bdfCfgReg{}))
	assert.Equal(t, uintptr(0xc0145002), pciIOCBDFCfgRead)
	assert.Equal(t, uintptr(0x80145003), pciIOCBDFCfgWrite)
}

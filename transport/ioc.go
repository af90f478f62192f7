// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

// BSD ioctl request direction bits of <sys/ioccom.h>.
const (
	iocOut   uintptr = 0x40000000
	iocIn    uintptr = 0x80000000
	iocInOut         = iocIn | iocOut

	iocParamMask uintptr = 0x1fff
)

// ioc encodes an ioctl request like the _IOC macro of <sys/ioccom.h>.
func ioc(dir uintptr, group byte, num uint8, size uintptr) uintptr {
	return dir | (size&iocParamMask)<<16 | uintptr(group)<<8 | uintptr(num)
}

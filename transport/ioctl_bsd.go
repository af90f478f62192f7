// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build freebsd || netbsd || openbsd

package transport

import (
	"unsafe"

	"golang.org/x/sys/unix"
	"system-transparency.org/pciinfo/pcierr"
)

func ioctl(fd int, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}

	return nil
}

// openDevice opens a PCI control device node. The error is classified:
// EACCES becomes PermissionDenied, ENOENT becomes NotFound.
func openDevice(path string, mode int) (int, error) {
	fd, err := unix.Open(path, mode|unix.O_CLOEXEC, 0)
	if err != nil {
		return -1, pcierr.E(pcierr.Op("open "+path), err)
	}

	return fd, nil
}

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build darwin && cgo

package registry

/*
#cgo LDFLAGS: -framework CoreFoundation -framework IOKit
#include <stdlib.h>
#include <CoreFoundation/CoreFoundation.h>
#include <IOKit/IOKitLib.h>

static kern_return_t pciinfo_match(io_iterator_t *iter) {
	CFMutableDictionaryRef m = IOServiceMatching("IOPCIDevice");
	if (m == NULL)
		return KERN_FAILURE;
	return IOServiceGetMatchingServices(MACH_PORT_NULL, m, iter);
}

static int pciinfo_property(io_service_t s, const char *key, UInt8 *buf, int len) {
	CFStringRef k = CFStringCreateWithCString(kCFAllocatorDefault, key, kCFStringEncodingUTF8);
	if (k == NULL)
		return -1;
	CFTypeRef ref = IORegistryEntrySearchCFProperty(s, kIOServicePlane, k, NULL, 0);
	CFRelease(k);
	if (ref == NULL)
		return -1;
	int n = -1;
	if (CFGetTypeID(ref) == CFDataGetTypeID()) {
		CFIndex l = CFDataGetLength((CFDataRef)ref);
		if (l > len)
			l = len;
		CFDataGetBytes((CFDataRef)ref, CFRangeMake(0, l), buf);
		n = (int)l;
	}
	CFRelease(ref);
	return n;
}
*/
import "C"

import (
	"fmt"
	"io"
	"unsafe"

	"system-transparency.org/pciinfo/pci"
)

const propBufSize = 64

// IOKit iterates over the IOPCIDevice services of the I/O Registry.
type IOKit struct {
	iter     C.io_iterator_t
	location bool
}

// OpenIOKit matches every IOPCIDevice service. If withLocation is false
// the location of every record is pci.UnavailableAddress.
func OpenIOKit(withLocation bool) (*IOKit, error) {
	var iter C.io_iterator_t

	if ret := C.pciinfo_match(&iter); ret != C.KERN_SUCCESS {
		return nil, fmt.Errorf("IOServiceGetMatchingServices: kern_return_t %#x", int(ret))
	}

	return &IOKit{iter: iter, location: withLocation}, nil
}

// Next implements walk.Iterator.
func (k *IOKit) Next() (pci.Device, error) {
	if k.iter == 0 {
		return pci.Device{}, io.EOF
	}

	s := C.IOIteratorNext(k.iter)
	if s == 0 {
		return pci.Device{}, io.EOF
	}
	defer C.IOObjectRelease(s)

	props := make(map[string][]byte, len(IOKitProperties))
	buf := make([]byte, propBufSize)

	for _, name := range IOKitProperties {
		cname := C.CString(name)
		n := C.pciinfo_property(C.io_service_t(s), cname, (*C.UInt8)(unsafe.Pointer(&buf[0])), C.int(len(buf)))
		C.free(unsafe.Pointer(cname))

		if n < 0 {
			continue
		}

		props[name] = append([]byte(nil), buf[:int(n)]...)
	}

	return DecodeIOKit(props, k.location)
}

// Close implements walk.Iterator.
func (k *IOKit) Close() error {
	if k.iter != 0 {
		C.IOObjectRelease(C.io_object_t(k.iter))
		k.iter = 0
	}

	return nil
}

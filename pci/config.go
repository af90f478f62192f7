// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pci

// Offsets of the dword registers of the fixed configuration header.
const (
	RegID        uint16 = 0x00 // device ID << 16 | vendor ID
	RegStatusCmd uint16 = 0x04
	RegClass     uint16 = 0x08 // class code << 8 | revision ID
	RegBHLC      uint16 = 0x0c // BIST, header type, latency timer, cache line size
	RegSubsystem uint16 = 0x2c // subsystem ID << 16 | subsystem vendor ID

	// ConfigSpaceSize is the size of the extended PCIe configuration space.
	ConfigSpaceSize = 4096
)

const headerMultiFunction = 0x80

// VendorID extracts the vendor ID from the ID register.
func VendorID(id uint32) uint16 {
	return uint16(id)
}

// DeviceID extracts the device ID from the ID register.
func DeviceID(id uint32) uint16 {
	return uint16(id >> 16)
}

// ValidVendor reports whether v identifies a present function.
// Empty slots read back all ones, some bridges return zero.
func ValidVendor(v uint16) bool {
	return v != InvalidVendorID && v != 0
}

// HeaderType extracts the header type byte from the BHLC register.
func HeaderType(bhlc uint32) uint8 {
	return uint8(bhlc >> 16)
}

// IsMultiFunction reports whether the multi-function bit of the header
// type is set in the BHLC register.
func IsMultiFunction(bhlc uint32) bool {
	return HeaderType(bhlc)&headerMultiFunction != 0
}

// DecodeClassCode splits a packed 24-bit class code.
func DecodeClassCode(cc uint32) (class, subclass, progIf uint8) {
	return uint8(cc >> 16), uint8(cc >> 8), uint8(cc)
}

// DecodeClassRegister splits the class register into the class code
// fields and the revision ID.
func DecodeClassRegister(reg uint32) (class, subclass, progIf, revision uint8) {
	class, subclass, progIf = DecodeClassCode(reg >> 8)

	return class, subclass, progIf, uint8(reg)
}

// DecodeSubsystem splits the subsystem register.
func DecodeSubsystem(reg uint32) (vendor, device uint16) {
	return uint16(reg), uint16(reg >> 16)
}

// FromRegisters assembles a Device from the raw ID, class and subsystem
// registers of the function at a.
func FromRegisters(a Address, id, class, subsystem uint32) Device {
	d := Device{
		Address:  a,
		VendorID: VendorID(id),
		DeviceID: DeviceID(id),
	}
	d.Class, d.Subclass, d.ProgrammingInterface, d.RevisionID = DecodeClassRegister(class)
	d.SubsystemVendorID, d.SubsystemDeviceID = DecodeSubsystem(subsystem)

	return d
}

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pci

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Availability tells whether a Device field can be trusted on a platform.
type Availability int

const (
	Available Availability = iota
	// Unavailable fields hold the documented unavailable marker.
	Unavailable
	// Elevated fields are only reported when the caller has the
	// privileges to open the access channel.
	Elevated
	// Unknown fields may or may not be reported.
	Unknown
)

// String implements fmt.Stringer.
func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	case Elevated:
		return "requires privileges"
	case Unknown:
		return "unknown"
	default:
		return fmt.Sprintf("Availability(%d)", int(a))
	}
}

// MarshalJSON implements json.Marshaler.
func (a Availability) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Availability) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	toID := map[string]Availability{
		"available":           Available,
		"unavailable":         Unavailable,
		"requires privileges": Elevated,
		"unknown":             Unknown,
	}

	v, ok := toID[str]
	if !ok {
		return &json.UnmarshalTypeError{
			Value: fmt.Sprintf("string %q", str),
			Type:  reflect.TypeOf(a),
		}
	}

	*a = v

	return nil
}

// FieldAvailability mirrors Device with one Availability per field.
type FieldAvailability struct {
	Domain   Availability `json:"domain"`
	Bus      Availability `json:"bus"`
	Device   Availability `json:"device"`
	Function Availability `json:"function"`

	VendorID          Availability `json:"vendor_id"`
	DeviceID          Availability `json:"device_id"`
	SubsystemVendorID Availability `json:"subsystem_vendor_id"`
	SubsystemDeviceID Availability `json:"subsystem_device_id"`

	Class                Availability `json:"class"`
	Subclass             Availability `json:"subclass"`
	ProgrammingInterface Availability `json:"programming_interface"`
	RevisionID           Availability `json:"revision_id"`
}

// AllFields returns a FieldAvailability with every field set to a.
func AllFields(a Availability) FieldAvailability {
	return FieldAvailability{
		Domain: a, Bus: a, Device: a, Function: a,
		VendorID: a, DeviceID: a, SubsystemVendorID: a, SubsystemDeviceID: a,
		Class: a, Subclass: a, ProgrammingInterface: a, RevisionID: a,
	}
}

// WithLocation returns f with the four location fields set to a.
func (f FieldAvailability) WithLocation(a Availability) FieldAvailability {
	f.Domain, f.Bus, f.Device, f.Function = a, a, a, a

	return f
}

// Trusted reports whether every field of f is Available.
func (f FieldAvailability) Trusted() bool {
	return f == AllFields(Available)
}

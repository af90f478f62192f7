// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"system-transparency.org/pciinfo/pci"
)

// Error reports failures of the command.
type Error string

// Error implements error interface.
func (e Error) Error() string {
	return string(e)
}

const ErrNoLocation = Error("no devices with accessible addresses")

type glyphs struct {
	pipe, tee, blank, elbow string
}

//nolint:gochecknoglobals
var (
	unicodeGlyphs = glyphs{pipe: "│   ", tee: "├── ", blank: "    ", elbow: "└── "}
	asciiGlyphs   = glyphs{pipe: "|   ", tee: "|-- ", blank: "    ", elbow: "`-- "}
)

type node struct {
	key      uint32
	label    string
	children []*node
}

func (n *node) child(key uint32, label string) *node {
	for _, c := range n.children {
		if c.key == key {
			return c
		}
	}

	c := &node{key: key, label: label}
	n.children = append(n.children, c)

	return c
}

func (n *node) sort() {
	sort.Slice(n.children, func(i, j int) bool {
		return n.children[i].key < n.children[j].key
	})

	for _, c := range n.children {
		c.sort()
	}
}

// buildTree groups devices by domain, bus, device and function. Devices
// without a location are left out.
func buildTree(devices []pci.Device) *node {
	root := &node{label: "PCI root:"}

	for _, d := range devices {
		if !d.Address.Available() {
			continue
		}

		dom := root.child(d.Domain, fmt.Sprintf("0x%04x:", d.Domain))
		bus := dom.child(uint32(d.Bus), fmt.Sprintf("0x%02x:", d.Bus))
		dev := bus.child(uint32(d.Device), fmt.Sprintf("0x%02x:", d.Device))
		dev.child(uint32(d.Function), fmt.Sprintf("0x%x: [%04x:%04x]", d.Function, d.VendorID, d.DeviceID))
	}

	root.sort()

	return root
}

func writeTree(w io.Writer, devices []pci.Device, g glyphs) error {
	root := buildTree(devices)
	if len(root.children) == 0 {
		return ErrNoLocation
	}

	var b strings.Builder

	b.WriteString(root.label)
	b.WriteByte('\n')
	writeChildren(&b, root, "", g)

	_, err := io.WriteString(w, b.String())

	return err
}

func writeChildren(b *strings.Builder, n *node, prefix string, g glyphs) {
	for i, c := range n.children {
		connector, indent := g.tee, g.pipe
		if i == len(n.children)-1 {
			connector, indent = g.elbow, g.blank
		}

		b.WriteString(prefix + connector + c.label + "\n")
		writeChildren(b, c, prefix+indent, g)
	}
}

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package transport

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIoc(t *testing.T) {
	for _, tt := range []struct {
		name  string
		dir   uintptr
		group byte
		num   uint8
		size  uintptr
		want  uintptr
	}{
		{"netbsd PCI_IOC_BDF_CFGREAD", iocInOut, 'P', 2, 20, 0xc0145002},
		{"netbsd PCI_IOC_BDF_CFGWRITE", iocIn, 'P', 3, 20, 0x80145003},
		{"openbsd PCIOCREAD", iocInOut, 'p', 2, 16, 0xc0107002},
		{"openbsd PCIOCWRITE", iocInOut, 'p', 3, 16, 0xc0107003},
		{"freebsd PCIOCGETCONF", iocInOut, 'p', 10, 48, 0xc030700a},
		{"freebsd PCIOCREAD", iocInOut, 'p', 2, 20, 0xc0147002},
		{"size masked", iocOut, 'p', 1, 0x2004, 0x40047001},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := ioc(tt.dir, tt.group, tt.num, tt.size)
			assert.Equal(t, fmt.Sprintf("%#08x", tt.want), fmt.Sprintf("%#08x", got))
		})
	}
}

// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux

package pcilog

import "errors"

var errNoKlog = errors.New("kernel log is only available on linux")

func newKernelLogger() (levelLogger, error) {
	return nil, errNoKlog
}

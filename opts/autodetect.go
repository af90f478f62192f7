// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opts

import (
	"fmt"
	"os"
	"path/filepath"

	"system-transparency.org/pciinfo/pcilog"
)

// Sources used by Autodetect.
const (
	ConfigEnv        = "PCIINFO_CONFIG"
	SystemConfigPath = "/etc/pciinfo.yaml"
	userConfigName   = "pciinfo.yaml"
)

const ErrConfigNotFound = Error("no configuration file found")

type configSource interface {
	locate() (string, error)
	info() string
}

// Autodetect looks for a configuration file in following order:
// - the file named by the PCIINFO_CONFIG environment variable
// - pciinfo.yaml in the user configuration directory
// - SystemConfigPath
//
// It returns the path of the first existing file. In case there is no
// match ErrConfigNotFound is returned.
// Note: No validation is made on the found file.
func Autodetect() (string, error) {
	return autodetect([]configSource{
		&envFile{name: ConfigEnv},
		&userFile{},
		&fixedFile{path: SystemConfigPath},
	})
}

func autodetect(order []configSource) (string, error) {
	pcilog.Debug("Configuration autodetect")

	for _, p := range order {
		pcilog.Debug(p.info())

		path, err := p.locate()
		if err != nil {
			pcilog.Debug(err.Error())

			continue
		}

		return path, nil
	}

	return "", ErrConfigNotFound
}

func exists(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	return path, nil
}

type envFile struct {
	name string
}

func (e *envFile) locate() (string, error) {
	path := os.Getenv(e.name)
	if path == "" {
		return "", fmt.Errorf("%s not set", e.name)
	}

	return exists(path)
}

func (e *envFile) info() string {
	return fmt.Sprintf("Probing environment variable %s", e.name)
}

type userFile struct{}

func (u *userFile) locate() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}

	return exists(filepath.Join(dir, userConfigName))
}

func (u *userFile) info() string {
	return "Probing user configuration directory"
}

type fixedFile struct {
	path string
}

func (f *fixedFile) locate() (string, error) {
	return exists(f.path)
}

func (f *fixedFile) info() string {
	return fmt.Sprintf("Probing %s", f.path)
}

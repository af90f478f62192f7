// Copyright 2021 the System Transparency Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// lspci lists the PCI functions of the host.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"system-transparency.org/pciinfo"
	"system-transparency.org/pciinfo/opts"
)

const HelpText = "lspci lists the PCI functions of the host"

type flags struct {
	verbose  int
	numeric  int
	tree     bool
	json     bool
	config   string
	logLevel string
	syslog   bool
}

func addFlags(fs *pflag.FlagSet, f *flags) {
	fs.CountVarP(&f.verbose, "verbose", "v", "Verbosity (use more than once for more details)")
	fs.CountVarP(&f.numeric, "numeric", "n", "Show numeric IDs (use twice for names and IDs)")
	fs.BoolVarP(&f.tree, "tree", "t", false, "Display a tree view")
	fs.BoolVar(&f.json, "json", false, "Print records and field availability as JSON")
	fs.StringVar(&f.config, "config", "", "Configuration file (.json, .yaml or .yml), autodetected if empty")
	fs.StringVar(&f.logLevel, "loglevel", "", "Log level: error, warn, info or debug")
	fs.BoolVar(&f.syslog, "syslog", false, "Log to the kernel log instead of stderr")
}

func newCommand() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:           "lspci",
		Short:         HelpText,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadOpts(f)
			if err != nil {
				return err
			}

			if err := o.Apply(); err != nil {
				return err
			}

			return run(cmd.OutOrStdout(), f, o)
		},
	}

	addFlags(cmd.Flags(), f)

	return cmd
}

func loadOpts(f *flags) (*opts.Opts, error) {
	loaders := []opts.Loader{opts.WithDefaults()}

	path := f.config
	if path == "" {
		path, _ = opts.Autodetect()
	}

	if path != "" {
		loaders = append(loaders, opts.WithFile(path))
	}

	loaders = append(loaders, func(o *opts.Opts) error {
		if f.logLevel != "" {
			l, err := opts.ParseLogLevel(f.logLevel)
			if err != nil {
				return err
			}

			o.LogLevel = l
		}

		if f.syslog {
			o.LogOutput = opts.OutputSyslog
		}

		return nil
	})

	return opts.NewOpts(loaders...)
}

func run(w io.Writer, f *flags, o *opts.Opts) error {
	c, err := pciinfo.EnumerateWith(o)
	if err != nil {
		return err
	}
	defer c.Release()

	devices := c.Devices()
	sort.SliceStable(devices, func(i, j int) bool {
		return devices[i].Address.Less(devices[j].Address)
	})

	switch {
	case f.json:
		return writeJSON(w, devices, pciinfo.FieldAvailability(), o.Names)
	case f.tree:
		return writeTree(w, devices, glyphsFor(w))
	default:
		return writeList(w, devices, listFormat{
			numeric: f.numeric,
			verbose: f.verbose,
			names:   o.Names,
			avail:   pciinfo.FieldAvailability(),
		})
	}
}

// glyphsFor draws with box characters only when w is a terminal.
func glyphsFor(w io.Writer) glyphs {
	f, ok := w.(*os.File)
	if !ok {
		return asciiGlyphs
	}

	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return unicodeGlyphs
	}

	return asciiGlyphs
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "lspci:", err)
		os.Exit(1)
	}
}

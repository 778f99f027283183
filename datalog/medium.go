// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package datalog

import (
	"fmt"

	"github.com/spf13/afero"
)

// Medium is the removable storage the log files are written to.  Mount is
// called each time a file is opened, so a card inserted after boot is found.
type Medium interface {
	Mount() (afero.Fs, error)
}

// MediumFunc adapts a function to the Medium interface.
type MediumFunc func() (afero.Fs, error)

func (f MediumFunc) Mount() (afero.Fs, error) {
	return f()
}

// Dir is the mount point of the card in the host file system.
type Dir string

func (d Dir) Mount() (afero.Fs, error) {
	osfs := afero.NewOsFs()

	ok, err := afero.DirExists(osfs, string(d))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("'%s' is not a directory", string(d))
	}

	return afero.NewBasePathFs(osfs, string(d)), nil
}

// Memory keeps everything in a single in memory file system.
func Memory(fs afero.Fs) Medium {
	return MediumFunc(func() (afero.Fs, error) {
		return fs, nil
	})
}

// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package datalog

import (
	"errors"
	"os"
	"sync"

	"github.com/spf13/afero"
)

var errInjected = errors.New("injected")

// faultyFs wraps a file system and lets a test break writes and syncs of the
// files it opens.
type faultyFs struct {
	afero.Fs

	m          sync.Mutex
	syncs      int
	failSync   bool
	failWrites int
	shortWrite bool
	failTrunc  int
}

func newFaultyFs() *faultyFs {
	return &faultyFs{Fs: afero.NewMemMapFs()}
}

func (f *faultyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fs: f}, nil
}

func (f *faultyFs) Syncs() int {
	f.m.Lock()
	defer f.m.Unlock()
	return f.syncs
}

type faultyFile struct {
	afero.File
	fs *faultyFs
}

func (f *faultyFile) Write(b []byte) (int, error) {
	f.fs.m.Lock()
	fail := f.fs.failWrites > 0
	short := f.fs.shortWrite
	if fail {
		f.fs.failWrites--
	}
	f.fs.m.Unlock()

	if !fail {
		return f.File.Write(b)
	}
	if short && len(b) > 1 {
		n, _ := f.File.Write(b[:len(b)/2])
		return n, errInjected
	}
	return 0, errInjected
}

func (f *faultyFile) Truncate(size int64) error {
	f.fs.m.Lock()
	fail := f.fs.failTrunc > 0
	if fail {
		f.fs.failTrunc--
	}
	f.fs.m.Unlock()

	if fail {
		return errInjected
	}
	return f.File.Truncate(size)
}

func (f *faultyFile) Sync() error {
	f.fs.m.Lock()
	defer f.fs.m.Unlock()

	if f.fs.failSync {
		return errInjected
	}
	f.fs.syncs++
	return f.File.Sync()
}

// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package buttons

import (
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

type hwWrapper struct{}

func (hwWrapper) Init() error {
	_, err := host.Init()
	return err
}

func (hwWrapper) ByName(name string) inputPin {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil
	}
	return p
}

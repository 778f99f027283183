// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package datalog

import "errors"

var (
	ErrMount              = errors.New("storage medium not mounted")
	ErrNameSpaceExhausted = errors.New("no unused file name")
	ErrCreate             = errors.New("file create failed")
	ErrHeader             = errors.New("header write failed")
	ErrWrite              = errors.New("row write failed")
	ErrSync               = errors.New("sync failed")
	ErrNotOpen            = errors.New("no log file open")
	ErrInvalidName        = errors.New("invalid base name")
	ErrChannelCount       = errors.New("channel count mismatch")
)

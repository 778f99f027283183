// SPDX-FileCopyrightText: 2023 Weston Schmidt <weston_schmidt@alumni.purdue.edu>
// SPDX-License-Identifier: Apache-2.0

package datalog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/schmidtw/thermologger/units"
)

// maxNameLength is the longest 8.3 base name.
const maxNameLength = 8

func validBase(base string, digits int) error {
	if base == "" || len(base)+digits > maxNameLength {
		return fmt.Errorf("%w: '%s' with %d digits", ErrInvalidName, base, digits)
	}
	for _, r := range base {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return fmt.Errorf("%w: '%s'", ErrInvalidName, base)
		}
	}
	return nil
}

// suffixes is the number of names a base name and digit count allow.
func suffixes(digits int) int {
	n := 1
	for i := 0; i < digits; i++ {
		n *= 10
	}
	return n
}

func fileName(base string, digits, suffix int, ext string) string {
	return fmt.Sprintf("%s%0*d%s", base, digits, suffix, ext)
}

func (l *Logger) header(unit units.Unit) string {
	var b strings.Builder

	b.WriteString(l.cfg.TimeLabel)
	for i := 0; i < l.channels; i++ {
		b.WriteString(", ")
		b.WriteString(fmt.Sprintf(l.cfg.ChannelLabel, i))
		b.WriteString(" (")
		b.WriteString(unit.String())
		b.WriteString(")")
	}
	b.WriteByte('\n')

	return b.String()
}

func (l *Logger) row(elapsed time.Duration, temps []units.Temperature, unit units.Unit) []byte {
	buf := make([]byte, 0, 16+8*len(temps))

	tenths := elapsed.Milliseconds() / 100
	buf = strconv.AppendInt(buf, tenths/10, 10)
	buf = append(buf, '.')
	buf = strconv.AppendInt(buf, tenths%10, 10)

	for _, t := range temps {
		buf = append(buf, ',')
		if !t.Valid() {
			buf = append(buf, l.cfg.Placeholder...)
			continue
		}
		buf = append(buf, t.Format(unit)...)
	}

	return append(buf, '\n')
}

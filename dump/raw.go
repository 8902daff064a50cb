/*
   pulsecore, a streaming OOK/FSK pulse-extraction core for sub-GHz ISM
   band sensor decoders.
   Copyright (C) 2015  Douglas Hall

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with this program.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package dump renders a completed pulse buffer into two on-disk formats an
// SDR analyst would want: a raw one-byte-per-sample bitmask overlay for
// splicing next to a capture, and a GTKWave-readable VCD trace.
package dump

import (
	"io"

	"github.com/bemasher/pulsecore/pulse"
)

// boundedSet fills buf[offset:offset+length] with v, clipping the range to
// buf's bounds and silently doing nothing if the range falls entirely
// outside it.
func boundedSet(buf []byte, v byte, offset, length int64) {
	size := int64(len(buf))
	if offset < 0 {
		length += offset
		offset = 0
	}
	if offset+length > size {
		length = size - offset
	}
	if length <= 0 {
		return
	}
	for i := offset; i < offset+length; i++ {
		buf[i] = v
	}
}

// WriteRaw renders buf's pulses as a channel byte per sample against a
// window of the overall stream starting at windowOffset and windowLen
// samples long, then writes the window to w. bits ORs additional flag bits
// into pulse (not gap) samples, letting multiple channels share one byte
// stream the way rtl_433's combined OOK/FSK dumps do.
func WriteRaw(w io.Writer, buf *pulse.Buffer, windowOffset uint64, windowLen int, bits byte) error {
	out := make([]byte, windowLen)

	pos := int64(buf.Offset) - int64(windowOffset)
	for n := 0; n < buf.NumPulses; n++ {
		boundedSet(out, 0x01|bits, pos, int64(buf.Pulse[n]))
		pos += int64(buf.Pulse[n])
		boundedSet(out, 0x01, pos, int64(buf.Gap[n]))
		pos += int64(buf.Gap[n])
	}

	_, err := w.Write(out)
	return err
}

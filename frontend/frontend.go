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

// Package frontend turns a raw interleaved-byte IQ capture, the kind an
// RTL-SDR dongle hands back, into the (AM envelope, FM discriminator) int16
// stream pair the pulse package's Detector consumes. It is the only part of
// this module that speaks complex samples; everything past ToPulseStreams
// works entirely in int16.
package frontend

import (
	"errors"
	"math"
	"math/cmplx"
)

// ErrOddLength is returned when an IQ capture has an odd number of bytes,
// which cannot be an interleaved I/Q byte stream.
var ErrOddLength = errors.New("frontend: iq capture has odd length")

// ErrTooShort is returned when a capture has too few samples to pass
// through the low-pass filter and discriminator.
var ErrTooShort = errors.New("frontend: iq capture too short to filter")

// minIQSamples is FIR9's tap count plus one sample of discriminator margin.
const minIQSamples = 9 + 1

// ByteToCmplxLUT converts unsigned bytes straight from an RTL-SDR dongle
// into centered, unit-scaled complex samples via table lookup.
type ByteToCmplxLUT [256]float64

// NewByteToCmplxLUT builds the table once; RTL-SDR bytes are DC-biased
// around 127.4 rather than a clean 127.5.
func NewByteToCmplxLUT() (lut ByteToCmplxLUT) {
	for idx := range lut {
		lut[idx] = (float64(idx) - 127.4) / 127.6
	}
	return lut
}

// Execute expects len(in) == 2*len(out): consecutive I, Q byte pairs.
func (l *ByteToCmplxLUT) Execute(in []byte, out []complex128) {
	if len(in) != len(out)<<1 {
		panic(errors.New("frontend: incompatible slice lengths"))
	}
	for idx := range out {
		inIdx := idx << 1
		out[idx] = complex(l[in[inIdx]], l[in[inIdx+1]])
	}
}

// FIR9 is a symmetric 9-tap low-pass filter, applied before discrimination
// to knock down aliasing images from the byte-to-complex conversion.
func FIR9(in, out []complex128) {
	const (
		c0 = 0.017682261285
		c1 = 0.048171339939
		c2 = 0.122424706672
		c3 = 0.197408519126
		c4 = 0.228626345955
	)

	for idx := 0; idx < len(in)-9; idx++ {
		window := in[idx:]
		acc := (window[0] + window[8]) * c0
		acc += (window[1] + window[7]) * c1
		acc += (window[2] + window[6]) * c2
		acc += (window[3] + window[5]) * c3
		acc += window[4] * c4
		out[idx] = acc
	}
}

// Discriminate computes an FM phase-difference estimate between adjacent
// samples. Because the input's magnitude is roughly constant after
// filtering, imag(in[idx]*conj(in[idx+1])) approximates cmplx.Phase to
// within a scale factor at a fraction of the cost.
func Discriminate(in []complex128, out []float64) {
	for idx := range out {
		out[idx] = imag(in[idx] * cmplx.Conj(in[idx+1]))
	}
}

// ToPulseStreams converts a raw interleaved-byte IQ capture into aligned AM
// envelope and FM discriminator streams suitable for pulse.Detector.Process.
// The returned slices are one sample shorter than the filtered IQ stream,
// which is itself 9 samples shorter than the input, to keep the envelope
// and discriminator outputs the same length.
func ToPulseStreams(iq []byte) (am, fm []int16, err error) {
	if len(iq)%2 != 0 {
		return nil, nil, ErrOddLength
	}
	nSamples := len(iq) / 2
	if nSamples < minIQSamples {
		return nil, nil, ErrTooShort
	}

	lut := NewByteToCmplxLUT()
	raw := make([]complex128, nSamples)
	lut.Execute(iq, raw)

	filtered := make([]complex128, nSamples-9)
	FIR9(raw, filtered)

	fmFloat := make([]float64, len(filtered)-1)
	Discriminate(filtered, fmFloat)

	am = make([]int16, len(fmFloat))
	fm = make([]int16, len(fmFloat))
	for i := range fmFloat {
		am[i] = clipInt16(cmplx.Abs(filtered[i]) * envelopeScale)
		fm[i] = clipInt16(fmFloat[i] * discriminatorScale)
	}

	return am, fm, nil
}

const (
	// envelopeScale maps a unit-magnitude complex sample onto the same
	// dynamic range pulse.OOKMaxHighLevel expects.
	envelopeScale = 1 << 14
	// discriminatorScale maps Discriminate's roughly [-1, 1] output onto
	// int16 range, matching a full-scale frequency deviation of Nyquist/2.
	discriminatorScale = math.MaxInt16
)

func clipInt16(v float64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

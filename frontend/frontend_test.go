package frontend

import (
	crand "crypto/rand"
	"math/cmplx"
	mrand "math/rand"
	"testing"
	"time"
)

func discriminate(in []complex128, out []float64) {
	for idx := range out {
		i := in[idx]
		out[idx] = imag(i*cmplx.Conj(in[idx+1])) / (real(i)*real(i) + imag(i)*imag(i))
	}
}

func TestDiscriminate(t *testing.T) {
	mrand.Seed(time.Now().UnixNano())

	// Discriminate skips the division by squared magnitude for speed, so it
	// only agrees with the reference formula on unit-magnitude input.
	input := make([]complex128, 65)
	output := make([]float64, 64)
	expected := make([]float64, 64)

	for idx := range input {
		angle := mrand.Float64() * 2 * 3.141592653589793
		input[idx] = cmplx.Rect(1, angle)
	}

	discriminate(input, expected)
	Discriminate(input, output)

	for idx := range output {
		if diff := output[idx] - expected[idx]; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("Discriminate[%d] = %v, want %v", idx, output[idx], expected[idx])
		}
	}
}

func BenchmarkByteToCmplxLUT(b *testing.B) {
	lut := NewByteToCmplxLUT()

	input := make([]byte, 512)
	output := make([]complex128, 256)

	crand.Read(input)

	b.SetBytes(512)
	b.ReportAllocs()
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		lut.Execute(input, output)
	}
}

func BenchmarkFIR9(b *testing.B) {
	input := make([]complex128, 512+9)
	output := make([]complex128, 512)

	for idx := range input {
		input[idx] = complex(mrand.Float64(), mrand.Float64())
	}

	b.SetBytes(512)
	b.ReportAllocs()
	b.ResetTimer()

	for n := 0; n < b.N; n++ {
		FIR9(input, output)
	}
}

func TestToPulseStreamsRejectsOddLength(t *testing.T) {
	_, _, err := ToPulseStreams(make([]byte, 101))
	if err != ErrOddLength {
		t.Fatalf("err = %v, want ErrOddLength", err)
	}
}

func TestToPulseStreamsRejectsShortCapture(t *testing.T) {
	_, _, err := ToPulseStreams(make([]byte, 4))
	if err != ErrTooShort {
		t.Fatalf("err = %v, want ErrTooShort", err)
	}
}

func TestToPulseStreamsProducesAlignedStreams(t *testing.T) {
	iq := make([]byte, 4096)
	crand.Read(iq)

	am, fm, err := ToPulseStreams(iq)
	if err != nil {
		t.Fatalf("ToPulseStreams: unexpected error: %v", err)
	}
	if len(am) != len(fm) {
		t.Fatalf("len(am)=%d, len(fm)=%d, want equal", len(am), len(fm))
	}
	wantLen := len(iq)/2 - 10
	if len(am) != wantLen {
		t.Fatalf("len(am) = %d, want %d", len(am), wantLen)
	}
}

func TestToPulseStreamsDetectsConstantTone(t *testing.T) {
	// A pure carrier (constant I/Q byte pair) should filter to a flat
	// envelope and a near-zero discriminator output.
	iq := make([]byte, 4096)
	for i := 0; i < len(iq); i += 2 {
		iq[i] = 200
		iq[i+1] = 127
	}

	am, fm, err := ToPulseStreams(iq)
	if err != nil {
		t.Fatalf("ToPulseStreams: unexpected error: %v", err)
	}
	for i := 100; i < len(am)-100; i++ {
		if am[i] == 0 {
			t.Fatalf("am[%d] = 0 on a constant carrier", i)
		}
		if fm[i] < -100 || fm[i] > 100 {
			t.Fatalf("fm[%d] = %d, want near zero on a constant carrier", i, fm[i])
		}
	}
}

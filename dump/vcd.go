package dump

import (
	"fmt"
	"io"
	"time"

	"github.com/bemasher/pulsecore/pulse"
)

// WriteVCDHeader writes the fixed VCD preamble declaring a FRAME wire and
// per-channel AM/FM wires, valid once per dump file regardless of how many
// packets get appended to it afterward.
func WriteVCDHeader(w io.Writer, sampleRate uint32) error {
	timescale := "100 ns"
	if sampleRate <= 500000 {
		timescale = "1 us"
	}

	_, err := fmt.Fprintf(w,
		"$date %s $end\n"+
			"$version rtl_433 $end\n"+
			"$comment Acquisition at %d Hz $end\n"+
			"$timescale %s $end\n"+
			"$scope module rtl_433 $end\n"+
			"$var wire 1 / FRAME $end\n"+
			"$var wire 1 ' AM $end\n"+
			"$var wire 1 \" FM $end\n"+
			"$upscope $end\n"+
			"$enddefinitions $end\n"+
			"#0 0/ 0' 0\"\n",
		time.Now().UTC().Format(time.RFC3339), sampleRate, timescale)
	return err
}

// WriteVCD appends one packet's pulse/gap sequence to a VCD trace on
// channel chID ('\'' for AM, '"' for FM), at the sample rate the packet
// was captured at.
func WriteVCD(w io.Writer, buf *pulse.Buffer, chID byte, sampleRate uint32) error {
	scale := 10000000.0 / float64(sampleRate)
	if sampleRate <= 500000 {
		scale = 1000000.0 / float64(sampleRate)
	}

	pos := buf.Offset
	for n := 0; n < buf.NumPulses; n++ {
		if n == 0 {
			if _, err := fmt.Fprintf(w, "#%.f 1/ 1%c\n", float64(pos)*scale, chID); err != nil {
				return err
			}
		} else if _, err := fmt.Fprintf(w, "#%.f 1%c\n", float64(pos)*scale, chID); err != nil {
			return err
		}
		pos += uint64(buf.Pulse[n])

		if _, err := fmt.Fprintf(w, "#%.f 0%c\n", float64(pos)*scale, chID); err != nil {
			return err
		}
		pos += uint64(buf.Gap[n])
	}

	if buf.NumPulses > 0 {
		if _, err := fmt.Fprintf(w, "#%.f 0/\n", float64(pos)*scale); err != nil {
			return err
		}
	}
	return nil
}

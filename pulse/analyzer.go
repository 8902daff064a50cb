package pulse

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Modulation names the line coding the analyzer believes produced a pulse
// packet. ModulationNone means either no decode was attempted (a single
// pulse, an un-modulated preamble) or nothing matched ("No clue").
type Modulation int

const (
	ModulationNone Modulation = iota
	ModulationOOKPPM
	ModulationOOKPWM
	ModulationOOKPWMPrecise
	ModulationManchester
	ModulationFSKPCM
)

func (m Modulation) String() string {
	switch m {
	case ModulationOOKPPM:
		return "OOK Pulse Position Modulation"
	case ModulationOOKPWM:
		return "OOK Pulse Width Modulation"
	case ModulationOOKPWMPrecise:
		return "OOK Pulse Width Modulation with sync/delimiter"
	case ModulationManchester:
		return "Manchester coding"
	case ModulationFSKPCM:
		return "FSK Pulse Code Modulation (NRZ)"
	default:
		return "None"
	}
}

// Report is the analyzer's classification of a completed pulse packet,
// plus the descriptive statistics printed alongside it.
type Report struct {
	Modulation Modulation
	ShortLimit int32
	LongLimit  int32
	ResetLimit int32
	SyncWidth  int32

	NumPulses   int
	TotalSpan   int32
	TotalSpanMs float64

	OokLow, OokHigh    int32
	FskF1KHz, FskF2KHz float64

	// PeriodMean and PeriodStdDev are the count-weighted mean and
	// population standard deviation of the fused period histogram's bin
	// means, a quick spread metric supplementary to classification.
	PeriodMean, PeriodStdDev float64
}

func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total count: %4d, width: %5d (%4.1f ms)\n", r.NumPulses, r.TotalSpan, r.TotalSpanMs)
	fmt.Fprintf(&b, "Level estimates [high, low]: %6d, %6d\n", r.OokHigh, r.OokLow)
	fmt.Fprintf(&b, "Frequency offsets [F1, F2]: %+.1f kHz, %+.1f kHz\n", r.FskF1KHz, r.FskF2KHz)
	fmt.Fprintf(&b, "Period distribution: mean=%.1f stddev=%.1f\n", r.PeriodMean, r.PeriodStdDev)
	fmt.Fprintf(&b, "Guessing modulation: %s\n", r.Modulation)
	if r.Modulation != ModulationNone {
		fmt.Fprintf(&b, "short_limit: %d, long_limit: %d, reset_limit: %d, sync_width: %d\n",
			r.ShortLimit, r.LongLimit, r.ResetLimit, r.SyncWidth)
	}
	return b.String()
}

// Analyze classifies a completed pulse packet at sample rate fs and, if a
// modulation is recognized, stamps buf's terminal gap with ResetLimit+1 to
// guarantee packet-termination semantics for whichever OOK demodulator the
// caller dispatches to next.
func Analyze(buf *Buffer, fs uint32) Report {
	n := buf.NumPulses
	report := Report{
		NumPulses: n,
		OokLow:    buf.OokLow,
		OokHigh:   buf.OokHigh,
	}
	if n == 0 {
		return report
	}

	report.FskF1KHz = float64(buf.FskF1Est) / float64(math.MaxInt16) * float64(fs) / 2 / 1000
	report.FskF2KHz = float64(buf.FskF2Est) / float64(math.MaxInt16) * float64(fs) / 2 / 1000

	periods := make([]int32, n)
	var totalSpan int32
	for i := 0; i < n; i++ {
		periods[i] = buf.Period(i)
		totalSpan += periods[i]
	}
	totalSpan -= buf.Gap[n-1]
	report.TotalSpan = totalSpan
	report.TotalSpanMs = 1000 * float64(totalSpan) / float64(fs)

	hp := newHistogram()
	hp.sum(buf.Pulse[:n], Tolerance)

	hg := newHistogram()
	hr := newHistogram()
	if n > 1 {
		hg.sum(buf.Gap[:n-1], Tolerance)
		hr.sum(periods[:n-1], Tolerance)
	}

	hp.fuseBins(Tolerance)
	hg.fuseBins(Tolerance)
	hr.fuseBins(Tolerance)

	report.PeriodMean, report.PeriodStdDev = weightedMeanStdDev(hr.bins)

	hp.sortByMean()
	hg.sortByMean()
	hr.sortByMean()
	// Remove the FSK-initial synthetic zero-pulse bin after binning and
	// sorting, matching the reference implementation's ordering exactly.
	hp.dropLeadingZero()

	p := len(hp.bins)
	g := len(hg.bins)
	r := len(hr.bins)

	switch {
	case n == 1:
		report.Modulation = ModulationNone

	case p == 1 && g == 1:
		report.Modulation = ModulationNone

	case p == 1 && g > 1:
		report.Modulation = ModulationOOKPPM
		report.ShortLimit = (hg.bins[0].Mean + hg.bins[1].Mean) / 2
		report.LongLimit = hg.bins[1].Max + 1
		report.ResetLimit = hg.bins[g-1].Max + 1

	case p == 2 && g == 1:
		report.Modulation = ModulationOOKPWM
		report.ShortLimit = (hp.bins[0].Mean + hp.bins[1].Mean) / 2
		report.LongLimit = hg.bins[g-1].Max + 1
		report.ResetLimit = report.LongLimit

	case p == 2 && g == 2 && r == 1:
		report.Modulation = ModulationOOKPWM
		report.ShortLimit = (hp.bins[0].Mean + hp.bins[1].Mean) / 2
		report.LongLimit = hg.bins[g-1].Max + 1
		report.ResetLimit = report.LongLimit

	case p == 2 && g == 2 && r == 3:
		report.Modulation = ModulationManchester
		report.ShortLimit = minInt32(hp.bins[0].Mean, hp.bins[1].Mean)
		report.LongLimit = 0
		report.ResetLimit = hg.bins[g-1].Max + 1

	case p == 2 && g >= 3:
		report.Modulation = ModulationOOKPWM
		report.ShortLimit = (hp.bins[0].Mean + hp.bins[1].Mean) / 2
		report.LongLimit = hg.bins[1].Max + 1
		report.ResetLimit = hg.bins[g-1].Max + 1

	case p >= 3 && g >= 3 &&
		absInt32(hp.bins[1].Mean-2*hp.bins[0].Mean) <= hp.bins[0].Mean/8 &&
		absInt32(hp.bins[2].Mean-3*hp.bins[0].Mean) <= hp.bins[0].Mean/8 &&
		absInt32(hg.bins[0].Mean-hp.bins[0].Mean) <= hp.bins[0].Mean/8 &&
		absInt32(hg.bins[1].Mean-2*hp.bins[0].Mean) <= hp.bins[0].Mean/8 &&
		absInt32(hg.bins[2].Mean-3*hp.bins[0].Mean) <= hp.bins[0].Mean/8:
		report.Modulation = ModulationFSKPCM
		report.ShortLimit = hp.bins[0].Mean
		report.LongLimit = hp.bins[0].Mean
		report.ResetLimit = hp.bins[0].Mean * 1024

	case p == 3:
		report.Modulation = ModulationOOKPWMPrecise
		// Re-sort to find the lowest pulse count index; it's probably
		// the sync/delimiter.
		hp.sortByCount()
		p1 := hp.bins[1].Mean
		p2 := hp.bins[2].Mean
		report.SyncWidth = hp.bins[0].Mean
		if p1 < p2 {
			report.ShortLimit, report.LongLimit = p1, p2
		} else {
			report.ShortLimit, report.LongLimit = p2, p1
		}
		report.ResetLimit = hg.bins[g-1].Max + 1

	default:
		report.Modulation = ModulationNone
	}

	if report.Modulation != ModulationNone {
		buf.SetLastGap(report.ResetLimit + 1)
	}

	return report
}

// weightedMeanStdDev returns the count-weighted mean and population
// standard deviation of a set of histogram bin means.
func weightedMeanStdDev(bins []histBin) (mean, stddev float64) {
	if len(bins) == 0 {
		return 0, 0
	}
	means := make([]float64, len(bins))
	weights := make([]float64, len(bins))
	for i, b := range bins {
		means[i] = float64(b.Mean)
		weights[i] = float64(b.Count)
	}
	return stat.PopMeanStdDev(means, weights)
}

package pulse

import "sort"

// histBin is one equivalence class in a histogram: every width folded into
// it differs from its running mean by less than Tolerance times the larger
// of the two.
type histBin struct {
	Count int
	Sum   int32
	Mean  int32
	Min   int32
	Max   int32
}

// histogram is an unsorted set of up to MaxHistBins bins built over pulse,
// gap or period widths.
type histogram struct {
	bins []histBin
}

func newHistogram() *histogram {
	return &histogram{bins: make([]histBin, 0, MaxHistBins)}
}

// sum bins each value in data, linear-probing existing bins for a
// relative-tolerance match before opening a new one.
func (h *histogram) sum(data []int32, tolerance float64) {
	for _, v := range data {
		matched := false
		for i := range h.bins {
			bm := h.bins[i].Mean
			if float64(absInt32(v-bm)) < tolerance*float64(maxInt32(v, bm)) {
				h.bins[i].Count++
				h.bins[i].Sum += v
				h.bins[i].Mean = h.bins[i].Sum / int32(h.bins[i].Count)
				h.bins[i].Min = minInt32(h.bins[i].Min, v)
				h.bins[i].Max = maxInt32(h.bins[i].Max, v)
				matched = true
				break
			}
		}
		if !matched && len(h.bins) < MaxHistBins {
			h.bins = append(h.bins, histBin{Count: 1, Sum: v, Mean: v, Min: v, Max: v})
		}
	}
}

// fuseBins merges bins whose means are within tolerance of each other,
// repeating until no pair matches (P3: the closure invariant).
func (h *histogram) fuseBins(tolerance float64) {
	for fused := true; fused; {
		fused = false
		for n := 0; n < len(h.bins)-1; n++ {
			for m := n + 1; m < len(h.bins); m++ {
				bn := h.bins[n].Mean
				bm := h.bins[m].Mean
				if float64(absInt32(bn-bm)) < tolerance*float64(maxInt32(bn, bm)) {
					h.bins[n].Count += h.bins[m].Count
					h.bins[n].Sum += h.bins[m].Sum
					h.bins[n].Mean = h.bins[n].Sum / int32(h.bins[n].Count)
					h.bins[n].Min = minInt32(h.bins[n].Min, h.bins[m].Min)
					h.bins[n].Max = maxInt32(h.bins[n].Max, h.bins[m].Max)
					h.bins = append(h.bins[:m], h.bins[m+1:]...)
					m--
					fused = true
				}
			}
		}
	}
}

func (h *histogram) sortByMean() {
	sort.SliceStable(h.bins, func(i, j int) bool { return h.bins[i].Mean < h.bins[j].Mean })
}

func (h *histogram) sortByCount() {
	sort.SliceStable(h.bins, func(i, j int) bool { return h.bins[i].Count < h.bins[j].Count })
}

// dropLeadingZero removes a leading mean-zero bin, the synthetic entry the
// FSK tracker emits for its initial tone estimate. Must run after sorting,
// matching the reference implementation's ordering.
func (h *histogram) dropLeadingZero() {
	if len(h.bins) > 0 && h.bins[0].Mean == 0 {
		h.bins = h.bins[1:]
	}
}

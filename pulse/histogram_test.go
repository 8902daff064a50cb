package pulse

import "testing"

func TestHistogramSumBinsWithinTolerance(t *testing.T) {
	h := newHistogram()
	h.sum([]int32{100, 102, 98, 500, 505}, Tolerance)

	if len(h.bins) != 2 {
		t.Fatalf("len(bins) = %d, want 2", len(h.bins))
	}
	if h.bins[0].Count != 3 {
		t.Fatalf("bins[0].Count = %d, want 3", h.bins[0].Count)
	}
	if h.bins[1].Count != 2 {
		t.Fatalf("bins[1].Count = %d, want 2", h.bins[1].Count)
	}
}

func TestHistogramSumStopsAtMaxBins(t *testing.T) {
	h := newHistogram()
	var data []int32
	// Values spaced far enough apart (factor of 4) that none fuse, forcing
	// a fresh bin per value until MaxHistBins caps it.
	v := int32(1)
	for i := 0; i < MaxHistBins+4; i++ {
		data = append(data, v)
		v *= 4
	}
	h.sum(data, Tolerance)
	if len(h.bins) > MaxHistBins {
		t.Fatalf("len(bins) = %d, want at most %d", len(h.bins), MaxHistBins)
	}
}

// TestHistogramFuseBinsClosure checks P3: after fuseBins converges, no two
// remaining bins are within tolerance of one another.
func TestHistogramFuseBinsClosure(t *testing.T) {
	h := newHistogram()
	h.bins = []histBin{
		{Count: 1, Sum: 100, Mean: 100, Min: 100, Max: 100},
		{Count: 1, Sum: 105, Mean: 105, Min: 105, Max: 105},
		{Count: 1, Sum: 110, Mean: 110, Min: 110, Max: 110},
		{Count: 1, Sum: 1000, Mean: 1000, Min: 1000, Max: 1000},
	}
	h.fuseBins(Tolerance)

	for i := 0; i < len(h.bins); i++ {
		for j := i + 1; j < len(h.bins); j++ {
			bi, bj := h.bins[i].Mean, h.bins[j].Mean
			if float64(absInt32(bi-bj)) < Tolerance*float64(maxInt32(bi, bj)) {
				t.Fatalf("bins %d and %d still within tolerance after fuseBins: %d, %d", i, j, bi, bj)
			}
		}
	}
}

func TestHistogramSortByMean(t *testing.T) {
	h := newHistogram()
	h.bins = []histBin{{Mean: 300}, {Mean: 100}, {Mean: 200}}
	h.sortByMean()
	want := []int32{100, 200, 300}
	for i, b := range h.bins {
		if b.Mean != want[i] {
			t.Fatalf("bins[%d].Mean = %d, want %d", i, b.Mean, want[i])
		}
	}
}

func TestHistogramSortByCount(t *testing.T) {
	h := newHistogram()
	h.bins = []histBin{{Count: 5}, {Count: 1}, {Count: 3}}
	h.sortByCount()
	want := []int{1, 3, 5}
	for i, b := range h.bins {
		if b.Count != want[i] {
			t.Fatalf("bins[%d].Count = %d, want %d", i, b.Count, want[i])
		}
	}
}

func TestHistogramDropLeadingZero(t *testing.T) {
	h := newHistogram()
	h.bins = []histBin{{Mean: 0, Count: 1}, {Mean: 100, Count: 5}}
	h.dropLeadingZero()
	if len(h.bins) != 1 || h.bins[0].Mean != 100 {
		t.Fatalf("dropLeadingZero left %+v", h.bins)
	}
}

func TestHistogramDropLeadingZeroNoOp(t *testing.T) {
	h := newHistogram()
	h.bins = []histBin{{Mean: 50, Count: 1}, {Mean: 100, Count: 5}}
	h.dropLeadingZero()
	if len(h.bins) != 2 {
		t.Fatalf("dropLeadingZero removed a non-zero bin: %+v", h.bins)
	}
}

package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewRegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "session-a")

	m.OOKPackets.Inc()
	m.HighLevel.Set(4096)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) != 6 {
		t.Fatalf("len(families) = %d, want 6", len(families))
	}
}

func TestNewWithoutRegistryDoesNotPanic(t *testing.T) {
	m := New(nil, "session-b")
	m.FSKDesyncs.Inc()
}

func TestMetricsAreLabeledBySession(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "session-c")
	m.OOKPackets.Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	var found bool
	for _, fam := range families {
		if fam.GetName() != "pulsecore_ook_packets_total" {
			continue
		}
		for _, metric := range fam.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "session_id" && l.GetValue() == "session-c" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatal("did not find session_id=session-c label on pulsecore_ook_packets_total")
	}
}

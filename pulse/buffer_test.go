package pulse

import "testing"

func TestBufferPushFull(t *testing.T) {
	var b Buffer
	for i := 0; i < PDMaxPulses; i++ {
		if err := b.Push(int32(i), int32(i+1)); err != nil {
			t.Fatalf("Push(%d): unexpected error: %v", i, err)
		}
	}
	if !b.Full() {
		t.Fatal("expected buffer to report full after PDMaxPulses pushes")
	}
	if err := b.Push(1, 1); err != ErrBufferFull {
		t.Fatalf("Push on full buffer: got %v, want ErrBufferFull", err)
	}
}

func TestBufferClear(t *testing.T) {
	var b Buffer
	b.Push(10, 20)
	b.Offset = 42
	b.Clear()
	if b.NumPulses != 0 || b.Offset != 0 {
		t.Fatalf("Clear left state behind: %+v", b)
	}
}

func TestBufferPeriod(t *testing.T) {
	var b Buffer
	b.Push(100, 50)
	if got := b.Period(0); got != 150 {
		t.Fatalf("Period(0) = %d, want 150", got)
	}
}

func TestBufferSetLastGap(t *testing.T) {
	var b Buffer
	b.Push(10, 20)
	b.Push(30, 40)
	b.SetLastGap(999)
	if b.Gap[1] != 999 {
		t.Fatalf("Gap[1] = %d, want 999", b.Gap[1])
	}
	if b.Gap[0] != 20 {
		t.Fatalf("SetLastGap mutated the wrong entry: Gap[0] = %d", b.Gap[0])
	}
}

func TestBufferSetLastGapEmpty(t *testing.T) {
	var b Buffer
	b.SetLastGap(999) // must not panic on an empty buffer
}

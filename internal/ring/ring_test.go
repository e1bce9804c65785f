package ring

import "testing"

func TestAppendBelowCapacity(t *testing.T) {
	l := New[int](3)
	l.Append(1)
	l.Append(2)

	if l.Len() != 2 {
		t.Fatalf("Len = %d, want 2", l.Len())
	}
	got := l.All()
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("All = %v, want [1 2]", got)
	}
}

func TestEvictionAtExactCapacityBoundary(t *testing.T) {
	l := New[int](3)
	for i := 1; i <= 3; i++ {
		l.Append(i)
	}
	if l.Len() != 3 {
		t.Fatalf("Len = %d, want 3", l.Len())
	}

	// Fourth append must evict the oldest, not grow.
	l.Append(4)
	if l.Len() != 3 {
		t.Fatalf("Len after overflow = %d, want 3", l.Len())
	}
	got := l.All()
	want := []int{2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("All = %v, want %v", got, want)
			break
		}
	}
}

func TestLast(t *testing.T) {
	l := New[int](5)
	for i := 1; i <= 4; i++ {
		l.Append(i)
	}

	got := l.Last(2)
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("Last(2) = %v, want [3 4]", got)
	}
	if n := len(l.Last(10)); n != 4 {
		t.Errorf("Last(10) len = %d, want 4", n)
	}
}

func TestNewestEmpty(t *testing.T) {
	l := New[string](2)
	if _, ok := l.Newest(); ok {
		t.Error("Newest on empty log reported ok")
	}
	l.Append("a")
	v, ok := l.Newest()
	if !ok || v != "a" {
		t.Errorf("Newest = %q, %v; want \"a\", true", v, ok)
	}
}

func TestCloneIsDetached(t *testing.T) {
	l := New[int](3)
	l.Append(1)
	c := l.Clone()
	c.Append(2)

	if l.Len() != 1 {
		t.Errorf("source Len = %d after clone append, want 1", l.Len())
	}
	if c.Len() != 2 {
		t.Errorf("clone Len = %d, want 2", c.Len())
	}
}

func TestZeroCapacityFallsBackToOne(t *testing.T) {
	l := New[int](0)
	l.Append(1)
	l.Append(2)
	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
	if v, _ := l.Newest(); v != 2 {
		t.Errorf("Newest = %d, want 2", v)
	}
}

package shuffle

import "testing"

func TestGenerateIsBijection(t *testing.T) {
	seeds := []int64{0, 1, 42, 1000000007, -7}
	for _, seed := range seeds {
		table, err := Generate(seed)
		if err != nil {
			t.Fatalf("seed %d: unexpected error: %v", seed, err)
		}
		var seen [256]bool
		for _, v := range table {
			if seen[v] {
				t.Fatalf("seed %d: value %d assigned more than once", seed, v)
			}
			seen[v] = true
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Generate(12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical tables for identical seeds")
	}
}

func TestApplyRoundTrip(t *testing.T) {
	table, err := Generate(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var inverse Table
	for i, v := range table {
		inverse[v] = byte(i)
	}

	buf := []byte{0, 1, 2, 254, 255, 128}
	want := append([]byte(nil), buf...)

	table.Apply(buf)
	inverse.Apply(buf)

	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("round trip mismatch at %d: got %d, want %d", i, buf[i], want[i])
		}
	}
}

package demo

import "testing"

func TestScatterFuncZeroesOnlyTargetBatch(t *testing.T) {
	fn := ScatterFunc(10) // target batch 5
	buf := make([]byte, 30)
	for i := range buf {
		buf[i] = 0xAB
	}

	fn(4, buf)
	for i, b := range buf {
		if b != 0xAB {
			t.Fatalf("batch 4 should be untouched, byte %d changed to %#x", i, b)
		}
	}

	fn(5, buf)
	for i := 0; i < 20; i++ {
		if buf[i] != 0 {
			t.Fatalf("batch 5 byte %d: expected 0, got %#x", i, buf[i])
		}
	}
	for i := 20; i < len(buf); i++ {
		if buf[i] != 0xAB {
			t.Fatalf("batch 5 byte %d beyond the 20-byte span should be untouched", i)
		}
	}
}

func TestGatherFuncStraddlesBoundary(t *testing.T) {
	fn := GatherFunc(9) // target batch 3
	a := make([]byte, 30)
	b := make([]byte, 30)
	for i := range a {
		a[i] = 0xCD
		b[i] = 0xCD
	}

	fn(3, a)
	for i := len(a) - 10; i < len(a); i++ {
		if a[i] != 0 {
			t.Fatalf("batch 3 tail byte %d: expected 0, got %#x", i, a[i])
		}
	}
	for i := 0; i < len(a)-10; i++ {
		if a[i] != 0xCD {
			t.Fatalf("batch 3 byte %d outside tail span should be untouched", i)
		}
	}

	fn(4, b)
	for i := 0; i < 10; i++ {
		if b[i] != 0 {
			t.Fatalf("batch 4 head byte %d: expected 0, got %#x", i, b[i])
		}
	}
	for i := 10; i < len(b); i++ {
		if b[i] != 0xCD {
			t.Fatalf("batch 4 byte %d outside head span should be untouched", i)
		}
	}
}

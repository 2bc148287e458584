// Package demo implements the opt-in demo-string injection described
// in spec.md's Open Questions: a diagnostic that guarantees at least
// one detectable common substring by zeroing a fixed span of input on
// both sides, exercised only when a run explicitly asks for it.
package demo

// ScatterFunc returns the injection callback for a scatter run of
// batchCount batches: it zeroes the first 20 bytes of the middle
// batch's input.
func ScatterFunc(batchCount int) func(batchID int, input []byte) {
	target := batchCount / 2
	return func(batchID int, input []byte) {
		if batchID != target {
			return
		}
		n := 20
		if len(input) < n {
			n = len(input)
		}
		for i := 0; i < n; i++ {
			input[i] = 0
		}
	}
}

// GatherFunc returns the injection callback for a gather run of
// batchCount batches: it zeroes the last 10 bytes of batch
// batchCount/3 and the first 10 bytes of the following batch, so the
// same marker straddles a batch boundary the way a real repeated
// substring might.
func GatherFunc(batchCount int) func(batchID int, input []byte) {
	target := batchCount / 3
	return func(batchID int, input []byte) {
		switch batchID {
		case target:
			n := 10
			if len(input) < n {
				n = len(input)
			}
			for i := len(input) - n; i < len(input); i++ {
				input[i] = 0
			}
		case target + 1:
			n := 10
			if len(input) < n {
				n = len(input)
			}
			for i := 0; i < n; i++ {
				input[i] = 0
			}
		}
	}
}

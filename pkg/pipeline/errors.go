package pipeline

import "fmt"

// FatalError is a logic-bug or unrecoverable-condition signal that
// carries the distinct numeric exit code documented in spec.md
// section 6. cmd/scatter and cmd/gather translate it to os.Exit(Code).
type FatalError struct {
	Code int
	Err  error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal error (exit code %d): %v", e.Code, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Exit codes, spec.md section 6.
const (
	ExitBatchCountTooSmall = 10
	ExitMapAllocFailed     = 11
	ExitMasterTooShort     = 12

	ExitShuffleNotBijection = 25
	ExitMapFileOpen         = 26
	ExitMapFileShort        = 27
)

// w1BusyCode, w1ShortReadCode, w2BusyCode and w3BusyCode return the
// container-specific exit code for container idx (0=A, 1=B, 2=C), per
// the worker whose invariant was violated.
func w1BusyCode(idx int) int      { return [3]int{13, 15, 17}[idx] }
func w1ShortReadCode(idx int) int { return [3]int{14, 16, 18}[idx] }
func w2BusyCode(idx int) int      { return [3]int{19, 20, 21}[idx] }
func w3BusyCode(idx int) int      { return [3]int{22, 23, 24}[idx] }

func errContainerBusy(worker string, idx int) error {
	return fmt.Errorf("container %s still held when %s was scheduled onto it", [3]string{"A", "B", "C"}[idx], worker)
}

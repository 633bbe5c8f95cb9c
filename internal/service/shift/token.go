package shift

import "sync/atomic"

// CancellationToken is a one-way flag shared between the worker running a
// month and whoever may stop it. Build a fresh token for every run.
type CancellationToken struct {
	requested atomic.Bool
}

func NewCancellationToken() *CancellationToken {
	return &CancellationToken{}
}

// RequestCancel sets the flag. It reports whether this call was the one
// that flipped it.
func (t *CancellationToken) RequestCancel() bool {
	return t.requested.CompareAndSwap(false, true)
}

func (t *CancellationToken) IsCancelled() bool {
	return t.requested.Load()
}

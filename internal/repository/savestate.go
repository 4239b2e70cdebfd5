package repository

import "sync"

// SaveState is the lifecycle of one save operation as the UI sees it:
// Idle -> Saving -> (Succeeded | Failed). Terminal states latch until Reset
// so a finished save can't be resubmitted by a stray double-tap.
type SaveState int

const (
	SaveIdle SaveState = iota
	SaveSaving
	SaveSucceeded
	SaveFailed
)

func (s SaveState) String() string {
	switch s {
	case SaveIdle:
		return "idle"
	case SaveSaving:
		return "saving"
	case SaveSucceeded:
		return "succeeded"
	case SaveFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SaveStatus is a snapshot of a tracker. ID is set when State is
// SaveSucceeded; Err when State is SaveFailed.
type SaveStatus struct {
	State SaveState
	ID    int64
	Err   error
}

// SaveTracker guards one save surface (e.g. the journal editor). It replaces
// a global "isSaving" boolean with an explicit state machine.
type SaveTracker struct {
	mu     sync.Mutex
	status SaveStatus
}

func NewSaveTracker() *SaveTracker {
	return &SaveTracker{}
}

// Begin transitions Idle -> Saving. Returns false when a save is already in
// flight or a terminal state hasn't been reset; the caller must drop the
// duplicate submit.
func (t *SaveTracker) Begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.State != SaveIdle {
		return false
	}
	t.status = SaveStatus{State: SaveSaving}
	return true
}

// Succeed records a successful save. No-op unless currently Saving.
func (t *SaveTracker) Succeed(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.State != SaveSaving {
		return
	}
	t.status = SaveStatus{State: SaveSucceeded, ID: id}
}

// Fail records a failed save. No-op unless currently Saving.
func (t *SaveTracker) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.State != SaveSaving {
		return
	}
	t.status = SaveStatus{State: SaveFailed, Err: err}
}

// Reset returns a terminal tracker to Idle so the next save can begin.
// No-op while a save is in flight.
func (t *SaveTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.State == SaveSaving {
		return
	}
	t.status = SaveStatus{State: SaveIdle}
}

func (t *SaveTracker) Status() SaveStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

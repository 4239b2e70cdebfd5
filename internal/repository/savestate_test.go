package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSaveTrackerHappyPath(t *testing.T) {
	tr := NewSaveTracker()
	assert.Equal(t, SaveIdle, tr.Status().State)

	assert.True(t, tr.Begin())
	assert.Equal(t, SaveSaving, tr.Status().State)

	tr.Succeed(42)
	st := tr.Status()
	assert.Equal(t, SaveSucceeded, st.State)
	assert.EqualValues(t, 42, st.ID)
}

func TestSaveTrackerRejectsDoubleSubmit(t *testing.T) {
	tr := NewSaveTracker()
	assert.True(t, tr.Begin())
	assert.False(t, tr.Begin(), "second Begin while saving must be rejected")
}

func TestSaveTrackerTerminalLatchesUntilReset(t *testing.T) {
	tr := NewSaveTracker()
	assert.True(t, tr.Begin())
	tr.Succeed(1)

	assert.False(t, tr.Begin(), "terminal state must latch")

	tr.Reset()
	assert.Equal(t, SaveIdle, tr.Status().State)
	assert.True(t, tr.Begin())
}

func TestSaveTrackerFailure(t *testing.T) {
	tr := NewSaveTracker()
	assert.True(t, tr.Begin())

	wantErr := errors.New("disk full")
	tr.Fail(wantErr)

	st := tr.Status()
	assert.Equal(t, SaveFailed, st.State)
	assert.Equal(t, wantErr, st.Err)

	tr.Reset()
	assert.True(t, tr.Begin())
}

func TestSaveTrackerResetIgnoredWhileSaving(t *testing.T) {
	tr := NewSaveTracker()
	assert.True(t, tr.Begin())
	tr.Reset()
	assert.Equal(t, SaveSaving, tr.Status().State)
}

func TestSaveTrackerTerminalSettersRequireSaving(t *testing.T) {
	tr := NewSaveTracker()
	tr.Succeed(9)
	assert.Equal(t, SaveIdle, tr.Status().State)
	tr.Fail(errors.New("x"))
	assert.Equal(t, SaveIdle, tr.Status().State)
}

func TestSaveStateString(t *testing.T) {
	assert.Equal(t, "idle", SaveIdle.String())
	assert.Equal(t, "saving", SaveSaving.String())
	assert.Equal(t, "succeeded", SaveSucceeded.String())
	assert.Equal(t, "failed", SaveFailed.String())
}

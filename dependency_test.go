package gpujob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessMaskForTaskStage(t *testing.T) {
	assert.NotZero(t, accessMaskFor(stageTask, AccessRead))
	assert.NotZero(t, accessMaskFor(stageTask, AccessWrite))
	assert.NotEqual(t, accessMaskFor(stageTask, AccessRead), accessMaskFor(stageTransfer, AccessRead))
	assert.Zero(t, accessMaskFor(stageNone, AccessRead))
}

func TestPipelineStageMapping(t *testing.T) {
	assert.NotEqual(t, stageTask.pipelineStage(), stageTransfer.pipelineStage())
	assert.Equal(t, uint32(0), uint32(stageNone.pipelineStage()))
}

// TestCheckFirstAccessNeedsNoBarrier exercises the tracker's empty-state
// path: a resource with no prior unguarded access never triggers a barrier,
// matching Job.cpp's checkDataDependency (which only compares against a
// previously recorded access). cb is a zero-value CommandBuffer; since no
// barrier is emitted, CmdPipelineBarrier is never invoked and no real
// Vulkan call happens.
func TestCheckFirstAccessNeedsNoBarrier(t *testing.T) {
	tracker := newDependencyTracker()
	cb := &CommandBuffer{}
	res := &Buffer{id: 1}

	err := tracker.check(cb, []Resource{res}, stageTask, []AccessType{AccessWrite})
	require.NoError(t, err)

	access, ok := tracker.unguarded[res.ID()]
	require.True(t, ok)
	assert.Equal(t, AccessWrite, access.kind)
	assert.Equal(t, stageTask, access.stage)
}

// TestCheckReadAfterReadElision confirms two consecutive read-only accesses
// to the same resource never need a barrier between them (spec's
// read-after-read elision property), verified by calling check twice with
// read-only access each time and asserting neither call errors or panics on
// a bare CommandBuffer (meaning CmdPipelineBarrier was never reached).
func TestCheckReadAfterReadElision(t *testing.T) {
	tracker := newDependencyTracker()
	cb := &CommandBuffer{}
	res := &Buffer{id: 7}

	require.NoError(t, tracker.check(cb, []Resource{res}, stageTask, []AccessType{AccessRead}))
	require.NoError(t, tracker.check(cb, []Resource{res}, stageTask, []AccessType{AccessRead}))

	access := tracker.unguarded[res.ID()]
	assert.Equal(t, AccessRead, access.kind)
}

// TestCheckCoalescesRepeatedResourceWithinOneCall verifies that passing the
// same resource twice in a single check call (e.g. bound at two descriptor
// slots) ORs the access types together rather than treating them as two
// independent entries.
func TestCheckCoalescesRepeatedResourceWithinOneCall(t *testing.T) {
	tracker := newDependencyTracker()
	cb := &CommandBuffer{}
	res := &Buffer{id: 3}

	err := tracker.check(cb, []Resource{res, res}, stageTask, []AccessType{AccessRead, AccessWrite})
	require.NoError(t, err)

	access := tracker.unguarded[res.ID()]
	assert.True(t, access.kind.IsRead())
	assert.True(t, access.kind.IsWrite())
}

func TestCheckMismatchedLengthsIsIllegalState(t *testing.T) {
	tracker := newDependencyTracker()
	cb := &CommandBuffer{}
	res := &Buffer{id: 9}

	err := tracker.check(cb, []Resource{res}, stageTask, nil)
	require.Error(t, err)

	var gErr *Error
	require.ErrorAs(t, err, &gErr)
	assert.Equal(t, IllegalState, gErr.Kind())
}

func TestResetClearsUnguardedState(t *testing.T) {
	tracker := newDependencyTracker()
	cb := &CommandBuffer{}
	res := &Buffer{id: 4}

	require.NoError(t, tracker.check(cb, []Resource{res}, stageTask, []AccessType{AccessWrite}))
	_, ok := tracker.unguarded[res.ID()]
	require.True(t, ok)

	tracker.reset()
	_, ok = tracker.unguarded[res.ID()]
	assert.False(t, ok)
}

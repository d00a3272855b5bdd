//go:build gpu

package gpujob

import (
	"encoding/binary"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"
)

// This file ports spec §8's six concrete seed scenarios as integration tests
// against a real Vulkan device, grounded on
// original_source/tests/JobTest.cpp and JobManagerTest.cpp. It only builds
// under the "gpu" tag and every test skips individually when no compatible
// device is present or a scenario's compiled shader hasn't been produced
// from testdata/shaders/*.comp (see testdata/shaders/README.md) - the
// original's Catch2 suite has the same prerequisite, compiling its shaders
// through a separate build step before the test binary ever runs.

func newIntegrationManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(ManagerOptions{})
	if err != nil {
		t.Skipf("no usable Vulkan device: %v", err)
	}
	t.Cleanup(m.Destroy)
	return m
}

func shaderPath(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", "shaders", name)
	if _, err := os.Stat(path); err != nil {
		t.Skipf("compiled shader %s not present (see testdata/shaders/README.md): %v", path, err)
	}
	return path
}

func uint32sToBytes(values []uint32) []byte {
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

func bytesToUint32s(data []byte) []uint32 {
	values := make([]uint32, len(data)/4)
	for i := range values {
		values[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return values
}

// TestFibonacci is spec §8 seed scenario 1: a single storage buffer, single
// task program replacing each element with fib(element) given a
// specialization constant of count=5.
func TestFibonacci(t *testing.T) {
	m := newIntegrationManager(t)
	path := shaderPath(t, "fibonacci.spv")

	input := []uint32{1, 2, 3, 4, 5}
	expected := []uint32{1, 1, 2, 3, 5}

	task, err := m.CreateTask(path, uint32(len(input)))
	require.NoError(t, err)

	buf, err := m.CreateBuffer(uint64(len(input)*4), BufferDeviceLocal)
	require.NoError(t, err)

	job, err := m.CreateJob()
	require.NoError(t, err)

	_, err = job.SyncResourceToDevice(buf, uint32sToBytes(input))
	require.NoError(t, err)
	_, err = job.WaitAfterTransfers()
	require.NoError(t, err)
	_, err = job.UseResources(0, []Resource{buf})
	require.NoError(t, err)
	_, err = job.AddTask1D(task, len(input))
	require.NoError(t, err)

	out := make([]byte, len(input)*4)
	_, err = job.SyncResourceToHost(buf, out)
	require.NoError(t, err)

	_, err = job.Submit(false)
	require.NoError(t, err)
	ok, err := job.Await(5 * time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, expected, bytesToUint32s(out))
}

// TestPairwiseSumDoubleBinding is spec §8 seed scenario 2: two buffers bound
// in swapped order across two dispatches of the same sum(x,y) -> y task.
func TestPairwiseSumDoubleBinding(t *testing.T) {
	m := newIntegrationManager(t)
	path := shaderPath(t, "sum.spv")

	a := []uint32{1, 2, 3, 4, 5}
	b := []uint32{10, 20, 30, 40, 50}

	task, err := m.CreateTask(path)
	require.NoError(t, err)

	bufA, err := m.CreateBuffer(uint64(len(a)*4), BufferDeviceLocal)
	require.NoError(t, err)
	bufB, err := m.CreateBuffer(uint64(len(b)*4), BufferDeviceLocal)
	require.NoError(t, err)

	job, err := m.CreateJob()
	require.NoError(t, err)

	_, err = job.SyncResourceToDevice(bufA, uint32sToBytes(a))
	require.NoError(t, err)
	_, err = job.SyncResourceToDevice(bufB, uint32sToBytes(b))
	require.NoError(t, err)
	_, err = job.WaitAfterTransfers()
	require.NoError(t, err)

	_, err = job.UseResources(0, []Resource{bufA, bufB})
	require.NoError(t, err)
	_, err = job.AddTask1D(task, len(a))
	require.NoError(t, err)

	_, err = job.UseResources(0, []Resource{bufB, bufA})
	require.NoError(t, err)
	_, err = job.AddTask1D(task, len(a))
	require.NoError(t, err)

	outA := make([]byte, len(a)*4)
	outB := make([]byte, len(b)*4)
	_, err = job.SyncResourceToHost(bufA, outA)
	require.NoError(t, err)
	_, err = job.SyncResourceToHost(bufB, outB)
	require.NoError(t, err)

	_, err = job.Submit(false)
	require.NoError(t, err)
	ok, err := job.Await(5 * time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, []uint32{12, 24, 36, 48, 60}, bytesToUint32s(outA))
	assert.Equal(t, []uint32{11, 22, 33, 44, 55}, bytesToUint32s(outB))
}

// TestImageEdgeDetectRoundTrip is spec §8 seed scenario 3: upload a
// synthetic RGBA image built with golang.org/x/image/draw, run it through an
// edge-detect task, and verify the pipeline round-trips at the expected
// size with at least one non-zero red value (the source has one edge, between
// its black and white halves). Where the non-zero values lie is not checked.
// Correctness of the shader's edge math is explicitly out of scope per spec.
func TestImageEdgeDetectRoundTrip(t *testing.T) {
	m := newIntegrationManager(t)
	path := shaderPath(t, "edgedetect.spv")

	const w, h = 64, 64
	src := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(src, src.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	half := image.Rect(0, 0, w/2, h)
	draw.Draw(src, half, image.NewUniform(color.Black), image.Point{}, draw.Src)

	task, err := m.CreateTask(path)
	require.NoError(t, err)

	srcImg, err := m.CreateImage(w, h)
	require.NoError(t, err)
	dstImg, err := m.CreateImage(w, h)
	require.NoError(t, err)

	job, err := m.CreateJob()
	require.NoError(t, err)

	_, err = job.SyncResourceToDevice(srcImg, src.Pix)
	require.NoError(t, err)
	_, err = job.SyncResourceToDevice(dstImg, nil)
	require.NoError(t, err)
	_, err = job.WaitAfterTransfers()
	require.NoError(t, err)

	_, err = job.UseResources(0, []Resource{srcImg, dstImg})
	require.NoError(t, err)
	_, err = job.AddTask(task, w/16, h/16, 1)
	require.NoError(t, err)

	out := make([]byte, w*h*4)
	_, err = job.SyncResourceToHost(dstImg, out)
	require.NoError(t, err)

	_, err = job.Submit(false)
	require.NoError(t, err)
	ok, err := job.Await(5 * time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, out, w*h*4)

	var nonZero int
	for i := 0; i < len(out); i += 4 {
		if out[i] != 0 {
			nonZero++
		}
	}
	assert.Greater(t, nonZero, 0, "edge column between the white and black halves should produce a non-zero response")
}

// TestResubmitSumWithChangingInput is spec §8 seed scenario 4: a job
// recorded once, resubmitted five times with a growing input, where B
// accumulates the running sum of every A_i submitted so far.
func TestResubmitSumWithChangingInput(t *testing.T) {
	m := newIntegrationManager(t)
	path := shaderPath(t, "sum.spv")

	const n = 5
	a0 := []uint32{1, 2, 3, 4, 5}

	task, err := m.CreateTask(path)
	require.NoError(t, err)

	bufA, err := m.CreateBuffer(uint64(n*4), BufferDeviceLocal)
	require.NoError(t, err)
	bufB, err := m.CreateBuffer(uint64(n*4), BufferDeviceLocal)
	require.NoError(t, err)

	initJob, err := m.CreateJob()
	require.NoError(t, err)
	zero := make([]byte, n*4)
	_, err = initJob.SyncResourceToDevice(bufB, zero)
	require.NoError(t, err)
	_, err = initJob.Submit(false)
	require.NoError(t, err)
	ok, err := initJob.Await(5 * time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	job, err := m.CreateJob()
	require.NoError(t, err)
	_, err = job.UseResources(0, []Resource{bufA, bufB})
	require.NoError(t, err)
	_, err = job.AddTask1D(task, n)
	require.NoError(t, err)

	out := make([]byte, n*4)
	expected := make([]uint32, n)

	for i := 0; i < n; i++ {
		ai := make([]uint32, n)
		for k, v := range a0 {
			ai[k] = v + uint32(i)
		}
		for k := range expected {
			expected[k] += ai[k]
		}

		_, err = job.SyncResourceToDevice(bufA, uint32sToBytes(ai))
		require.NoError(t, err)
		_, err = job.SyncResourceToHost(bufB, out)
		require.NoError(t, err)

		_, err = job.Submit(false)
		require.NoError(t, err)
		ok, err := job.Await(5 * time.Second)
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, expected, bytesToUint32s(out), "iteration %d", i)
	}
}

// TestManualBarrierEquivalence is spec §8 seed scenario 5, authored fresh
// (original_source has no analogue): with auto-dependency management off, a
// manual WaitForTasksFinish between two read-after-write dispatches of the
// same buffer must produce the same result the auto-dependency-on version
// produces.
func TestManualBarrierEquivalence(t *testing.T) {
	m := newIntegrationManager(t)
	path := shaderPath(t, "sum.spv")

	a := []uint32{1, 2, 3, 4, 5}
	b := []uint32{10, 20, 30, 40, 50}

	task, err := m.CreateTask(path)
	require.NoError(t, err)

	run := func(auto bool) []uint32 {
		bufA, err := m.CreateBuffer(uint64(len(a)*4), BufferDeviceLocal)
		require.NoError(t, err)
		bufB, err := m.CreateBuffer(uint64(len(b)*4), BufferDeviceLocal)
		require.NoError(t, err)

		job, err := m.CreateJob()
		require.NoError(t, err)
		job.SetAutoDataDependencyManagement(auto)

		_, err = job.SyncResourceToDevice(bufA, uint32sToBytes(a))
		require.NoError(t, err)
		_, err = job.SyncResourceToDevice(bufB, uint32sToBytes(b))
		require.NoError(t, err)
		_, err = job.WaitAfterTransfers()
		require.NoError(t, err)

		_, err = job.UseResources(0, []Resource{bufA, bufB})
		require.NoError(t, err)
		_, err = job.AddTask1D(task, len(a))
		require.NoError(t, err)

		if !auto {
			_, err = job.WaitForTasksFinish()
			require.NoError(t, err)
		}

		_, err = job.UseResources(0, []Resource{bufB, bufA})
		require.NoError(t, err)
		_, err = job.AddTask1D(task, len(a))
		require.NoError(t, err)

		out := make([]byte, len(a)*4)
		_, err = job.SyncResourceToHost(bufA, out)
		require.NoError(t, err)

		_, err = job.Submit(false)
		require.NoError(t, err)
		ok, err := job.Await(5 * time.Second)
		require.NoError(t, err)
		require.True(t, ok)

		return bytesToUint32s(out)
	}

	autoResult := run(true)
	manualResult := run(false)
	assert.Equal(t, autoResult, manualResult)
}

// TestTimeout is spec §8 seed scenario 6, authored fresh: a job whose
// dispatch takes at least 10ms returns false from Await(0), true from a
// blocking Await, and the job accepts a subsequent submit.
func TestTimeout(t *testing.T) {
	m := newIntegrationManager(t)
	path := shaderPath(t, "busy.spv")

	task, err := m.CreateTask(path, uint32(200_000_000))
	require.NoError(t, err)

	buf, err := m.CreateBuffer(4, BufferDeviceLocal)
	require.NoError(t, err)

	job, err := m.CreateJob()
	require.NoError(t, err)
	_, err = job.SyncResourceToDevice(buf, uint32sToBytes([]uint32{1}))
	require.NoError(t, err)
	_, err = job.WaitAfterTransfers()
	require.NoError(t, err)
	_, err = job.UseResources(0, []Resource{buf})
	require.NoError(t, err)
	_, err = job.AddTask1D(task, 1)
	require.NoError(t, err)

	_, err = job.Submit(false)
	require.NoError(t, err)

	done, err := job.Await(0)
	require.NoError(t, err)
	assert.False(t, done, "a dispatch that takes at least 10ms should not have finished by the time a zero-timeout await returns")

	done, err = job.Await(10 * time.Second)
	require.NoError(t, err)
	require.True(t, done)

	_, err = job.Submit(false)
	require.NoError(t, err, "a job is resubmittable once its prior submission has been awaited")
}

package gpujob

import (
	"sort"
	"time"

	vk "github.com/vulkan-go/vulkan"
)

// jobBinding is one pending descriptor-set binding: either a pre-built
// ResourceSet or a raw resource list awaiting an on-the-fly descriptor set.
// Grounded on original_source/src/Job.h's pendingBindings, whose C++
// variant<ResourceSet, vector<Resource*>> has no closed-union analogue in
// Go - a two-field struct with one always nil is the idiomatic stand-in.
type jobBinding struct {
	set         int
	resourceSet *ResourceSet
	resources   []Resource
}

func (b jobBinding) list() []Resource {
	if b.resourceSet != nil {
		return b.resourceSet.Resources()
	}
	return b.resources
}

type transferToDevice struct {
	dst  *Buffer
	size uint64
	data []byte
}

type transferToHost struct {
	src  *Buffer
	size uint64
	data []byte
}

// Job records a sequence of compute dispatches, transfers, and barriers
// into a command buffer, then submits and awaits it. Grounded on
// original_source/src/Job.h/.cpp, the C++ original's Job class.
type Job struct {
	manager       *Manager
	commandBuffer *CommandBuffer
	computeQueue  *Queue
	fence         *Fence

	signalSemaphore *Semaphore

	isRecorded  bool
	isSubmitted bool

	autoDataDependencyManagement bool

	pendingBindings  []jobBinding
	pendingConstants []byte

	preExecutionTransfers  []transferToDevice
	postExecutionTransfers []transferToHost

	tracker *dependencyTracker
}

// newJob wraps commandBuffer in a Job. When both queue and fence are
// non-nil the command buffer's recording begins immediately (mirroring
// Job.cpp's constructor, which only calls vkBeginCommandBuffer when it owns
// a real queue/fence pair); an externally-supplied command buffer is left
// alone for the caller to manage.
func newJob(m *Manager, cb *CommandBuffer, queue *Queue, fence *Fence) (*Job, error) {
	j := &Job{
		manager:                       m,
		commandBuffer:                 cb,
		computeQueue:                  queue,
		fence:                         fence,
		autoDataDependencyManagement:  true,
		tracker:                       newDependencyTracker(),
	}

	if queue != nil && fence != nil {
		if err := cb.Begin(); err != nil {
			return nil, wrapError(Recording, err, "begin command buffer")
		}
	}

	return j, nil
}

func (j *Job) CommandBuffer() *CommandBuffer { return j.commandBuffer }

// SetAutoDataDependencyManagement toggles whether AddTask validates and
// barriers pending bindings against the dispatched task's reflected access
// pattern. Defaults to true.
func (j *Job) SetAutoDataDependencyManagement(value bool) {
	j.autoDataDependencyManagement = value
}

func (j *Job) ensureRecording() error {
	if j.isSubmitted {
		return newError(IllegalState, "job is submitted and has not yet been awaited")
	}
	return nil
}

// UseResources binds a raw resource list to descriptor set index set. The
// descriptor set itself is allocated and written lazily, at the next
// AddTask call. Grounded on original_source/src/Job.cpp's useResources.
func (j *Job) UseResources(set int, resources []Resource) (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}
	j.setBinding(jobBinding{set: set, resources: resources})
	return j, nil
}

// UseResourceSet binds a pre-built ResourceSet to descriptor set index set.
func (j *Job) UseResourceSet(set int, rs *ResourceSet) (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}
	j.setBinding(jobBinding{set: set, resourceSet: rs})
	return j, nil
}

func (j *Job) setBinding(b jobBinding) {
	for i := range j.pendingBindings {
		if j.pendingBindings[i].set == b.set {
			j.pendingBindings[i] = b
			return
		}
	}
	j.pendingBindings = append(j.pendingBindings, b)
	sort.Slice(j.pendingBindings, func(a, c int) bool {
		return j.pendingBindings[a].set < j.pendingBindings[c].set
	})
}

// PushConstants stages data to be pushed to the compute shader's push
// constant block on the next dispatch. Replaced (not accumulated) on each
// call, matching original_source/src/Job.cpp's pushConstants.
func (j *Job) PushConstants(data []byte) (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}
	blob := make([]byte, len(data))
	copy(blob, data)
	j.pendingConstants = blob
	return j, nil
}

// AddTask records a bind-pipeline, bind-descriptor-sets, dispatch sequence
// for task with the given workgroup counts. Groups Y and Z default to 1
// through AddTask1D; callers dispatching in more than one dimension use
// AddTask directly. Grounded on original_source/src/Job.cpp's addTask.
func (j *Job) AddTask(task *Task, groupX, groupY, groupZ int) (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}

	if err := j.checkDataDependencyInPendingBindings(task); err != nil {
		return nil, err
	}

	j.commandBuffer.CmdBindComputePipeline(task.Pipeline())

	if err := j.bindPendingResources(task); err != nil {
		return nil, err
	}

	j.commandBuffer.CmdDispatch(groupX, groupY, groupZ)

	return j, nil
}

// AddTask1D is a convenience wrapper for the common one-dimensional
// dispatch case, defaulting groupY and groupZ to 1.
func (j *Job) AddTask1D(task *Task, groupX int) (*Job, error) {
	return j.AddTask(task, groupX, 1, 1)
}

// AddTaskWithResources binds each entry of resources to its index as a raw
// resource list, then dispatches task. Grounded on the resources-list
// overload of original_source/src/Job.h's addTask.
func (j *Job) AddTaskWithResources(task *Task, resources [][]Resource, groupX, groupY, groupZ int) (*Job, error) {
	for i, r := range resources {
		if _, err := j.UseResources(i, r); err != nil {
			return nil, err
		}
	}
	return j.AddTask(task, groupX, groupY, groupZ)
}

// AddTaskWithResourceSets binds each entry of resourceSets to its index,
// then dispatches task. Grounded on the ResourceSet-list overload of
// original_source/src/Job.h's addTask.
func (j *Job) AddTaskWithResourceSets(task *Task, resourceSets []*ResourceSet, groupX, groupY, groupZ int) (*Job, error) {
	for i, rs := range resourceSets {
		if _, err := j.UseResourceSet(i, rs); err != nil {
			return nil, err
		}
	}
	return j.AddTask(task, groupX, groupY, groupZ)
}

// checkDataDependencyInPendingBindings validates that every pending
// binding's resource count doesn't exceed what task's reflected layout
// declares at that set, then runs the coalesced set of (resource, access)
// pairs through the dependency tracker. A no-op when auto data-dependency
// management is disabled, matching original_source/src/Job.cpp's
// checkDataDependencyInPendingBindings, which returns immediately in that
// case (including skipping the size check).
func (j *Job) checkDataDependencyInPendingBindings(task *Task) error {
	if !j.autoDataDependencyManagement {
		return nil
	}

	var resources []Resource
	var accessTypes []AccessType

	for _, b := range j.pendingBindings {
		bindings := task.BindingsForSet(b.set)
		resList := b.list()
		if bindings == nil || len(resList) > len(bindings) {
			return newError(LayoutMismatch, "bound resources at set %d do not match the task's declared layout", b.set)
		}
		for i, r := range resList {
			resources = append(resources, r)
			accessTypes = append(accessTypes, bindings[i].Access)
		}
	}

	return j.tracker.check(j.commandBuffer, resources, stageTask, accessTypes)
}

// bindPendingResources binds every pending descriptor-set entry, coalescing
// contiguous set indices into as few vkCmdBindDescriptorSets calls as
// possible, then emits any pending push-constant update. Grounded on
// original_source/src/Job.cpp's bindPendingResources: walk pending bindings
// in ascending set order, accumulate a run of consecutive indices, flush
// with vkCmdBindDescriptorSets(firstSet, count) whenever the next index
// breaks contiguity, and flush the final run after the loop.
func (j *Job) bindPendingResources(task *Task) error {
	var accumulated []*DescriptorSet
	currentFirst := 0
	if len(j.pendingBindings) > 0 {
		currentFirst = j.pendingBindings[0].set
	}

	flush := func() {
		if len(accumulated) == 0 {
			return
		}
		j.commandBuffer.CmdBindDescriptorSets(vk.PipelineBindPointCompute, task.PipelineLayout(), currentFirst, accumulated...)
		accumulated = nil
	}

	for _, b := range j.pendingBindings {
		if b.set != currentFirst+len(accumulated) {
			flush()
			currentFirst = b.set
		}

		var ds *DescriptorSet
		if b.resourceSet != nil {
			ds = b.resourceSet.descriptorSet
		} else {
			layout := task.DescriptorSetLayout(b.set)
			if layout == nil {
				return newError(LayoutMismatch, "task has no descriptor set layout for set %d", b.set)
			}
			allocated, err := j.manager.descriptorPool.Allocate(layout)
			if err != nil {
				return wrapError(Allocation, err, "allocate descriptor set for set %d", b.set)
			}
			for i, r := range b.resources {
				switch res := r.(type) {
				case *Buffer:
					allocated.AddStorageBuffer(i, res)
				case *Image:
					allocated.AddStorageImage(i, res)
				}
			}
			allocated.Write()
			ds = allocated
		}
		accumulated = append(accumulated, ds)
	}
	flush()

	if len(j.pendingConstants) > 0 {
		j.commandBuffer.CmdPushConstants(task.PipelineLayout(), vk.ShaderStageFlags(vk.ShaderStageComputeBit), j.pendingConstants)
	}

	j.pendingBindings = nil
	j.pendingConstants = nil
	return nil
}

// SyncResourceToDevice stages data to be copied onto resource. For a
// DeviceLocal buffer this records an immediate device-side copy from its
// staging shadow (the shadow itself is filled at submit time) and runs the
// copy through the dependency tracker as a write; for Staging/Uniform
// buffers the host-visible memory is written directly at submit time. For
// an Image, passing nil data only transitions its layout to General (the
// layout every task dispatch expects); passing data additionally uploads it
// through the image's staging shadow. Grounded on
// original_source/src/Job.cpp's syncResourceToDevice.
func (j *Job) SyncResourceToDevice(resource Resource, data []byte) (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}

	switch res := resource.(type) {
	case *Buffer:
		size := res.ByteSize()
		if uint64(len(data)) < size {
			size = uint64(len(data))
		}

		if res.RequiresStaging() {
			j.preExecutionTransfers = append(j.preExecutionTransfers, transferToDevice{dst: res.HostVisible(), size: size, data: data})
			if err := j.tracker.check(j.commandBuffer, []Resource{res}, stageTransfer, []AccessType{AccessWrite}); err != nil {
				return nil, err
			}
			j.commandBuffer.CmdCopyBuffer(res.HostVisible().VKBuffer(), res.VKBuffer(), size)
		} else {
			j.preExecutionTransfers = append(j.preExecutionTransfers, transferToDevice{dst: res, size: size, data: data})
		}
		return j, nil

	case *Image:
		if data == nil {
			if err := cmdTransitionImage(j.commandBuffer, res, vk.ImageLayoutGeneral); err != nil {
				return nil, err
			}
			return j, nil
		}

		if uint64(len(data)) != res.ByteSize() {
			return nil, newError(SizeMismatch, "data size does not match image size")
		}

		j.preExecutionTransfers = append(j.preExecutionTransfers, transferToDevice{dst: res.shadow, size: res.ByteSize(), data: data})

		if err := cmdTransitionImage(j.commandBuffer, res, vk.ImageLayoutTransferDstOptimal); err != nil {
			return nil, err
		}
		j.commandBuffer.CmdCopyBufferToImage(res.shadow.VKBuffer(), res.VKImage(), vk.ImageLayoutTransferDstOptimal, res.Width(), res.Height())
		if err := cmdTransitionImage(j.commandBuffer, res, vk.ImageLayoutGeneral); err != nil {
			return nil, err
		}
		return j, nil

	default:
		return nil, newError(UnsupportedResourceType, "unsupported resource kind")
	}
}

// SyncResourceToHost stages a device-side copy of resource into data, to be
// completed once the job's fence signals (Await flushes it). Grounded on
// original_source/src/Job.cpp's syncResourceToHost.
func (j *Job) SyncResourceToHost(resource Resource, data []byte) (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}

	switch res := resource.(type) {
	case *Buffer:
		size := res.ByteSize()
		if uint64(len(data)) < size {
			size = uint64(len(data))
		}

		if res.RequiresStaging() {
			if err := j.tracker.check(j.commandBuffer, []Resource{res}, stageTransfer, []AccessType{AccessRead}); err != nil {
				return nil, err
			}
			j.commandBuffer.CmdCopyBuffer(res.VKBuffer(), res.HostVisible().VKBuffer(), size)
			j.postExecutionTransfers = append(j.postExecutionTransfers, transferToHost{src: res.HostVisible(), size: size, data: data})
		} else {
			j.postExecutionTransfers = append(j.postExecutionTransfers, transferToHost{src: res, size: size, data: data})
		}
		return j, nil

	case *Image:
		if uint64(len(data)) < res.ByteSize() {
			return nil, newError(SizeMismatch, "destination buffer is smaller than the image")
		}

		if err := cmdTransitionImage(j.commandBuffer, res, vk.ImageLayoutTransferSrcOptimal); err != nil {
			return nil, err
		}
		j.commandBuffer.CmdCopyImageToBuffer(res.VKImage(), vk.ImageLayoutTransferSrcOptimal, res.shadow.VKBuffer(), res.Width(), res.Height())
		if err := cmdTransitionImage(j.commandBuffer, res, vk.ImageLayoutGeneral); err != nil {
			return nil, err
		}
		j.postExecutionTransfers = append(j.postExecutionTransfers, transferToHost{src: res.shadow, size: res.ByteSize(), data: data})
		return j, nil

	default:
		return nil, newError(UnsupportedResourceType, "unsupported resource kind")
	}
}

// SyncResources records a device-side copy from src to dst: an image-to-
// image copy through the TransferSrc/TransferDst layouts for Images, or a
// tracked buffer-to-buffer copy for Buffers. Grounded on
// original_source/src/Job.cpp's syncResources.
func (j *Job) SyncResources(src, dst Resource) (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}

	switch s := src.(type) {
	case *Image:
		d, ok := dst.(*Image)
		if !ok {
			return nil, newError(UnsupportedSync, "cannot sync an image onto a non-image resource")
		}

		if err := cmdTransitionImage(j.commandBuffer, s, vk.ImageLayoutTransferSrcOptimal); err != nil {
			return nil, err
		}
		if err := cmdTransitionImage(j.commandBuffer, d, vk.ImageLayoutTransferDstOptimal); err != nil {
			return nil, err
		}
		j.commandBuffer.CmdCopyImage(s.VKImage(), s.Layout(), d.VKImage(), d.Layout(), minInt(s.Width(), d.Width()), minInt(s.Height(), d.Height()))
		if err := cmdTransitionImage(j.commandBuffer, s, vk.ImageLayoutGeneral); err != nil {
			return nil, err
		}
		if err := cmdTransitionImage(j.commandBuffer, d, vk.ImageLayoutGeneral); err != nil {
			return nil, err
		}
		return j, nil

	case *Buffer:
		d, ok := dst.(*Buffer)
		if !ok {
			return nil, newError(UnsupportedSync, "cannot sync a buffer onto a non-buffer resource")
		}

		if err := j.tracker.check(j.commandBuffer, []Resource{s, d}, stageTransfer, []AccessType{AccessRead, AccessWrite}); err != nil {
			return nil, err
		}
		size := s.ByteSize()
		if d.ByteSize() < size {
			size = d.ByteSize()
		}
		j.commandBuffer.CmdCopyBuffer(s.VKBuffer(), d.VKBuffer(), size)
		return j, nil

	default:
		return nil, newError(UnsupportedSync, "unsupported resource kind")
	}
}

// WaitForTasksFinish records a compute-shader-to-compute-shader memory
// barrier and clears the dependency tracker, forcing every subsequently
// dispatched task to wait on everything dispatched so far regardless of
// what the tracker would otherwise infer. Grounded on
// original_source/src/Job.cpp's waitForTasksFinish.
func (j *Job) WaitForTasksFinish() (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}
	j.tracker.reset()
	j.commandBuffer.CmdGlobalMemoryBarrier(
		vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit), vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit),
		vk.AccessFlags(vk.AccessShaderWriteBit), vk.AccessFlags(vk.AccessShaderReadBit|vk.AccessShaderWriteBit))
	return j, nil
}

// WaitAfterTransfers records a transfer-to-compute-shader memory barrier,
// ensuring dispatches recorded after this call see the effects of transfers
// recorded before it.
func (j *Job) WaitAfterTransfers() (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}
	j.commandBuffer.CmdGlobalMemoryBarrier(
		vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit),
		vk.AccessFlags(vk.AccessTransferWriteBit), vk.AccessFlags(vk.AccessShaderReadBit|vk.AccessShaderWriteBit))
	return j, nil
}

// WaitBeforeTransfers records a compute-shader-to-transfer memory barrier,
// ensuring transfers recorded after this call see the effects of dispatches
// recorded before it.
func (j *Job) WaitBeforeTransfers() (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}
	j.commandBuffer.CmdGlobalMemoryBarrier(
		vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.AccessFlags(vk.AccessShaderWriteBit), vk.AccessFlags(vk.AccessTransferReadBit))
	return j, nil
}

// AddMemoryBarrier records a manual global memory barrier, bypassing the
// dependency tracker entirely - an escape hatch for cases automatic
// tracking can't express.
func (j *Job) AddMemoryBarrier(srcStage vk.PipelineStageFlags, srcAccess vk.AccessFlags, dstStage vk.PipelineStageFlags, dstAccess vk.AccessFlags) (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}
	j.commandBuffer.CmdGlobalMemoryBarrier(srcStage, dstStage, srcAccess, dstAccess)
	return j, nil
}

// AddExecutionBarrier records a bare execution barrier (no memory access
// masks), ordering work on either side of it without any visibility
// guarantee.
func (j *Job) AddExecutionBarrier(srcStage, dstStage vk.PipelineStageFlags) (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}
	j.commandBuffer.CmdPipelineBarrier(srcStage, dstStage, nil, nil)
	return j, nil
}

// TransitionImageLayout manually transitions img to layout, bypassing
// whatever the dependency tracker or a sync call would otherwise infer.
func (j *Job) TransitionImageLayout(img *Image, layout vk.ImageLayout) (*Job, error) {
	if err := j.ensureRecording(); err != nil {
		return nil, err
	}
	if err := cmdTransitionImage(j.commandBuffer, img, layout); err != nil {
		return nil, err
	}
	return j, nil
}

// Submit ends recording (idempotently - later resubmits skip straight to
// queue submission), flushes staged pre-execution transfers into their
// destination host-visible memory, resets the fence, and submits the
// command buffer. If signal is true a signal semaphore is created on first
// use and reused across resubmits, and returned to the caller. Grounded on
// original_source/src/Job.cpp's submit: fence reset happens before
// vkQueueSubmit, and double-submission without an intervening await is
// IllegalState.
func (j *Job) Submit(signal bool, waitSemaphores ...*Semaphore) (*Semaphore, error) {
	if j.computeQueue == nil || j.fence == nil {
		return nil, newError(IllegalState, "cannot submit a job wrapping an externally-supplied command buffer")
	}
	if j.isSubmitted {
		return nil, newError(IllegalState, "job was submitted without an intervening await")
	}

	if !j.isRecorded {
		if err := j.commandBuffer.End(); err != nil {
			return nil, wrapError(Recording, err, "end command buffer")
		}
		j.isRecorded = true
	}

	if err := j.flushPreExecutionTransfers(); err != nil {
		return nil, err
	}

	if signal && j.signalSemaphore == nil {
		sem, err := j.manager.device.CreateSemaphore()
		if err != nil {
			return nil, wrapError(Submission, err, "create signal semaphore")
		}
		j.manager.semaphores = append(j.manager.semaphores, sem)
		j.signalSemaphore = sem
	}

	if err := vk.Error(vk.ResetFences(j.manager.device.VKDevice, 1, []vk.Fence{j.fence.VKFence})); err != nil {
		return nil, wrapError(Submission, err, "reset fence")
	}

	waits := make([]vk.Semaphore, len(waitSemaphores))
	for i, s := range waitSemaphores {
		waits[i] = s.VKSemaphore
	}

	var signals []vk.Semaphore
	if signal {
		signals = []vk.Semaphore{j.signalSemaphore.VKSemaphore}
	}

	if err := j.computeQueue.SubmitWithSemaphores(j.fence, waits, nil, signals, j.commandBuffer); err != nil {
		return nil, wrapError(Submission, err, "submit job")
	}

	j.isSubmitted = true

	if signal {
		return j.signalSemaphore, nil
	}
	return nil, nil
}

// Await blocks up to timeout for the job's fence to signal. On success it
// flushes staged post-execution transfers out of their source host-visible
// memory and clears the submitted flag so the job can be resubmitted. On
// timeout it returns (false, nil), matching original_source/src/Job.cpp's
// await, which treats VK_TIMEOUT as a non-error, incomplete result rather
// than an error.
func (j *Job) Await(timeout time.Duration) (bool, error) {
	if j.computeQueue == nil || j.fence == nil {
		return false, newError(IllegalState, "cannot await a job wrapping an externally-supplied command buffer")
	}

	res := vk.WaitForFences(j.manager.device.VKDevice, 1, []vk.Fence{j.fence.VKFence}, vk.True, uint64(timeout.Nanoseconds()))
	if res != vk.Success && res != vk.Timeout {
		return false, wrapError(Wait, vk.Error(res), "wait for job fence")
	}
	if res == vk.Timeout {
		return false, nil
	}

	if err := j.flushPostExecutionTransfers(); err != nil {
		return false, err
	}
	j.isSubmitted = false

	return true, nil
}

// IsComplete polls the job's fence without blocking.
func (j *Job) IsComplete() (bool, error) {
	return j.Await(0)
}

func (j *Job) flushPreExecutionTransfers() error {
	for _, t := range j.preExecutionTransfers {
		if err := copyDataToHostVisibleMemory(j.manager.allocator, t.dst, t.data[:t.size]); err != nil {
			return wrapError(Allocation, err, "flush pre-execution transfer")
		}
	}
	j.preExecutionTransfers = nil
	return nil
}

func (j *Job) flushPostExecutionTransfers() error {
	for _, t := range j.postExecutionTransfers {
		if err := copyDataFromHostVisibleMemory(j.manager.allocator, t.src, t.data[:t.size]); err != nil {
			return wrapError(Allocation, err, "flush post-execution transfer")
		}
	}
	j.postExecutionTransfers = nil
	return nil
}

// copyDataToHostVisibleMemory and copyDataFromHostVisibleMemory scope every
// mapping to the copy itself, unmapping on every exit path. Grounded on
// original_source/src/JobManager.cpp's copyDataToHostVisibleMemory/
// copyDataFromHostVisibleMemory.
func copyDataToHostVisibleMemory(alloc Allocator, b *Buffer, data []byte) error {
	ptr, err := alloc.MapMemory(bufferMem(b), uint64(len(data)))
	if err != nil {
		return err
	}
	defer alloc.UnmapMemory(bufferMem(b))
	copy(ToBytes(ptr, len(data)), data)
	return nil
}

func copyDataFromHostVisibleMemory(alloc Allocator, b *Buffer, data []byte) error {
	ptr, err := alloc.MapMemory(bufferMem(b), uint64(len(data)))
	if err != nil {
		return err
	}
	defer alloc.UnmapMemory(bufferMem(b))
	copy(data, ToBytes(ptr, len(data)))
	return nil
}

func bufferMem(b *Buffer) *AllocatedMemory { return b.mem }

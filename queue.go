package gpujob

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Queue struct {
	Device      *Device
	QueueFamily *QueueFamily
	VKQueue     vk.Queue
}

func (q *Queue) WaitIdle() error {
	return vk.Error(vk.QueueWaitIdle(q.VKQueue))
}

func (q *Queue) SubmitWaitIdle(buffers ...*CommandBuffer) error {
	var submitInfo = vk.SubmitInfo{}
	submitInfo.SType = vk.StructureTypeSubmitInfo
	submitInfo.CommandBufferCount = uint32(len(buffers)) // submit a single command buffer

	b := make([]vk.CommandBuffer, len(buffers))
	for i, _ := range buffers {
		b[i] = buffers[i].VKCommandBuffer
	}

	submitInfo.PCommandBuffers = b // the command buffer to submit.

	err := vk.Error(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, nil))
	if err != nil {
		return err
	}

	vk.QueueWaitIdle(q.VKQueue)

	return nil

}

func (q *Queue) SubmitWithFence(fence *Fence, buffers ...*CommandBuffer) error {
	var submitInfo = vk.SubmitInfo{}
	submitInfo.SType = vk.StructureTypeSubmitInfo
	submitInfo.CommandBufferCount = uint32(len(buffers)) // submit a single command buffer

	b := make([]vk.CommandBuffer, len(buffers))
	for i, _ := range buffers {
		b[i] = buffers[i].VKCommandBuffer
	}

	submitInfo.PCommandBuffers = b // the command buffer to submit.

	err := vk.Error(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, fence.VKFence))
	if err != nil {
		return err
	}

	return nil

}

// SubmitWithSemaphores submits buffers signaling fence on completion, after
// waiting on waitSemaphores (each gated at waitStages[i], defaulting to the
// compute-shader stage if waitStages is empty) and arranging for
// signalSemaphores to be signaled once the submission completes. Used by
// Job.Submit to support the caller-supplied wait-semaphore list and the
// lazily-created signal semaphore spec's submit([signal]) contract needs.
func (q *Queue) SubmitWithSemaphores(fence *Fence, waitSemaphores []vk.Semaphore, waitStages []vk.PipelineStageFlags, signalSemaphores []vk.Semaphore, buffers ...*CommandBuffer) error {
	b := make([]vk.CommandBuffer, len(buffers))
	for i := range buffers {
		b[i] = buffers[i].VKCommandBuffer
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: uint32(len(b)),
		PCommandBuffers:    b,
	}

	if len(waitSemaphores) > 0 {
		if len(waitStages) == 0 {
			waitStages = make([]vk.PipelineStageFlags, len(waitSemaphores))
			for i := range waitStages {
				waitStages[i] = vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit)
			}
		}
		submitInfo.WaitSemaphoreCount = uint32(len(waitSemaphores))
		submitInfo.PWaitSemaphores = waitSemaphores
		submitInfo.PWaitDstStageMask = waitStages
	}

	if len(signalSemaphores) > 0 {
		submitInfo.SignalSemaphoreCount = uint32(len(signalSemaphores))
		submitInfo.PSignalSemaphores = signalSemaphores
	}

	var vkFence vk.Fence
	if fence != nil {
		vkFence = fence.VKFence
	}

	return vk.Error(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{submitInfo}, vkFence))
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %s}", q.Device.String(), q.QueueFamily.String())
}

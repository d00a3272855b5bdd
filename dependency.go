package gpujob

import (
	vk "github.com/vulkan-go/vulkan"
)

// accessStage is the pipeline stage a resource access happened at, as far as
// the dependency tracker is concerned. Only two stages ever touch a
// resource in this job system: task dispatch and buffer/image transfer.
type accessStage int

const (
	stageNone accessStage = iota
	stageTransfer
	stageTask
)

func (s accessStage) pipelineStage() vk.PipelineStageFlags {
	switch s {
	case stageTask:
		return vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit)
	case stageTransfer:
		return vk.PipelineStageFlags(vk.PipelineStageTransferBit)
	default:
		return 0
	}
}

func accessMaskFor(stage accessStage, access AccessType) vk.AccessFlags {
	var a vk.AccessFlags
	switch stage {
	case stageTask:
		if access.IsRead() {
			a |= vk.AccessFlags(vk.AccessShaderReadBit)
		}
		if access.IsWrite() {
			a |= vk.AccessFlags(vk.AccessShaderWriteBit)
		}
	case stageTransfer:
		if access.IsRead() {
			a |= vk.AccessFlags(vk.AccessTransferReadBit)
		}
		if access.IsWrite() {
			a |= vk.AccessFlags(vk.AccessTransferWriteBit)
		}
	}
	return a
}

type resourceAccess struct {
	kind  AccessType
	stage accessStage
}

// dependencyTracker is the per-job record of each resource's most recent
// unguarded (not-yet-barriered) access. Grounded on
// original_source/src/Job.h/.cpp's unguardedResourceAccess map and
// checkDataDependency: images participate here via image-memory barriers,
// a deliberate departure from the original, which throws
// UnsupportedResourceType for images (see DESIGN.md's Open Questions).
type dependencyTracker struct {
	unguarded map[ResourceID]resourceAccess
}

func newDependencyTracker() *dependencyTracker {
	return &dependencyTracker{unguarded: map[ResourceID]resourceAccess{}}
}

func (t *dependencyTracker) reset() {
	t.unguarded = map[ResourceID]resourceAccess{}
}

// check coalesces resources/accessTypes by resource id (OR-ing repeated
// accesses to the same resource within this call), compares each against
// its last recorded unguarded access, and emits at most two pipeline
// barriers on cb: one bucket for resources last accessed by a task, one for
// resources last accessed by a transfer. Every resource's unguarded entry
// is overwritten with (access, stage) unconditionally, even when no barrier
// was needed for it - mirroring Job.cpp's checkDataDependency exactly.
func (t *dependencyTracker) check(cb *CommandBuffer, resources []Resource, stage accessStage, accessTypes []AccessType) error {
	if len(resources) != len(accessTypes) {
		return newError(IllegalState, "resource count does not match access type count")
	}

	type coalesced struct {
		resource Resource
		access   AccessType
	}
	order := make([]ResourceID, 0, len(resources))
	byID := map[ResourceID]*coalesced{}
	for i, r := range resources {
		if c, ok := byID[r.ID()]; ok {
			c.access |= accessTypes[i]
			continue
		}
		byID[r.ID()] = &coalesced{resource: r, access: accessTypes[i]}
		order = append(order, r.ID())
	}

	var taskBufferBarriers, transferBufferBarriers []vk.BufferMemoryBarrier
	var taskImageBarriers, transferImageBarriers []vk.ImageMemoryBarrier

	for _, id := range order {
		c := byID[id]
		prior, had := t.unguarded[id]

		needsBarrier := had && prior.kind != AccessNone && c.access != AccessNone &&
			!(prior.kind == AccessRead && c.access == AccessRead)

		if needsBarrier {
			srcAccess := accessMaskFor(prior.stage, prior.kind)
			dstAccess := accessMaskFor(stage, c.access)

			switch res := c.resource.(type) {
			case *Buffer:
				barrier := vk.BufferMemoryBarrier{
					SType:               vk.StructureTypeBufferMemoryBarrier,
					SrcAccessMask:       srcAccess,
					DstAccessMask:       dstAccess,
					SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
					DstQueueFamilyIndex: vk.QueueFamilyIgnored,
					Buffer:              res.VKBuffer(),
					Offset:              0,
					Size:                vk.DeviceSize(vk.WholeSize),
				}
				if prior.stage == stageTask {
					taskBufferBarriers = append(taskBufferBarriers, barrier)
				} else {
					transferBufferBarriers = append(transferBufferBarriers, barrier)
				}

			case *Image:
				barrier := vk.ImageMemoryBarrier{
					SType:               vk.StructureTypeImageMemoryBarrier,
					SrcAccessMask:       srcAccess,
					DstAccessMask:       dstAccess,
					OldLayout:           res.Layout(),
					NewLayout:           res.Layout(),
					SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
					DstQueueFamilyIndex: vk.QueueFamilyIgnored,
					Image:               res.VKImage(),
					SubresourceRange: vk.ImageSubresourceRange{
						AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
						LevelCount: 1,
						LayerCount: 1,
					},
				}
				if prior.stage == stageTask {
					taskImageBarriers = append(taskImageBarriers, barrier)
				} else {
					transferImageBarriers = append(transferImageBarriers, barrier)
				}

			default:
				return newError(UnsupportedResourceType, "unsupported resource kind in dependency tracker")
			}
		}

		t.unguarded[id] = resourceAccess{kind: c.access, stage: stage}
	}

	dstStage := stage.pipelineStage()

	if len(taskBufferBarriers) > 0 || len(taskImageBarriers) > 0 {
		cb.CmdPipelineBarrier(stageTask.pipelineStage(), dstStage, taskBufferBarriers, taskImageBarriers)
	}
	if len(transferBufferBarriers) > 0 || len(transferImageBarriers) > 0 {
		cb.CmdPipelineBarrier(stageTransfer.pipelineStage(), dstStage, transferBufferBarriers, transferImageBarriers)
	}

	return nil
}

package gpujob

import (
	vk "github.com/vulkan-go/vulkan"
)

// imageFormat is the single image format this job system supports. The
// original_source C++ uses VK_FORMAT_B8G8R8A8_UNORM; spec.md requires a
// single 4-channel 8-bit RGBA format instead, which takes precedence here
// (see DESIGN.md).
const imageFormat = vk.FormatR8g8b8a8Unorm

const bytesPerPixel = 4

// Image is a Resource backed by a vk.Image plus its view, along with a
// host-visible staging buffer shadow used to move pixel data on and off the
// device (images are never mapped directly). Tracks its own current Vulkan
// image layout so the dependency tracker and manual transitions agree on
// what barrier to insert next.
type Image struct {
	id        ResourceID
	device    *Device
	allocator Allocator

	vkImage     vk.Image
	vkImageView vk.ImageView
	mem         *AllocatedMemory

	width, height int
	layout        vk.ImageLayout

	shadow *Buffer
}

func (i *Image) ID() ResourceID     { return i.id }
func (i *Image) Kind() ResourceKind { return KindStorageImage }
func (i *Image) ByteSize() uint64   { return uint64(i.width * i.height * bytesPerPixel) }
func (i *Image) Width() int         { return i.width }
func (i *Image) Height() int        { return i.height }
func (i *Image) VKImage() vk.Image  { return i.vkImage }
func (i *Image) Layout() vk.ImageLayout {
	return i.layout
}

// DSInfo returns the descriptor-image-info this image should be bound with.
// Per original_source/src/JobManager.cpp's createDescriptorSet, storage
// image writes always use VK_IMAGE_LAYOUT_GENERAL.
func (i *Image) DSInfo() vk.DescriptorImageInfo {
	return vk.DescriptorImageInfo{
		ImageView:   i.vkImageView,
		ImageLayout: vk.ImageLayoutGeneral,
	}
}

func (i *Image) Destroy() {
	if i.shadow != nil {
		i.shadow.Destroy()
	}
	vk.DestroyImageView(i.device.VKDevice, i.vkImageView, nil)
	vk.DestroyImage(i.device.VKDevice, i.vkImage, nil)
	i.allocator.FreeMemory(i.mem)
}

// createImage allocates a storage image of the given dimensions plus its
// view and host-visible staging shadow. shadowID is the ResourceID assigned
// to the staging shadow, distinct from id so the two live resources never
// collide in the dependency tracker's per-ResourceID bookkeeping. Grounded
// on original_source/src/JobManager.cpp's createImage/createImageView.
func createImage(d *Device, alloc Allocator, id ResourceID, width, height int, shadowID ResourceID) (*Image, error) {
	usage := vk.ImageUsageFlags(vk.ImageUsageStorageBit | vk.ImageUsageTransferSrcBit | vk.ImageUsageTransferDstBit)

	extent := vk.Extent2D{Width: uint32(width), Height: uint32(height)}
	vkImg, mem, err := alloc.CreateImage(d, extent, imageFormat, vk.ImageTilingOptimal, usage,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit), 0)
	if err != nil {
		return nil, err
	}

	view, err := createImageView(d, vkImg, imageFormat)
	if err != nil {
		vk.DestroyImage(d.VKDevice, vkImg, nil)
		alloc.FreeMemory(mem)
		return nil, err
	}

	shadow, err := createBuffer(d, alloc, shadowID, BufferStaging, uint64(width*height*bytesPerPixel), 0)
	if err != nil {
		vk.DestroyImageView(d.VKDevice, view, nil)
		vk.DestroyImage(d.VKDevice, vkImg, nil)
		alloc.FreeMemory(mem)
		return nil, err
	}

	return &Image{
		id:          id,
		device:      d,
		allocator:   alloc,
		vkImage:     vkImg,
		vkImageView: view,
		mem:         mem,
		width:       width,
		height:      height,
		layout:      vk.ImageLayoutUndefined,
		shadow:      shadow,
	}, nil
}

func createImageView(d *Device, img vk.Image, format vk.Format) (vk.ImageView, error) {
	createInfo := &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleR,
			G: vk.ComponentSwizzleG,
			B: vk.ComponentSwizzleB,
			A: vk.ComponentSwizzleA,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	var view vk.ImageView
	if err := vk.Error(vk.CreateImageView(d.VKDevice, createInfo, nil, &view)); err != nil {
		return nil, wrapError(Allocation, err, "create image view")
	}
	return view, nil
}

// imageBarrierStages returns the access masks and pipeline stages for a
// transition between oldLayout and newLayout. Ported from
// original_source/src/JobManager.cpp's transitionImageLayout, the
// authoritative table for every Undefined/General/TransferSrc/TransferDst
// combination this job system exercises.
func imageBarrierStages(oldLayout, newLayout vk.ImageLayout) (srcAccess, dstAccess vk.AccessFlags, srcStage, dstStage vk.PipelineStageFlags, err error) {
	switch {
	case oldLayout == vk.ImageLayoutUndefined && newLayout == vk.ImageLayoutGeneral:
		return 0, vk.AccessFlags(vk.AccessShaderWriteBit | vk.AccessShaderReadBit),
			vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit), vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit), nil

	case oldLayout == vk.ImageLayoutUndefined && newLayout == vk.ImageLayoutTransferDstOptimal:
		return 0, vk.AccessFlags(vk.AccessTransferWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit), nil

	case oldLayout == vk.ImageLayoutGeneral && newLayout == vk.ImageLayoutTransferSrcOptimal:
		return vk.AccessFlags(vk.AccessShaderWriteBit), vk.AccessFlags(vk.AccessTransferReadBit),
			vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit), nil

	case oldLayout == vk.ImageLayoutGeneral && newLayout == vk.ImageLayoutTransferDstOptimal:
		return vk.AccessFlags(vk.AccessShaderWriteBit | vk.AccessShaderReadBit), vk.AccessFlags(vk.AccessTransferWriteBit),
			vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit), nil

	case oldLayout == vk.ImageLayoutTransferSrcOptimal && newLayout == vk.ImageLayoutGeneral:
		return vk.AccessFlags(vk.AccessTransferReadBit), vk.AccessFlags(vk.AccessShaderWriteBit | vk.AccessShaderReadBit),
			vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit), nil

	case oldLayout == vk.ImageLayoutTransferDstOptimal && newLayout == vk.ImageLayoutGeneral:
		return vk.AccessFlags(vk.AccessTransferWriteBit), vk.AccessFlags(vk.AccessShaderWriteBit | vk.AccessShaderReadBit),
			vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.PipelineStageFlags(vk.PipelineStageComputeShaderBit), nil

	case oldLayout == vk.ImageLayoutTransferDstOptimal && newLayout == vk.ImageLayoutTransferSrcOptimal:
		return vk.AccessFlags(vk.AccessTransferWriteBit), vk.AccessFlags(vk.AccessTransferReadBit),
			vk.PipelineStageFlags(vk.PipelineStageTransferBit), vk.PipelineStageFlags(vk.PipelineStageTransferBit), nil

	default:
		return 0, 0, 0, 0, newError(UnsupportedLayoutTransition,
			"unsupported image layout transition")
	}
}

// cmdTransitionImage records an image-memory barrier moving img from its
// currently tracked layout to newLayout, and updates img's tracked layout.
func cmdTransitionImage(cb *CommandBuffer, img *Image, newLayout vk.ImageLayout) error {
	if img.layout == newLayout {
		return nil
	}

	srcAccess, dstAccess, srcStage, dstStage, err := imageBarrierStages(img.layout, newLayout)
	if err != nil {
		return err
	}

	barrier := vk.ImageMemoryBarrier{
		SType:               vk.StructureTypeImageMemoryBarrier,
		OldLayout:           img.layout,
		NewLayout:           newLayout,
		SrcQueueFamilyIndex: vk.QueueFamilyIgnored,
		DstQueueFamilyIndex: vk.QueueFamilyIgnored,
		Image:               img.vkImage,
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}

	cb.CmdPipelineBarrier(srcStage, dstStage, nil, []vk.ImageMemoryBarrier{barrier})
	img.layout = newLayout
	return nil
}

package gpujob

import (
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// Allocator is the device-memory allocation strategy a Manager delegates to
// when creating buffers and images. Grounded on
// original_source/src/DeviceMemoryAllocator.h's DeviceMemoryAllocator
// interface (createBuffer/createImage/freeMemory/mapMemory/unmapMemory).
type Allocator interface {
	CreateBuffer(d *Device, size uint64, usage vk.BufferUsageFlags, properties, optionalProperties vk.MemoryPropertyFlags) (vk.Buffer, *AllocatedMemory, error)
	CreateImage(d *Device, extent vk.Extent2D, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags, properties, optionalProperties vk.MemoryPropertyFlags) (vk.Image, *AllocatedMemory, error)
	FreeMemory(mem *AllocatedMemory) error
	MapMemory(mem *AllocatedMemory, size uint64) (unsafe.Pointer, error)
	UnmapMemory(mem *AllocatedMemory) error
}

// SimpleAllocator performs exactly one device allocation per object, mirroring
// original_source/src/DeviceMemoryAllocator.h's SimpleDeviceMemoryAllocator.
// It is the default allocator a Manager uses unless a BlockAllocator is
// supplied.
type SimpleAllocator struct{}

func NewSimpleAllocator() *SimpleAllocator {
	return &SimpleAllocator{}
}

func (a *SimpleAllocator) CreateBuffer(d *Device, size uint64, usage vk.BufferUsageFlags, properties, optionalProperties vk.MemoryPropertyFlags) (vk.Buffer, *AllocatedMemory, error) {
	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	if err := vk.Error(vk.CreateBuffer(d.VKDevice, &bufferCreateInfo, nil, &buffer)); err != nil {
		return nil, nil, wrapError(Allocation, err, "create buffer of size %d", size)
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.VKDevice, buffer, &req)
	req.Deref()

	mem, err := d.Allocate(int(req.Size), req.MemoryTypeBits, properties, optionalProperties)
	if err != nil {
		vk.DestroyBuffer(d.VKDevice, buffer, nil)
		return nil, nil, wrapError(Allocation, err, "allocate memory for buffer of size %d", size)
	}

	if err := vk.Error(vk.BindBufferMemory(d.VKDevice, buffer, mem.VKDeviceMemory, 0)); err != nil {
		vk.DestroyBuffer(d.VKDevice, buffer, nil)
		mem.Destroy()
		return nil, nil, wrapError(Allocation, err, "bind buffer memory")
	}

	return buffer, &AllocatedMemory{Memory: mem, Offset: 0}, nil
}

func (a *SimpleAllocator) CreateImage(d *Device, extent vk.Extent2D, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags, properties, optionalProperties vk.MemoryPropertyFlags) (vk.Image, *AllocatedMemory, error) {
	imageInfo := vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        format,
		Tiling:        tiling,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         usage,
		Samples:       vk.SampleCount1Bit,
		SharingMode:   vk.SharingModeExclusive,
		MipLevels:     1,
		ArrayLayers:   1,
	}
	imageInfo.Extent.Width = extent.Width
	imageInfo.Extent.Height = extent.Height
	imageInfo.Extent.Depth = 1

	var image vk.Image
	if err := vk.Error(vk.CreateImage(d.VKDevice, &imageInfo, nil, &image)); err != nil {
		return nil, nil, wrapError(Allocation, err, "create image %dx%d", extent.Width, extent.Height)
	}

	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.VKDevice, image, &req)
	req.Deref()

	mem, err := d.Allocate(int(req.Size), req.MemoryTypeBits, properties, optionalProperties)
	if err != nil {
		vk.DestroyImage(d.VKDevice, image, nil)
		return nil, nil, wrapError(Allocation, err, "allocate memory for image %dx%d", extent.Width, extent.Height)
	}

	if err := vk.Error(vk.BindImageMemory(d.VKDevice, image, mem.VKDeviceMemory, 0)); err != nil {
		vk.DestroyImage(d.VKDevice, image, nil)
		mem.Destroy()
		return nil, nil, wrapError(Allocation, err, "bind image memory")
	}

	return image, &AllocatedMemory{Memory: mem, Offset: 0}, nil
}

func (a *SimpleAllocator) FreeMemory(mem *AllocatedMemory) error {
	mem.Memory.Destroy()
	return nil
}

func (a *SimpleAllocator) MapMemory(mem *AllocatedMemory, size uint64) (unsafe.Pointer, error) {
	return mem.Map(size)
}

func (a *SimpleAllocator) UnmapMemory(mem *AllocatedMemory) error {
	mem.Unmap()
	return nil
}

// BlockSuballocator is the collaborator contract for an external block-based
// allocator (the role original_source/src/DeviceMemoryAllocator.h's
// VMADeviceMemoryAllocator fills by wrapping AMD's VulkanMemoryAllocator, a C
// library with no Go binding anywhere in this module's dependency corpus).
// This package ships no concrete implementation; callers who want
// sub-allocated block memory provide their own and hand it to
// NewBlockAllocator.
type BlockSuballocator interface {
	// Allocate reserves size bytes of memory matching memoryTypeBits and
	// properties, returning the backing DeviceMemory, this allocation's
	// byte offset within it, and an opaque cookie to pass back to Free.
	Allocate(d *Device, size uint64, memoryTypeBits uint32, properties vk.MemoryPropertyFlags) (mem *DeviceMemory, offset uint64, cookie interface{}, err error)
	Free(cookie interface{}) error
}

// BlockAllocator delegates device-memory allocation to a BlockSuballocator,
// binding buffers/images at whatever offset the sub-allocator returns.
type BlockAllocator struct {
	Suballocator BlockSuballocator
}

func NewBlockAllocator(s BlockSuballocator) *BlockAllocator {
	return &BlockAllocator{Suballocator: s}
}

func (a *BlockAllocator) CreateBuffer(d *Device, size uint64, usage vk.BufferUsageFlags, properties, optionalProperties vk.MemoryPropertyFlags) (vk.Buffer, *AllocatedMemory, error) {
	bufferCreateInfo := vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        vk.DeviceSize(size),
		Usage:       usage,
		SharingMode: vk.SharingModeExclusive,
	}

	var buffer vk.Buffer
	if err := vk.Error(vk.CreateBuffer(d.VKDevice, &bufferCreateInfo, nil, &buffer)); err != nil {
		return nil, nil, wrapError(Allocation, err, "create buffer of size %d", size)
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(d.VKDevice, buffer, &req)
	req.Deref()

	mem, offset, cookie, err := a.Suballocator.Allocate(d, uint64(req.Size), req.MemoryTypeBits, properties)
	if err != nil {
		vk.DestroyBuffer(d.VKDevice, buffer, nil)
		return nil, nil, wrapError(Allocation, err, "sub-allocate memory for buffer of size %d", size)
	}

	if err := vk.Error(vk.BindBufferMemory(d.VKDevice, buffer, mem.VKDeviceMemory, vk.DeviceSize(offset))); err != nil {
		vk.DestroyBuffer(d.VKDevice, buffer, nil)
		a.Suballocator.Free(cookie)
		return nil, nil, wrapError(Allocation, err, "bind buffer memory")
	}

	return buffer, &AllocatedMemory{Memory: mem, Offset: offset, Cookie: cookie}, nil
}

func (a *BlockAllocator) CreateImage(d *Device, extent vk.Extent2D, format vk.Format, tiling vk.ImageTiling, usage vk.ImageUsageFlags, properties, optionalProperties vk.MemoryPropertyFlags) (vk.Image, *AllocatedMemory, error) {
	imageInfo := vk.ImageCreateInfo{
		SType:         vk.StructureTypeImageCreateInfo,
		ImageType:     vk.ImageType2d,
		Format:        format,
		Tiling:        tiling,
		InitialLayout: vk.ImageLayoutUndefined,
		Usage:         usage,
		Samples:       vk.SampleCount1Bit,
		SharingMode:   vk.SharingModeExclusive,
		MipLevels:     1,
		ArrayLayers:   1,
	}
	imageInfo.Extent.Width = extent.Width
	imageInfo.Extent.Height = extent.Height
	imageInfo.Extent.Depth = 1

	var image vk.Image
	if err := vk.Error(vk.CreateImage(d.VKDevice, &imageInfo, nil, &image)); err != nil {
		return nil, nil, wrapError(Allocation, err, "create image %dx%d", extent.Width, extent.Height)
	}

	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.VKDevice, image, &req)
	req.Deref()

	mem, offset, cookie, err := a.Suballocator.Allocate(d, uint64(req.Size), req.MemoryTypeBits, properties)
	if err != nil {
		vk.DestroyImage(d.VKDevice, image, nil)
		return nil, nil, wrapError(Allocation, err, "sub-allocate memory for image %dx%d", extent.Width, extent.Height)
	}

	if err := vk.Error(vk.BindImageMemory(d.VKDevice, image, mem.VKDeviceMemory, vk.DeviceSize(offset))); err != nil {
		vk.DestroyImage(d.VKDevice, image, nil)
		a.Suballocator.Free(cookie)
		return nil, nil, wrapError(Allocation, err, "bind image memory")
	}

	return image, &AllocatedMemory{Memory: mem, Offset: offset, Cookie: cookie}, nil
}

func (a *BlockAllocator) FreeMemory(mem *AllocatedMemory) error {
	return a.Suballocator.Free(mem.Cookie)
}

func (a *BlockAllocator) MapMemory(mem *AllocatedMemory, size uint64) (unsafe.Pointer, error) {
	return mem.Map(size)
}

func (a *BlockAllocator) UnmapMemory(mem *AllocatedMemory) error {
	mem.Unmap()
	return nil
}

// hostStagingProperties returns the memory property flags used for every
// staging-role allocation (Staging buffers, Uniform buffers, and image
// staging shadows): host-visible and host-coherent are required, host-cached
// is preferred when available. Mirrors the original's createBuffer passing
// VK_MEMORY_PROPERTY_HOST_CACHED_BIT as an optional property on top of
// HOST_VISIBLE|HOST_COHERENT, extended here to every staging-role allocation
// rather than just DeviceLocal's shadow.
func hostStagingProperties() (required, optional vk.MemoryPropertyFlags) {
	required = vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit)
	optional = vk.MemoryPropertyFlags(vk.MemoryPropertyHostCachedBit)
	return
}

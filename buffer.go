package gpujob

import (
	vk "github.com/vulkan-go/vulkan"
)

// BufferType selects a buffer's usage and memory-property profile. Mirrors
// original_source/src/Resources.h's Buffer::Type, extended with Uniform per
// the later JobManager.cpp usage (the header itself only names Local/Staging
// and is a stale snapshot).
type BufferType int

const (
	// DeviceLocal buffers live in fast device-local memory and are never
	// host-visible; moving data on or off them goes through a staging
	// shadow buffer.
	BufferDeviceLocal BufferType = iota
	// Staging buffers are host-visible/host-coherent (host-cached
	// preferred) and exist purely to shuttle data to/from DeviceLocal
	// buffers and images.
	BufferStaging
	// Uniform buffers are host-visible like Staging, but carry the
	// uniform-buffer usage bit for small, frequently-updated shader
	// parameters.
	BufferUniform
)

// Buffer is a Resource backed by a vk.Buffer. It implements Resource's
// common header (id/kind/size) directly; DeviceLocal buffers additionally
// carry a host-visible staging shadow used to move data on and off them.
type Buffer struct {
	id         ResourceID
	device     *Device
	allocator  Allocator
	bufferType BufferType
	vkBuffer   vk.Buffer
	size       uint64
	mem        *AllocatedMemory

	// shadow is the host-visible buffer SyncResourceToDevice/
	// SyncResourceToHost copy through for a DeviceLocal buffer. nil for
	// Staging/Uniform buffers, which are already host-visible.
	shadow *Buffer
}

func (b *Buffer) ID() ResourceID      { return b.id }
func (b *Buffer) Kind() ResourceKind  { return KindStorageBuffer }
func (b *Buffer) ByteSize() uint64    { return b.size }
func (b *Buffer) Type() BufferType    { return b.bufferType }
func (b *Buffer) VKBuffer() vk.Buffer { return b.vkBuffer }

// RequiresStaging reports whether this buffer needs its shadow copied
// through to move data to/from the host (true only for DeviceLocal).
func (b *Buffer) RequiresStaging() bool {
	return b.bufferType == BufferDeviceLocal
}

// HostVisible returns the buffer through which host data actually flows: the
// buffer itself for Staging/Uniform, or its shadow for DeviceLocal.
func (b *Buffer) HostVisible() *Buffer {
	if b.RequiresStaging() {
		return b.shadow
	}
	return b
}

// DSInfo returns the descriptor-buffer-info this buffer should be bound with.
// Per original_source/src/JobManager.cpp's createDescriptorSet, storage
// buffer writes always cover the whole range.
func (b *Buffer) DSInfo() vk.DescriptorBufferInfo {
	return vk.DescriptorBufferInfo{
		Buffer: b.vkBuffer,
		Offset: 0,
		Range:  vk.DeviceSize(vk.WholeSize),
	}
}

// Bytes maps this buffer's host-visible memory and returns a byte slice
// view over it. The buffer must be host-visible (Staging/Uniform, or the
// caller should use HostVisible().Bytes() for a DeviceLocal buffer).
func (b *Buffer) Bytes() ([]byte, error) {
	ptr, err := b.allocator.MapMemory(b.mem, b.size)
	if err != nil {
		return nil, wrapError(Allocation, err, "map buffer memory")
	}
	return ToBytes(ptr, int(b.size)), nil
}

func (b *Buffer) Unmap() error {
	return b.allocator.UnmapMemory(b.mem)
}

func (b *Buffer) Destroy() {
	if b.shadow != nil {
		b.shadow.Destroy()
	}
	vk.DestroyBuffer(b.device.VKDevice, b.vkBuffer, nil)
	b.allocator.FreeMemory(b.mem)
}

func bufferUsageFor(t BufferType) vk.BufferUsageFlags {
	switch t {
	case BufferUniform:
		return vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit | vk.BufferUsageTransferSrcBit | vk.BufferUsageTransferDstBit)
	case BufferStaging:
		return vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit | vk.BufferUsageTransferDstBit)
	default: // BufferDeviceLocal
		return vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit | vk.BufferUsageTransferSrcBit | vk.BufferUsageTransferDstBit)
	}
}

// createBuffer allocates a buffer of bufferType and size bytes through
// allocator, creating a host-visible staging shadow for DeviceLocal buffers.
// shadowID is only consumed when bufferType is DeviceLocal; every Resource
// gets its own monotonic ID, including a staging shadow, since the shadow is
// itself independently addressable (Buffer.HostVisible returns it directly)
// and the dependency tracker indexes accesses by ResourceID. Grounded on
// original_source/src/JobManager.cpp's createBuffer, which dispatches on
// buffer type to pick usage/property flags, and on hostStagingProperties for
// the host-cached-preferred memory search shared across every staging-role
// allocation.
func createBuffer(d *Device, alloc Allocator, id ResourceID, bufferType BufferType, size uint64, shadowID ResourceID) (*Buffer, error) {
	required, optional := propertiesFor(bufferType)

	vkBuf, mem, err := alloc.CreateBuffer(d, size, bufferUsageFor(bufferType), required, optional)
	if err != nil {
		return nil, err
	}

	b := &Buffer{
		id:         id,
		device:     d,
		allocator:  alloc,
		bufferType: bufferType,
		vkBuffer:   vkBuf,
		size:       size,
		mem:        mem,
	}

	if bufferType == BufferDeviceLocal {
		shadow, err := createBuffer(d, alloc, shadowID, BufferStaging, size, 0)
		if err != nil {
			b.Destroy()
			return nil, err
		}
		b.shadow = shadow
	}

	return b, nil
}

func propertiesFor(t BufferType) (required, optional vk.MemoryPropertyFlags) {
	switch t {
	case BufferDeviceLocal:
		return vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit), 0
	default: // Staging, Uniform
		return hostStagingProperties()
	}
}

package gpujob

import (
	"unsafe"
)

// ResourceKind distinguishes the two concrete resource variants a Task's
// descriptor layout can reflect: storage buffers and storage images. Sampled
// textures are rejected at reflection time (UnsupportedResourceType) - this
// job system only deals in read/write storage resources.
type ResourceKind int

const (
	KindStorageBuffer ResourceKind = iota
	KindStorageImage
)

func (k ResourceKind) String() string {
	if k == KindStorageImage {
		return "StorageImage"
	}
	return "StorageBuffer"
}

// AccessType flags how a task or transfer touches a resource. Mirrors the
// spirv-reflect decision table the original reflector uses: an unused
// binding contributes None, a binding decorated NonWritable contributes
// Read, everything else contributes Read|Write.
type AccessType int

const (
	AccessNone  AccessType = 0
	AccessRead  AccessType = 1 << 0
	AccessWrite AccessType = 1 << 1
)

func (a AccessType) IsRead() bool  { return a&AccessRead != 0 }
func (a AccessType) IsWrite() bool { return a&AccessWrite != 0 }

// ResourceID uniquely identifies a resource for the lifetime of the Manager
// that created it. Dependency tracking keys entirely off this id.
type ResourceID uint64

// Resource is the common interface shared by Buffer and Image. Go has no
// closed tagged union, so an interface with exactly these two production
// implementations is the idiomatic approximation: code that needs to act
// differently per variant uses a type switch over *Buffer/*Image rather than
// relying on virtual dispatch through additional interface methods.
type Resource interface {
	ID() ResourceID
	Kind() ResourceKind
	ByteSize() uint64
	Destroy()
}

// AllocatedMemory describes where a resource's backing memory lives. Offset
// is always relative to Memory and is applied by the Allocator when mapping,
// so callers never need to know whether the allocation came from a
// SimpleAllocator (Offset always 0) or a BlockAllocator (Offset generally
// nonzero).
type AllocatedMemory struct {
	Memory *DeviceMemory
	Offset uint64
	// Cookie is an opaque handle the owning Allocator uses to free this
	// allocation later; SimpleAllocator doesn't need it, BlockAllocator
	// does.
	Cookie interface{}
}

// Map maps this allocation's memory and returns a pointer already adjusted
// by Offset, so callers never need to reason about sub-allocation.
func (m *AllocatedMemory) Map(size uint64) (unsafe.Pointer, error) {
	return m.Memory.MapWithOffset(size, m.Offset)
}

func (m *AllocatedMemory) Unmap() {
	m.Memory.Unmap()
}

// resourceCounter hands out monotonically increasing ResourceIDs for a
// Manager. Kept as a tiny unexported type rather than a package global so
// each Manager's ids are independent.
type resourceCounter struct {
	next uint64
}

func (c *resourceCounter) nextID() ResourceID {
	c.next++
	return ResourceID(c.next)
}

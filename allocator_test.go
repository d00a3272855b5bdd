package gpujob

import (
	"log"
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func memProps(n int, flags ...vk.MemoryPropertyFlagBits) *vk.PhysicalDeviceMemoryProperties {
	var mp vk.PhysicalDeviceMemoryProperties
	mp.MemoryTypeCount = uint32(n)
	for i := 0; i < n; i++ {
		f := vk.MemoryPropertyFlagBits(0)
		if i < len(flags) {
			f = flags[i]
		}
		mp.MemoryTypes[i] = vk.MemoryType{PropertyFlags: vk.MemoryPropertyFlags(f)}
	}
	return &mp
}

func TestFindMemoryTypeIndexExactMatch(t *testing.T) {
	mp := memProps(3,
		vk.MemoryPropertyDeviceLocalBit,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit|vk.MemoryPropertyHostCachedBit,
	)

	idx, ok := findMemoryTypeIndex(mp, 0b111, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)
	if !ok {
		t.Fatal("expected a matching memory type")
	}
	// both type 1 and type 2 satisfy host-visible|host-coherent; the search
	// returns the first matching index.
	if idx != 1 {
		t.Errorf("expected index 1, got %d", idx)
	}
	log.Printf("matched memory type index %d", idx)
}

func TestFindMemoryTypeIndexRespectsTypeBitsMask(t *testing.T) {
	mp := memProps(2,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit,
		vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit,
	)

	// memoryTypeBits only advertises index 1, not index 0.
	idx, ok := findMemoryTypeIndex(mp, 0b10, vk.MemoryPropertyHostVisibleBit)
	if !ok {
		t.Fatal("expected a matching memory type")
	}
	if idx != 1 {
		t.Errorf("expected index 1, got %d", idx)
	}
}

func TestFindMemoryTypeIndexNoMatch(t *testing.T) {
	mp := memProps(1, vk.MemoryPropertyDeviceLocalBit)

	if _, ok := findMemoryTypeIndex(mp, 0b1, vk.MemoryPropertyHostVisibleBit); ok {
		t.Error("expected no matching memory type")
	}
}

// TestTwoTierFallback exercises the two-tier search findMemoryTypeIndex is
// composed into by PhysicalDevice.FindMemoryType: a device with no
// host-cached memory type should still resolve when host-cached is only
// optional.
func TestTwoTierFallback(t *testing.T) {
	mp := memProps(1, vk.MemoryPropertyHostVisibleBit|vk.MemoryPropertyHostCoherentBit)

	required := vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit
	optional := vk.MemoryPropertyHostCachedBit

	if _, ok := findMemoryTypeIndex(mp, 0b1, required|optional); ok {
		t.Fatal("first-tier search should not find a host-cached type on this fake device")
	}

	idx, ok := findMemoryTypeIndex(mp, 0b1, required)
	if !ok {
		t.Fatal("second-tier search (properties alone) should succeed")
	}
	if idx != 0 {
		t.Errorf("expected index 0, got %d", idx)
	}
}

package gpujob

import (
	vk "github.com/vulkan-go/vulkan"
)

// DescriptorSet is a binding of resources to a descriptor, per a specific DescriptorSetLayout
type DescriptorSet struct {
	Device               *Device
	DescriptorPool       *DescriptorPool
	VKDescriptorSet      vk.DescriptorSet
	VKWriteDiscriptorSet []vk.WriteDescriptorSet
}

func (d *Device) NewDescriptorSet() *DescriptorSet {
	return &DescriptorSet{Device: d}
}

// AddStorageBuffer binds b to dstBinding as a storage buffer, covering its
// whole range. Per original_source/src/JobManager.cpp's createDescriptorSet,
// storage buffer writes always use the whole range rather than a sub-range.
func (du *DescriptorSet) AddStorageBuffer(dstBinding int, b *Buffer) {
	info := b.DSInfo()

	var writeDescriptorSet = vk.WriteDescriptorSet{}
	writeDescriptorSet.SType = vk.StructureTypeWriteDescriptorSet
	writeDescriptorSet.DstBinding = uint32(dstBinding)
	writeDescriptorSet.DescriptorCount = 1
	writeDescriptorSet.DescriptorType = vk.DescriptorTypeStorageBuffer
	writeDescriptorSet.PBufferInfo = []vk.DescriptorBufferInfo{info}

	du.VKWriteDiscriptorSet = append(du.VKWriteDiscriptorSet, writeDescriptorSet)
}

// AddStorageImage binds img to dstBinding as a storage image. Per
// original_source/src/JobManager.cpp's createDescriptorSet, storage image
// writes always use VK_IMAGE_LAYOUT_GENERAL.
func (du *DescriptorSet) AddStorageImage(dstBinding int, img *Image) {
	info := img.DSInfo()

	var writeDescriptorSet = vk.WriteDescriptorSet{}
	writeDescriptorSet.SType = vk.StructureTypeWriteDescriptorSet
	writeDescriptorSet.DstBinding = uint32(dstBinding)
	writeDescriptorSet.DescriptorCount = 1
	writeDescriptorSet.DescriptorType = vk.DescriptorTypeStorageImage
	writeDescriptorSet.PImageInfo = []vk.DescriptorImageInfo{info}

	du.VKWriteDiscriptorSet = append(du.VKWriteDiscriptorSet, writeDescriptorSet)
}

// Write modifies the descriptor set
func (du *DescriptorSet) Write() {
	if len(du.VKWriteDiscriptorSet) == 0 {
		return
	}
	for i := range du.VKWriteDiscriptorSet {
		du.VKWriteDiscriptorSet[i].DstSet = du.VKDescriptorSet
	}
	vk.UpdateDescriptorSets(du.Device.VKDevice, uint32(len(du.VKWriteDiscriptorSet)), du.VKWriteDiscriptorSet, 0, nil)
}

package gpujob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestGroupBindingsBySet(t *testing.T) {
	bindings := []ReflectedBinding{
		{Set: 1, Binding: 1, Kind: KindStorageBuffer, Access: AccessRead},
		{Set: 0, Binding: 0, Kind: KindStorageBuffer, Access: AccessWrite},
		{Set: 1, Binding: 0, Kind: KindStorageImage, Access: AccessRead},
	}

	grouped := groupBindingsBySet(bindings)
	require.Len(t, grouped, 2)

	require.Len(t, grouped[0], 1)
	assert.Equal(t, 0, grouped[0][0].Binding)

	require.Len(t, grouped[1], 2)
	assert.Equal(t, 0, grouped[1][0].Binding, "bindings within a set sort ascending")
	assert.Equal(t, 1, grouped[1][1].Binding)
}

func TestGroupBindingsBySetEmpty(t *testing.T) {
	assert.Nil(t, groupBindingsBySet(nil))
}

func TestDescriptorTypeFor(t *testing.T) {
	assert.Equal(t, vk.DescriptorTypeStorageImage, descriptorTypeFor(KindStorageImage))
	assert.Equal(t, vk.DescriptorTypeStorageBuffer, descriptorTypeFor(KindStorageBuffer))
}

func TestBufferUsageForEveryType(t *testing.T) {
	local := bufferUsageFor(BufferDeviceLocal)
	assert.NotZero(t, local&vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit))

	staging := bufferUsageFor(BufferStaging)
	assert.Zero(t, staging&vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit))
	assert.NotZero(t, staging&vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit))

	uniform := bufferUsageFor(BufferUniform)
	assert.NotZero(t, uniform&vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit))
}

func TestPropertiesForDeviceLocalRequiresNoOptional(t *testing.T) {
	required, optional := propertiesFor(BufferDeviceLocal)
	assert.NotZero(t, required&vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	assert.Zero(t, optional)
}

func TestPropertiesForStagingAndUniformWantHostCached(t *testing.T) {
	for _, bt := range []BufferType{BufferStaging, BufferUniform} {
		required, optional := propertiesFor(bt)
		assert.NotZero(t, required&vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit))
		assert.NotZero(t, required&vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit))
		assert.NotZero(t, optional&vk.MemoryPropertyFlags(vk.MemoryPropertyHostCachedBit))
	}
}

func TestCacheComputeLimitsCopiesArrays(t *testing.T) {
	var props vk.PhysicalDeviceProperties
	props.Limits.MaxComputeSharedMemorySize = 32768
	props.Limits.MaxComputeWorkGroupInvocations = 1024
	props.Limits.MaxComputeWorkGroupCount = [3]uint32{65535, 65535, 65535}
	props.Limits.MaxComputeWorkGroupSize = [3]uint32{1024, 1024, 64}

	m := &Manager{physicalDevice: &PhysicalDevice{VKPhysicalDeviceProperties: props}}
	m.cacheComputeLimits()

	limits := m.ComputeLimits()
	assert.Equal(t, uint32(32768), limits.MaxComputeSharedMemorySize)
	assert.Equal(t, uint32(1024), limits.MaxComputeWorkGroupInvocations)
	assert.Equal(t, [3]uint32{65535, 65535, 65535}, limits.MaxComputeWorkGroupCount)
	assert.Equal(t, [3]uint32{1024, 1024, 64}, limits.MaxComputeWorkGroupSize)
}

package gpujob

import (
	vk "github.com/vulkan-go/vulkan"
)

// ResourceSet is a pre-bound descriptor set plus the ordered list of
// Resources it references, built once via Manager.CreateResourceSet and
// reused across dispatches to avoid allocating a fresh descriptor set on
// every bind. Grounded on original_source/src/JobManager.cpp's
// createResourceSet and Resources.h's ResourceSet.
type ResourceSet struct {
	descriptorSet *DescriptorSet
	layout        *DescriptorSetLayout
	resources     []Resource
}

// Resources returns the ordered resource list this set was built from, used
// by the dependency tracker and by checkDataDependencyInPendingBindings.
func (rs *ResourceSet) Resources() []Resource { return rs.resources }

func (rs *ResourceSet) VKDescriptorSet() vk.DescriptorSet { return rs.descriptorSet.VKDescriptorSet }

// Destroy releases this resource set's descriptor-set layout. The
// descriptor set itself is reclaimed when the manager's descriptor pool is
// destroyed.
func (rs *ResourceSet) Destroy() {
	rs.layout.Destroy()
}

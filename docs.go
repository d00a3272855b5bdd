/*
Package gpujob implements a compute-only job system on top of Vulkan. Vulkan
is a very powerful graphics and compute framework, but its explicitness comes
at a cost: instance/device bring-up, memory allocation, descriptor binding and
synchronization are all the application's responsibility. This package narrows
that surface down to exactly what a GPU compute pipeline needs: buffers,
images, compute shaders, and the barriers that keep them correct when chained
together, while staying out of anything related to presenting pixels to a
screen.

Overview

A Manager owns (or adopts) a Vulkan device, a descriptor pool, a command pool,
and a shader-module cache. From a Manager applications create:

	Task          a compiled compute shader plus its reflected descriptor
	              layout and push-constant size
	Buffer/Image  device resources, each with an optional host-visible
	              staging shadow for upload/download
	ResourceSet   a binding of concrete resources to a Task's descriptor
	              layout
	Job           a recorder of task dispatches, resource transfers and
	              explicit barriers, submitted to the compute queue and
	              awaited by the caller

Jobs are the unit of GPU work. A Job is built by recording a sequence of
AddTask/UseResources/SyncResourceToDevice/SyncResourceToHost calls; each call
writes its commands into the job's command buffer as it is made, with the
dependency tracker inserting pipeline barriers only where one is actually
needed between consecutive uses of the same resource. Submitting closes the
command buffer and hands it to the compute queue. A completed job may be
resubmitted as recorded, without re-allocating its command buffer.

Native Vulkan terms

	Instance        the vulkan runtime instance
	PhysicalDevice  the physical hardware device
	Device          a representation of the device which is the target of most of the vulkan apis
	Queue           a queue which work (command buffers) may be submitted to
	DeviceMemory    an allocation of memory on the host or device for use by buffers and images
	Buffer          a description of some bit of data used by a compute shader
	Image           a description of some image used by a compute shader
	ImageView       a way of describing how an image is utilized or viewed
	DescriptorSet   a mapping of data for use by shaders
	DescriptorSetLayout a description of what data is in the descriptor set

About this package

This package provides a basic set of APIs which wrap the Vulkan APIs needed
to drive compute work, trading away some of Vulkan's flexibility for a much
smaller and safer surface. Native vulkan structures are still exposed on
objects prefixed with 'VK' in the name, so applications aren't limited by
what this package provides when they need something it doesn't expose.

Manager:
	the job-system facade: creates tasks, resources, resource sets and jobs,
	and owns their teardown
Job:
	a recorder of GPU work with automatic data-dependency tracking
Allocator:
	a pluggable device-memory allocation strategy (one allocation per
	resource, or a caller-supplied block sub-allocator)

*/
package gpujob

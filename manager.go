package gpujob

import (
	"io/ioutil"

	vk "github.com/vulkan-go/vulkan"
)

// DeviceComputeLimits is a snapshot of the compute-relevant device limits,
// captured once at Manager construction. Grounded on
// original_source/src/JobManager.cpp's cacheComputeLimits.
type DeviceComputeLimits struct {
	MaxComputeSharedMemorySize     uint32
	MaxComputeWorkGroupCount       [3]uint32
	MaxComputeWorkGroupInvocations uint32
	MaxComputeWorkGroupSize        [3]uint32
}

type cachedShaderModule struct {
	module     *ShaderModule
	reflection *ShaderReflection
}

// Manager is the resource registry and facade: it owns the device's compute
// queue, descriptor pool, command pool, and shader-module cache, and every
// resource created through it, tearing all of it down in a fixed order on
// Destroy. Grounded on original_source/src/JobManager.h/.cpp, which plays
// the same role for the C++ original.
type Manager struct {
	manageInstance bool
	instance       *Instance
	physicalDevice *PhysicalDevice
	device         *Device
	queueFamily    *QueueFamily
	computeQueue   *Queue

	allocator      Allocator
	commandPool    *CommandPool
	descriptorPool *DescriptorPool
	pipelineCache  *PipelineCache
	computeLimits  DeviceComputeLimits

	ids resourceCounter

	shaderCache map[string]*cachedShaderModule

	fences       []*Fence
	semaphores   []*Semaphore
	buffers      []*Buffer
	images       []*Image
	tasks        []*Task
	resourceSets []*ResourceSet
}

// ManagerOptions configures Manager construction. Allocator defaults to a
// SimpleAllocator when nil.
type ManagerOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
	Allocator         Allocator
}

// NewManager brings up its own Vulkan instance and logical device, picking
// the first physical device advertising a queue family with both compute
// and transfer support. Mirrors original_source/src/JobManager.cpp's
// "manageInstance=true" constructor plus findQueueFamilies.
func NewManager(opts ManagerOptions) (*Manager, error) {
	if err := InitializeForComputeOnly(); err != nil {
		return nil, wrapError(DeviceInit, err, "initialize vulkan bindings")
	}

	app := &App{
		Name:              "gpujob",
		APIVersion:        Version{Major: 1},
		EnabledExtensions: opts.EnabledExtensions,
		EnabledLayers:     opts.EnabledLayers,
	}

	instance, err := app.CreateInstance()
	if err != nil {
		return nil, wrapError(DeviceInit, err, "create instance")
	}

	physicalDevices, err := instance.PhysicalDevices()
	if err != nil {
		return nil, wrapError(DeviceInit, err, "enumerate physical devices")
	}

	var pd *PhysicalDevice
	var qf *QueueFamily
	for _, candidate := range physicalDevices {
		families, err := candidate.QueueFamilies()
		if err != nil {
			continue
		}
		combined := families.FilterComputeAndTransfer()
		if len(combined) > 0 {
			pd = candidate
			qf = combined[0]
			break
		}
	}
	if pd == nil {
		return nil, newError(DeviceInit, "no physical device exposes a combined compute+transfer queue family")
	}

	device, err := pd.CreateLogicalDevice(QueueFamilySlice{qf})
	if err != nil {
		return nil, wrapError(DeviceInit, err, "create logical device")
	}

	m := &Manager{
		manageInstance: true,
		instance:       instance,
		physicalDevice: pd,
		queueFamily:    qf,
		device:         device,
		computeQueue:   device.GetQueue(qf),
		allocator:      opts.Allocator,
	}
	if m.allocator == nil {
		m.allocator = NewSimpleAllocator()
	}

	if err := m.init(); err != nil {
		return nil, err
	}
	return m, nil
}

// NewManagerWithDevice adopts a caller-supplied physical/logical device pair
// and queue family, skipping instance/device bring-up entirely. Mirrors
// original_source/src/JobManager.cpp's "manageInstance=false" constructor.
func NewManagerWithDevice(pd *PhysicalDevice, device *Device, qf *QueueFamily, allocator Allocator) (*Manager, error) {
	if err := InitializeForComputeOnly(); err != nil {
		return nil, wrapError(DeviceInit, err, "initialize vulkan bindings")
	}

	m := &Manager{
		manageInstance: false,
		physicalDevice: pd,
		queueFamily:    qf,
		device:         device,
		computeQueue:   device.GetQueue(qf),
		allocator:      allocator,
	}
	if m.allocator == nil {
		m.allocator = NewSimpleAllocator()
	}

	if err := m.init(); err != nil {
		return nil, err
	}
	return m, nil
}

// init runs the construction steps common to both constructors:
// compute-limits caching, then command pool and descriptor pool creation.
// Grounded on original_source/src/JobManager.cpp's initVulkan, whose
// instance/device bring-up is conditional on manageInstance but whose tail
// (cacheComputeLimits, createCommandPool, createDescriptorPool) always runs.
func (m *Manager) init() error {
	m.cacheComputeLimits()
	m.shaderCache = map[string]*cachedShaderModule{}

	cp, err := m.device.CreateCommandPool(m.queueFamily)
	if err != nil {
		return wrapError(DeviceInit, err, "create command pool")
	}
	m.commandPool = cp

	pool := m.device.NewDescriptorPool()
	pool.AddPoolSize(vk.DescriptorTypeStorageBuffer, 256)
	pool.AddPoolSize(vk.DescriptorTypeStorageImage, 256)
	if _, err := m.device.CreateDescriptorPool(pool, 256); err != nil {
		return wrapError(DeviceInit, err, "create descriptor pool")
	}
	m.descriptorPool = pool

	cache, err := m.device.CreatePipelineCache()
	if err != nil {
		return wrapError(DeviceInit, err, "create pipeline cache")
	}
	m.pipelineCache = cache

	return nil
}

func (m *Manager) cacheComputeLimits() {
	limits := m.physicalDevice.VKPhysicalDeviceProperties.Limits
	limits.Deref()

	m.computeLimits = DeviceComputeLimits{
		MaxComputeSharedMemorySize:     limits.MaxComputeSharedMemorySize,
		MaxComputeWorkGroupInvocations: limits.MaxComputeWorkGroupInvocations,
	}
	copy(m.computeLimits.MaxComputeWorkGroupCount[:], limits.MaxComputeWorkGroupCount[:])
	copy(m.computeLimits.MaxComputeWorkGroupSize[:], limits.MaxComputeWorkGroupSize[:])
}

// ComputeLimits returns the device compute-limits snapshot captured at
// construction.
func (m *Manager) ComputeLimits() DeviceComputeLimits { return m.computeLimits }

// Device exposes the underlying logical device, for collaborators (e.g. a
// caller building its own externally-supplied command buffer) that need it.
func (m *Manager) Device() *Device { return m.device }

// CreateTask reads (or reuses a cached) compiled compute shader at
// shaderPath, reflects its descriptor layout, and builds the pipeline plus
// pipeline layout. constants, if given, are laid out contiguously as
// specialization-constant entries in declaration order.
// Grounded on original_source/src/JobManager.cpp's _createTask.
func (m *Manager) CreateTask(shaderPath string, constants ...interface{}) (*Task, error) {
	sm, err := m.getShaderModule(shaderPath)
	if err != nil {
		return nil, err
	}

	grouped := groupBindingsBySet(sm.reflection.Bindings)

	descriptorSetLayouts := make([]*DescriptorSetLayout, len(grouped))
	for i, bindings := range grouped {
		layout := m.device.NewDescriptorSetLayout()
		for _, b := range bindings {
			layout.AddBinding(vk.DescriptorSetLayoutBinding{
				Binding:         uint32(b.Binding),
				DescriptorType:  descriptorTypeFor(b.Kind),
				DescriptorCount: 1,
				StageFlags:      vk.ShaderStageFlags(vk.ShaderStageComputeBit),
			})
		}
		created, err := m.device.CreateDescriptorSetLayout(layout)
		if err != nil {
			return nil, wrapError(Allocation, err, "create descriptor set layout for set %d", i)
		}
		descriptorSetLayouts[i] = created
	}

	var pushConstantRanges []vk.PushConstantRange
	if sm.reflection.PushConstantSize > 0 {
		pushConstantRanges = append(pushConstantRanges, vk.PushConstantRange{
			StageFlags: vk.ShaderStageFlags(vk.ShaderStageComputeBit),
			Offset:     0,
			Size:       uint32(sm.reflection.PushConstantSize),
		})
	}

	pipelineLayout, err := m.device.CreatePipelineLayoutWithPushConstants(descriptorSetLayouts, pushConstantRanges)
	if err != nil {
		return nil, wrapError(Allocation, err, "create pipeline layout")
	}

	pipeline := &ComputePipeline{}
	pipeline.SetPipelineLayout(pipelineLayout)
	pipeline.SetShaderStage("main", sm.module)
	if specInfo := buildSpecializationInfo(constants); specInfo != nil {
		pipeline.VKPipelineShaderStageCreateInfo.PSpecializationInfo = []vk.SpecializationInfo{*specInfo}
	}

	if err := m.device.CreateComputePipelines(m.pipelineCache, pipeline); err != nil {
		return nil, wrapError(Allocation, err, "create compute pipeline")
	}

	task := &Task{
		pipeline:             pipeline,
		pipelineLayout:       pipelineLayout,
		descriptorSetLayouts: descriptorSetLayouts,
		setBindings:          grouped,
		pushConstantSize:     sm.reflection.PushConstantSize,
	}
	m.tasks = append(m.tasks, task)
	return task, nil
}

func (m *Manager) getShaderModule(path string) (*cachedShaderModule, error) {
	if sm, ok := m.shaderCache[path]; ok {
		return sm, nil
	}

	code, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, wrapError(ShaderLoad, err, "read shader %q", path)
	}

	module, err := m.device.LoadShaderModuleFromFile(path)
	if err != nil {
		return nil, wrapError(ShaderLoad, err, "create shader module %q", path)
	}

	reflection, err := reflectSPIRV(code)
	if err != nil {
		return nil, err
	}

	sm := &cachedShaderModule{module: module, reflection: reflection}
	m.shaderCache[path] = sm
	return sm, nil
}

// CreateBuffer allocates a buffer of bufferType and size bytes through the
// manager's allocator, creating a host-visible staging shadow for
// DeviceLocal buffers.
func (m *Manager) CreateBuffer(size uint64, bufferType BufferType) (*Buffer, error) {
	id := m.ids.nextID()
	shadowID := m.ids.nextID()
	b, err := createBuffer(m.device, m.allocator, id, bufferType, size, shadowID)
	if err != nil {
		return nil, err
	}
	m.buffers = append(m.buffers, b)
	return b, nil
}

// CreateImage allocates a device-local storage image of the given
// dimensions, plus its view and host-visible staging shadow.
func (m *Manager) CreateImage(width, height int) (*Image, error) {
	id := m.ids.nextID()
	shadowID := m.ids.nextID()
	img, err := createImage(m.device, m.allocator, id, width, height, shadowID)
	if err != nil {
		return nil, err
	}
	m.images = append(m.images, img)
	return img, nil
}

// CreateResourceSet builds a descriptor-set layout matching resources'
// kinds, allocates a descriptor set from the pool, and writes the bindings.
// Grounded on original_source/src/JobManager.cpp's createResourceSet.
func (m *Manager) CreateResourceSet(resources []Resource) (*ResourceSet, error) {
	layout := m.device.NewDescriptorSetLayout()
	for i, r := range resources {
		layout.AddBinding(vk.DescriptorSetLayoutBinding{
			Binding:         uint32(i),
			DescriptorType:  descriptorTypeFor(r.Kind()),
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageComputeBit),
		})
	}

	created, err := m.device.CreateDescriptorSetLayout(layout)
	if err != nil {
		return nil, wrapError(Allocation, err, "create resource set layout")
	}

	ds, err := m.descriptorPool.Allocate(created)
	if err != nil {
		return nil, wrapError(Allocation, err, "allocate resource set descriptor set")
	}

	for i, r := range resources {
		switch res := r.(type) {
		case *Buffer:
			ds.AddStorageBuffer(i, res)
		case *Image:
			ds.AddStorageImage(i, res)
		default:
			return nil, newError(UnsupportedResourceType, "unsupported resource kind")
		}
	}
	ds.Write()

	rs := &ResourceSet{descriptorSet: ds, layout: created, resources: resources}
	m.resourceSets = append(m.resourceSets, rs)
	return rs, nil
}

// CreateJob allocates a primary command buffer and a signaled fence from the
// manager's pools and returns a new Job recording against them. Grounded on
// original_source/src/JobManager.cpp's createJob.
func (m *Manager) CreateJob() (*Job, error) {
	vkFence, err := m.device.VKCreateFence(true)
	if err != nil {
		return nil, wrapError(DeviceInit, err, "create job fence")
	}
	f := &Fence{Device: m.device, VKFence: vkFence}
	m.fences = append(m.fences, f)

	cb, err := m.commandPool.AllocateBuffer()
	if err != nil {
		return nil, wrapError(DeviceInit, err, "allocate job command buffer")
	}

	return newJob(m, cb, m.computeQueue, f)
}

// CreateJobWithCommandBuffer wraps an externally-supplied command buffer.
// The resulting Job has no queue or fence, so Submit/Await on it always
// fail with IllegalState - it exists purely to let a caller record
// resource-binding and dispatch commands into a command buffer they manage
// themselves.
func (m *Manager) CreateJobWithCommandBuffer(cb *CommandBuffer) (*Job, error) {
	return newJob(m, cb, nil, nil)
}

// Destroy tears down every resource this manager owns and, if it brought up
// its own instance/device, the instance/device too. Grounded on
// original_source/src/JobManager.cpp's cleanupVulkan/cleanupResources -
// exact teardown order preserved: fences, semaphores, buffers, images,
// resource sets, tasks (pipelines/pipeline layouts/descriptor-set layouts),
// then pools, shader modules, and finally device/instance if owned.
func (m *Manager) Destroy() {
	m.cleanupResources()

	m.device.DestroyAny(m.pipelineCache.VKPipelineCache)
	m.descriptorPool.Destroy()
	m.commandPool.Destroy()

	for _, sm := range m.shaderCache {
		sm.module.Destroy()
	}
	m.shaderCache = nil

	if m.manageInstance {
		m.device.Destroy()
		m.instance.Destroy()
	}
}

// CleanupResources destroys every resource created through this manager
// (fences, semaphores, buffers, images, resource sets, tasks) without
// tearing down the pools, shader cache, or device/instance. Grounded on
// original_source/src/JobManager.cpp's cleanupResources, which is exposed
// separately from full teardown so a long-lived manager can be reset.
func (m *Manager) CleanupResources() {
	m.cleanupResources()
}

func (m *Manager) cleanupResources() {
	for _, f := range m.fences {
		f.Destroy()
	}
	m.fences = nil

	for _, s := range m.semaphores {
		s.Destroy()
	}
	m.semaphores = nil

	for _, b := range m.buffers {
		b.Destroy()
	}
	m.buffers = nil

	for _, img := range m.images {
		img.Destroy()
	}
	m.images = nil

	for _, rs := range m.resourceSets {
		rs.Destroy()
	}
	m.resourceSets = nil

	for _, t := range m.tasks {
		t.Destroy()
	}
	m.tasks = nil
}

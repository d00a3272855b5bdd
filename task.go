package gpujob

import (
	"encoding/binary"
	"math"

	vk "github.com/vulkan-go/vulkan"
)

// Task is a compiled compute shader plus its reflected descriptor layout and
// push-constant size, immutable once returned by Manager.CreateTask.
// Grounded on original_source/src/JobManager.cpp's _createTask, which builds
// descriptor-set-layouts straight off the shader module's reflected layouts
// and stores the pipeline/pipelineLayout/layouts/access-flags together.
type Task struct {
	pipeline             *ComputePipeline
	pipelineLayout       *PipelineLayout
	descriptorSetLayouts []*DescriptorSetLayout
	setBindings          [][]ReflectedBinding
	pushConstantSize     int
}

func (t *Task) PipelineLayout() *PipelineLayout { return t.pipelineLayout }
func (t *Task) Pipeline() *ComputePipeline       { return t.pipeline }
func (t *Task) PushConstantSize() int            { return t.pushConstantSize }
func (t *Task) NumSets() int                     { return len(t.descriptorSetLayouts) }

// BindingsForSet returns the reflected bindings declared for descriptor set
// index, or nil if the task has no such set.
func (t *Task) BindingsForSet(set int) []ReflectedBinding {
	if set < 0 || set >= len(t.setBindings) {
		return nil
	}
	return t.setBindings[set]
}

func (t *Task) DescriptorSetLayout(set int) *DescriptorSetLayout {
	if set < 0 || set >= len(t.descriptorSetLayouts) {
		return nil
	}
	return t.descriptorSetLayouts[set]
}

func (t *Task) Destroy() {
	vk.DestroyPipeline(t.pipelineLayout.Device.VKDevice, t.pipeline.VKPipeline, nil)
	t.pipelineLayout.Destroy()
	for _, l := range t.descriptorSetLayouts {
		l.Destroy()
	}
}

// groupBindingsBySet turns a flat reflected-binding list into one slice per
// descriptor set index, sized to the highest set index seen plus one, and
// sorted by binding index within each set.
func groupBindingsBySet(bindings []ReflectedBinding) [][]ReflectedBinding {
	maxSet := -1
	for _, b := range bindings {
		if b.Set > maxSet {
			maxSet = b.Set
		}
	}
	if maxSet < 0 {
		return nil
	}

	grouped := make([][]ReflectedBinding, maxSet+1)
	for _, b := range bindings {
		grouped[b.Set] = append(grouped[b.Set], b)
	}
	for _, g := range grouped {
		for i := 1; i < len(g); i++ {
			for j := i; j > 0 && g[j-1].Binding > g[j].Binding; j-- {
				g[j-1], g[j] = g[j], g[j-1]
			}
		}
	}
	return grouped
}

func descriptorTypeFor(k ResourceKind) vk.DescriptorType {
	if k == KindStorageImage {
		return vk.DescriptorTypeStorageImage
	}
	return vk.DescriptorTypeStorageBuffer
}

// buildSpecializationInfo lays constants out contiguously in declaration
// order, each as a {constantID: i, offset, size} entry, matching spec's
// "createTask(shaderPath, optional specialization constants...)" wording.
// Supported constant types mirror what GLSL specialization constants can
// be: booleans and 32-bit integers/floats.
func buildSpecializationInfo(constants []interface{}) *vk.SpecializationInfo {
	if len(constants) == 0 {
		return nil
	}

	entries := make([]vk.SpecializationMapEntry, len(constants))
	data := make([]byte, 0, len(constants)*4)

	for i, c := range constants {
		var buf [4]byte
		switch v := c.(type) {
		case bool:
			if v {
				binary.LittleEndian.PutUint32(buf[:], 1)
			}
		case int:
			binary.LittleEndian.PutUint32(buf[:], uint32(int32(v)))
		case int32:
			binary.LittleEndian.PutUint32(buf[:], uint32(v))
		case uint32:
			binary.LittleEndian.PutUint32(buf[:], v)
		case float32:
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		default:
			// unsupported constant type: its 4 bytes are left zero; no
			// error is reported.
		}

		offset := len(data)
		data = append(data, buf[:]...)

		entries[i] = vk.SpecializationMapEntry{
			ConstantID: uint32(i),
			Offset:     uint32(offset),
			Size:       uint(4),
		}
	}

	return &vk.SpecializationInfo{
		MapEntryCount: uint32(len(entries)),
		PMapEntries:   entries,
		DataSize:      uint(len(data)),
		PData:         unsafePointerToBytes(data),
	}
}

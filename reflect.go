package gpujob

import (
	"encoding/binary"
)

// This file hand-rolls just enough of a SPIR-V binary parser to recover the
// descriptor-set bindings, their access patterns, and the push-constant
// block size a compute shader declares. No third-party Go SPIR-V reflection
// library exists anywhere in this module's example corpus (spirv-reflect
// itself is a C library the original wraps) - see DESIGN.md for the full
// justification of why this one component is stdlib-only.

const spirvMagic = 0x07230203

// SPIR-V opcodes this reflector understands. Unlisted opcodes are skipped
// structurally (their word count is used only to advance the cursor).
const (
	opName           = 5
	opMemberName     = 6
	opEntryPoint     = 15
	opTypeInt        = 21
	opTypeFloat      = 22
	opTypeVector     = 23
	opTypeImage      = 25
	opTypeArray      = 28
	opTypeRuntime    = 29
	opTypeStruct     = 30
	opTypePointer    = 32
	opVariable       = 59
	opDecorate       = 71
	opMemberDecorate = 72
)

// Decorations this reflector cares about.
const (
	decorationBlock         = 2
	decorationBufferBlock   = 3
	decorationArrayStride   = 6
	decorationOffset        = 35
	decorationNonWritable   = 24
	decorationDescriptorSet = 34
	decorationBinding       = 33
)

// Storage classes this reflector cares about.
const (
	storageClassUniformConstant = 0
	storageClassUniform         = 2
	storageClassPushConstant    = 9
	storageClassStorageBuffer   = 12
)

// ReflectedBinding describes one descriptor-set binding a shader declares.
type ReflectedBinding struct {
	Set     int
	Binding int
	Kind    ResourceKind
	Access  AccessType
}

// ShaderReflection is everything a Task needs to build its descriptor set
// layouts and pipeline layout from a compiled SPIR-V module.
type ShaderReflection struct {
	Bindings         []ReflectedBinding
	PushConstantSize int
}

type variableInfo struct {
	resultType   uint32
	storageClass uint32
}

// reflectSPIRV parses a SPIR-V binary and extracts its descriptor bindings
// and push-constant block size. Ported decision table (unused -> None,
// NonWritable -> Read, else Read|Write) from
// original_source/src/JobManager.cpp's reflectDescriptorSets/
// reflectPushConstantSize; the scanning mechanism itself has no analogue in
// the original, which delegates entirely to spirv-reflect.
func reflectSPIRV(code []byte) (*ShaderReflection, error) {
	words, err := wordsFromBytes(code)
	if err != nil {
		return nil, err
	}
	if len(words) < 5 || words[0] != spirvMagic {
		return nil, newError(ShaderReflect, "not a SPIR-V module")
	}

	body := words[5:]

	pointerPointee := map[uint32]uint32{}
	pointerStorageClass := map[uint32]uint32{}
	structTypes := map[uint32]bool{}
	structMemberTypes := map[uint32][]uint32{}
	imageSampled := map[uint32]uint32{}
	intWidth := map[uint32]uint32{}
	floatWidth := map[uint32]uint32{}
	vectorOf := map[uint32][2]uint32{} // [componentType, count]

	variables := map[uint32]variableInfo{}
	decorations := map[uint32]map[uint32][]uint32{}
	memberDecorations := map[uint32]map[uint32]map[uint32][]uint32{}
	usageCount := map[uint32]int{}

	i := 0
	for i < len(body) {
		word0 := body[i]
		wordCount := int(word0 >> 16)
		opcode := word0 & 0xffff
		if wordCount == 0 || i+wordCount > len(body) {
			return nil, newError(ShaderReflect, "malformed SPIR-V instruction stream")
		}
		operands := body[i+1 : i+wordCount]

		switch opcode {
		case opEntryPoint:
			idx := 2
			for idx < len(operands) {
				w := operands[idx]
				idx++
				if wordHasNulByte(w) {
					break
				}
			}
			for ; idx < len(operands); idx++ {
				usageCount[operands[idx]]++
			}

		case opTypePointer:
			resultID, storageClass, pointee := operands[0], operands[1], operands[2]
			pointerStorageClass[resultID] = storageClass
			pointerPointee[resultID] = pointee

		case opTypeStruct:
			resultID := operands[0]
			structTypes[resultID] = true
			structMemberTypes[resultID] = append([]uint32{}, operands[1:]...)

		case opTypeImage:
			resultID := operands[0]
			if len(operands) > 6 {
				imageSampled[resultID] = operands[6]
			}

		case opTypeInt:
			intWidth[operands[0]] = operands[1]

		case opTypeFloat:
			floatWidth[operands[0]] = operands[1]

		case opTypeVector:
			vectorOf[operands[0]] = [2]uint32{operands[1], operands[2]}

		case opVariable:
			resultType, resultID, storageClass := operands[0], operands[1], operands[2]
			variables[resultID] = variableInfo{resultType: resultType, storageClass: storageClass}

		case opDecorate:
			target, decoration := operands[0], operands[1]
			if decorations[target] == nil {
				decorations[target] = map[uint32][]uint32{}
			}
			decorations[target][decoration] = append([]uint32{}, operands[2:]...)

		case opMemberDecorate:
			target, member, decoration := operands[0], operands[1], operands[2]
			if memberDecorations[target] == nil {
				memberDecorations[target] = map[uint32]map[uint32][]uint32{}
			}
			if memberDecorations[target][member] == nil {
				memberDecorations[target][member] = map[uint32][]uint32{}
			}
			memberDecorations[target][member][decoration] = append([]uint32{}, operands[3:]...)
		}

		if !isDeclOrDecorateOpcode(opcode) {
			for _, w := range operands {
				if _, ok := variables[w]; ok {
					usageCount[w]++
				}
			}
		}

		i += wordCount
	}

	typeSize := func(id uint32) int {
		if w, ok := intWidth[id]; ok {
			return int(w / 8)
		}
		if w, ok := floatWidth[id]; ok {
			return int(w / 8)
		}
		if v, ok := vectorOf[id]; ok {
			component, count := v[0], v[1]
			compSize := 4
			if w, ok := intWidth[component]; ok {
				compSize = int(w / 8)
			} else if w, ok := floatWidth[component]; ok {
				compSize = int(w / 8)
			}
			return compSize * int(count)
		}
		// Unknown/aggregate member type (matrix, nested struct): fall back
		// to a conservative 4-byte estimate rather than failing reflection
		// outright - push constant blocks in this domain are small scalar/
		// vector parameter packs, not nested aggregates.
		return 4
	}

	var bindings []ReflectedBinding
	pushConstantSize := 0

	for varID, info := range variables {
		switch info.storageClass {
		case storageClassPushConstant:
			pointee := pointerPointee[info.resultType]
			members := structMemberTypes[pointee]
			for member, memberType := range members {
				offset := 0
				if md, ok := memberDecorations[pointee][uint32(member)][decorationOffset]; ok && len(md) > 0 {
					offset = int(md[0])
				}
				end := offset + typeSize(memberType)
				if end > pushConstantSize {
					pushConstantSize = end
				}
			}
			continue

		case storageClassUniformConstant, storageClassUniform, storageClassStorageBuffer:
			// fall through to descriptor binding handling below

		default:
			continue
		}

		pointee := pointerPointee[info.resultType]

		var kind ResourceKind
		nonWritable := false

		if sampled, ok := imageSampled[pointee]; ok {
			if sampled != 2 {
				return nil, newError(UnsupportedResourceType, "sampled textures are not supported, only storage images")
			}
			kind = KindStorageImage
			_, nonWritable = decorations[varID][decorationNonWritable]
		} else if structTypes[pointee] {
			kind = KindStorageBuffer
			if _, ok := memberDecorations[pointee][0][decorationNonWritable]; ok {
				nonWritable = true
			}
		} else {
			continue
		}

		setDec, hasSet := decorations[varID][decorationDescriptorSet]
		bindingDec, hasBinding := decorations[varID][decorationBinding]
		if !hasSet || !hasBinding {
			continue
		}

		access := AccessRead | AccessWrite
		if usageCount[varID] == 0 {
			access = AccessNone
		} else if nonWritable {
			access = AccessRead
		}

		bindings = append(bindings, ReflectedBinding{
			Set:     int(setDec[0]),
			Binding: int(bindingDec[0]),
			Kind:    kind,
			Access:  access,
		})
	}

	return &ShaderReflection{Bindings: bindings, PushConstantSize: pushConstantSize}, nil
}

func isDeclOrDecorateOpcode(opcode uint32) bool {
	switch opcode {
	case opName, opMemberName, opVariable, opDecorate, opMemberDecorate:
		return true
	}
	return false
}

func wordHasNulByte(w uint32) bool {
	return w&0xff == 0 || (w>>8)&0xff == 0 || (w>>16)&0xff == 0 || (w>>24)&0xff == 0
}

func wordsFromBytes(code []byte) ([]uint32, error) {
	if len(code)%4 != 0 {
		return nil, newError(ShaderReflect, "SPIR-V binary length is not a multiple of 4")
	}
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4 : i*4+4])
	}
	return words, nil
}

package shader

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownUniform is returned when a uniform name does not resolve to a field of the
// program's uniform block.
var ErrUnknownUniform = errors.New("shader: unknown uniform")

// UniformKind is the WGSL type of one addressable uniform field.
type UniformKind int

const (
	UniformKindInvalid UniformKind = iota
	UniformKindI32
	UniformKindU32
	UniformKindF32
	UniformKindVec2
	UniformKindVec3
	UniformKindVec4
	UniformKindMat4
)

var uniformKindByType = map[string]UniformKind{
	"i32":         UniformKindI32,
	"u32":         UniformKindU32,
	"f32":         UniformKindF32,
	"vec2<f32>":   UniformKindVec2,
	"vec2f":       UniformKindVec2,
	"vec3<f32>":   UniformKindVec3,
	"vec3f":       UniformKindVec3,
	"vec4<f32>":   UniformKindVec4,
	"vec4f":       UniformKindVec4,
	"mat4x4<f32>": UniformKindMat4,
	"mat4x4f":     UniformKindMat4,
}

// String returns the WGSL spelling of the kind.
func (k UniformKind) String() string {
	switch k {
	case UniformKindI32:
		return "i32"
	case UniformKindU32:
		return "u32"
	case UniformKindF32:
		return "f32"
	case UniformKindVec2:
		return "vec2<f32>"
	case UniformKindVec3:
		return "vec3<f32>"
	case UniformKindVec4:
		return "vec4<f32>"
	case UniformKindMat4:
		return "mat4x4<f32>"
	default:
		return "invalid"
	}
}

// size returns the number of bytes a setter writes for the kind.
func (k UniformKind) size() uint32 {
	switch k {
	case UniformKindI32, UniformKindU32, UniformKindF32:
		return 4
	case UniformKindVec2:
		return 8
	case UniformKindVec3:
		return 12
	case UniformKindVec4:
		return 16
	case UniformKindMat4:
		return 64
	default:
		return 0
	}
}

// UniformKey addresses one uniform field.
//
//	numPointLights                -> {"", 0, "numPointLights"}
//	material.shininess            -> {"material", 0, "shininess"}
//	pointLights[2].position       -> {"pointLights", 2, "position"}
//	weights[3]                    -> {"weights", 3, ""}
type UniformKey struct {
	Category string
	Index    int
	Field    string
}

// String formats the key the way it would be written in a Locate call.
func (k UniformKey) String() string {
	switch {
	case k.Category == "":
		return k.Field
	case k.Field == "":
		return fmt.Sprintf("%s[%d]", k.Category, k.Index)
	default:
		return fmt.Sprintf("%s[%d].%s", k.Category, k.Index, k.Field)
	}
}

// UniformHandle is a resolved uniform location. The zero value is invalid and every setter
// ignores it.
type UniformHandle struct {
	offset uint32
	kind   UniformKind
}

// Valid reports whether the handle refers to a field.
func (h UniformHandle) Valid() bool { return h.kind != UniformKindInvalid }

// Offset returns the byte offset of the field inside the uniform block.
func (h UniformHandle) Offset() uint32 { return h.offset }

// Kind returns the WGSL type of the field.
func (h UniformHandle) Kind() UniformKind { return h.kind }

// UniformTable maps every addressable field of a uniform struct to its byte offset. It is
// built once per program from the struct layout, so writing a uniform each frame is a
// copy at a cached offset.
type UniformTable struct {
	size    uint32
	handles map[UniformKey]UniformHandle
}

// newUniformTable flattens the named struct. Primitive members, members of nested structs,
// and elements of fixed size arrays each become one key. Members of a struct nested deeper
// than one level are joined with dots in Field.
func newUniformTable(resolver *layoutResolver, structName string) (*UniformTable, error) {
	sl, ok := resolver.structLayout(structName)
	if !ok {
		return nil, fmt.Errorf("shader: cannot lay out uniform struct %q", structName)
	}
	t := &UniformTable{
		size:    uint32(sl.size),
		handles: make(map[UniformKey]UniformHandle),
	}
	for _, f := range sl.fields {
		t.addMember(resolver, f)
	}
	return t, nil
}

func (t *UniformTable) addMember(resolver *layoutResolver, f placedField) {
	if kind, ok := uniformKindByType[f.typeName]; ok {
		t.handles[UniformKey{Field: f.name}] = UniformHandle{offset: uint32(f.offset), kind: kind}
		return
	}
	if elem, count, ok := arrayType(f.typeName); ok {
		el, ok := resolver.resolve(elem)
		if !ok {
			return
		}
		stride := roundUpAlign(el.align, el.size)
		for i := 0; i < int(count); i++ {
			base := f.offset + uint64(i)*stride
			if kind, ok := uniformKindByType[elem]; ok {
				t.handles[UniformKey{Category: f.name, Index: i}] = UniformHandle{offset: uint32(base), kind: kind}
				continue
			}
			t.addStruct(resolver, f.name, i, "", elem, base)
		}
		return
	}
	t.addStruct(resolver, f.name, 0, "", f.typeName, f.offset)
}

func (t *UniformTable) addStruct(resolver *layoutResolver, category string, index int, prefix, structName string, base uint64) {
	sl, ok := resolver.structLayout(structName)
	if !ok {
		return
	}
	for _, f := range sl.fields {
		name := f.name
		if prefix != "" {
			name = prefix + "." + f.name
		}
		if kind, ok := uniformKindByType[f.typeName]; ok {
			t.handles[UniformKey{Category: category, Index: index, Field: name}] = UniformHandle{offset: uint32(base + f.offset), kind: kind}
			continue
		}
		t.addStruct(resolver, category, index, name, f.typeName, base+f.offset)
	}
}

// Size returns the byte size of the uniform block.
func (t *UniformTable) Size() uint32 {
	return t.size
}

// Len returns the number of addressable fields.
func (t *UniformTable) Len() int {
	return len(t.handles)
}

// Handle returns the handle for key, or an invalid handle when the table has no such field.
//
// Parameters:
//   - key: the (category, index, field) triple
//
// Returns:
//   - UniformHandle: the handle
func (t *UniformTable) Handle(key UniformKey) UniformHandle {
	return t.handles[key]
}

// Locate parses a GLSL style uniform name and returns its handle.
//
// Parameters:
//   - name: e.g. "view", "material.shininess" or "directionalLights[1].lightSpaceMatrix"
//
// Returns:
//   - UniformHandle: the handle
//   - error: ErrUnknownUniform when the name is malformed or has no field
func (t *UniformTable) Locate(name string) (UniformHandle, error) {
	key, err := ParseUniformName(name)
	if err != nil {
		return UniformHandle{}, err
	}
	h, ok := t.handles[key]
	if !ok {
		return UniformHandle{}, fmt.Errorf("%w: %q", ErrUnknownUniform, name)
	}
	return h, nil
}

// Keys returns every key in the table ordered by offset.
func (t *UniformTable) Keys() []UniformKey {
	keys := make([]UniformKey, 0, len(t.handles))
	for k := range t.handles {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return t.handles[keys[i]].offset < t.handles[keys[j]].offset
	})
	return keys
}

// ParseUniformName converts a name such as "pointLights[2].position" into a UniformKey.
//
// Parameters:
//   - name: the uniform name
//
// Returns:
//   - UniformKey: the parsed key
//   - error: ErrUnknownUniform when the name is malformed
func ParseUniformName(name string) (UniformKey, error) {
	bad := func() (UniformKey, error) {
		return UniformKey{}, fmt.Errorf("%w: malformed name %q", ErrUnknownUniform, name)
	}
	if name == "" {
		return bad()
	}

	head, field, hasField := strings.Cut(name, ".")
	if hasField && field == "" {
		return bad()
	}

	open := strings.IndexByte(head, '[')
	if open < 0 {
		if !hasField {
			return UniformKey{Field: head}, nil
		}
		return UniformKey{Category: head, Field: field}, nil
	}
	if open == 0 || !strings.HasSuffix(head, "]") {
		return bad()
	}
	index, err := strconv.Atoi(head[open+1 : len(head)-1])
	if err != nil || index < 0 {
		return bad()
	}
	return UniformKey{Category: head[:open], Index: index, Field: field}, nil
}

package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// sampledTextureInfo holds the view dimension and multisampled flag for a sampled texture type
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// wgslTypeLayout holds the byte size and alignment of a WGSL type in the uniform address space.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

// placedField is a struct member together with its resolved byte offset inside the struct.
type placedField struct {
	name     string
	typeName string
	offset   uint64
	layout   wgslTypeLayout
}

// structLayout is a struct whose members have all been placed.
type structLayout struct {
	wgslTypeLayout
	fields []placedField
}

// resourceDecl is one @group/@binding variable declaration.
type resourceDecl struct {
	group        int
	binding      int
	addressSpace string
	varName      string
	typeName     string
}

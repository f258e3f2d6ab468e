// annotations.go defines the annotation syntax understood by the WGSL pre-processor.
// Annotations are single-line WGSL comments prefixed with @tellurion: and are removed
// from the source handed to the GPU.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies an annotation within a WGSL comment line.
const annotationPrefix = "@tellurion:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects the WGSL source of a registered struct definition at
	// the annotation site. Including the same struct twice emits it once.
	//
	// Syntax: //@tellurion:include <struct>
	//
	// Example: //@tellurion:include directional_light
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeUnfilterable marks a texture_2d<f32> binding as holding a format that
	// cannot be filtered (RG32Float moment maps). Shaders read such textures with textureLoad.
	//
	// Syntax: //@tellurion:unfilterable <group> <binding>
	//
	// Example: //@tellurion:unfilterable 1 7
	AnnotationTypeUnfilterable AnnotationType = "unfilterable"
)

// AnnotationArg is a registered struct name accepted by the include annotation.
type AnnotationArg string

const (
	AnnotationArgVertex           AnnotationArg = "vertex"
	AnnotationArgMaterial         AnnotationArg = "material"
	AnnotationArgDirectionalLight AnnotationArg = "directional_light"
	AnnotationArgPointLight       AnnotationArg = "point_light"
)

// Annotation is one parsed annotation line.
type Annotation struct {
	Type AnnotationType

	// Arg is the struct name of an include annotation.
	Arg AnnotationArg

	// Line is the 1-based source line, for error reporting.
	Line int

	// Group and Binding are set for unfilterable annotations.
	Group   int
	Binding int
}

// parseAnnotation parses a single line of WGSL. Lines without the annotation prefix return
// (nil, nil).
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	after, ok := strings.CutPrefix(strings.TrimSpace(trimmed[2:]), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case AnnotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: include annotation requires exactly one argument", lineNum)
		}
		return &Annotation{Type: AnnotationTypeInclude, Arg: AnnotationArg(args[1]), Line: lineNum}, nil
	case AnnotationTypeUnfilterable:
		if len(args) != 3 {
			return nil, fmt.Errorf("line %d: unfilterable annotation requires group and binding", lineNum)
		}
		group, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q: %w", lineNum, args[1], err)
		}
		binding, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q: %w", lineNum, args[2], err)
		}
		return &Annotation{Type: AnnotationTypeUnfilterable, Line: lineNum, Group: group, Binding: binding}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown annotation type %q", lineNum, args[0])
	}
}

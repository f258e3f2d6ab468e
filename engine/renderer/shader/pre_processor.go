package shader

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/tellurion/engine/light"
)

// VertexSource is the WGSL VertexInput struct matching model.Vertex.
//
//go:embed assets/vertex.wgsl
var VertexSource string

// MaterialSource is the WGSL Material struct written by the composite pass.
//
//go:embed assets/material.wgsl
var MaterialSource string

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	registry     map[AnnotationArg]string
	unfilterable map[[2]int]bool
}

// PreProcessor expands @tellurion: annotations in WGSL source.
type PreProcessor interface {
	// Process replaces include annotations with the registered struct source and records
	// unfilterable annotations. Every annotation line is removed from the output.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an error if an annotation is malformed or names an unknown struct
	Process(source string) (string, error)

	// Unfilterable returns the group/binding pairs marked unfilterable by the most recent Process call.
	//
	// Returns:
	//   - map[[2]int]bool: set of {group, binding}
	Unfilterable() map[[2]int]bool
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the engine's struct sources registered.
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		registry: map[AnnotationArg]string{
			AnnotationArgVertex:           VertexSource,
			AnnotationArgMaterial:         MaterialSource,
			AnnotationArgDirectionalLight: light.DirectionalLightSource,
			AnnotationArgPointLight:       light.PointLightSource,
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.unfilterable = make(map[[2]int]bool)
	included := make(map[AnnotationArg]bool)

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			src, ok := p.registry[a.Arg]
			if !ok {
				return "", fmt.Errorf("line %d: unknown include %q", a.Line, a.Arg)
			}
			if !included[a.Arg] {
				out = append(out, strings.TrimRight(src, "\n"))
				included[a.Arg] = true
			}
		case AnnotationTypeUnfilterable:
			p.unfilterable[[2]int{a.Group, a.Binding}] = true
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Unfilterable() map[[2]int]bool {
	return p.unfilterable
}

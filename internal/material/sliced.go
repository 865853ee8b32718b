package material

import (
	"fmt"
	"sync"
)

// Uniform is a shared, mutable shader parameter. Materials hold pointers so that an
// edit is seen by every program bound to the same set.
type Uniform struct {
	Value float32
}

type Uniforms map[string]*Uniform

const (
	UniformSliceStart = "uSliceStart"
	UniformSliceArc   = "uSliceArc"

	DefaultSliceStart = 1.75
	DefaultSliceArc   = 1.25
)

// SliceKeyword is the statement a custom fragment writes to get the back-face patch.
const SliceKeyword = "csm_Slice"

// SlicePatches paints back faces a flat light gray, after color-space conversion, so
// the inside of a cut reads as a solid cross-section.
var SlicePatches = PatchMap{
	SliceKeyword: {
		"#include <colorspace_fragment>": `#include <colorspace_fragment>
    if (!gl_FrontFacing) FragColor = vec4(0.8, 0.8, 0.8, 1.0);`,
	},
}

type BaseKind int

const (
	BasePhysical BaseKind = iota
	BaseDepth
)

// ShaderMaterial is a composed program bound to a uniform set.
type ShaderMaterial struct {
	Name     string
	Base     BaseKind
	Physical *Physical
	Uniforms Uniforms

	mu      *sync.RWMutex
	program *Program
	version *int
	twin    *ShaderMaterial
}

func (m *ShaderMaterial) MaterialName() string { return m.Name }

func (m *ShaderMaterial) IsTransparent() bool {
	return m.Physical != nil && m.Physical.Transparent
}

// Version changes whenever Program does.
func (m *ShaderMaterial) Version() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.version
}

// Source returns the current composed sources with the version they belong to.
func (m *ShaderMaterial) Source() (Program, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.program, *m.version
}

// Twin is the other view of the same sliced material, or nil. Twins must be built
// into GPU programs together.
func (m *ShaderMaterial) Twin() *ShaderMaterial { return m.twin }

// Program returns the current composed sources.
func (m *ShaderMaterial) Program() Program {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return *m.program
}

// SlicedMaterial is a physical material with a slice cut out of it. It owns one
// uniform set; its visible and depth views both reference it, so the cut in the
// shadow matches the cut in the surface.
type SlicedMaterial struct {
	Physical *Physical
	Uniforms Uniforms

	mu      sync.RWMutex
	custom  Program
	chunks  Chunks
	visible ShaderMaterial
	depth   ShaderMaterial
	visProg Program
	depProg Program
	version int
}

// NewSliced composes the visible and depth programs from the given custom sources.
func NewSliced(physical *Physical, custom Program, chunks Chunks) (*SlicedMaterial, error) {
	if physical == nil {
		return nil, fmt.Errorf("sliced material: nil physical descriptor")
	}
	if chunks == nil {
		chunks = DefaultChunks
	}

	s := &SlicedMaterial{
		Physical: physical,
		Uniforms: Uniforms{
			UniformSliceStart: {Value: DefaultSliceStart},
			UniformSliceArc:   {Value: DefaultSliceArc},
		},
		chunks: chunks,
	}
	s.visible = ShaderMaterial{
		Name:     physical.Name + ".sliced",
		Base:     BasePhysical,
		Physical: physical,
		Uniforms: s.Uniforms,
		mu:       &s.mu,
		program:  &s.visProg,
		version:  &s.version,
	}
	s.depth = ShaderMaterial{
		Name:     physical.Name + ".sliced.depth",
		Base:     BaseDepth,
		Uniforms: s.Uniforms,
		mu:       &s.mu,
		program:  &s.depProg,
		version:  &s.version,
	}
	s.visible.twin = &s.depth
	s.depth.twin = &s.visible

	if err := s.Recompile(custom); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SlicedMaterial) Visible() *ShaderMaterial { return &s.visible }
func (s *SlicedMaterial) Depth() *ShaderMaterial   { return &s.depth }

func (s *SlicedMaterial) SliceStart() float32 { return s.Uniforms[UniformSliceStart].Value }
func (s *SlicedMaterial) SliceArc() float32   { return s.Uniforms[UniformSliceArc].Value }

func (s *SlicedMaterial) SetSliceStart(v float32) { s.Uniforms[UniformSliceStart].Value = v }
func (s *SlicedMaterial) SetSliceArc(v float32)   { s.Uniforms[UniformSliceArc].Value = v }

// Version increases on every successful Recompile.
func (s *SlicedMaterial) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Recompile recomposes both views from new custom sources. Either both programs are
// replaced or neither is.
func (s *SlicedMaterial) Recompile(custom Program) error {
	vis, err := Compose(PhysicalProgram, custom, SlicePatches, s.chunks)
	if err != nil {
		return fmt.Errorf("compose sliced program: %w", err)
	}
	dep, err := Compose(DepthProgram, custom, SlicePatches, s.chunks)
	if err != nil {
		return fmt.Errorf("compose sliced depth program: %w", err)
	}

	s.mu.Lock()
	s.custom = custom
	s.visProg = vis
	s.depProg = dep
	s.version++
	s.mu.Unlock()
	return nil
}

// Custom returns the custom sources the current programs were built from.
func (s *SlicedMaterial) Custom() Program {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.custom
}

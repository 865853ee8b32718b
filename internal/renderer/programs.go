package renderer

import (
	"RoboticArm/internal/logger"
	"RoboticArm/internal/material"

	"go.uber.org/zap"
)

// compiled is a GPU program built from a material at a given source version.
type compiled struct {
	shader  *Shader
	version int
}

// programCache builds the GPU programs of custom shader materials and rebuilds them
// when their sources change. A material and its twin are rebuilt as one unit: both
// programs are swapped or neither is, and a failed build keeps the previous pair.
type programCache struct {
	compile func(name string, src material.Program) (*Shader, error)
	release func(*Shader)

	entries map[*material.ShaderMaterial]*compiled
	failed  map[*material.ShaderMaterial]int // last version that failed to build
}

func newProgramCache(compile func(string, material.Program) (*Shader, error), release func(*Shader)) *programCache {
	return &programCache{
		compile: compile,
		release: release,
		entries: make(map[*material.ShaderMaterial]*compiled),
		failed:  make(map[*material.ShaderMaterial]int),
	}
}

// get returns the program for m, or nil when m has never built successfully.
func (pc *programCache) get(m *material.ShaderMaterial) *Shader {
	src, version := m.Source()
	current := pc.entries[m]
	if current != nil && current.version == version {
		return current.shader
	}
	if v, ok := pc.failed[m]; ok && v == version {
		return current.shaderOrNil()
	}

	group := []*material.ShaderMaterial{m}
	sources := []material.Program{src}
	if twin := m.Twin(); twin != nil {
		twinSrc, twinVersion := twin.Source()
		if twinVersion != version {
			// Recompiled between the two reads; the next frame sees a settled pair.
			return current.shaderOrNil()
		}
		group = append(group, twin)
		sources = append(sources, twinSrc)
	}

	built := make([]*Shader, 0, len(group))
	for i, gm := range group {
		shader, err := pc.compile(gm.Name, sources[i])
		if err != nil {
			logger.Log.Error("Keeping previous program",
				zap.String("material", gm.Name), zap.Int("version", version), zap.Error(err))
			for _, s := range built {
				pc.release(s)
			}
			for _, gm := range group {
				pc.failed[gm] = version
			}
			return current.shaderOrNil()
		}
		built = append(built, shader)
	}

	for i, gm := range group {
		if old := pc.entries[gm]; old != nil {
			pc.release(old.shader)
		}
		delete(pc.failed, gm)
		pc.entries[gm] = &compiled{shader: built[i], version: version}
	}
	return built[0]
}

// clear releases every program.
func (pc *programCache) clear() {
	for m, c := range pc.entries {
		pc.release(c.shader)
		delete(pc.entries, m)
	}
	for m := range pc.failed {
		delete(pc.failed, m)
	}
}

func (c *compiled) shaderOrNil() *Shader {
	if c == nil {
		return nil
	}
	return c.shader
}

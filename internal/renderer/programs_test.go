package renderer

import (
	"errors"
	"strings"
	"testing"

	"RoboticArm/internal/material"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompiler hands out GL-free shaders and can be told to fail the depth view.
type fakeCompiler struct {
	failDepth bool
	built     []*Shader
	released  []*Shader
}

func (f *fakeCompiler) compile(name string, _ material.Program) (*Shader, error) {
	if f.failDepth && strings.HasSuffix(name, ".depth") {
		return nil, errors.New("0:12: 'vNormal' : undeclared identifier")
	}
	s := &Shader{Name: name}
	f.built = append(f.built, s)
	return s, nil
}

func (f *fakeCompiler) release(s *Shader) { f.released = append(f.released, s) }

func newSliced(t *testing.T) *material.SlicedMaterial {
	t.Helper()
	s, err := material.NewSliced(material.NewLibrary().Get(material.SurfaceRobotCircuit), material.Program{}, nil)
	require.NoError(t, err)
	return s
}

func TestProgramCacheBuildsTwinsTogether(t *testing.T) {
	f := &fakeCompiler{}
	pc := newProgramCache(f.compile, f.release)
	s := newSliced(t)

	vis := pc.get(s.Visible())
	require.NotNil(t, vis)
	assert.Len(t, f.built, 2, "the depth view is built with the visible one")

	dep := pc.get(s.Depth())
	assert.Len(t, f.built, 2)
	assert.Equal(t, s.Depth().Name, dep.Name)
	assert.Same(t, vis, pc.get(s.Visible()))
}

func TestProgramCacheKeepsBothViewsWhenOneFails(t *testing.T) {
	f := &fakeCompiler{}
	pc := newProgramCache(f.compile, f.release)
	s := newSliced(t)
	vis, dep := pc.get(s.Visible()), pc.get(s.Depth())

	require.NoError(t, s.Recompile(material.Program{}))
	f.failDepth = true

	assert.Same(t, vis, pc.get(s.Visible()), "the visible view must not switch alone")
	assert.Same(t, dep, pc.get(s.Depth()))
	require.Len(t, f.built, 3)
	assert.Equal(t, []*Shader{f.built[2]}, f.released, "the half-built pair is released")

	// The failed version is not retried every frame.
	pc.get(s.Visible())
	assert.Len(t, f.built, 3)

	f.failDepth = false
	require.NoError(t, s.Recompile(material.Program{}))

	newDep := pc.get(s.Depth())
	newVis := pc.get(s.Visible())
	assert.NotSame(t, dep, newDep)
	assert.NotSame(t, vis, newVis)
	assert.Contains(t, f.released, vis)
	assert.Contains(t, f.released, dep)
}

func TestProgramCacheNothingBuiltYet(t *testing.T) {
	f := &fakeCompiler{failDepth: true}
	pc := newProgramCache(f.compile, f.release)
	s := newSliced(t)

	assert.Nil(t, pc.get(s.Visible()), "callers fall back to the default program")
	assert.Nil(t, pc.get(s.Depth()))
}

func TestProgramCacheClear(t *testing.T) {
	f := &fakeCompiler{}
	pc := newProgramCache(f.compile, f.release)
	s := newSliced(t)
	pc.get(s.Visible())

	pc.clear()

	assert.Len(t, f.released, 2)
	assert.Empty(t, pc.entries)
}

package renderer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUniformCache(t *testing.T) {
	cache := NewUniformCache(7)

	require.NotNil(t, cache)
	assert.NotNil(t, cache.locations)
	assert.Equal(t, uint32(7), cache.program)
}

func TestUniformCacheServesCachedLocations(t *testing.T) {
	cache := NewUniformCache(0)
	cache.locations["uSliceArc"] = 5
	cache.locations["unused"] = -1

	assert.Equal(t, int32(5), cache.GetLocation("uSliceArc"))
	assert.True(t, cache.Has("uSliceArc"))
	assert.False(t, cache.Has("unused"))
}

func TestUniformCacheClear(t *testing.T) {
	cache := NewUniformCache(0)
	cache.locations["uSliceStart"] = 5

	cache.Clear()

	assert.Empty(t, cache.locations)
}

func TestShaderDeleteDropsCachedLocations(t *testing.T) {
	cache := NewUniformCache(0)
	cache.locations["uSliceArc"] = 3
	shader := &Shader{Name: "sliced", uniforms: cache}

	shader.Delete()

	assert.Empty(t, cache.locations)
}

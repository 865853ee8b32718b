package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"RoboticArm/assets"
	"RoboticArm/internal/material"
)

const (
	VertexFile   = "vertex.glsl"
	FragmentFile = "fragment.glsl"
)

// LoadShaderPair reads dir/vertex.glsl and dir/fragment.glsl.
func LoadShaderPair(fsys fs.FS, dir string) (material.Program, error) {
	vertex, err := fs.ReadFile(fsys, path.Join(dir, VertexFile))
	if err != nil {
		return material.Program{}, fmt.Errorf("read vertex shader: %w", err)
	}
	fragment, err := fs.ReadFile(fsys, path.Join(dir, FragmentFile))
	if err != nil {
		return material.Program{}, fmt.Errorf("read fragment shader: %w", err)
	}
	return material.Program{Vertex: string(vertex), Fragment: string(fragment)}, nil
}

// layeredFS opens from the first layer that has the file.
type layeredFS []fs.FS

func (l layeredFS) Open(name string) (fs.File, error) {
	var firstErr error
	for _, layer := range l {
		f, err := layer.Open(name)
		if err == nil {
			return f, nil
		}
		if firstErr == nil || !errors.Is(err, fs.ErrNotExist) {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return nil, firstErr
}

// ShaderFS serves shader sources from assetsDir, falling back to the embedded copies.
func ShaderFS(assetsDir string) fs.FS {
	return layeredFS{os.DirFS(assetsDir), assets.Shaders}
}

package renderer

import (
	"fmt"
	"strings"

	"RoboticArm/internal/logger"
	"RoboticArm/internal/material"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"
)

// =============================================================
//
//	Shaders
//
// =============================================================
type Shader struct {
	Name     string
	program  uint32
	uniforms *UniformCache
}

// CompileProgram compiles and links a composed program. Include directives must
// already be resolved.
func CompileProgram(name string, src material.Program) (*Shader, error) {
	vs, err := GenShader(src.Vertex, gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	fs, err := GenShader(src.Fragment, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	program, err := GenShaderProgram(vs, fs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	logger.Log.Debug("Shader program linked", zap.String("name", name), zap.Uint32("program", program))
	return &Shader{Name: name, program: program, uniforms: NewUniformCache(program)}, nil
}

func (shader *Shader) Use() {
	gl.UseProgram(shader.program)
}

func (shader *Shader) Uniforms() *UniformCache {
	return shader.uniforms
}

// Delete releases the program. Cached uniform locations die with it.
func (shader *Shader) Delete() {
	if shader == nil {
		return
	}
	if shader.uniforms != nil {
		shader.uniforms.Clear()
	}
	if shader.program == 0 {
		return
	}
	gl.DeleteProgram(shader.program)
	shader.program = 0
}

func GenShader(source string, shaderType uint32) (uint32, error) {
	if !strings.HasSuffix(source, "\x00") {
		source += "\x00"
	}
	shader := gl.CreateShader(shaderType)
	cSources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, cSources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		logger.Log.Error("Failed to compile", zap.String("shader type", shaderTypeName(shaderType)), zap.String("log", log))
		return 0, fmt.Errorf("compile %s shader: %s", shaderTypeName(shaderType), strings.TrimRight(log, "\x00"))
	}
	return shader, nil
}

// GenShaderProgram links the two stages and always deletes them.
func GenShaderProgram(vertexShader, fragmentShader uint32) (uint32, error) {
	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DetachShader(program, vertexShader)
	gl.DeleteShader(vertexShader)
	gl.DetachShader(program, fragmentShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		logger.Log.Error("Failed to link program", zap.String("log", log))
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(log, "\x00"))
	}
	return program, nil
}

func shaderTypeName(shaderType uint32) string {
	if shaderType == gl.FRAGMENT_SHADER {
		return "fragment"
	}
	return "vertex"
}

// builtin resolves the includes of one of the renderer's own programs.
func builtin(base material.Program) material.Program {
	out, err := material.Compose(base, material.Program{}, nil, material.DefaultChunks)
	if err != nil {
		panic(fmt.Sprintf("renderer: built-in program: %v", err))
	}
	return out
}

// backgroundProgram draws the environment behind everything from a single
// oversized triangle. Blurriness picks a coarser mip level.
var backgroundProgram = material.Program{
	Vertex: `#version 410 core
out vec2 vNdc;
void main() {
    vec2 p = vec2((gl_VertexID << 1) & 2, gl_VertexID & 2) * 2.0 - 1.0;
    vNdc = p;
    gl_Position = vec4(p, 1.0, 1.0);
}`,

	Fragment: `#version 410 core
in vec2 vNdc;
out vec4 FragColor;
#include <common>
#include <colorspace_pars_fragment>
#include <tonemapping_pars_fragment>
uniform mat4 inverseViewProjection;
uniform vec3 cameraPosition;
uniform sampler2D envMap;
uniform float envMapMaxLod;
uniform float backgroundBlurriness;
void main() {
    vec4 far = inverseViewProjection * vec4(vNdc, 1.0, 1.0);
    vec3 dir = normalize(far.xyz / far.w - cameraPosition);
    FragColor = vec4(textureLod(envMap, equirectUv(dir), backgroundBlurriness * envMapMaxLod).rgb, 1.0);
#include <tonemapping_fragment>
#include <colorspace_fragment>
}`,
}

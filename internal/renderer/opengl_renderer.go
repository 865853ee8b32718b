package renderer

import (
	"fmt"

	"RoboticArm/internal/camera"
	"RoboticArm/internal/logger"
	"RoboticArm/internal/material"
	"RoboticArm/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

type OpenGLRenderer struct {
	physicalShader   *Shader
	depthShader      *Shader
	backgroundShader *Shader
	programs         *programCache
	overlayShaders   map[*material.Overlay]*Shader

	emptyVAO uint32
	quadVAO  uint32
	quadVBO  uint32
	black    uint32
	env      envTexture
	shadow   shadowTarget
	target   sceneTarget
	meshes   []*scene.Mesh

	width, height     int
	pixelRatio        float32
	fbWidth, fbHeight int
	samples           int32
}

var _ Render = (*OpenGLRenderer)(nil)

func (rend *OpenGLRenderer) Init(width, height int, samples int) error {
	if err := gl.Init(); err != nil {
		logger.Log.Error("OpenGL initialization failed", zap.Error(err))
		return fmt.Errorf("init opengl: %w", err)
	}

	var u Unwind
	defer u.Unwind()

	var err error
	if rend.physicalShader, err = CompileProgram("physical", builtin(material.PhysicalProgram)); err != nil {
		return err
	}
	u.Add(rend.physicalShader.Delete)
	if rend.depthShader, err = CompileProgram("depth", builtin(material.DepthProgram)); err != nil {
		return err
	}
	u.Add(rend.depthShader.Delete)
	if rend.backgroundShader, err = CompileProgram("background", builtin(backgroundProgram)); err != nil {
		return err
	}
	u.Add(rend.backgroundShader.Delete)

	gl.GenVertexArrays(1, &rend.emptyVAO)
	rend.black = blackTexture()

	rend.programs = newProgramCache(CompileProgram, (*Shader).Delete)
	rend.overlayShaders = make(map[*material.Overlay]*Shader)
	rend.samples = int32(samples)
	if rend.pixelRatio == 0 {
		rend.pixelRatio = 1
	}
	rend.SetSize(width, height)
	if rend.fbWidth == 0 {
		rend.SetFramebufferSize(width, height)
	}

	u.Discard()

	logger.Log.Info("OpenGL render initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.Int("samples", samples))
	return nil
}

// SetSize sets the logical drawing size in window coordinates.
func (rend *OpenGLRenderer) SetSize(width, height int) {
	rend.width, rend.height = width, height
}

// SetPixelRatio sets how many drawing-buffer pixels back one logical pixel.
func (rend *OpenGLRenderer) SetPixelRatio(ratio float32) {
	rend.pixelRatio = ratio
}

// SetFramebufferSize sets the window framebuffer size the scene is scaled onto.
func (rend *OpenGLRenderer) SetFramebufferSize(width, height int) {
	rend.fbWidth, rend.fbHeight = width, height
}

// upload creates the GPU buffers of a mesh on its first draw.
func (rend *OpenGLRenderer) upload(m *scene.Mesh) {
	if m.VAO != 0 {
		return
	}
	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Positions)*4, gl.Ptr(m.Positions), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)

	gl.GenBuffers(1, &m.NBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.NBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Normals)*4, gl.Ptr(m.Normals), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
	m.IndexCount = int32(len(m.Indices))

	gl.BindVertexArray(0)
	rend.meshes = append(rend.meshes, m)
}

// programFor returns the program a material draws with. Custom programs are rebuilt
// when their sources change; the two views of a sliced material switch together.
func (rend *OpenGLRenderer) programFor(m material.Material, fallback *Shader) *Shader {
	sm, ok := m.(*material.ShaderMaterial)
	if !ok {
		return fallback
	}
	if shader := rend.programs.get(sm); shader != nil {
		return shader
	}
	return fallback
}

func (rend *OpenGLRenderer) overlayShader(o *material.Overlay) *Shader {
	if s, ok := rend.overlayShaders[o]; ok {
		return s
	}
	src, err := material.Compose(o.Program, material.Program{}, nil, material.DefaultChunks)
	var shader *Shader
	if err == nil {
		shader, err = CompileProgram("overlay", src)
	}
	if err != nil {
		logger.Log.Error("Overlay program unavailable", zap.Error(err))
	}
	rend.overlayShaders[o] = shader
	return shader
}

// frameState holds the uniforms shared by every draw of a frame.
type frameState struct {
	viewProjection mgl32.Mat4
	lightSpace     mgl32.Mat4
	eye            mgl32.Vec3
	lightDirection mgl32.Vec3
	lightColor     mgl32.Vec3
	lightIntensity float32
	normalBias     float32
	shadowMapSize  float32
	shadows        bool
	exposure       float32
	envMaxLod      float32
}

func (rend *OpenGLRenderer) Render(s *scene.Scene, cam *camera.Camera) {
	s.Root.UpdateWorldMatrix(false)

	if s.Environment != nil && s.Environment != rend.env.source {
		rend.env.upload(s.Environment)
		logger.Log.Debug("Environment uploaded",
			zap.Int("width", s.Environment.Width), zap.Int("height", s.Environment.Height))
	}

	nodes := s.Meshes()
	for _, n := range nodes {
		rend.upload(n.Mesh)
	}

	fs := frameState{
		viewProjection: cam.GetViewProjection(),
		eye:            cam.Position,
		exposure:       s.ToneMappingExposure,
		envMaxLod:      rend.env.maxLod,
	}
	if l := s.Light; l != nil {
		fs.lightSpace = l.LightSpace()
		fs.lightDirection = l.Direction()
		fs.lightColor = l.Color
		fs.lightIntensity = l.Intensity
		fs.normalBias = l.NormalBias
		fs.shadowMapSize = float32(l.MapSize)
		if l.CastShadow && l.MapSize > 0 {
			if err := rend.shadow.ensure(l.MapSize); err != nil {
				logger.Log.Error("Shadows disabled", zap.Error(err))
			} else {
				fs.shadows = true
				rend.renderShadows(shadowCasters(nodes), &fs)
			}
		}
	}

	w, h := scaledSize(rend.width, rend.height, rend.pixelRatio)
	if err := rend.target.ensure(w, h, rend.samples); err != nil {
		logger.Log.Error("Scene target unavailable", zap.Error(err))
		return
	}
	gl.BindFramebuffer(gl.FRAMEBUFFER, rend.target.msFBO)
	gl.Viewport(0, 0, int32(w), int32(h))
	gl.ClearColor(ClearColor.X(), ClearColor.Y(), ClearColor.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if rend.env.id != 0 {
		rend.renderBackground(s, cam, &fs)
	}

	if Debug {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	opaque, transparent := splitDrawables(nodes, fs.eye)
	for _, n := range opaque {
		rend.drawLit(n, &fs)
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	for _, n := range transparent {
		rend.drawLit(n, &fs)
	}
	gl.Disable(gl.BLEND)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)

	fbw, fbh := rend.fbWidth, rend.fbHeight
	rend.target.present(fbw, fbh)
	gl.Viewport(0, 0, int32(fbw), int32(fbh))

	if s.Overlay != nil && (s.Overlay.Alpha() > 0 || s.Overlay.Loading() || s.Overlay.Failed()) {
		rend.renderOverlay(s.Overlay)
	}
}

func (rend *OpenGLRenderer) renderShadows(casters []*scene.Node, fs *frameState) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, rend.shadow.fbo)
	gl.Viewport(0, 0, int32(rend.shadow.size), int32(rend.shadow.size))
	gl.Clear(gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)

	for _, n := range casters {
		shader := rend.programFor(n.DepthMaterial, rend.depthShader)
		shader.Use()
		u := shader.Uniforms()
		u.SetMat4("model", n.WorldMatrix)
		u.SetMat4("lightSpace", fs.lightSpace)
		if sm, ok := n.DepthMaterial.(*material.ShaderMaterial); ok {
			setCustomUniforms(u, sm.Uniforms)
		}

		// Single-sided casters draw their back faces into the map.
		if sideOf(n.Material) == material.DoubleSide {
			gl.Disable(gl.CULL_FACE)
		} else {
			gl.Enable(gl.CULL_FACE)
			gl.CullFace(gl.FRONT)
		}
		rend.draw(n.Mesh)
	}
	gl.Disable(gl.CULL_FACE)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (rend *OpenGLRenderer) renderBackground(s *scene.Scene, cam *camera.Camera, fs *frameState) {
	gl.Disable(gl.DEPTH_TEST)
	gl.DepthMask(false)

	shader := rend.backgroundShader
	shader.Use()
	u := shader.Uniforms()
	u.SetMat4("inverseViewProjection", fs.viewProjection.Inv())
	u.SetVec3("cameraPosition", cam.Position)
	u.SetFloat("envMapMaxLod", fs.envMaxLod)
	u.SetFloat("backgroundBlurriness", s.BackgroundBlurriness)
	u.SetFloat("toneMappingExposure", fs.exposure)
	gl.ActiveTexture(gl.TEXTURE0 + envMapUnit)
	gl.BindTexture(gl.TEXTURE_2D, rend.env.id)
	u.SetInt("envMap", envMapUnit)

	gl.BindVertexArray(rend.emptyVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
	gl.DepthMask(true)
}

func (rend *OpenGLRenderer) drawLit(n *scene.Node, fs *frameState) {
	shader := rend.programFor(n.Material, rend.physicalShader)
	shader.Use()
	u := shader.Uniforms()

	u.SetMat4("model", n.WorldMatrix)
	u.SetMat4("viewProjection", fs.viewProjection)
	u.SetVec3("cameraPosition", fs.eye)
	u.SetMat4("lightSpace", fs.lightSpace)
	u.SetFloat("shadowNormalBias", fs.normalBias)
	u.SetVec3("lightDirection", fs.lightDirection)
	u.SetVec3("lightColor", fs.lightColor)
	u.SetFloat("lightIntensity", fs.lightIntensity)
	u.SetFloat("toneMappingExposure", fs.exposure)
	u.SetFloat("envMapMaxLod", fs.envMaxLod)

	env := rend.env.id
	if env == 0 {
		env = rend.black
	}
	gl.ActiveTexture(gl.TEXTURE0 + envMapUnit)
	gl.BindTexture(gl.TEXTURE_2D, env)
	u.SetInt("envMap", envMapUnit)

	receive := fs.shadows && n.ReceiveShadow
	u.SetBool("receiveShadow", receive)
	u.SetInt("shadowMap", shadowMapUnit)
	if receive {
		gl.ActiveTexture(gl.TEXTURE0 + shadowMapUnit)
		gl.BindTexture(gl.TEXTURE_2D, rend.shadow.depth)
		u.SetFloat("shadowMapSize", fs.shadowMapSize)
	}

	p, extra := surfaceOf(n.Material)
	if p == nil {
		p = material.DefaultMaterial
	}
	setPhysicalUniforms(u, p)
	setCustomUniforms(u, extra)

	if p.Side == material.DoubleSide {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
		gl.FrontFace(gl.CCW)
	}
	rend.draw(n.Mesh)
}

func setPhysicalUniforms(u *UniformCache, p *material.Physical) {
	u.SetVec3("diffuse", p.Color)
	u.SetFloat("metalness", p.Metalness)
	u.SetFloat("roughness", p.Roughness)
	u.SetFloat("transmission", p.Transmission)
	u.SetFloat("ior", p.IOR)
	u.SetFloat("thickness", p.Thickness)
	u.SetFloat("envMapIntensity", p.EnvMapIntensity)
}

func setCustomUniforms(u *UniformCache, uniforms material.Uniforms) {
	for name, v := range uniforms {
		u.SetFloat(name, v.Value)
	}
}

func (rend *OpenGLRenderer) draw(m *scene.Mesh) {
	gl.BindVertexArray(m.VAO)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.IndexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

// renderOverlay draws the full-screen fade quad on top of the presented frame.
func (rend *OpenGLRenderer) renderOverlay(o *material.Overlay) {
	shader := rend.overlayShader(o)
	if shader == nil {
		return
	}
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	shader.Use()
	setCustomUniforms(shader.Uniforms(), o.Uniforms)
	gl.BindVertexArray(rend.quad())
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
}

// quad is a clip-space quad at attribute 0.
func (rend *OpenGLRenderer) quad() uint32 {
	if rend.quadVAO != 0 {
		return rend.quadVAO
	}
	vertices := []float32{-1, -1, 0, 1, -1, 0, -1, 1, 0, 1, 1, 0}
	gl.GenVertexArrays(1, &rend.quadVAO)
	gl.BindVertexArray(rend.quadVAO)
	gl.GenBuffers(1, &rend.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, rend.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return rend.quadVAO
}

func (rend *OpenGLRenderer) Cleanup() {
	for _, m := range rend.meshes {
		gl.DeleteVertexArrays(1, &m.VAO)
		gl.DeleteBuffers(1, &m.VBO)
		gl.DeleteBuffers(1, &m.NBO)
		gl.DeleteBuffers(1, &m.EBO)
		m.VAO, m.VBO, m.NBO, m.EBO = 0, 0, 0, 0
	}
	rend.meshes = nil

	if rend.programs != nil {
		rend.programs.clear()
	}
	for o, s := range rend.overlayShaders {
		s.Delete()
		delete(rend.overlayShaders, o)
	}
	rend.physicalShader.Delete()
	rend.depthShader.Delete()
	rend.backgroundShader.Delete()

	if rend.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &rend.quadVAO)
		gl.DeleteBuffers(1, &rend.quadVBO)
		rend.quadVAO, rend.quadVBO = 0, 0
	}
	gl.DeleteVertexArrays(1, &rend.emptyVAO)
	gl.DeleteTextures(1, &rend.black)
	rend.env.delete()
	rend.shadow.delete()
	rend.target.delete()
}

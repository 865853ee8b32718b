package renderer

import (
	"fmt"

	"RoboticArm/internal/scene"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// envTexture is the equirectangular environment with a full mip chain. Higher levels
// stand in for rough reflections and the blurred background.
type envTexture struct {
	id     uint32
	maxLod float32
	source *scene.Environment
}

func (e *envTexture) upload(env *scene.Environment) {
	if e.id == 0 {
		gl.GenTextures(1, &e.id)
	}
	pixels := flipRows(env)
	gl.BindTexture(gl.TEXTURE_2D, e.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB32F, int32(env.Width), int32(env.Height), 0, gl.RGB, gl.FLOAT, gl.Ptr(pixels))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	e.maxLod = float32(mipLevels(env.Width, env.Height) - 1)
	e.source = env
}

func (e *envTexture) delete() {
	if e.id != 0 {
		gl.DeleteTextures(1, &e.id)
		e.id = 0
	}
	e.source = nil
}

// blackTexture stands in for the environment until it loads.
func blackTexture() uint32 {
	var id uint32
	pixel := []float32{0, 0, 0}
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB32F, 1, 1, 0, gl.RGB, gl.FLOAT, gl.Ptr(pixel))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	return id
}

// shadowTarget is a depth-only framebuffer the light renders into.
type shadowTarget struct {
	fbo   uint32
	depth uint32
	size  int
}

func (s *shadowTarget) ensure(size int) error {
	if size == s.size && s.fbo != 0 {
		return nil
	}
	s.delete()

	var u Unwind
	gl.GenTextures(1, &s.depth)
	u.Add(func() { gl.DeleteTextures(1, &s.depth) })
	gl.BindTexture(gl.TEXTURE_2D, s.depth)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, int32(size), int32(size), 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	border := []float32{1, 1, 1, 1}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &border[0])

	gl.GenFramebuffers(1, &s.fbo)
	u.Add(func() { gl.DeleteFramebuffers(1, &s.fbo) })
	gl.BindFramebuffer(gl.FRAMEBUFFER, s.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, s.depth, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		u.Unwind()
		s.fbo, s.depth = 0, 0
		return fmt.Errorf("shadow framebuffer incomplete: 0x%x", status)
	}
	u.Discard()
	s.size = size
	return nil
}

func (s *shadowTarget) delete() {
	if s.fbo != 0 {
		gl.DeleteFramebuffers(1, &s.fbo)
		gl.DeleteTextures(1, &s.depth)
	}
	s.fbo, s.depth, s.size = 0, 0, 0
}

// sceneTarget is the multisampled buffer the scene is drawn into at the capped
// pixel ratio, plus the single-sample buffer it resolves to before scaling onto the
// window.
type sceneTarget struct {
	msFBO, msColor, msDepth uint32
	fbo, color              uint32
	width, height           int
	samples                 int32
}

func (t *sceneTarget) ensure(width, height int, samples int32) error {
	if t.fbo != 0 && width == t.width && height == t.height && samples == t.samples {
		return nil
	}
	t.delete()

	var u Unwind
	w, h := int32(width), int32(height)

	gl.GenRenderbuffers(1, &t.msColor)
	u.Add(func() { gl.DeleteRenderbuffers(1, &t.msColor) })
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.msColor)
	gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, samples, gl.RGBA8, w, h)

	gl.GenRenderbuffers(1, &t.msDepth)
	u.Add(func() { gl.DeleteRenderbuffers(1, &t.msDepth) })
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.msDepth)
	gl.RenderbufferStorageMultisample(gl.RENDERBUFFER, samples, gl.DEPTH24_STENCIL8, w, h)

	gl.GenFramebuffers(1, &t.msFBO)
	u.Add(func() { gl.DeleteFramebuffers(1, &t.msFBO) })
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.msFBO)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, t.msColor)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, t.msDepth)
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
		u.Unwind()
		*t = sceneTarget{}
		return fmt.Errorf("multisample framebuffer incomplete: 0x%x", status)
	}

	gl.GenRenderbuffers(1, &t.color)
	u.Add(func() { gl.DeleteRenderbuffers(1, &t.color) })
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.color)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.RGBA8, w, h)

	gl.GenFramebuffers(1, &t.fbo)
	u.Add(func() { gl.DeleteFramebuffers(1, &t.fbo) })
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.RENDERBUFFER, t.color)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		u.Unwind()
		*t = sceneTarget{}
		return fmt.Errorf("resolve framebuffer incomplete: 0x%x", status)
	}

	u.Discard()
	t.width, t.height, t.samples = width, height, samples
	return nil
}

// present resolves the samples and scales the result onto the window framebuffer.
func (t *sceneTarget) present(fbWidth, fbHeight int) {
	w, h := int32(t.width), int32(t.height)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.msFBO)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, t.fbo)
	gl.BlitFramebuffer(0, 0, w, h, 0, 0, w, h, gl.COLOR_BUFFER_BIT, gl.NEAREST)

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, w, h, 0, 0, int32(fbWidth), int32(fbHeight), gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (t *sceneTarget) delete() {
	if t.msFBO != 0 {
		gl.DeleteFramebuffers(1, &t.msFBO)
		gl.DeleteRenderbuffers(1, &t.msColor)
		gl.DeleteRenderbuffers(1, &t.msDepth)
	}
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		gl.DeleteRenderbuffers(1, &t.color)
	}
	*t = sceneTarget{}
}

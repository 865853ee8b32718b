package gui

import (
	"fmt"

	"RoboticArm/internal/debugui"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/inkyblackness/imgui-go/v4"
)

// GUI is the imgui context plus the platform and renderer backends for one window.
type GUI struct {
	context  *imgui.Context
	io       imgui.IO
	platform *GLFW
	renderer *OpenGL3
}

// New must be called on the thread that owns the GL context.
func New(window *glfw.Window) (*GUI, error) {
	context := imgui.CreateContext(nil)
	io := imgui.CurrentIO()
	io.SetIniFilename("")

	r, err := NewOpenGL3(io)
	if err != nil {
		context.Destroy()
		return nil, fmt.Errorf("gui renderer: %w", err)
	}
	applyDarkTheme()

	return &GUI{
		context:  context,
		io:       io,
		platform: NewGLFW(io, window),
		renderer: r,
	}, nil
}

// Platform receives the input events the engine forwards.
func (g *GUI) Platform() *GLFW { return g.platform }

// WantsMouse reports whether the pointer is over a gui element; the camera controls
// ignore the mouse while it is.
func (g *GUI) WantsMouse() bool {
	return g.io.WantCaptureMouse()
}

// Render builds and draws one frame of the panel.
func (g *GUI) Render(panel *debugui.Panel) {
	g.platform.NewFrame()
	imgui.NewFrame()

	DrawPanel(panel, g.platform.DisplaySize())

	imgui.Render()
	g.renderer.Render(g.platform.DisplaySize(), g.platform.FramebufferSize(), imgui.RenderedDrawData())
}

func (g *GUI) Dispose() {
	g.renderer.Dispose()
	g.context.Destroy()
}

func applyDarkTheme() {
	style := imgui.CurrentStyle()

	// Go Cyan color (#00ADD8)
	goCyan := imgui.Vec4{X: 0.0, Y: 0.678, Z: 0.847, W: 1.0}
	goCyanHover := imgui.Vec4{X: 0.0, Y: 0.678, Z: 0.847, W: 0.6}
	goCyanActive := imgui.Vec4{X: 0.0, Y: 0.678, Z: 0.847, W: 0.8}
	goCyanDim := imgui.Vec4{X: 0.0, Y: 0.678, Z: 0.847, W: 0.4}

	style.SetColor(imgui.StyleColorWindowBg, imgui.Vec4{X: 0.1, Y: 0.1, Z: 0.1, W: 0.9})
	style.SetColor(imgui.StyleColorTitleBg, imgui.Vec4{X: 0.08, Y: 0.08, Z: 0.08, W: 1.0})
	style.SetColor(imgui.StyleColorTitleBgActive, goCyan)
	style.SetColor(imgui.StyleColorBorder, goCyanDim)

	// Folder headers
	style.SetColor(imgui.StyleColorHeader, goCyanDim)
	style.SetColor(imgui.StyleColorHeaderHovered, goCyanHover)
	style.SetColor(imgui.StyleColorHeaderActive, goCyan)

	style.SetColor(imgui.StyleColorFrameBg, imgui.Vec4{X: 0.2, Y: 0.2, Z: 0.2, W: 0.54})
	style.SetColor(imgui.StyleColorFrameBgHovered, imgui.Vec4{X: 0.25, Y: 0.25, Z: 0.25, W: 0.78})
	style.SetColor(imgui.StyleColorFrameBgActive, imgui.Vec4{X: 0.3, Y: 0.3, Z: 0.3, W: 0.67})

	style.SetColor(imgui.StyleColorSliderGrab, goCyan)
	style.SetColor(imgui.StyleColorSliderGrabActive, goCyanActive)
}

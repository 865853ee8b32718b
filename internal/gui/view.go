package gui

import (
	"RoboticArm/internal/debugui"

	"github.com/inkyblackness/imgui-go/v4"
)

const panelWidth = 280

// DrawPanel lays the panel out as one window in the top-right corner, one collapsing
// header per folder. Edits go through the controls so they are snapped and clamped.
func DrawPanel(p *debugui.Panel, displaySize [2]float32) {
	imgui.SetNextWindowPosV(imgui.Vec2{X: displaySize[0] - panelWidth - 10, Y: 10}, imgui.ConditionFirstUseEver, imgui.Vec2{})
	imgui.SetNextWindowSizeV(imgui.Vec2{X: panelWidth, Y: 0}, imgui.ConditionFirstUseEver)
	if !imgui.BeginV(p.Title, nil, imgui.WindowFlagsAlwaysAutoResize) {
		imgui.End()
		return
	}

	for _, f := range p.Folders {
		imgui.PushID(f.Title)
		imgui.SetNextItemOpen(f.Open, imgui.ConditionOnce)
		f.Open = imgui.CollapsingHeader(f.Title)
		if f.Open {
			for _, c := range f.Controls {
				drawControl(c)
			}
		}
		imgui.PopID()
	}
	imgui.End()
}

func drawControl(c debugui.Control) {
	switch c := c.(type) {
	case *debugui.Slider:
		v := c.Get()
		if imgui.SliderFloatV(c.Name, &v, c.Min, c.Max, "%.3f", imgui.SliderFlagsNone) {
			c.Set(v)
		}
	case *debugui.Color:
		srgb := c.SRGB()
		if imgui.ColorEdit3V(c.Name, &srgb, 0) {
			c.SetSRGB(srgb)
		}
	}
}

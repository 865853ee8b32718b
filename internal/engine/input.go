package engine

// orbiter is the part of the camera controls the pointer drives.
type orbiter interface {
	Rotate(dx, dy float64, viewportHeight int)
	Zoom(steps float64)
}

// pointer routes mouse input to the camera controls. A drag that starts over the
// gui belongs to the gui until it is released.
type pointer struct {
	controls orbiter

	dragging     bool
	lastX, lastY float64
}

func (p *pointer) Press(x, y float64, overGUI bool) {
	if overGUI {
		return
	}
	p.dragging = true
	p.lastX, p.lastY = x, y
}

func (p *pointer) Release() {
	p.dragging = false
}

func (p *pointer) Move(x, y float64, viewportHeight int) {
	if !p.dragging {
		return
	}
	p.controls.Rotate(x-p.lastX, y-p.lastY, viewportHeight)
	p.lastX, p.lastY = x, y
}

func (p *pointer) Scroll(dy float64, overGUI bool) {
	if overGUI || dy == 0 {
		return
	}
	p.controls.Zoom(dy)
}

package camera

// Surface is the drawing target resized along with the camera.
type Surface interface {
	SetSize(width, height int)
	SetPixelRatio(ratio float32)
}

type Sizes struct {
	Width      int
	Height     int
	PixelRatio float32
}

// Viewport keeps the camera projection and the surface in step with the window.
type Viewport struct {
	Sizes
	MaxPixelRatio float32

	camera  *Camera
	surface Surface
}

func NewViewport(c *Camera, s Surface, maxPixelRatio float32) *Viewport {
	return &Viewport{camera: c, surface: s, MaxPixelRatio: maxPixelRatio}
}

// Resize applies a new window size and device pixel ratio. Camera aspect, projection,
// surface size and pixel ratio are all updated before it returns. A zero-area size
// (minimised window) is ignored.
func (v *Viewport) Resize(width, height int, deviceRatio float32) bool {
	if width <= 0 || height <= 0 {
		return false
	}

	ratio := deviceRatio
	if ratio <= 0 {
		ratio = 1
	}
	if v.MaxPixelRatio > 0 && ratio > v.MaxPixelRatio {
		ratio = v.MaxPixelRatio
	}
	v.Sizes = Sizes{Width: width, Height: height, PixelRatio: ratio}

	v.camera.SetAspectRatio(float32(width) / float32(height))

	if v.surface != nil {
		v.surface.SetSize(width, height)
		v.surface.SetPixelRatio(ratio)
	}
	return true
}

// FramebufferSize is the drawing size in device pixels.
func (v *Viewport) FramebufferSize() (int, int) {
	return int(float32(v.Width) * v.PixelRatio), int(float32(v.Height) * v.PixelRatio)
}

package material

// Overlay is the full-screen quad covering the scene until the reveal finishes.
type Overlay struct {
	Program  Program
	Uniforms Uniforms
}

const (
	UniformAlpha    = "uAlpha"
	UniformLoading  = "uLoading"
	UniformProgress = "uProgress"
	UniformFailed   = "uFailed"
)

func NewOverlay(program Program) *Overlay {
	return &Overlay{
		Program: program,
		Uniforms: Uniforms{
			UniformAlpha:    {Value: 1},
			UniformLoading:  {Value: 1},
			UniformProgress: {Value: 0},
			UniformFailed:   {Value: 0},
		},
	}
}

func (o *Overlay) MaterialName() string { return "overlay" }
func (o *Overlay) IsTransparent() bool  { return true }

func (o *Overlay) Alpha() float32 { return o.Uniforms[UniformAlpha].Value }

func (o *Overlay) SetAlpha(a float32) {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	o.Uniforms[UniformAlpha].Value = a
}

// SetProgress updates the loading bar; ratio is clamped to [0, 1].
func (o *Overlay) SetProgress(ratio float32) {
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	o.Uniforms[UniformProgress].Value = ratio
}

// SetLoading shows or hides the loading bar.
func (o *Overlay) SetLoading(on bool) {
	o.Uniforms[UniformLoading].Value = boolf(on)
}

func (o *Overlay) SetFailed(on bool) {
	o.Uniforms[UniformFailed].Value = boolf(on)
}

func (o *Overlay) Loading() bool { return o.Uniforms[UniformLoading].Value > 0 }
func (o *Overlay) Failed() bool  { return o.Uniforms[UniformFailed].Value > 0 }

func boolf(b bool) float32 {
	if b {
		return 1
	}
	return 0
}

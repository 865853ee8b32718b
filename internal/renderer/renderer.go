package renderer

import (
	"RoboticArm/internal/camera"
	"RoboticArm/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

var Debug bool = false
var ClearColor = mgl32.Vec3{0, 0, 0} // used until the environment has loaded

// Texture units shared by every lit program.
const (
	envMapUnit    = 0
	shadowMapUnit = 1
)

type Render interface {
	camera.Surface
	Init(width, height int, samples int) error
	SetFramebufferSize(width, height int)
	Render(s *scene.Scene, cam *camera.Camera)
	Cleanup()
}

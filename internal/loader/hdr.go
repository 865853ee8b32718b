package loader

import (
	"fmt"
	"image"
	"io"
	"os"

	"RoboticArm/internal/scene"

	"github.com/mdouchement/hdr"
	_ "github.com/mdouchement/hdr/codec/rgbe"
)

// DecodeEnvironment decodes a Radiance RGBE image into linear float RGB.
func DecodeEnvironment(r io.Reader) (*scene.Environment, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	hdrImg, ok := img.(hdr.Image)
	if !ok {
		return nil, fmt.Errorf("decode environment: %s is not a high dynamic range format", format)
	}

	b := hdrImg.Bounds()
	env := &scene.Environment{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: make([]float32, 0, b.Dx()*b.Dy()*3),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := hdrImg.HDRAt(x, y).HDRRGBA()
			env.Pixels = append(env.Pixels, float32(r), float32(g), float32(bl))
		}
	}
	return env, nil
}

func LoadEnvironment(path string) (*scene.Environment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeEnvironment(f)
}

// Package debugui holds the tweak panel model: folders of sliders and colour pickers
// bound to live material state. Drawing it is internal/gui's job.
package debugui

import (
	"math"

	"RoboticArm/internal/material"

	"github.com/go-gl/mathgl/mgl32"
)

// Control is one row of a folder.
type Control interface {
	Label() string
}

// Slider edits a float in place. Values are clamped to [Min, Max] and snapped to Step.
type Slider struct {
	Name  string
	Value *float32
	Min   float32
	Max   float32
	Step  float32
}

func (s *Slider) Label() string { return s.Name }

func (s *Slider) Get() float32 { return *s.Value }

// Set stores v clamped and snapped, and returns what was stored.
func (s *Slider) Set(v float32) float32 {
	if s.Step > 0 {
		v = float32(math.Round(float64(v/s.Step))) * s.Step
	}
	if v < s.Min {
		v = s.Min
	}
	if v > s.Max {
		v = s.Max
	}
	*s.Value = v
	return v
}

// Color edits a linear colour through its sRGB representation, the way colour
// pickers present it.
type Color struct {
	Name  string
	Value *mgl32.Vec3
}

func (c *Color) Label() string { return c.Name }

func (c *Color) SRGB() [3]float32 { return material.ToSRGB(*c.Value) }

func (c *Color) SetSRGB(srgb [3]float32) {
	for i := range srgb {
		srgb[i] = float32(math.Max(0, math.Min(1, float64(srgb[i]))))
	}
	*c.Value = material.FromSRGB(srgb)
}

// Hex is the sRGB "#rrggbb" form of the colour.
func (c *Color) Hex() string { return material.HexString(*c.Value) }

func (c *Color) SetHex(s string) error {
	v, err := material.Hex(s)
	if err != nil {
		return err
	}
	*c.Value = v
	return nil
}

type Folder struct {
	Title    string
	Open     bool
	Controls []Control
}

func (f *Folder) Slider(name string, value *float32, min, max, step float32) *Slider {
	s := &Slider{Name: name, Value: value, Min: min, Max: max, Step: step}
	f.Controls = append(f.Controls, s)
	return s
}

func (f *Folder) Color(name string, value *mgl32.Vec3) *Color {
	c := &Color{Name: name, Value: value}
	f.Controls = append(f.Controls, c)
	return c
}

// Find returns the control with the given label.
func (f *Folder) Find(label string) Control {
	for _, c := range f.Controls {
		if c.Label() == label {
			return c
		}
	}
	return nil
}

type Panel struct {
	Title   string
	Folders []*Folder
}

func (p *Panel) AddFolder(title string) *Folder {
	f := &Folder{Title: title, Open: true}
	p.Folders = append(p.Folders, f)
	return f
}

func (p *Panel) Folder(title string) *Folder {
	for _, f := range p.Folders {
		if f.Title == title {
			return f
		}
	}
	return nil
}

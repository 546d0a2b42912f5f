package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Slider maps a horizontal drag to a value in [Min, Max].
type Slider struct {
	Label    string
	Value    float64
	Min, Max float64
	X, Y     float64
	W, H     float64
	Integer  bool // round Value, for counts like the population
}

// NewSlider creates a slider of default height
func NewSlider(x, y, width float64, label string, min, max, value float64) *Slider {
	return &Slider{
		Label: label,
		Value: value,
		Min:   min,
		Max:   max,
		X:     x,
		Y:     y,
		W:     width,
		H:     12,
	}
}

func (s *Slider) GetHeight() float64 {
	return s.H + 25 // bar + label line
}

// Update follows the mouse while the left button is held over the bar
func (s *Slider) Update() {
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	if float64(mx) < s.X || float64(mx) > s.X+s.W || float64(my) < s.Y || float64(my) > s.Y+s.H {
		return
	}
	s.Value = s.valueAt(float64(mx))
}

func (s *Slider) valueAt(mx float64) float64 {
	v := s.Min + (mx-s.X)/s.W*(s.Max-s.Min)
	if s.Integer {
		v = float64(int(v + 0.5))
	}
	return max(s.Min, min(s.Max, v))
}

func (s *Slider) Draw(screen *ebiten.Image) {
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W), float32(s.H), color.RGBA{R: 80, G: 80, B: 80, A: 255}, true)

	ratio := (s.Value - s.Min) / (s.Max - s.Min)
	vector.FillRect(screen, float32(s.X), float32(s.Y), float32(s.W*ratio), float32(s.H), color.RGBA{R: 120, G: 190, B: 240, A: 255}, true)
}

package ui

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is implemented by every control a Panel can hold
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	GetHeight() float64
}

type panelEntry struct {
	label  string // empty for buttons, they print their own
	widget Widget
}

type panelSection struct {
	title   string
	entries []panelEntry
}

// Panel stacks labelled widgets in titled sections and scrolls with the mouse wheel
type Panel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	ScrollOffset  float64
	Hidden        bool

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []*panelSection
}

func NewPanel(title string, x, y, width, height float64) *Panel {
	return &Panel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new titled group, following widgets go into it
func (p *Panel) AddSection(title string) {
	p.sections = append(p.sections, &panelSection{title: title})
}

func (p *Panel) current() *panelSection {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	return p.sections[len(p.sections)-1]
}

func (p *Panel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, 0, p.Width-20, label, min, max, value)
	p.current().entries = append(p.current().entries, panelEntry{label: label, widget: s})
	return s
}

func (p *Panel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(p.X+10, 0, label, value)
	p.current().entries = append(p.current().entries, panelEntry{label: label, widget: c})
	return c
}

func (p *Panel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, 0, p.Width-20, 22, label, onClick)
	p.current().entries = append(p.current().entries, panelEntry{widget: b})
	return b
}

// layout places every widget for the current scroll offset
func (p *Panel) layout() float64 {
	y := p.Y + 30 - p.ScrollOffset
	for _, s := range p.sections {
		y += 25
		for _, e := range s.entries {
			top := y
			if e.label != "" {
				top += 15
			}
			switch w := e.widget.(type) {
			case *Slider:
				w.Y = top
			case *Checkbox:
				w.Y = top
			case *Button:
				w.Y = top
			}
			y += e.widget.GetHeight()
		}
	}
	return y + p.ScrollOffset - p.Y
}

// Toggle shows a hidden panel or hides a visible one.
func (p *Panel) Toggle() {
	p.Hidden = !p.Hidden
}

func (p *Panel) Update() {
	if p.Hidden {
		return
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		p.ScrollOffset -= dy * 20
		maxScroll := max(0, p.layout()-p.Height+10)
		p.ScrollOffset = max(0, min(maxScroll, p.ScrollOffset))
	}
	p.layout()
	for _, s := range p.sections {
		for _, e := range s.entries {
			e.widget.Update()
		}
	}
}

func (p *Panel) visible(y float64) bool {
	return y >= p.Y+20 && y <= p.Y+p.Height-10
}

func (p *Panel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(p.Height), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	p.layout()
	y := p.Y + 30 - p.ScrollOffset
	for _, s := range p.sections {
		if p.visible(y) {
			vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20, color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, s.title, int(p.X+10), int(y+3))
		}
		y += 25
		for _, e := range s.entries {
			if p.visible(y) {
				label := e.label
				if sl, ok := e.widget.(*Slider); ok {
					label = fmt.Sprintf("%s: %.3g", label, sl.Value)
				}
				if label != "" {
					ebitenutil.DebugPrintAt(screen, label, int(p.X+10), int(y))
				}
				e.widget.Draw(screen)
			}
			y += e.widget.GetHeight()
		}
	}
}

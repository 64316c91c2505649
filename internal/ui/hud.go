//go:build ebiten

package ui

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/Mstrdav/cellular/internal/core"
)

// HUD renders a translucent parameter panel in the top-left corner.
type HUD struct {
	params      core.ParameterProvider
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter

	title    string
	snapshot core.ParameterSnapshot
	controls []hudControlState
	visible  bool
	height   int

	panel *ebiten.Image
	pixel *ebiten.Image
}

type hudControlState struct {
	control  core.ParameterControl
	value    float64
	hasValue bool

	top       int
	minusRect image.Rectangle
	plusRect  image.Rectangle
}

// NewHUD builds a HUD for sim. Parameters, controls and setters are picked up
// from whichever optional interfaces sim implements.
func NewHUD(sim core.Sim) *HUD {
	h := &HUD{title: sim.Name(), visible: true}
	h.params, _ = sim.(core.ParameterProvider)
	h.intSetter, _ = sim.(core.IntParameterSetter)
	h.floatSetter, _ = sim.(core.FloatParameterSetter)
	if provider, ok := sim.(core.ParameterControlsProvider); ok {
		for _, ctrl := range provider.ParameterControls() {
			h.controls = append(h.controls, hudControlState{control: ctrl})
		}
	}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	return h
}

// Toggle shows or hides the panel.
func (h *HUD) Toggle() { h.visible = !h.visible }

// Contains reports whether the screen point lies on the visible panel.
func (h *HUD) Contains(x, y int) bool {
	return h.visible && x >= 0 && x < panelWidth && y >= 0 && y < h.height
}

// Update refreshes the snapshot and applies a click at (mx, my) when click is
// set. It reports whether the click hit a control.
func (h *HUD) Update(mx, my int, click bool) bool {
	if h.params == nil {
		return false
	}
	h.snapshot = h.params.Parameters()
	h.layout()
	for i := range h.controls {
		state := &h.controls[i]
		p, ok := h.snapshot.Lookup(state.control.Key)
		state.hasValue = false
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(p.Value, 64); err == nil {
			state.value = v
			state.hasValue = true
		}
	}
	if !click || !h.visible {
		return false
	}
	for i := range h.controls {
		state := &h.controls[i]
		if !state.hasValue {
			continue
		}
		switch {
		case pointInRect(mx, my, state.minusRect):
			h.apply(state, -1)
			return true
		case pointInRect(mx, my, state.plusRect):
			h.apply(state, 1)
			return true
		}
	}
	return false
}

func (h *HUD) apply(state *hudControlState, direction int) {
	target, ok := adjust(state.control, state.value, direction)
	if !ok {
		return
	}
	switch state.control.Type {
	case core.ParamTypeInt:
		if h.intSetter != nil && h.intSetter.SetIntParameter(state.control.Key, int(target)) {
			state.value = target
		}
	case core.ParamTypeFloat:
		if h.floatSetter != nil && h.floatSetter.SetFloatParameter(state.control.Key, target) {
			state.value = target
		}
	}
}

// Draw paints the panel onto screen.
func (h *HUD) Draw(screen *ebiten.Image) {
	if !h.visible || h.height <= 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != h.height {
		if h.panel != nil {
			h.panel.Dispose()
		}
		h.panel = ebiten.NewImage(panelWidth, h.height)
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 200})

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, y, titleColor)
	for _, group := range h.snapshot.Groups {
		y += groupSpacing
		text.Draw(h.panel, group.Name, face, panelPadding, y, groupColor)
		for _, p := range group.Params {
			y += rowHeight
			text.Draw(h.panel, fmt.Sprintf("%-20s %s", p.Label, p.Value), face, panelPadding, y, labelColor)
		}
	}
	for i := range h.controls {
		h.drawControl(&h.controls[i])
	}
	screen.DrawImage(h.panel, nil)
}

func (h *HUD) drawControl(state *hudControlState) {
	face := basicfont.Face7x13
	baseline := state.top + labelBaseline
	text.Draw(h.panel, state.control.Label, face, panelPadding, baseline, labelColor)
	value := "--"
	if state.hasValue {
		value = formatValue(state.control, state.value)
	}
	bounds := text.BoundString(face, value)
	text.Draw(h.panel, value, face, state.minusRect.Min.X-buttonGap-bounds.Dx(), baseline, labelColor)

	_, canDown := adjust(state.control, state.value, -1)
	_, canUp := adjust(state.control, state.value, 1)
	h.drawButton(state.minusRect, "-", state.hasValue && canDown)
	h.drawButton(state.plusRect, "+", state.hasValue && canUp)
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = color.RGBA{R: 32, G: 34, B: 40, A: 255}
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(bg)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

// layout positions the controls below the parameter listing.
func (h *HUD) layout() {
	rows := 0
	for _, g := range h.snapshot.Groups {
		rows += len(g.Params)
	}
	top := panelPadding + headerBaseline + len(h.snapshot.Groups)*groupSpacing + rows*rowHeight + controlsGap
	for i := range h.controls {
		buttonY := top + (lineHeight-buttonSize)/2
		plus := image.Rect(panelWidth-panelPadding-buttonSize, buttonY, panelWidth-panelPadding, buttonY+buttonSize)
		minus := image.Rect(plus.Min.X-buttonGap-buttonSize, buttonY, plus.Min.X-buttonGap, buttonY+buttonSize)
		h.controls[i].top = top
		h.controls[i].minusRect = minus
		h.controls[i].plusRect = plus
		top += lineHeight
	}
	h.height = top + panelPadding
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return image.Pt(x, y).In(rect)
}

var (
	titleColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	groupColor = color.RGBA{R: 150, G: 180, B: 220, A: 255}
	labelColor = color.RGBA{R: 220, G: 220, B: 230, A: 255}
)

const (
	panelWidth     = 280
	panelPadding   = 12
	rowHeight      = 15
	groupSpacing   = 22
	lineHeight     = 30
	buttonSize     = 22
	buttonGap      = 6
	headerBaseline = 14
	labelBaseline  = 19
	controlsGap    = 16
)

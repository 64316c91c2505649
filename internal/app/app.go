//go:build ebiten

package app

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Mstrdav/cellular/internal/lattice"
	"github.com/Mstrdav/cellular/internal/render"
	"github.com/Mstrdav/cellular/internal/sims/life"
	"github.com/Mstrdav/cellular/internal/ui"
)

// Game adapts a Life simulation to the ebiten.Game interface. ebiten's frame
// loop is the host scheduler: Update is one frame and Tick decides whether a
// generation is due.
type Game struct {
	sim     *life.Life
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	patch   *lattice.Patch
	pointer Pointer
}

// New constructs a Game for the provided simulation.
func New(sim *life.Life) *Game {
	return &Game{
		sim:     sim,
		painter: render.NewGridPainter(color.White, color.Black),
		overlay: ui.NewOverlay(),
		hud:     ui.NewHUD(sim),
		patch:   lattice.NewPatch(lattice.Region{}),
	}
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sim.ToggleAnimation()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && !g.sim.Running() {
		g.sim.Step()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.sim.Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.sim.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.overlay.ToggleGrid()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.hud.Toggle()
	}

	mx, my := ebiten.CursorPosition()
	vp := g.sim.Viewport()
	scale := vp.Scale()

	if _, wy := ebiten.Wheel(); wy != 0 {
		g.sim.Zoom(WheelZoomDelta(wy, scale))
	}

	onHUD := g.hud.Contains(mx, my) && !g.pointer.Dragging()
	clicked := g.hud.Update(mx, my, onHUD && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft))
	if !onHUD && !clicked {
		gesture := g.pointer.Sample(float64(mx), float64(my), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))
		if gesture.PanX != 0 || gesture.PanY != 0 {
			g.sim.Pan(PanDelta(gesture.PanX, gesture.PanY, scale))
		}
		if gesture.Click {
			g.sim.ToggleAt(gesture.X, gesture.Y)
		}
	}

	vp = g.sim.Viewport()
	g.overlay.Hover(vp.ScreenToCell(float64(mx), float64(my)), !onHUD)

	g.sim.Tick(time.Now())
	return nil
}

// Draw renders the visible region, the overlay and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	vp := g.sim.Capture(g.patch)
	g.painter.Draw(screen, g.patch, vp)
	g.overlay.Draw(screen, vp)
	g.hud.Draw(screen)
}

// Layout follows the window size and forwards changes to the simulation.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.sim.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

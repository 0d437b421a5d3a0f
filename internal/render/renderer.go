// Package render turns world + camera state into a frame description. The
// frame is plain data so the drawing backend (canvas, terminal, test
// assertions) stays out of the simulation.
package render

import (
	"math"

	"github.com/noleforte/DRAW-sub001/internal/camera"
	"github.com/noleforte/DRAW-sub001/internal/geom"
	"github.com/noleforte/DRAW-sub001/internal/overlay"
	"github.com/noleforte/DRAW-sub001/internal/world"
)

const (
	// gridSpacing is the world-unit distance between grid lines.
	gridSpacing = 100.0
	coinRadius  = 8.0

	fallbackFill = "#1a1a2e"
)

// Options tunes a renderer instance.
type Options struct {
	// BackgroundReady is false when the background asset failed to load; the
	// frame then carries a flat fill instead.
	BackgroundReady bool
}

// Frame is one fully described draw pass in strict paint order.
type Frame struct {
	Background Background
	GridLines  []GridLine
	Coins      []CoinSprite
	Entities   []EntitySprite
	Overlays   []OverlayBox
}

type Background struct {
	UseImage bool
	Fill     string
}

// GridLine is one dashed line in screen space.
type GridLine struct {
	From   geom.Vec2
	To     geom.Vec2
	Dashed bool
}

type CoinSprite struct {
	ID     string
	Screen geom.Vec2
	Radius float64
}

type EntitySprite struct {
	ID     string
	Name   string
	Score  int
	Color  string
	Screen geom.Vec2
	Radius float64
	// AIBadge marks bot-controlled entities.
	AIBadge bool
	// Highlight distinguishes the locally controlled entity.
	Highlight bool
}

type OverlayBox struct {
	EntityID string
	Content  string
	Screen   geom.Vec2
}

// Renderer composes frames. It is a pure consumer: no world or camera state
// is mutated while drawing.
type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// SetBackgroundReady flips the background asset state, called once the asset
// load settles either way.
func (r *Renderer) SetBackgroundReady(ready bool) {
	r.opts.BackgroundReady = ready
}

// ComposeFrame builds the draw list for the current tick. Coins and entities
// outside the viewport are culled.
func (r *Renderer) ComposeFrame(w *world.World, cam *camera.Controller, overlays []overlay.Overlay) Frame {
	frame := Frame{
		Background: Background{UseImage: r.opts.BackgroundReady, Fill: fallbackFill},
		GridLines:  composeGrid(cam),
	}

	for _, coin := range w.Coins() {
		if cam.Culled(coin.Pos, coinRadius) {
			continue
		}
		frame.Coins = append(frame.Coins, CoinSprite{
			ID:     coin.ID,
			Screen: cam.WorldToScreen(coin.Pos),
			Radius: coinRadius * cam.Camera().Zoom,
		})
	}

	for _, e := range w.Entities() {
		if cam.Culled(e.Pos, e.Size) {
			continue
		}
		frame.Entities = append(frame.Entities, EntitySprite{
			ID:        e.ID,
			Name:      e.Name,
			Score:     e.Score,
			Color:     e.Color,
			Screen:    cam.WorldToScreen(e.Pos),
			Radius:    e.Size * cam.Camera().Zoom,
			AIBadge:   e.IsBot(),
			Highlight: e.ControlledLocally(),
		})
	}

	for _, o := range overlays {
		frame.Overlays = append(frame.Overlays, OverlayBox{
			EntityID: o.EntityID,
			Content:  o.Content,
			Screen:   o.ScreenPos,
		})
	}

	return frame
}

// composeGrid emits dashed lines aligned to world coordinates across the
// visible region, derived by unprojecting the viewport corners.
func composeGrid(cam *camera.Controller) []GridLine {
	width, height := cam.Viewport()
	topLeft := cam.ScreenToWorld(geom.Vec2{})
	bottomRight := cam.ScreenToWorld(geom.Vec2{X: width, Y: height})

	var lines []GridLine
	startX := math.Floor(topLeft.X/gridSpacing) * gridSpacing
	for x := startX; x <= bottomRight.X; x += gridSpacing {
		from := cam.WorldToScreen(geom.Vec2{X: x, Y: topLeft.Y})
		to := cam.WorldToScreen(geom.Vec2{X: x, Y: bottomRight.Y})
		lines = append(lines, GridLine{From: from, To: to, Dashed: true})
	}
	startY := math.Floor(topLeft.Y/gridSpacing) * gridSpacing
	for y := startY; y <= bottomRight.Y; y += gridSpacing {
		from := cam.WorldToScreen(geom.Vec2{X: topLeft.X, Y: y})
		to := cam.WorldToScreen(geom.Vec2{X: bottomRight.X, Y: y})
		lines = append(lines, GridLine{From: from, To: to, Dashed: true})
	}
	return lines
}

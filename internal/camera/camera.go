package camera

import (
	"math"

	"github.com/noleforte/DRAW-sub001/internal/geom"
)

const (
	// positionLerp converges the camera toward its target each tick. The
	// factor is applied per tick, not scaled by dt, so convergence speed is
	// tied to the tick rate on purpose.
	positionLerp = 0.1
	zoomLerp     = 0.05

	zoomMin  = 0.8
	zoomMax  = 1.2
	zoomBase = 1.2
	// zoomSpeedFactor widens the view as the target moves faster.
	zoomSpeedFactor = 0.1
)

// Camera holds the view state. It is owned exclusively by the Controller and
// mutated only through the Follow lerp step.
type Camera struct {
	Pos  geom.Vec2
	Zoom float64
}

// Target is the capability the camera needs from whatever it follows.
type Target interface {
	Position() geom.Vec2
	Velocity() geom.Vec2
}

// Controller follows a target entity and exposes the world-to-screen
// transform used by the renderer and overlay tracker.
type Controller struct {
	cam      Camera
	viewport geom.Vec2
}

// New constructs a controller for the given viewport size.
func New(viewportWidth, viewportHeight float64) *Controller {
	return &Controller{
		cam:      Camera{Zoom: 1},
		viewport: geom.Vec2{X: viewportWidth, Y: viewportHeight},
	}
}

// Camera returns the current view state.
func (c *Controller) Camera() Camera {
	return c.cam
}

// Viewport returns the viewport dimensions.
func (c *Controller) Viewport() (width, height float64) {
	return c.viewport.X, c.viewport.Y
}

// SnapTo centers the camera on a position immediately, used when the local
// player first resolves so the view does not lerp across the whole arena.
func (c *Controller) SnapTo(pos geom.Vec2) {
	c.cam.Pos = pos
}

// Follow runs one camera tick: lerp position toward the target and ease zoom
// toward a speed-derived level. A zero-length velocity produces speed 0 and a
// NaN speed is treated the same, keeping zoom well defined.
func (c *Controller) Follow(target Target) {
	if target == nil {
		return
	}
	c.cam.Pos = c.cam.Pos.Add(target.Position().Sub(c.cam.Pos).Scale(positionLerp))

	speed := target.Velocity().Length()
	if math.IsNaN(speed) {
		speed = 0
	}
	targetZoom := geom.Clamp(zoomBase-speed*zoomSpeedFactor, zoomMin, zoomMax)
	c.cam.Zoom += (targetZoom - c.cam.Zoom) * zoomLerp
}

// WorldToScreen maps a world coordinate into viewport space.
func (c *Controller) WorldToScreen(world geom.Vec2) geom.Vec2 {
	center := c.viewport.Scale(0.5)
	return world.Sub(c.cam.Pos).Scale(c.cam.Zoom).Add(center)
}

// ScreenToWorld is the exact inverse of WorldToScreen.
func (c *Controller) ScreenToWorld(screen geom.Vec2) geom.Vec2 {
	center := c.viewport.Scale(0.5)
	return screen.Sub(center).Scale(1 / c.cam.Zoom).Add(c.cam.Pos)
}

// Culled reports whether an object at the given world position with the given
// world-space radius lies entirely outside the viewport and can be skipped.
func (c *Controller) Culled(world geom.Vec2, radius float64) bool {
	screen := c.WorldToScreen(world)
	r := radius * c.cam.Zoom
	if screen.X < -r || screen.X > c.viewport.X+r {
		return true
	}
	if screen.Y < -r || screen.Y > c.viewport.Y+r {
		return true
	}
	return false
}

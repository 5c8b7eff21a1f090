package main

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/cutscene/timeline"
)

const (
	unitMaxSpeed    = 220.0
	unitArriveRange = 96.0
	unitStopRange   = 4.0
)

// Unit is a demo actor backed by a physics body. The hero is kinematic so a
// move track can steer it directly; squad grunts are dynamic and chase orders
// handed out by command handlers.
type Unit struct {
	Name  string
	Color color.RGBA

	body      *cp.Body
	goal      cp.Vector
	hasGoal   bool
	kinematic bool
}

func NewUnit(space *cp.Space, name string, x, y float64, col color.RGBA, kinematic bool) *Unit {
	var body *cp.Body
	if kinematic {
		body = cp.NewKinematicBody()
	} else {
		body = cp.NewBody(1, cp.MomentForBox(1, unitSize, unitSize))
	}
	body.SetPosition(cp.Vector{X: x, Y: y})
	space.AddBody(body)

	shape := cp.NewBox(body, unitSize, unitSize, 0)
	shape.SetFriction(0.6)
	shape.SetElasticity(0)
	space.AddShape(shape)

	return &Unit{
		Name:      name,
		Color:     col,
		body:      body,
		kinematic: kinematic,
	}
}

func (u *Unit) Pos() cp.Vector {
	return u.body.Position()
}

// Order sends the unit toward a world point. Steering happens in Update.
func (u *Unit) Order(x, y float64) {
	u.goal = cp.Vector{X: x, Y: y}
	u.hasGoal = true
}

// Halt cancels the current order and zeroes velocity.
func (u *Unit) Halt() {
	u.hasGoal = false
	u.body.SetVelocityVector(cp.Vector{})
}

// Update applies arrive steering toward the current goal, slowing inside the
// arrive range and stopping once close enough.
func (u *Unit) Update(dt float64) {
	if !u.hasGoal {
		return
	}
	to := u.goal.Sub(u.body.Position())
	dist := to.Length()
	if dist <= unitStopRange {
		u.Halt()
		return
	}
	speed := unitMaxSpeed
	if dist < unitArriveRange {
		speed *= dist / unitArriveRange
	}
	u.body.SetVelocityVector(to.Mult(speed / math.Max(dist, 1e-9)))
}

// Binding exposes the unit to a move track. Track writes place the body and
// clear any competing order.
func (u *Unit) Binding() *timeline.Binding {
	return &timeline.Binding{
		GetPosition: func() mgl64.Vec2 {
			p := u.body.Position()
			return mgl64.Vec2{p.X, p.Y}
		},
		SetPosition: func(v mgl64.Vec2) {
			u.hasGoal = false
			u.body.SetVelocityVector(cp.Vector{})
			u.body.SetPosition(cp.Vector{X: v.X(), Y: v.Y()})
		},
	}
}

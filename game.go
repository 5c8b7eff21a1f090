package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/cutscene/assets"
	"github.com/milk9111/cutscene/script"
	"github.com/milk9111/cutscene/timeline"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	worldWidth  = 1600
	worldHeight = 1000

	tileSize = 40
	unitSize = 24

	tickRate = 60.0
)

type Game struct {
	frames int

	seq     *timeline.Sequence
	runtime *script.Runtime

	space *cp.Space
	hero  *Unit
	squad []*Unit
	light *SceneLight
	cam   *Camera

	// squadGhost is the simulation-mode stand-in the command mixer moves so
	// the preview approximates runtime squad motion without dispatching.
	squadGhost cp.Vector

	tileImg *ebiten.Image
	unitImg *ebiten.Image
}

func NewGame(cutsceneName string, live bool) (*Game, error) {
	data, err := assets.LoadCutscene(cutsceneName)
	if err != nil {
		return nil, fmt.Errorf("load cutscene %q (embedded: %v): %w", cutsceneName, assets.Cutscenes(), err)
	}
	seq, err := timeline.Load(data)
	if err != nil {
		return nil, err
	}

	space := cp.NewSpace()
	space.Iterations = 10
	space.SetDamping(0.9)

	g := &Game{
		seq:   seq,
		space: space,
		light: NewSceneLight(),
		cam:   NewCamera(baseWidth, baseHeight, worldWidth, worldHeight),
	}

	g.hero = NewUnit(space, "hero", 160, 520, color.RGBA{0x46, 0xb4, 0xff, 0xff}, true)
	g.squad = []*Unit{
		NewUnit(space, "grunt-1", 120, 620, color.RGBA{0xd8, 0x5a, 0x5a, 0xff}, false),
		NewUnit(space, "grunt-2", 180, 660, color.RGBA{0xd8, 0x5a, 0x5a, 0xff}, false),
		NewUnit(space, "grunt-3", 240, 620, color.RGBA{0xd8, 0x5a, 0x5a, 0xff}, false),
	}
	g.squadGhost = g.squadCenter()

	scriptSrc, err := assets.LoadScript("orders")
	if err != nil {
		return nil, fmt.Errorf("load orders script: %w", err)
	}
	g.runtime, err = script.NewRuntime(scriptSrc, g.scriptEngine())
	if err != nil {
		return nil, err
	}

	g.bind()
	seq.SetLive(live)
	seq.Play()

	g.tileImg = ebiten.NewImage(tileSize, tileSize)
	g.tileImg.Fill(color.RGBA{0x2e, 0x46, 0x2e, 0xff})
	g.unitImg = ebiten.NewImage(unitSize, unitSize)
	g.unitImg.Fill(color.White)

	return g, nil
}

// bind wires every cutscene target to its in-game object. Binding closures
// are re-resolved by the sequence every frame.
func (g *Game) bind() {
	g.seq.Bind("sun", func() *timeline.Binding { return g.light.Binding() })
	g.seq.Bind("hero", func() *timeline.Binding { return g.hero.Binding() })
	g.seq.Bind("squad", func() *timeline.Binding { return g.squadBinding() })
}

func (g *Game) scriptEngine() script.Engine {
	return script.Engine{
		"move_unit": func(args ...any) any {
			if len(args) < 3 {
				return false
			}
			target, _ := args[0].(string)
			x := asFloat(args[1])
			y := asFloat(args[2])
			for i, u := range g.unitsFor(target) {
				// Fan the squad out so units don't fight for one spot.
				u.Order(x+float64(i%2)*48-24, y+float64(i/2)*48-24)
			}
			return true
		},
		"halt": func(args ...any) any {
			if len(args) < 1 {
				return false
			}
			target, _ := args[0].(string)
			for _, u := range g.unitsFor(target) {
				u.Halt()
			}
			return true
		},
		"log": func(args ...any) any {
			if len(args) > 0 {
				log.Printf("orders: %v", args[0])
			}
			return nil
		},
	}
}

func (g *Game) unitsFor(target string) []*Unit {
	switch target {
	case "hero":
		return []*Unit{g.hero}
	case "squad":
		return g.squad
	default:
		return nil
	}
}

func (g *Game) squadBinding() *timeline.Binding {
	return &timeline.Binding{
		GetPosition: func() mgl64.Vec2 { c := g.squadCenter(); return mgl64.Vec2{c.X, c.Y} },
		SetPosition: func(v mgl64.Vec2) { g.squadGhost = cp.Vector{X: v.X(), Y: v.Y()} },
		Dispatch: func(p timeline.Payload) {
			handled, err := g.runtime.Dispatch(p.Command, "squad", p.Position.X(), p.Position.Y())
			if err != nil {
				log.Printf("dispatch %q: %v", p.Command, err)
				return
			}
			if !handled {
				log.Printf("dispatch %q: no handler", p.Command)
			}
		},
	}
}

// asFloat loosens the script boundary: tengo hands back int64 for whole
// numbers even when the handler was given a float.
func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}

func (g *Game) squadCenter() cp.Vector {
	var c cp.Vector
	if len(g.squad) == 0 {
		return c
	}
	for _, u := range g.squad {
		c = c.Add(u.Pos())
	}
	return c.Mult(1 / float64(len(g.squad)))
}

func (g *Game) Update() error {
	g.frames++
	dt := 1.0 / tickRate

	g.handleInput()

	g.seq.Advance(dt)
	g.space.Step(dt)
	g.hero.Update(dt)
	for _, u := range g.squad {
		u.Update(dt)
	}

	focus := []cp.Vector{g.hero.Pos()}
	if g.seq.Live() {
		for _, u := range g.squad {
			focus = append(focus, u.Pos())
		}
	} else {
		focus = append(focus, g.squadGhost)
	}
	g.cam.Update(dt, focus)

	return nil
}

func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		if g.seq.Playing() {
			g.seq.Pause()
		} else {
			g.seq.Play()
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.seq.SetLive(!g.seq.Live())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.seq.Stop()
		g.seq.Rewind()
		g.seq.Play()
	}
	if !g.seq.Playing() {
		if ebiten.IsKeyPressed(ebiten.KeyLeft) {
			g.seq.SetTime(g.seq.Time() - 0.1)
			g.seq.Evaluate()
		}
		if ebiten.IsKeyPressed(ebiten.KeyRight) {
			g.seq.SetTime(g.seq.Time() + 0.1)
			g.seq.Evaluate()
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawGround(screen)
	g.drawUnits(screen)

	mode := "simulation"
	if g.seq.Live() {
		mode = "live"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"t=%5.2f/%5.2f  mode=%s  playing=%v  fps=%.1f\nspace: play/pause  L: mode  R: restart  arrows: scrub (paused)",
		g.seq.Time(), g.seq.End(), mode, g.seq.Playing(), ebiten.ActualFPS()))
}

func (g *Game) drawGround(screen *ebiten.Image) {
	screen.Fill(g.light.Shade(color.RGBA{0x1c, 0x28, 0x1c, 0xff}))
	camX, camY := g.cam.Offset()
	for y := 0; y < worldHeight/tileSize; y++ {
		for x := 0; x < worldWidth/tileSize; x++ {
			if (x+y)%2 != 0 {
				continue
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x*tileSize)-camX, float64(y*tileSize)-camY)
			g.light.Scale(op)
			screen.DrawImage(g.tileImg, op)
		}
	}
}

func (g *Game) drawUnits(screen *ebiten.Image) {
	camX, camY := g.cam.Offset()
	draw := func(pos cp.Vector, col color.RGBA, alpha float32) {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(pos.X-unitSize/2-camX, pos.Y-unitSize/2-camY)
		op.ColorScale.ScaleWithColor(col)
		op.ColorScale.ScaleAlpha(alpha)
		g.light.Scale(op)
		screen.DrawImage(g.unitImg, op)
	}

	for _, u := range g.squad {
		draw(u.Pos(), u.Color, 1)
	}
	draw(g.hero.Pos(), g.hero.Color, 1)
	if !g.seq.Live() {
		// Ghost marker for where the command track would have the squad.
		draw(g.squadGhost, color.RGBA{0xff, 0xff, 0xff, 0xff}, 0.35)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

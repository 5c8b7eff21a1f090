package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/color"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"

	"github.com/milk9111/cutscene/timeline"
)

const (
	previewWidth  = 960
	previewHeight = 540

	laneLeft   = 40
	laneTop    = 90
	laneHeight = 36
	laneGap    = 10
)

// PreviewGame plays a cutscene document against probe bindings so authors
// can scrub tracks and watch blended values without launching the game.
type PreviewGame struct {
	path string

	seq    *timeline.Sequence
	probes []*Probe

	watcher   *timeline.Watcher
	session   *Session
	ui        *ebitenui.UI
	transport *Transport

	pixel           *ebiten.Image
	snapshotPending bool
	clipboardOK     bool
	status          string
	frames          int
}

func main() {
	file := flag.String("f", "assets/cutscenes/intro.yaml", "cutscene document to preview")
	flag.Parse()

	game, err := NewPreviewGame(*file)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(previewWidth, previewHeight)
	ebiten.SetWindowTitle("cutscene preview")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func NewPreviewGame(path string) (*PreviewGame, error) {
	g := &PreviewGame{
		path:    path,
		session: openSession(),
	}

	if err := g.reload(); err != nil {
		return nil, err
	}

	watcher, err := timeline.NewWatcher([]string{".yaml", ".yml"}, filepath.Dir(path))
	if err != nil {
		log.Printf("hot reload disabled: %v", err)
	} else {
		g.watcher = watcher
	}

	g.ui, g.transport = buildPreviewUI(
		g.togglePlay,
		func() { g.seq.Stop(); g.syncTransport(); g.saveSession() },
		func() { g.seq.Rewind(); g.seq.Evaluate() },
		g.toggleLive,
		func() {
			if err := g.reload(); err != nil {
				g.status = err.Error()
			}
		},
		func() { g.snapshotPending = true },
	)

	// Resume the previous session when it was previewing the same document.
	if st := g.session.State(); st.LastFile == path {
		g.seq.SetLive(st.Live)
		g.seq.SetTime(st.Playhead)
		g.seq.Evaluate()
	}
	g.syncTransport()

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	g.pixel = ebiten.NewImage(1, 1)
	g.pixel.Fill(color.White)
	return g, nil
}

// reload re-parses the document and rebinds fresh probes, preserving the
// playhead and transport state across the swap.
func (g *PreviewGame) reload() error {
	seq, err := timeline.LoadFile(g.path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", g.path, err)
	}

	var oldTime float64
	playing := false
	live := false
	if g.seq != nil {
		oldTime = g.seq.Time()
		playing = g.seq.Playing()
		live = g.seq.Live()
		g.seq.Stop()
	}

	g.probes = g.probes[:0]
	seen := make(map[string]bool)
	for _, tr := range seq.Tracks() {
		if seen[tr.Target] {
			continue
		}
		seen[tr.Target] = true
		probe := newProbe(tr.Target, tr.Kind)
		g.probes = append(g.probes, probe)
		seq.Bind(tr.Target, func() *timeline.Binding { return probe.binding() })
	}

	seq.SetLive(live)
	seq.SetTime(oldTime)
	if playing {
		seq.Play()
	}
	seq.Evaluate()

	g.seq = seq
	g.status = fmt.Sprintf("loaded %s (%d tracks, %.1fs)", filepath.Base(g.path), len(seq.Tracks()), seq.End())
	return nil
}

func (g *PreviewGame) togglePlay() {
	if g.seq.Playing() {
		g.seq.Pause()
	} else {
		if g.seq.Finished() {
			g.seq.Rewind()
		}
		g.seq.Play()
	}
	g.syncTransport()
	g.saveSession()
}

func (g *PreviewGame) toggleLive() {
	g.seq.SetLive(!g.seq.Live())
	g.syncTransport()
	g.saveSession()
}

func (g *PreviewGame) syncTransport() {
	if g.transport == nil {
		return
	}
	g.transport.SetPlaying(g.seq.Playing())
	g.transport.SetLive(g.seq.Live())
}

func (g *PreviewGame) saveSession() {
	g.session.Save(SessionState{
		LastFile: g.path,
		Playhead: g.seq.Time(),
		Live:     g.seq.Live(),
	})
}

func (g *PreviewGame) Update() error {
	g.frames++

	if g.watcher != nil {
	drain:
		for {
			select {
			case path, ok := <-g.watcher.Events:
				if !ok {
					g.watcher = nil
					break drain
				}
				if filepath.Clean(path) != filepath.Clean(g.path) {
					continue
				}
				if err := g.reload(); err != nil {
					g.status = err.Error()
				}
			case err := <-g.watcher.Errors:
				if err != nil {
					g.status = err.Error()
				}
			default:
				break drain
			}
		}
	}

	g.handleInput()
	g.seq.Advance(1.0 / 60.0)
	// Advance may pause at the end; keep the button label in sync.
	g.syncTransport()

	if g.ui != nil {
		g.ui.Update()
	}

	// Periodic session save so a crash doesn't lose the playhead.
	if g.frames%300 == 0 {
		g.saveSession()
	}
	return nil
}

func (g *PreviewGame) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePlay()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.toggleLive()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.seq.Stop()
		g.seq.Rewind()
		g.seq.Play()
		g.syncTransport()
	}
	if !g.seq.Playing() {
		if ebiten.IsKeyPressed(ebiten.KeyLeft) {
			g.seq.SetTime(g.seq.Time() - 0.05)
			g.seq.Evaluate()
		}
		if ebiten.IsKeyPressed(ebiten.KeyRight) {
			g.seq.SetTime(g.seq.Time() + 0.05)
			g.seq.Evaluate()
		}
	}
}

func (g *PreviewGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x16, 0x16, 0x1c, 0xff})
	g.drawLanes(screen)
	g.drawPlayhead(screen)
	g.drawReadouts(screen)

	if g.ui != nil {
		g.ui.Draw(screen)
	}

	if g.snapshotPending {
		g.snapshotPending = false
		g.writeSnapshot(screen)
	}
}

func (g *PreviewGame) fillRect(screen *ebiten.Image, x, y, w, h float64, c color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(w, h)
	op.GeoM.Translate(x, y)
	op.ColorScale.Scale(float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255)
	screen.DrawImage(g.pixel, op)
}

func kindColor(kind timeline.PayloadKind) color.RGBA {
	switch kind {
	case timeline.PayloadLight:
		return color.RGBA{0xe8, 0xc2, 0x4a, 0xff}
	case timeline.PayloadMove:
		return color.RGBA{0x4a, 0xa8, 0xe8, 0xff}
	case timeline.PayloadCommand:
		return color.RGBA{0xe8, 0x5a, 0x7a, 0xff}
	}
	return color.RGBA{0xaa, 0xaa, 0xaa, 0xff}
}

func (g *PreviewGame) laneScale() float64 {
	end := g.seq.End()
	if end <= 0 {
		return 1
	}
	return float64(previewWidth-2*laneLeft) / end
}

func (g *PreviewGame) drawLanes(screen *ebiten.Image) {
	scale := g.laneScale()
	for i, tr := range g.seq.Tracks() {
		y := float64(laneTop + i*(laneHeight+laneGap))
		g.fillRect(screen, laneLeft, y, float64(previewWidth-2*laneLeft), laneHeight, color.RGBA{0x2a, 0x2a, 0x34, 0xff})

		clipCol := kindColor(tr.Kind)
		dimCol := clipCol
		dimCol.A = 0x60
		for j, c := range tr.Clips {
			x := laneLeft + c.Start*scale
			w := c.Duration * scale
			g.fillRect(screen, x, y+4, w, laneHeight-8, dimCol)
			// Solid core between the blend ramps.
			coreX := x + c.BlendIn*scale
			coreW := (c.Duration - c.BlendIn - c.BlendOut) * scale
			if coreW > 0 {
				g.fillRect(screen, coreX, y+4, coreW, laneHeight-8, clipCol)
			}
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", j), int(x)+2, int(y)+8)
		}
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s -> %s", tr.Name, tr.Target), laneLeft, int(y)-14)
	}
}

func (g *PreviewGame) drawPlayhead(screen *ebiten.Image) {
	scale := g.laneScale()
	x := laneLeft + g.seq.Time()*scale
	h := float64(len(g.seq.Tracks()) * (laneHeight + laneGap))
	g.fillRect(screen, x-1, laneTop-16, 2, h+16, color.RGBA{0xff, 0xff, 0xff, 0xc0})
}

func (g *PreviewGame) drawReadouts(screen *ebiten.Image) {
	y := laneTop + len(g.seq.Tracks())*(laneHeight+laneGap) + 16
	mode := "sim"
	if g.seq.Live() {
		mode = "live"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  t=%5.2f/%5.2f  mode=%s  playing=%v",
		g.seq.Name, g.seq.Time(), g.seq.End(), mode, g.seq.Playing()), laneLeft, y)
	for i, p := range g.probes {
		ebitenutil.DebugPrintAt(screen, p.Readout(), laneLeft, y+16*(i+1))
	}
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, laneLeft, previewHeight-20)
	}
}

func (g *PreviewGame) writeSnapshot(screen *ebiten.Image) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, screen); err != nil {
		g.status = fmt.Sprintf("snapshot: %v", err)
		return
	}

	name := fmt.Sprintf("preview-%s.png", time.Now().Format("20060102-150405"))
	if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
		g.status = fmt.Sprintf("snapshot: %v", err)
		return
	}

	g.status = "snapshot written to " + name
	if g.clipboardOK {
		clipboard.Write(clipboard.FmtImage, buf.Bytes())
		g.status += " (copied to clipboard)"
	}
}

func (g *PreviewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return previewWidth, previewHeight
}

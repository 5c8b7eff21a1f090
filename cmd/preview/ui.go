package main

import (
	"bytes"
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Transport holds the transport buttons that need live state updates.
type Transport struct {
	playBtn *widget.Button
	liveBtn *widget.Button
}

// SetPlaying flips the play button label to match the sequence state.
func (t *Transport) SetPlaying(playing bool) {
	if t == nil || t.playBtn == nil {
		return
	}
	label := "Play"
	if playing {
		label = "Pause"
	}
	if text := t.playBtn.Text(); text != nil {
		text.Label = label
	}
}

// SetLive flips the mode button label.
func (t *Transport) SetLive(live bool) {
	if t == nil || t.liveBtn == nil {
		return
	}
	label := "Mode: sim"
	if live {
		label = "Mode: live"
	}
	if text := t.liveBtn.Text(); text != nil {
		text.Label = label
	}
}

func buildPreviewUI(
	onPlayPause func(),
	onStop func(),
	onRewind func(),
	onToggleLive func(),
	onReload func(),
	onSnapshot func(),
) (*ebitenui.UI, *Transport) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}

	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newPreviewTheme(&fontFace)

	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}

	bar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(520, 48),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 240, 255})),
	)

	newButton := func(label string, onClick func()) *widget.Button {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(ui.PrimaryTheme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, &fontFace, buttonTextColor),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if onClick != nil {
					onClick()
				}
			}),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(72, 40),
			),
		)
		bar.AddChild(btn)
		return btn
	}

	transport := &Transport{}
	transport.playBtn = newButton("Play", onPlayPause)
	newButton("Stop", onStop)
	newButton("Rewind", onRewind)
	transport.liveBtn = newButton("Mode: sim", onToggleLive)
	newButton("Reload", onReload)
	newButton("Snapshot", onSnapshot)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	bar.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	root.AddChild(bar)

	ui.Container = root
	return ui, transport
}

package ui

import (
	"image"
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/nvoss/parrot/internal/transcript"
)

var (
	colorBG         = color.NRGBA{R: 30, G: 30, B: 34, A: 255}
	colorPanel      = color.NRGBA{R: 45, G: 45, B: 50, A: 255}
	colorPanelLight = color.NRGBA{R: 55, G: 55, B: 62, A: 255}
	colorText       = color.NRGBA{R: 240, G: 240, B: 245, A: 255}
	colorTextDim    = color.NRGBA{R: 140, G: 140, B: 150, A: 255}
	colorAccent     = color.NRGBA{R: 88, G: 166, B: 255, A: 255}
	colorSuccess    = color.NRGBA{R: 80, G: 200, B: 120, A: 255}
	colorWarning    = color.NRGBA{R: 255, G: 180, B: 0, A: 255}
	colorSelected   = color.NRGBA{R: 60, G: 100, B: 160, A: 255}
)

func (w *Window) draw(gtx layout.Context) {
	paint.FillShape(gtx.Ops, colorBG, clip.Rect{Max: gtx.Constraints.Max}.Op())

	layout.UniformInset(unit.Dp(12)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(w.drawTitle),
			layout.Rigid(layout.Spacer{Height: unit.Dp(10)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return w.drawLanguageRow(gtx, "Speak", w.inputLangs, w.inputLang, w.inputButtons)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return w.drawLanguageRow(gtx, "Reply", w.outputLangs, w.outputLang, w.outputButtons)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(10)}.Layout),
			layout.Flexed(1, w.drawTranscript),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(w.drawStatus),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(w.drawControls),
		)
	})
}

func (w *Window) drawTitle(gtx layout.Context) layout.Dimensions {
	th := material.NewTheme()
	th.Palette.Fg = colorText
	title := material.Label(th, unit.Sp(18), "Parrot")
	title.Font.Weight = font.Bold
	return title.Layout(gtx)
}

func (w *Window) drawLanguageRow(gtx layout.Context, label string, langs []string, selected string, buttons map[string]*widget.Clickable) layout.Dimensions {
	children := []layout.FlexChild{
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min.X = gtx.Dp(unit.Dp(52))
			th := material.NewTheme()
			th.Palette.Fg = colorTextDim
			return material.Label(th, unit.Sp(12), label).Layout(gtx)
		}),
	}
	for _, lang := range langs {
		bg := colorPanelLight
		if lang == selected {
			bg = colorSelected
		}
		btn := buttons[lang]
		text := lang
		children = append(children,
			layout.Rigid(layout.Spacer{Width: unit.Dp(6)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return w.drawChip(gtx, btn, text, bg)
			}),
		)
	}
	return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, children...)
}

// drawTranscript renders the scrollable conversation panel. The list sticks
// to the newest entry unless the user has scrolled away.
func (w *Window) drawTranscript(gtx layout.Context) layout.Dimensions {
	paint.FillShape(gtx.Ops, colorPanel, clip.Rect{Max: gtx.Constraints.Max}.Op())

	layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		if len(w.entries) == 0 {
			th := material.NewTheme()
			th.Palette.Fg = colorTextDim
			return material.Label(th, unit.Sp(13), "Press Start Listening and speak.").Layout(gtx)
		}
		th := material.NewTheme()
		return material.List(th, &w.transcriptList).Layout(gtx, len(w.entries), func(gtx layout.Context, i int) layout.Dimensions {
			return w.drawEntry(gtx, w.entries[i])
		})
	})
	return layout.Dimensions{Size: gtx.Constraints.Max}
}

func (w *Window) drawEntry(gtx layout.Context, entry transcript.Entry) layout.Dimensions {
	tag, tagColor := roleTag(entry.Role)
	textColor := colorText
	if entry.Role == transcript.RoleSystem {
		textColor = colorWarning
	}

	return layout.Inset{Top: unit.Dp(3), Bottom: unit.Dp(3)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				th := material.NewTheme()
				th.Palette.Fg = colorTextDim
				return material.Label(th, unit.Sp(11), entry.Time.Format("15:04:05")).Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min.X = gtx.Dp(unit.Dp(64))
				th := material.NewTheme()
				th.Palette.Fg = tagColor
				lbl := material.Label(th, unit.Sp(12), tag)
				lbl.Font.Weight = font.Medium
				return lbl.Layout(gtx)
			}),
			layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				th := material.NewTheme()
				th.Palette.Fg = textColor
				return material.Label(th, unit.Sp(13), entry.Text).Layout(gtx)
			}),
		)
	})
}

func (w *Window) drawStatus(gtx layout.Context) layout.Dimensions {
	status := "Ready"
	fg := colorTextDim
	if w.listening {
		status = "Listening..."
		fg = colorSuccess
	}
	th := material.NewTheme()
	th.Palette.Fg = fg
	return material.Label(th, unit.Sp(12), status).Layout(gtx)
}

func (w *Window) drawControls(gtx layout.Context) layout.Dimensions {
	toggleText := "Start Listening"
	toggleBg := colorAccent
	if w.listening {
		toggleText = "Stop Listening"
		toggleBg = colorWarning
	}
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return w.drawButton(gtx, &w.toggleBtn, toggleText, toggleBg)
		}),
		layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return w.drawButton(gtx, &w.exitBtn, "Exit", colorPanel)
		}),
	)
}

// --- Drawing primitives ---

func (w *Window) drawChip(gtx layout.Context, btn *widget.Clickable, text string, bg color.NRGBA) layout.Dimensions {
	macro := op.Record(gtx.Ops)
	dims := material.Clickable(gtx, btn, func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4), Left: unit.Dp(10), Right: unit.Dp(10)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			th := material.NewTheme()
			th.Palette.Fg = colorText
			lbl := material.Label(th, unit.Sp(12), text)
			lbl.Font.Weight = font.Medium
			return lbl.Layout(gtx)
		})
	})
	call := macro.Stop()

	rr := gtx.Dp(unit.Dp(4))
	paint.FillShape(gtx.Ops, bg, clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}.Op(gtx.Ops))
	call.Add(gtx.Ops)
	return dims
}

func (w *Window) drawButton(gtx layout.Context, btn *widget.Clickable, text string, bg color.NRGBA) layout.Dimensions {
	macro := op.Record(gtx.Ops)
	dims := material.Clickable(gtx, btn, func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Top: unit.Dp(8), Bottom: unit.Dp(8), Left: unit.Dp(16), Right: unit.Dp(16)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			th := material.NewTheme()
			th.Palette.Fg = colorText
			lbl := material.Label(th, unit.Sp(14), text)
			lbl.Font.Weight = font.Medium
			return lbl.Layout(gtx)
		})
	})
	call := macro.Stop()

	rr := gtx.Dp(unit.Dp(6))
	paint.FillShape(gtx.Ops, bg, clip.RRect{
		Rect: image.Rectangle{Max: dims.Size},
		NE:   rr, NW: rr, SE: rr, SW: rr,
	}.Op(gtx.Ops))
	call.Add(gtx.Ops)
	return dims
}

func roleTag(role transcript.Role) (string, color.NRGBA) {
	switch role {
	case transcript.RoleUser:
		return "You", colorAccent
	case transcript.RoleAssistant:
		return "Assistant", colorSuccess
	default:
		return "System", colorWarning
	}
}

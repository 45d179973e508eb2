package main

import (
	"image/color"
	"time"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"taskboard/pkg/board"
	"taskboard/pkg/task"
)

var (
	highCostColor = color.NRGBA{R: 0xFF, G: 0xA0, B: 0x00, A: 0xFF}
	dimColor      = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	dangerColor   = color.NRGBA{R: 0xC0, G: 0x30, B: 0x30, A: 0xFF}
	scrimColor    = color.NRGBA{A: 0xC0}
	cardColor     = color.NRGBA{R: 0x24, G: 0x24, B: 0x24, A: 0xFF}

	noticeColors = map[board.Kind]color.NRGBA{
		board.KindSuccess: {R: 0x1E, G: 0x6B, B: 0x3A, A: 0xFF},
		board.KindError:   {R: 0x8B, G: 0x1E, B: 0x1E, A: 0xFF},
		board.KindWarning: {R: 0x8A, G: 0x5A, B: 0x00, A: 0xFF},
	}
)

// column weights: id, name, due, cost, actions
var colWeights = [5]float32{0.6, 3, 2.2, 1.4, 2}

func (ui *UI) layout(gtx layout.Context) layout.Dimensions {
	ui.mu.Lock()
	table, editing, dialog := ui.table, ui.editing, ui.confirm
	var notice *board.Notice
	if ui.notice != nil {
		if left := noticeTTL - time.Since(ui.noticeAt); left > 0 {
			notice = ui.notice
			gtx.Execute(op.InvalidateCmd{At: gtx.Now.Add(left)})
		} else {
			ui.notice = nil
		}
	}
	ui.mu.Unlock()

	paint.Fill(gtx.Ops, theme.Palette.Bg)
	return layout.Stack{}.Layout(gtx,
		layout.Expanded(func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return ui.layoutBoard(gtx, table, editing, notice)
			})
		}),
		layout.Stacked(func(gtx layout.Context) layout.Dimensions {
			if dialog == nil {
				return layout.Dimensions{}
			}
			return ui.layoutConfirm(gtx, dialog.prompt)
		}),
	)
}

func (ui *UI) layoutBoard(gtx layout.Context, table board.Table, editing task.ID, notice *board.Notice) layout.Dimensions {
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Flexed(1, material.H5(theme, ui.catalog.Label("title")).Layout),
				layout.Rigid(material.Button(theme, &ui.refreshBtn, ui.catalog.Label("btn.refresh")).Layout),
			)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Rigid(ui.layoutAddForm),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			if notice == nil {
				return layout.Dimensions{}
			}
			return layoutNotice(gtx, *notice)
		}),
		layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
		layout.Rigid(ui.layoutHeader),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			if len(table.Rows) == 0 {
				msg := ui.catalog.Label("empty")
				if !table.Loaded() {
					msg = ui.catalog.Label("loading")
				}
				label := material.Body1(theme, msg)
				label.Color = dimColor
				return layout.Inset{Top: unit.Dp(8)}.Layout(gtx, label.Layout)
			}
			return material.List(theme, &ui.taskList).Layout(gtx, len(table.Rows), func(gtx layout.Context, i int) layout.Dimensions {
				r := table.Rows[i]
				return layout.Inset{Top: unit.Dp(4), Bottom: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
					if r.ID == editing {
						return ui.layoutEditRow(gtx, r)
					}
					return ui.layoutRow(gtx, r)
				})
			})
		}),
	)
}

func (ui *UI) layoutAddForm(gtx layout.Context) layout.Dimensions {
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Flexed(3, editorField(&ui.nameEditor, ui.catalog.Label("input.name"))),
		layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
		layout.Flexed(2, editorField(&ui.dueEditor, ui.catalog.Label("input.due"))),
		layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
		layout.Flexed(1.5, editorField(&ui.costEditor, ui.catalog.Label("input.cost"))),
		layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
		layout.Rigid(material.Button(theme, &ui.addBtn, ui.catalog.Label("btn.add")).Layout),
	)
}

func editorField(ed *widget.Editor, hint string) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		return widget.Border{Color: dimColor, CornerRadius: unit.Dp(4), Width: unit.Dp(1)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(6)).Layout(gtx, material.Editor(theme, ed, hint).Layout)
		})
	}
}

func (ui *UI) layoutHeader(gtx layout.Context) layout.Dimensions {
	cell := func(key string) layout.Widget {
		label := material.Body2(theme, ui.catalog.Label(key))
		label.Font.Weight = font.Bold
		return label.Layout
	}
	return columns(gtx, cell("col.id"), cell("col.name"), cell("col.due"), cell("col.cost"), cell("col.actions"))
}

func (ui *UI) layoutRow(gtx layout.Context, r board.Row) layout.Dimensions {
	st := ui.rowState(r.ID)
	text := func(s string) layout.Widget {
		label := material.Body1(theme, s)
		if r.HighCost {
			label.Color = highCostColor
			label.Font.Weight = font.Bold
		}
		return label.Layout
	}
	return columns(gtx,
		text(string(r.ID)),
		text(r.Name),
		text(r.Due),
		text(r.Cost),
		func(gtx layout.Context) layout.Dimensions {
			del := material.Button(theme, &st.deleteBtn, ui.catalog.Label("btn.delete"))
			del.Background = dangerColor
			return layout.Flex{}.Layout(gtx,
				layout.Rigid(material.Button(theme, &st.editBtn, ui.catalog.Label("btn.edit")).Layout),
				layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
				layout.Rigid(del.Layout),
			)
		},
	)
}

func (ui *UI) layoutEditRow(gtx layout.Context, r board.Row) layout.Dimensions {
	st := ui.rowState(r.ID)
	pad := func(w layout.Widget) layout.Widget {
		return func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Right: unit.Dp(8)}.Layout(gtx, w)
		}
	}
	return columns(gtx,
		material.Body1(theme, string(r.ID)).Layout,
		pad(editorField(&ui.editName, ui.catalog.Label("input.name"))),
		pad(editorField(&ui.editDue, ui.catalog.Label("input.due"))),
		pad(editorField(&ui.editCost, ui.catalog.Label("input.cost"))),
		material.Button(theme, &st.saveBtn, ui.catalog.Label("btn.save")).Layout,
	)
}

func columns(gtx layout.Context, cells ...layout.Widget) layout.Dimensions {
	children := make([]layout.FlexChild, len(cells))
	for i, c := range cells {
		children[i] = layout.Flexed(colWeights[i], c)
	}
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx, children...)
}

func layoutNotice(gtx layout.Context, n board.Notice) layout.Dimensions {
	return layout.Background{}.Layout(gtx,
		fill(noticeColors[n.Kind]),
		func(gtx layout.Context) layout.Dimensions {
			gtx.Constraints.Min.X = gtx.Constraints.Max.X
			return layout.UniformInset(unit.Dp(10)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						label := material.Body1(theme, n.Title)
						label.Font.Weight = font.Bold
						label.Color = theme.Palette.ContrastFg
						return label.Layout(gtx)
					}),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						label := material.Body2(theme, n.Text)
						label.Color = theme.Palette.ContrastFg
						return label.Layout(gtx)
					}),
				)
			})
		},
	)
}

func (ui *UI) layoutConfirm(gtx layout.Context, p board.Prompt) layout.Dimensions {
	gtx.Constraints.Min = gtx.Constraints.Max
	return layout.Background{}.Layout(gtx,
		fill(scrimColor),
		func(gtx layout.Context) layout.Dimensions {
			return layout.Center.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				gtx.Constraints.Min.X = gtx.Dp(unit.Dp(360))
				gtx.Constraints.Max.X = gtx.Dp(unit.Dp(360))
				return layout.Background{}.Layout(gtx,
					fill(cardColor),
					func(gtx layout.Context) layout.Dimensions {
						return layout.UniformInset(unit.Dp(20)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
							return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
								layout.Rigid(material.H6(theme, p.Title).Layout),
								layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
								layout.Rigid(material.Body1(theme, p.Text).Layout),
								layout.Rigid(layout.Spacer{Height: unit.Dp(16)}.Layout),
								layout.Rigid(func(gtx layout.Context) layout.Dimensions {
									yes := material.Button(theme, &ui.confirmYes, p.Confirm)
									yes.Background = dangerColor
									return layout.Flex{Spacing: layout.SpaceStart}.Layout(gtx,
										layout.Rigid(material.Button(theme, &ui.confirmNo, p.Cancel).Layout),
										layout.Rigid(layout.Spacer{Width: unit.Dp(8)}.Layout),
										layout.Rigid(yes.Layout),
									)
								}),
							)
						})
					},
				)
			})
		},
	)
}

func fill(c color.NRGBA) layout.Widget {
	return func(gtx layout.Context) layout.Dimensions {
		defer clip.Rect{Max: gtx.Constraints.Min}.Push(gtx.Ops).Pop()
		paint.Fill(gtx.Ops, c)
		return layout.Dimensions{Size: gtx.Constraints.Min}
	}
}

package main

import (
	"context"
	"image/color"
	"os"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/charmbracelet/log"
	"golang.org/x/text/language"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/taskapi"
	"taskboard/pkg/board"
	"taskboard/pkg/task"
)

const noticeTTL = 4 * time.Second

var theme *material.Theme

type UI struct {
	w        *app.Window
	catalog  *board.Catalog
	sync     *board.Synchronizer
	dispatch *board.Dispatcher
	log      *log.Logger

	// Shared with background goroutines.
	mu        sync.Mutex
	table     board.Table
	notice    *board.Notice
	noticeAt  time.Time
	confirm   *confirmDialog
	editing   task.ID
	resetForm bool

	// Add form
	nameEditor widget.Editor
	dueEditor  widget.Editor
	costEditor widget.Editor
	addBtn     widget.Clickable
	refreshBtn widget.Clickable

	// Table
	taskList widget.List
	rowGen   uint64
	rows     map[task.ID]*rowState

	// Edit mode
	editName widget.Editor
	editDue  widget.Editor
	editCost widget.Editor

	// Confirm dialog
	confirmYes widget.Clickable
	confirmNo  widget.Clickable
}

type rowState struct {
	editBtn   widget.Clickable
	deleteBtn widget.Clickable
	saveBtn   widget.Clickable
}

// confirmDialog is a pending question from a background delete.
type confirmDialog struct {
	prompt board.Prompt
	answer chan bool
}

// addForm is the add form's text captured on the frame goroutine. Reset
// asks the frame loop to clear the editors.
type addForm struct {
	ui              *UI
	name, due, cost string
}

func (f *addForm) Values() (string, string, string) { return f.name, f.due, f.cost }

func (f *addForm) Reset() {
	f.ui.mu.Lock()
	f.ui.resetForm = true
	f.ui.mu.Unlock()
	f.ui.w.Invalidate()
}

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal("config", "err", err)
	}
	logger, err := logging.New(logging.Options{
		Level:           cfg.LogLevel,
		Format:          cfg.LogFormat,
		ReportTimestamp: true,
		Prefix:          "taskboard-ui",
	})
	if err != nil {
		log.Fatal("logging", "err", err)
	}
	client, err := taskapi.New(cfg.APIURL,
		taskapi.WithTimeout(cfg.Timeout.Duration),
		taskapi.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("task service", "err", err)
	}

	theme = material.NewTheme()
	theme.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	theme.Palette.Bg = color.NRGBA{R: 0x12, G: 0x12, B: 0x12, A: 0xFF}
	theme.Palette.Fg = color.NRGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF}
	theme.Palette.ContrastBg = color.NRGBA{R: 0x30, G: 0x60, B: 0xA0, A: 0xFF}
	theme.Palette.ContrastFg = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	w := new(app.Window)
	ui := newUI(w, client, board.MatchLocale(cfg.Locale), logger)

	go func() {
		w.Option(app.Title(ui.catalog.Label("title")))
		w.Option(app.Size(unit.Dp(1000), unit.Dp(700)))
		if err := ui.run(); err != nil {
			logger.Fatal("window", "err", err)
		}
		os.Exit(0)
	}()
	app.Main()
}

func newUI(w *app.Window, svc task.Service, locale language.Tag, logger *log.Logger) *UI {
	ui := &UI{w: w, log: logger, rows: map[task.ID]*rowState{}}
	format := board.NewFormatter(locale)
	ui.catalog = format.Catalog()
	notify := board.NotifierFunc(ui.showNotice)
	ui.sync = board.NewSynchronizer(svc, format, ui.catalog, notify, logger)
	ui.dispatch = board.NewDispatcher(svc, ui.sync, ui.catalog, notify, logger)
	ui.sync.OnChange(func(t board.Table) {
		ui.mu.Lock()
		ui.table = t
		ui.mu.Unlock()
		w.Invalidate()
	})

	ui.taskList.Axis = layout.Vertical
	for _, ed := range []*widget.Editor{&ui.nameEditor, &ui.dueEditor, &ui.costEditor, &ui.editName, &ui.editDue, &ui.editCost} {
		ed.SingleLine = true
		ed.Submit = true
	}
	return ui
}

func (ui *UI) run() error {
	go ui.reload()

	var ops op.Ops
	for {
		switch e := ui.w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			ui.handleClicks(gtx)
			ui.layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}

func (ui *UI) handleClicks(gtx layout.Context) {
	ui.mu.Lock()
	table, dialog, editing := ui.table, ui.confirm, ui.editing
	if ui.resetForm {
		ui.resetForm = false
		ui.nameEditor.SetText("")
		ui.dueEditor.SetText("")
		ui.costEditor.SetText("")
	}
	ui.mu.Unlock()

	if table.Generation != ui.rowGen {
		// Rows are rebuilt from scratch with every snapshot; so is their state.
		ui.rowGen = table.Generation
		ui.rows = make(map[task.ID]*rowState, len(table.Rows))
	}

	if dialog != nil {
		if ui.confirmYes.Clicked(gtx) {
			ui.answer(true)
		}
		if ui.confirmNo.Clicked(gtx) {
			ui.answer(false)
		}
		return
	}

	if ui.refreshBtn.Clicked(gtx) {
		go ui.reload()
	}
	if ui.addBtn.Clicked(gtx) || submitted(gtx, &ui.nameEditor, &ui.dueEditor, &ui.costEditor) {
		f := &addForm{ui: ui, name: ui.nameEditor.Text(), due: ui.dueEditor.Text(), cost: ui.costEditor.Text()}
		go ui.dispatch.Submit(context.Background(), f)
	}

	saveSubmit := editing != "" && submitted(gtx, &ui.editName, &ui.editDue, &ui.editCost)
	for _, r := range table.Rows {
		st := ui.rowState(r.ID)
		if st.editBtn.Clicked(gtx) {
			e := r.BeginEdit()
			ui.editName.SetText(e.Name)
			ui.editDue.SetText(e.Due)
			ui.editCost.SetText(e.Cost)
			ui.setEditing(r.ID)
		}
		if r.ID == editing && (st.saveBtn.Clicked(gtx) || saveSubmit) {
			e := r.BeginEdit()
			e.Name, e.Due, e.Cost = ui.editName.Text(), ui.editDue.Text(), ui.editCost.Text()
			go ui.save(e)
		}
		if st.deleteBtn.Clicked(gtx) {
			id := r.ID
			go ui.dispatch.Remove(context.Background(), id, board.ConfirmFunc(ui.ask))
		}
	}
}

func submitted(gtx layout.Context, eds ...*widget.Editor) bool {
	hit := false
	for _, ed := range eds {
		for {
			ev, ok := ed.Update(gtx)
			if !ok {
				break
			}
			if _, ok := ev.(widget.SubmitEvent); ok {
				hit = true
			}
		}
	}
	return hit
}

func (ui *UI) rowState(id task.ID) *rowState {
	st, ok := ui.rows[id]
	if !ok {
		st = &rowState{}
		ui.rows[id] = st
	}
	return st
}

func (ui *UI) setEditing(id task.ID) {
	ui.mu.Lock()
	ui.editing = id
	ui.mu.Unlock()
}

// Background operations

func (ui *UI) reload() {
	// Failures become a notice; the previous table stays on screen.
	_ = ui.sync.Reload(context.Background())
}

func (ui *UI) save(e board.Edit) {
	out := ui.dispatch.Save(context.Background(), e)
	if out.OK {
		ui.mu.Lock()
		if ui.editing == e.ID {
			ui.editing = ""
		}
		ui.mu.Unlock()
		ui.w.Invalidate()
	}
}

func (ui *UI) showNotice(n board.Notice) {
	ui.mu.Lock()
	ui.notice = &n
	ui.noticeAt = time.Now()
	ui.mu.Unlock()
	ui.w.Invalidate()
}

// ask shows the confirm dialog and blocks until it is answered.
func (ui *UI) ask(ctx context.Context, p board.Prompt) bool {
	d := &confirmDialog{prompt: p, answer: make(chan bool, 1)}
	ui.mu.Lock()
	if ui.confirm != nil {
		// Another delete is already waiting for an answer.
		ui.mu.Unlock()
		return false
	}
	ui.confirm = d
	ui.mu.Unlock()
	ui.w.Invalidate()

	select {
	case ok := <-d.answer:
		return ok
	case <-ctx.Done():
		ui.mu.Lock()
		ui.confirm = nil
		ui.mu.Unlock()
		return false
	}
}

func (ui *UI) answer(ok bool) {
	ui.mu.Lock()
	d := ui.confirm
	ui.confirm = nil
	ui.mu.Unlock()
	if d != nil {
		d.answer <- ok
	}
}

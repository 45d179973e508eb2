package web

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"taskboard/pkg/board"
	"taskboard/pkg/task"
)

// session is the board core for one request, localized for the caller.
type session struct {
	locale   language.Tag
	catalog  *board.Catalog
	sync     *board.Synchronizer
	dispatch *board.Dispatcher

	mu      sync.Mutex
	notices []board.Notice
}

func (s *Server) newSession(c *gin.Context) *session {
	locale := board.MatchLocale(c.GetHeader("Accept-Language"), s.locale)
	format := board.NewFormatter(locale)
	sess := &session{locale: locale, catalog: format.Catalog()}
	notify := board.NotifierFunc(func(n board.Notice) {
		sess.mu.Lock()
		sess.notices = append(sess.notices, n)
		sess.mu.Unlock()
	})
	sess.sync = board.NewSynchronizer(s.svc, format, sess.catalog, notify, s.log)
	sess.dispatch = board.NewDispatcher(s.svc, sess.sync, sess.catalog, notify, s.log)
	return sess
}

// form is the add form as posted by the browser.
type form struct {
	Name, Due, Cost string
}

func (f *form) Values() (string, string, string) { return f.Name, f.Due, f.Cost }

func (f *form) Reset() { *f = form{} }

func postedForm(c *gin.Context) form {
	return form{
		Name: c.PostForm("taskName"),
		Due:  c.PostForm("dataLimit"),
		Cost: c.PostForm("cost"),
	}
}

type rowView struct {
	board.Row
	Editing bool
	Edit    board.Edit
}

type page struct {
	T       *board.Catalog
	Lang    string
	Loaded  bool
	Rows    []rowView
	Form    form
	Notices []board.Notice
	Prompt  board.Prompt
	Target  board.Row
}

func (s *Server) render(c *gin.Context, status int, name string, sess *session, p page) {
	p.T = sess.catalog
	p.Lang = sess.locale.String()
	sess.mu.Lock()
	for _, n := range sess.notices {
		// A failed mutation and the failed fetch around it often say the same thing.
		if k := len(p.Notices); k > 0 && p.Notices[k-1] == n {
			continue
		}
		p.Notices = append(p.Notices, n)
	}
	sess.mu.Unlock()
	c.HTML(status, name, p)
}

// redirect answers a mutation with 303 to the board. The outcome travels in
// the query so a browser refresh repeats the GET, not the POST.
func redirect(c *gin.Context, out board.Outcome) {
	q := url.Values{"op": {out.Op.String()}}
	if !out.OK {
		q.Set("code", string(out.Code))
	}
	c.Redirect(http.StatusSeeOther, "/?"+q.Encode())
}

// flash turns the query written by redirect back into a notice.
func (sess *session) flash(c *gin.Context) {
	op, ok := board.ParseOp(c.Query("op"))
	if !ok {
		return
	}
	n := sess.catalog.Success(op)
	if code, failed := c.GetQuery("code"); failed {
		n = sess.catalog.Failure(op, board.Classify(code, ""))
	}
	sess.mu.Lock()
	sess.notices = append(sess.notices, n)
	sess.mu.Unlock()
}

// boardPage builds the page for the current snapshot. edit, if set, is shown in
// edit mode with its values.
func boardPage(sess *session, f form, edit *board.Edit) page {
	table := sess.sync.Snapshot()
	p := page{Loaded: table.Loaded(), Form: f}
	for _, r := range table.Rows {
		v := rowView{Row: r}
		if edit != nil && edit.ID == r.ID {
			v.Editing = true
			v.Edit = *edit
		}
		p.Rows = append(p.Rows, v)
	}
	return p
}

func (s *Server) handleIndex(c *gin.Context) {
	sess := s.newSession(c)
	sess.flash(c)
	// A failed load leaves an empty table and a notice; the page still renders.
	_ = sess.sync.Reload(c.Request.Context())

	var edit *board.Edit
	if id := c.Query("edit"); id != "" {
		if row, ok := sess.sync.Snapshot().Find(task.ID(id)); ok {
			e := row.BeginEdit()
			edit = &e
		}
	}
	s.render(c, http.StatusOK, "index.html", sess, boardPage(sess, form{}, edit))
}

func (s *Server) handleCreate(c *gin.Context) {
	sess := s.newSession(c)
	f := postedForm(c)
	out := sess.dispatch.Submit(c.Request.Context(), &f)
	if out.OK {
		redirect(c, out)
		return
	}
	sess.ensureLoaded(c.Request.Context(), out)
	s.render(c, statusOf(out), "index.html", sess, boardPage(sess, f, nil))
}

func (s *Server) handleUpdate(c *gin.Context) {
	sess := s.newSession(c)
	id := task.ID(c.Param("id"))
	f := postedForm(c)

	// Seed from the current row so the id goes back in the service's form.
	_ = sess.sync.Reload(c.Request.Context())
	edit := board.Edit{ID: id}
	if row, ok := sess.sync.Snapshot().Find(id); ok {
		edit = row.BeginEdit()
	}
	edit.Name, edit.Due, edit.Cost = f.Name, f.Due, f.Cost

	out := sess.dispatch.Save(c.Request.Context(), edit)
	if out.OK {
		redirect(c, out)
		return
	}
	sess.ensureLoaded(c.Request.Context(), out)
	// Keep the row open with what the user typed.
	s.render(c, statusOf(out), "index.html", sess, boardPage(sess, form{}, &edit))
}

func (s *Server) handleDeleteConfirm(c *gin.Context) {
	sess := s.newSession(c)
	id := task.ID(c.Param("id"))
	_ = sess.sync.Reload(c.Request.Context())

	target, ok := sess.sync.Snapshot().Find(id)
	if !ok {
		target = board.Row{ID: id}
	}
	s.render(c, http.StatusOK, "confirm.html", sess, page{
		Prompt: sess.catalog.DeletePrompt(),
		Target: target,
	})
}

func (s *Server) handleDelete(c *gin.Context) {
	sess := s.newSession(c)
	id := task.ID(c.Param("id"))
	out := sess.dispatch.Remove(c.Request.Context(), id, board.Answer(c.PostForm("confirm") == "yes"))
	switch {
	case out.Skipped:
		c.Redirect(http.StatusSeeOther, "/")
	case out.Code == board.CodeUnreachable:
		// Nothing happened on the service; show the board as it was.
		s.render(c, statusOf(out), "index.html", sess, boardPage(sess, form{}, nil))
	default:
		redirect(c, out)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	if _, err := s.svc.List(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ensureLoaded fetches the table when nothing has tried yet, so a form with
// bad input still renders over the current board. An unreachable service is
// not asked again.
func (sess *session) ensureLoaded(ctx context.Context, out board.Outcome) {
	if out.Reloaded || out.Code == board.CodeUnreachable || sess.sync.Snapshot().Loaded() {
		return
	}
	_ = sess.sync.Reload(ctx)
}

func statusOf(out board.Outcome) int {
	switch {
	case out.OK:
		return http.StatusOK
	case out.Code == board.CodeUnreachable:
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

package testutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"taskboard/pkg/task"
)

// CollectionPath is where Remote serves the task collection.
const CollectionPath = "/v1/tasks"

// Remote serves a task.Service over the task service wire contract.
type Remote struct {
	*httptest.Server
	svc task.Service

	mu      sync.Mutex
	headers []http.Header
}

// NewRemote starts a Remote backed by svc. It is closed when the test ends.
func NewRemote(t *testing.T, svc task.Service) *Remote {
	t.Helper()
	r := &Remote{svc: svc}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+CollectionPath, r.handleList)
	mux.HandleFunc("POST "+CollectionPath, r.handleCreate)
	mux.HandleFunc("PUT "+CollectionPath, r.handleUpdate)
	mux.HandleFunc("DELETE "+CollectionPath+"/{id}", r.handleDelete)
	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.headers = append(r.headers, req.Header.Clone())
		r.mu.Unlock()
		mux.ServeHTTP(w, req)
	}))
	t.Cleanup(r.Server.Close)
	return r
}

// BaseURL is the collection URL to hand to a client.
func (r *Remote) BaseURL() string { return r.URL + CollectionPath }

// Headers returns the headers of every request received so far.
func (r *Remote) Headers() []http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]http.Header(nil), r.headers...)
}

func (r *Remote) handleList(w http.ResponseWriter, req *http.Request) {
	tasks, err := r.svc.List(req.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (r *Remote) handleCreate(w http.ResponseWriter, req *http.Request) {
	var d task.Draft
	if err := json.NewDecoder(req.Body).Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON: " + err.Error()})
		return
	}
	if err := r.svc.Create(req.Context(), d); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (r *Remote) handleUpdate(w http.ResponseWriter, req *http.Request) {
	var d task.Draft
	if err := json.NewDecoder(req.Body).Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON: " + err.Error()})
		return
	}
	if err := r.svc.Update(req.Context(), d); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (r *Remote) handleDelete(w http.ResponseWriter, req *http.Request) {
	if err := r.svc.Delete(req.Context(), task.ID(req.PathValue("id"))); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeFailure(w http.ResponseWriter, err error) {
	var rej *task.RejectedError
	if errors.As(err, &rej) {
		body := map[string]string{"message": rej.Message}
		if rej.Code != "" {
			body["code"] = rej.Code
		}
		writeJSON(w, rej.Status, body)
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

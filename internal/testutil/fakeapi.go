// Package testutil provides testing utilities.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"tasklist/internal/todo"
)

// Request is a call recorded by FakeAPI.
type Request struct {
	Method    string
	Path      string
	Body      map[string]any
	RequestID string
}

// FakeAPI is an in-memory todo REST service served over httptest.
type FakeAPI struct {
	Server *httptest.Server

	mu       sync.Mutex
	todos    []todo.Todo
	nextID   int
	requests []Request
	fail     map[string]int // method -> status to answer with
	gate     chan struct{}
	holdAll  bool
	holdNext bool
	held     int
}

// NewFakeAPI starts a server seeded with todos. Call Close when done.
func NewFakeAPI(seed ...todo.Todo) *FakeAPI {
	f := &FakeAPI{fail: map[string]int{}, nextID: 1}
	for _, t := range seed {
		f.todos = append(f.todos, t)
		if t.ID >= f.nextID {
			f.nextID = t.ID + 1
		}
	}

	r := mux.NewRouter()
	r.Use(f.record)
	r.HandleFunc("/todos", f.list).Methods(http.MethodGet)
	r.HandleFunc("/todos", f.create).Methods(http.MethodPost)
	r.HandleFunc("/todos/{id:[0-9]+}", f.update).Methods(http.MethodPatch)
	r.HandleFunc("/todos/{id:[0-9]+}", f.remove).Methods(http.MethodDelete)

	f.Server = httptest.NewServer(r)
	return f
}

func (f *FakeAPI) URL() string {
	return f.Server.URL
}

func (f *FakeAPI) Close() {
	f.Release()
	f.Server.Close()
}

// FailWith makes every request with method answer status until Recover.
func (f *FakeAPI) FailWith(method string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method] = status
}

func (f *FakeAPI) Recover(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.fail, method)
}

// Hold delays list responses until Release is called. A held response
// carries the list as it was when the request arrived.
func (f *FakeAPI) Hold() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openGate()
	f.holdAll = true
}

// HoldNext delays only the next list response.
func (f *FakeAPI) HoldNext() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openGate()
	f.holdNext = true
}

func (f *FakeAPI) openGate() {
	if f.gate == nil {
		f.gate = make(chan struct{})
	}
}

func (f *FakeAPI) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holdAll, f.holdNext = false, false
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

// Held returns how many list responses are waiting for Release.
func (f *FakeAPI) Held() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.held
}

func (f *FakeAPI) Todos() []todo.Todo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]todo.Todo(nil), f.todos...)
}

func (f *FakeAPI) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}

// Count returns how many requests were made with method.
func (f *FakeAPI) Count(method string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method {
			n++
		}
	}
	return n
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &body)
			r.Body = io.NopCloser(bytes.NewReader(data))
		}

		f.mu.Lock()
		f.requests = append(f.requests, Request{
			Method:    r.Method,
			Path:      r.URL.Path,
			Body:      body,
			RequestID: r.Header.Get("X-Request-ID"),
		})
		status, failing := f.fail[r.Method]
		f.mu.Unlock()

		if failing {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) list(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	todos := append([]todo.Todo{}, f.todos...)
	gate := f.gate
	wait := gate != nil && (f.holdAll || f.holdNext)
	if wait {
		f.holdNext = false
		f.held++
	}
	f.mu.Unlock()

	if wait {
		<-gate
		f.mu.Lock()
		f.held--
		f.mu.Unlock()
	}
	writeJSON(w, http.StatusOK, todos)
}

func (f *FakeAPI) create(w http.ResponseWriter, r *http.Request) {
	var in todo.Todo
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	in.ID = f.nextID
	f.nextID++
	f.todos = append(f.todos, in)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, in)
}

func (f *FakeAPI) update(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var in struct {
		Completed *bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.todos {
		if f.todos[i].ID != id {
			continue
		}
		if in.Completed != nil {
			f.todos[i].Completed = *in.Completed
		}
		writeJSON(w, http.StatusOK, f.todos[i])
		return
	}
	http.NotFound(w, r)
}

func (f *FakeAPI) remove(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.todos {
		if f.todos[i].ID == id {
			f.todos = append(f.todos[:i], f.todos[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]int{"id": id})
			return
		}
	}
	http.NotFound(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

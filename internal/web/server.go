// Package web serves the task list as a single HTML page: a text input, an
// Add button and one row per task with a Remove button tagged by its index.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"todolist/internal/tasks"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>To-Do List</title>
</head>
<body>
<form class="add-form" method="post" action="/add">
  <input class="input" type="text" name="task" placeholder="Add a task" autocomplete="off">
  <button class="add" type="submit">Add</button>
</form>
<form class="tasks" method="post" action="/remove">
{{- range .}}
  <div class="task">
    <span class="task-text">{{.Text}}</span>
    <button class="delete-task" type="submit" name="index" value="{{.Index}}" data-index="{{.Index}}">Remove</button>
  </div>
{{- end}}
</form>
</body>
</html>
`))

type Server struct {
	store  *tasks.Store
	logger *log.Logger
}

func New(store *tasks.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{store: store, logger: logger}
}

// Handler returns the routes of the page and its small JSON API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", s.handlePage)
	r.Post("/add", s.handleAdd)
	r.Post("/remove", s.handleRemove)
	r.Get("/api/tasks", s.handleList)
	return r
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	s.logger.Info("serving", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// rowSet collects what one render produced.
type rowSet struct {
	rows []tasks.Row
}

func (p *rowSet) Replace(rows []tasks.Row) { p.rows = rows }

// formField is the add form's input as submitted; clearing it is what the
// redirect back to the page does.
type formField struct {
	value string
}

func (f *formField) Value() string { return f.value }
func (f *formField) Clear()        { f.value = "" }

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	rows := &rowSet{}
	tasks.Render(s.store, rows)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, rows.rows); err != nil {
		s.logger.Error("render page", "err", err)
	}
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	h := tasks.NewHandler(s.store, &rowSet{}, &formField{value: r.FormValue("task")})
	if err := h.OnAdd(); err != nil {
		s.logger.Error("add task", "err", err)
		http.Error(w, "could not save task", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	h := tasks.NewHandler(s.store, &rowSet{}, &formField{})
	if err := h.OnRemove(r.FormValue("index")); err != nil {
		s.logger.Error("remove task", "err", err)
		http.Error(w, "could not remove task", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Load())
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

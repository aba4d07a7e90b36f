package web

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todolist/internal/config"
	"todolist/internal/storage"
	"todolist/internal/tasks"
)

func newServer(t *testing.T, seed string) (*Server, *tasks.Store) {
	t.Helper()
	kv := storage.NewMemory()
	if seed != "" {
		require.NoError(t, kv.Set(config.DefaultStorageKey, seed))
	}
	store := tasks.NewStore(kv, config.DefaultStorageKey, nil)
	return New(store, nil), store
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPageListsTasksWithIndexTags(t *testing.T) {
	s, _ := newServer(t, `["Buy milk","Walk dog"]`)

	rec := get(s.Handler(), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<span class="task-text">Buy milk</span>`)
	assert.Contains(t, body, `data-index="0"`)
	assert.Contains(t, body, `data-index="1"`)
	assert.Equal(t, 2, strings.Count(body, `class="task"`))
}

func TestPageEscapesTaskText(t *testing.T) {
	s, _ := newServer(t, `["<script>alert(1)</script>"]`)

	body := get(s.Handler(), "/").Body.String()

	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestPageMalformedStorage(t *testing.T) {
	s, _ := newServer(t, "{not json")

	rec := get(s.Handler(), "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `class="task"`)
}

func TestAddRedirects(t *testing.T) {
	s, store := newServer(t, "")
	h := s.Handler()

	rec := postForm(h, "/add", url.Values{"task": {"Buy milk"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	postForm(h, "/add", url.Values{"task": {"   "}})
	postForm(h, "/add", url.Values{"task": {"Walk dog"}})
	assert.Equal(t, []string{"Buy milk", "Walk dog"}, store.Load())
}

func TestRemove(t *testing.T) {
	s, store := newServer(t, `["Buy milk","Walk dog"]`)
	h := s.Handler()

	rec := postForm(h, "/remove", url.Values{"index": {"0"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"Walk dog"}, store.Load())

	postForm(h, "/remove", url.Values{"index": {"5"}})
	postForm(h, "/remove", url.Values{"index": {"nope"}})
	assert.Equal(t, []string{"Walk dog"}, store.Load())
}

func TestAPIList(t *testing.T) {
	s, _ := newServer(t, `["a","b"]`)

	rec := get(s.Handler(), "/api/tasks")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []string{"a", "b"}, got)

	empty, _ := newServer(t, "")
	assert.JSONEq(t, "[]", get(empty.Handler(), "/api/tasks").Body.String())
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newServer(t, "")
	rec := get(s.Handler(), "/add")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type readOnlyKV struct{ storage.KV }

func (readOnlyKV) Set(string, string) error { return errors.New("read-only") }

func TestAddWriteFailure(t *testing.T) {
	store := tasks.NewStore(readOnlyKV{storage.NewMemory()}, config.DefaultStorageKey, nil)
	s := New(store, nil)

	rec := postForm(s.Handler(), "/add", url.Values{"task": {"Buy milk"}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	s, _ := newServer(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"dbdeck/internal/notifications"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type feedServer struct {
	mu      sync.Mutex
	total   int
	queries []map[string][]string
}

func (f *feedServer) start(t *testing.T) string {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/platform/notifications", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		f.mu.Lock()
		f.queries = append(f.queries, q)
		f.mu.Unlock()

		offset, _ := strconv.Atoi(q.Get("offset"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		out := []notifications.Notification{}
		for i := offset; i < f.total && i < offset+limit; i++ {
			out = append(out, notifications.Notification{
				ID:       uuid.New(),
				Status:   notifications.StatusNew,
				Priority: notifications.PriorityWarning,
				Data:     notifications.Data{Title: fmt.Sprintf("Notice %d", i)},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

func (f *feedServer) requests() []map[string][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

func TestNotificationsCommandFirstPage(t *testing.T) {
	api := &feedServer{total: 5}
	url := api.start(t)

	out, errOut, err := execute(t, "notifications", "--api-url", url, "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Notice 0")
	assert.Contains(t, out, "Notice 1")
	assert.NotContains(t, out, "Notice 2")
	assert.Contains(t, errOut, "use --all")

	reqs := api.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, []string{"new", "seen"}, reqs[0]["status"])
}

func TestNotificationsCommandAllPages(t *testing.T) {
	api := &feedServer{total: 5}
	url := api.start(t)

	out, errOut, err := execute(t, "notifications", "--api-url", url, "--limit", "2", "--all", "--status", "archived", "--priority", "Warning")
	require.NoError(t, err)
	assert.Contains(t, out, "Notice 4")
	assert.Empty(t, errOut)

	reqs := api.requests()
	require.Len(t, reqs, 3)
	for i, q := range reqs {
		assert.Equal(t, strconv.Itoa(i*2), q["offset"][0])
		assert.Equal(t, []string{"archived"}, q["status"])
		assert.Equal(t, []string{"Warning"}, q["priority"])
	}
}

func TestNotificationsCommandNeedsAPIURL(t *testing.T) {
	_, _, err := execute(t, "notifications")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api url is not configured")
}

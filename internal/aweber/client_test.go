package aweber

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestFirstAccount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"entries": []map[string]any{
				{"id": 42, "lists_collection_link": "http://example.invalid/lists"},
				{"id": 43},
			},
			"total_size": 2,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, nil)
	acct, err := client.FirstAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), acct.ID)
	assert.Equal(t, "http://example.invalid/lists", acct.ListsCollectionLink)
}

func TestFirstAccountEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"entries": []any{}})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, nil)
	_, err := client.FirstAccount(context.Background())
	assert.ErrorContains(t, err, "no account")
}

func TestFirstList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/42/lists", r.URL.Path)
		writeJSON(t, w, map[string]any{
			"entries": []map[string]any{
				{"id": 7, "name": "newsletter"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, nil)

	// No lists_collection_link on the account forces the constructed URL.
	list, err := client.FirstList(context.Background(), &Account{ID: 42})
	require.NoError(t, err)
	assert.Equal(t, int64(7), list.ID)
	assert.Equal(t, "newsletter", list.Name)
}

func TestListBroadcastsPagination(t *testing.T) {
	// Two pages: 25 entries with a next link, then 10 without one.
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts/1/lists/2/broadcasts", r.URL.Path)

		switch r.URL.Query().Get("ws.start") {
		case "":
			require.Equal(t, "sent", r.URL.Query().Get("status"))
			writeJSON(t, w, map[string]any{
				"entries":              broadcastEntries(0, 25),
				"next_collection_link": srv.URL + "/accounts/1/lists/2/broadcasts?ws.start=25&status=sent",
				"total_size":           35,
			})
		case "25":
			writeJSON(t, w, map[string]any{
				"entries":    broadcastEntries(25, 10),
				"total_size": 35,
			})
		default:
			t.Errorf("unexpected ws.start %q", r.URL.Query().Get("ws.start"))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, nil)
	got, err := client.ListBroadcasts(context.Background(), &Account{ID: 1}, &List{ID: 2}, StatusSent)
	require.NoError(t, err)
	require.Len(t, got, 35)

	// Union of both pages in original page order, no duplicates.
	seen := make(map[int64]bool)
	for i, b := range got {
		assert.Equal(t, int64(i), b.BroadcastID)
		assert.False(t, seen[b.BroadcastID], "duplicate broadcast %d", b.BroadcastID)
		seen[b.BroadcastID] = true
	}
}

func TestListBroadcastsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, nil)
	got, err := client.ListBroadcasts(context.Background(), &Account{ID: 1}, &List{ID: 2}, StatusDraft)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListBroadcastsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"message": "insufficient scope"}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, nil)
	_, err := client.ListBroadcasts(context.Background(), &Account{ID: 1}, &List{ID: 2}, StatusSent)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "insufficient scope")
}

func TestGetBroadcast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/self/99":
			writeJSON(t, w, map[string]any{
				"broadcast_id": 99,
				"subject":      "via self link",
				"body_html":    "<p>hello</p>",
			})
		case "/accounts/1/lists/2/broadcasts/100":
			writeJSON(t, w, map[string]any{
				"broadcast_id": 100,
				"subject":      "via constructed link",
			})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, nil)
	acct, list := &Account{ID: 1}, &List{ID: 2}

	detail, err := client.GetBroadcast(context.Background(), acct, list, &Broadcast{
		BroadcastID: 99,
		SelfLink:    srv.URL + "/self/99",
	})
	require.NoError(t, err)
	assert.Equal(t, "via self link", detail.Subject)
	assert.Equal(t, "<p>hello</p>", detail.BodyHTML)

	// Without a self link the client constructs the detail URL itself.
	detail, err = client.GetBroadcast(context.Background(), acct, list, &Broadcast{BroadcastID: 100})
	require.NoError(t, err)
	assert.Equal(t, "via constructed link", detail.Subject)
}

func TestBroadcastDate(t *testing.T) {
	tests := []struct {
		name     string
		b        Broadcast
		expected string
	}{
		{
			name:     "sent broadcast",
			b:        Broadcast{SentAt: "2024-05-01T10:00:00Z", CreatedAt: "2024-04-01T10:00:00Z"},
			expected: "2024-05-01T10:00:00Z",
		},
		{
			name:     "scheduled broadcast",
			b:        Broadcast{ScheduledFor: "2024-06-01T10:00:00Z", CreatedAt: "2024-04-01T10:00:00Z"},
			expected: "2024-06-01T10:00:00Z",
		},
		{
			name:     "draft falls back to creation time",
			b:        Broadcast{CreatedAt: "2024-04-01T10:00:00Z"},
			expected: "2024-04-01T10:00:00Z",
		},
		{
			name:     "no timestamps at all",
			b:        Broadcast{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.b.Date())
		})
	}
}

func broadcastEntries(start, n int) []map[string]any {
	entries := make([]map[string]any, 0, n)
	for i := start; i < start+n; i++ {
		entries = append(entries, map[string]any{
			"broadcast_id": i,
			"subject":      fmt.Sprintf("broadcast %d", i),
			"status":       "sent",
		})
	}
	return entries
}

package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/minishop/internal/db/dbtest"
	"github.com/Skotchmaster/minishop/internal/models"
)

func TestStoreIndex_Search(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	seed := []models.Product{
		{Name: "Red Widget", Price: 1},
		{Name: "Gadget", Price: 2, Description: "works with any widget"},
		{Name: "Sprocket", Price: 3},
	}
	require.NoError(t, db.Create(&seed).Error)

	idx := &StoreIndex{DB: db}
	require.NoError(t, idx.Put(ctx, seed[0]))
	require.NoError(t, idx.Remove(ctx, seed[0].ID))

	got, err := idx.Search(ctx, "WIDGET")
	require.NoError(t, err)

	want := []models.Product{seed[0], seed[1]}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("search mismatch (-want +got):\n%s", diff)
	}

	none, err := idx.Search(ctx, "nothing-like-this")
	require.NoError(t, err)
	assert.Empty(t, none)
	assert.NotNil(t, none)
}

func TestStoreIndex_Search_WildcardsAreLiteral(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	seed := []models.Product{
		{Name: "Cotton shirt", Price: 1, Description: "100% cotton"},
		{Name: "snake_case mug", Price: 2},
		{Name: `back\slash`, Price: 3},
		{Name: "Plain", Price: 4},
	}
	require.NoError(t, db.Create(&seed).Error)
	idx := &StoreIndex{DB: db}

	for q, want := range map[string][]string{
		"%":  {"Cotton shirt"},
		"_":  {"snake_case mug"},
		`\`: {`back\slash`},
		"0%": {"Cotton shirt"},
	} {
		got, err := idx.Search(ctx, q)
		require.NoError(t, err, q)
		names := []string{}
		for _, p := range got {
			names = append(names, p.Name)
		}
		assert.Equal(t, want, names, "query %q", q)
	}
}

type fakeES struct {
	mu       sync.Mutex
	indexed  map[string]string
	requests []string
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		_, _ = io.WriteString(w, `{"name":"fake","cluster_name":"test","version":{"number":"9.0.0"},"tagline":"You Know, for Search"}`)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/products/_doc/"):
		body, _ := io.ReadAll(r.Body)
		f.indexed[strings.TrimPrefix(r.URL.Path, "/products/_doc/")] = string(body)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	case r.Method == http.MethodDelete:
		id := strings.TrimPrefix(r.URL.Path, "/products/_doc/")
		if _, ok := f.indexed[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"result":"not_found"}`)
			return
		}
		delete(f.indexed, id)
		_, _ = io.WriteString(w, `{"result":"deleted"}`)
	case strings.HasSuffix(r.URL.Path, "/_search"):
		var hits []string
		for _, doc := range f.indexed {
			hits = append(hits, `{"_source":`+doc+`}`)
		}
		_, _ = io.WriteString(w, `{"hits":{"total":{"value":`+itoa(len(hits))+`},"hits":[`+strings.Join(hits, ",")+`]}}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"unexpected request"}`)
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestElasticIndex_RoundTrip(t *testing.T) {
	fake := &fakeES{indexed: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "", "")
	require.NoError(t, err)

	idx := &ElasticIndex{ES: client, Index: "products"}
	ctx := context.Background()

	p := models.Product{ID: 5, Name: "Widget", Price: 9.99}
	require.NoError(t, idx.Put(ctx, p))

	got, err := idx.Search(ctx, "widget")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, p, got[0])

	require.NoError(t, idx.Remove(ctx, 5))
	require.NoError(t, idx.Remove(ctx, 5), "removing a missing document is not an error")

	got, err = idx.Search(ctx, "widget")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"security_exception"}`)
	}))
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, "elastic", "wrong")
	require.Error(t, err)
}

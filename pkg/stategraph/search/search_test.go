package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultsJSON(n int) string {
	type hit struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	}
	hits := make([]hit, 0, n)
	for i := 0; i < n; i++ {
		hits = append(hits, hit{
			Title:   "Result " + string(rune('A'+i)),
			URL:     "https://example.com/" + string(rune('a'+i)),
			Content: "snippet " + string(rune('a'+i)),
		})
	}
	data, _ := json.Marshal(map[string]any{"results": hits})
	return string(data)
}

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestNewClient_MaxResultsBounds(t *testing.T) {
	c, err := NewClient("key", WithMaxResults(-1))
	require.NoError(t, err)
	assert.Equal(t, defaultMaxResults, c.opts.MaxResults)

	c, err = NewClient("key", WithMaxResults(100))
	require.NoError(t, err)
	assert.Equal(t, maxResultsCap, c.opts.MaxResults)
}

func TestSearch(t *testing.T) {
	var gotBody apiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(resultsJSON(2)))
	}))
	defer srv.Close()

	c, err := NewClient("secret", WithBaseURL(srv.URL), WithMaxResults(5))
	require.NoError(t, err)

	results, err := c.Search(context.Background(), "go graphs")
	require.NoError(t, err)

	assert.Equal(t, "secret", gotBody.APIKey)
	assert.Equal(t, "go graphs", gotBody.Query)
	assert.Equal(t, 5, gotBody.MaxResults)

	require.Len(t, results, 2)
	assert.Equal(t, "Result A", results[0].Title)
	assert.Equal(t, "https://example.com/a", results[0].URL)
	assert.Equal(t, "snippet a", results[0].Snippet)
}

func TestSearch_TruncatesAtMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsJSON(6)))
	}))
	defer srv.Close()

	c, err := NewClient("key", WithBaseURL(srv.URL), WithMaxResults(2))
	require.NoError(t, err)

	results, err := c.Search(context.Background(), "anything")
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewClient("bad", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "query")

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, "query", callErr.Query)
	assert.Contains(t, callErr.Error(), "401")
}

func TestSearch_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c, err := NewClient("key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "query")

	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
}

func TestSearch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsJSON(1)))
	}))
	defer srv.Close()

	c, err := NewClient("key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Search(ctx, "query")
	var callErr *CallError
	require.ErrorAs(t, err, &callErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewTool(t *testing.T) {
	responses := []string{resultsJSON(2), `{"results": []}`}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(responses[0]))
		responses = responses[1:]
	}))
	defer srv.Close()

	c, err := NewClient("key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	tl := NewTool(c)
	assert.Equal(t, "web_search", tl.Name())

	t.Run("formats hits", func(t *testing.T) {
		result, err := tl.Call(context.Background(), map[string]any{"query": "go"})
		require.NoError(t, err)

		content := result.(string)
		assert.Contains(t, content, "1. Result A")
		assert.Contains(t, content, "https://example.com/a")
		assert.Contains(t, content, "snippet b")
	})

	t.Run("empty results", func(t *testing.T) {
		result, err := tl.Call(context.Background(), map[string]any{"query": "nothing"})
		require.NoError(t, err)
		assert.Equal(t, `no results found for "nothing"`, result)
	})

	t.Run("missing query rejected", func(t *testing.T) {
		_, err := tl.Call(context.Background(), map[string]any{})
		require.Error(t, err)
	})
}

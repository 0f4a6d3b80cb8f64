package generation_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/chusbot/internal/generation"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOllamaGenerate(t *testing.T) {
	t.Parallel()

	t.Run("success returns response field", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/generate", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			_, _ = io.WriteString(w, `{"model":"llama3.2:1b","response":"Hello, friend.","done":true}`)
		}))
		defer srv.Close()

		c := generation.NewOllamaClient(srv.URL+"/api/generate", time.Second, quietLogger())
		out := c.Generate(context.Background(), "hi", "You are kind.", "llama3.2:1b")

		assert.Equal(t, "Hello, friend.", out)
		assert.Equal(t, map[string]any{
			"model":  "llama3.2:1b",
			"system": "You are kind.",
			"prompt": "hi",
			"stream": false,
		}, got)
	})

	t.Run("empty response field is returned as is", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"response":"","done":true}`)
		}))
		defer srv.Close()

		c := generation.NewOllamaClient(srv.URL, time.Second, quietLogger())
		assert.Equal(t, "", c.Generate(context.Background(), "hi", "", "m"))
	})

	t.Run("missing response field yields generic error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"done":true}`)
		}))
		defer srv.Close()

		c := generation.NewOllamaClient(srv.URL, time.Second, quietLogger())
		out := c.Generate(context.Background(), "hi", "", "m")
		assert.Equal(t, "An error occurred: response field missing from Ollama reply", out)
	})

	t.Run("non-200 status yields apology", func(t *testing.T) {
		t.Parallel()

		for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusCreated} {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
				_, _ = io.WriteString(w, `{"error":"model not found"}`)
			}))
			c := generation.NewOllamaClient(srv.URL, time.Second, quietLogger())
			assert.Equal(t, generation.MsgBadStatus, c.Generate(context.Background(), "hi", "", "m"), "status %d", code)
			srv.Close()
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		c := generation.NewOllamaClient(url, time.Second, quietLogger())
		assert.Equal(t, generation.MsgServerNotRunning, c.Generate(context.Background(), "hi", "", "m"))
	})

	t.Run("undecodable body yields generic error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `not json`)
		}))
		defer srv.Close()

		c := generation.NewOllamaClient(srv.URL, time.Second, quietLogger())
		out := c.Generate(context.Background(), "hi", "", "m")
		assert.True(t, strings.HasPrefix(out, "An error occurred: "), out)
	})

	t.Run("timeout yields generic error", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		c := generation.NewOllamaClient(srv.URL, 50*time.Millisecond, quietLogger())
		out := c.Generate(context.Background(), "hi", "", "m")
		assert.True(t, strings.HasPrefix(out, "An error occurred: "), out)
	})
}

func TestOllamaBreaker(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := generation.NewOllamaClient(url, time.Second, quietLogger(), generation.WithBreaker(2, time.Hour))
	for range 4 {
		assert.Equal(t, generation.MsgServerNotRunning, c.Generate(context.Background(), "hi", "", "m"))
	}

	t.Run("status errors do not open the circuit", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := generation.NewOllamaClient(srv.URL, time.Second, quietLogger(), generation.WithBreaker(1, time.Hour))
		for range 3 {
			assert.Equal(t, generation.MsgBadStatus, c.Generate(context.Background(), "hi", "", "m"))
		}
		assert.EqualValues(t, 3, hits.Load())
	})
}

func TestNewSelectsProvider(t *testing.T) {
	t.Parallel()

	g, err := generation.New(context.Background(), generation.Options{}, quietLogger())
	require.NoError(t, err)
	assert.IsType(t, &generation.OllamaClient{}, g)

	_, err = generation.New(context.Background(), generation.Options{Provider: generation.ProviderGemini}, quietLogger())
	require.Error(t, err, "gemini without an API key must fail")

	_, err = generation.New(context.Background(), generation.Options{Provider: "nope"}, quietLogger())
	require.Error(t, err)
}

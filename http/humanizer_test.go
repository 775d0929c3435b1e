package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/pagesmith"
	pagesmithhttp "github.com/fwojciec/pagesmith/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHumanizer_Humanize(t *testing.T) {
	t.Parallel()

	t.Run("posts text with bearer auth and returns output", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"output":"Humanized copy."}`))
		}))
		defer server.Close()

		h := pagesmithhttp.NewHumanizer(server.URL, "secret", pagesmithhttp.WithHumanizeDelay(0))

		out, err := h.Humanize(context.Background(), "Generated copy.")

		require.NoError(t, err)
		assert.Equal(t, "Humanized copy.", out)
		assert.Equal(t, "Generated copy.", got["text"])
		assert.Equal(t, pagesmithhttp.DefaultHumanizeModel, got["model"])
		assert.Equal(t, true, got["words"])
		assert.Equal(t, false, got["costs"])
		assert.Equal(t, "English", got["language"])
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "quota exceeded", http.StatusPaymentRequired)
		}))
		defer server.Close()

		h := pagesmithhttp.NewHumanizer(server.URL, "secret", pagesmithhttp.WithHumanizeDelay(0))

		_, err := h.Humanize(context.Background(), "text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "402")
	})

	t.Run("malformed JSON is an error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>oops</html>"))
		}))
		defer server.Close()

		h := pagesmithhttp.NewHumanizer(server.URL, "secret", pagesmithhttp.WithHumanizeDelay(0))

		_, err := h.Humanize(context.Background(), "text")

		require.Error(t, err)
	})

	t.Run("respects timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte(`{"output":"late"}`))
		}))
		defer server.Close()

		h := pagesmithhttp.NewHumanizer(server.URL, "secret",
			pagesmithhttp.WithHumanizeDelay(0),
			pagesmithhttp.WithHumanizeTimeout(10*time.Millisecond),
		)

		_, err := h.Humanize(context.Background(), "text")

		require.Error(t, err)
	})

	t.Run("leaves the supplied client unchanged", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"output":"ok"}`))
		}))
		defer server.Close()

		var trips atomic.Int32
		client := &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			trips.Add(1)
			return http.DefaultTransport.RoundTrip(r)
		})}

		h := pagesmithhttp.NewHumanizer(server.URL, "secret",
			pagesmithhttp.WithHumanizeDelay(0),
			pagesmithhttp.WithHTTPClient(client),
		)
		out, err := h.Humanize(context.Background(), "text")

		require.NoError(t, err)
		assert.Equal(t, "ok", out)
		assert.Equal(t, int32(1), trips.Load(), "requests use the supplied transport")
		assert.Zero(t, client.Timeout)
	})

	t.Run("paces consecutive calls", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"output":"ok"}`))
		}))
		defer server.Close()

		h := pagesmithhttp.NewHumanizer(server.URL, "secret", pagesmithhttp.WithHumanizeDelay(50*time.Millisecond))

		start := time.Now()
		for range 3 {
			_, err := h.Humanize(context.Background(), "text")
			require.NoError(t, err)
		}

		assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("missing credentials is a config error", func(t *testing.T) {
		t.Parallel()

		_, err := pagesmithhttp.NewHumanizer("", "").Humanize(context.Background(), "text")

		assert.Equal(t, pagesmith.ECONFIG, pagesmith.ErrorCode(err))
	})
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"turnslate/internal/bundle"
)

func testClient(url string) *Client {
	c := NewClient(url, 5*time.Second)
	c.retryDelay = time.Millisecond
	return c
}

func TestFetchBundle(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "my-project", req["projectId"])
		require.Equal(t, "secret-token", req["token"])

		w.Write([]byte(`{"main": "en", "langs": {"en": "hello = Hello", "fr": "hello = Bonjour"}}`))
	}))
	defer ts.Close()

	b, err := testClient(ts.URL).FetchBundle(context.Background(), "my-project", "secret-token")
	require.NoError(t, err)
	require.Equal(t, "en", b.Main)
	require.Equal(t, []string{"en", "fr"}, b.Locales())
	require.Equal(t, "hello = Hello", b.MainSource())
}

func TestFetchBundle_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"main": "en", "langs": {"en": "hello = Hello"}}`))
	}))
	defer ts.Close()

	b, err := testClient(ts.URL).FetchBundle(context.Background(), "p", "t")
	require.NoError(t, err)
	require.Equal(t, "en", b.Main)
	require.EqualValues(t, 3, calls.Load())
}

func TestFetchBundle_ExhaustsRetries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).FetchBundle(context.Background(), "p", "t")
	require.Error(t, err)
	require.Contains(t, err.Error(), "after 3 retries")
	require.Contains(t, err.Error(), "status 503")
}

func TestFetchBundle_AuthFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).FetchBundle(context.Background(), "p", "bad")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 401")
}

func TestFetchBundle_UndecodableBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).FetchBundle(context.Background(), "p", "t")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unmarshal bundle")
}

func TestFetchBundle_MainLocaleMissing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"main": "de", "langs": {"en": "hello = Hello"}}`))
	}))
	defer ts.Close()

	_, err := testClient(ts.URL).FetchBundle(context.Background(), "p", "t")
	require.ErrorIs(t, err, bundle.ErrMainLocaleMissing)
}

func TestFetchBundle_CancelledContext(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(ts.URL).FetchBundle(ctx, "p", "t")
	require.ErrorIs(t, err, context.Canceled)
}

package openfda

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/remedymatch/extract"
	"github.com/poiesic/remedymatch/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const advilLabel = `{
  "meta": {"results": {"skip": 0, "limit": 1, "total": 12}},
  "results": [{
    "indications_and_usage": ["Uses temporarily relieves minor aches and pains due to headache."],
    "openfda": {"brand_name": ["Advil"]}
  }]
}`

// newTestClient starts a server running handler and returns a client
// pointed at it, plus a counter of requests served.
func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...lookup.ConfigOption) (*Client, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := lookup.NewConfig(append([]lookup.ConfigOption{
		lookup.WithBaseURL(server.URL),
		lookup.WithRetryDelay(time.Millisecond),
	}, opts...)...)
	client, err := newClient(cfg)
	require.NoError(t, err)
	return client, &hits
}

func TestIndications_Found(t *testing.T) {
	var gotPath, gotSearch, gotLimit, gotKey string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSearch = r.URL.Query().Get("search")
		gotLimit = r.URL.Query().Get("limit")
		gotKey = r.URL.Query().Get("api_key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(advilLabel))
	})

	text, err := client.Indications(context.Background(), " Advil ")
	require.NoError(t, err)
	assert.Equal(t, "Uses temporarily relieves minor aches and pains due to headache.", text)

	assert.Equal(t, "/drug/label.json", gotPath)
	assert.Equal(t, "openfda.brand_name:Advil", gotSearch)
	assert.Equal(t, "1", gotLimit)
	assert.Empty(t, gotKey)
}

func TestIndications_APIKeyAndPhrase(t *testing.T) {
	var gotSearch, gotKey string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		gotKey = r.URL.Query().Get("api_key")
		_, _ = w.Write([]byte(advilLabel))
	}, lookup.WithAPIKey("k3y"))

	_, err := client.Indications(context.Background(), "Advil PM")
	require.NoError(t, err)
	assert.Equal(t, `openfda.brand_name:"Advil PM"`, gotSearch)
	assert.Equal(t, "k3y", gotKey)
}

func TestIndications_Outcomes(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		want     string
		wantErr  error
		wantHits int32
	}{
		{name: "empty results", status: http.StatusOK, body: `{"results": []}`, wantErr: lookup.ErrNotFound, wantHits: 1},
		{name: "no results key", status: http.StatusOK, body: `{}`, wantErr: lookup.ErrNotFound, wantHits: 1},
		{name: "not found status", status: http.StatusNotFound, body: `{"error":{"code":"NOT_FOUND","message":"No matches found!"}}`, wantErr: lookup.ErrNotFound, wantHits: 1},
		{name: "missing indications", status: http.StatusOK, body: `{"results":[{"openfda":{}}]}`, want: extract.NoEffectFound, wantHits: 1},
		{name: "empty indications", status: http.StatusOK, body: `{"results":[{"indications_and_usage":[]}]}`, want: extract.NoEffectFound, wantHits: 1},
		{name: "first indications entry", status: http.StatusOK, body: `{"results":[{"indications_and_usage":["one","two"]}]}`, want: "one", wantHits: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, lookup.WithMaxRetries(2))

			got, err := client.Indications(context.Background(), "Advil")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.wantHits, hits.Load())
		})
	}
}

func TestIndications_BadRequestIsNotRetried(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad query", http.StatusBadRequest)
	}, lookup.WithMaxRetries(3))

	_, err := client.Indications(context.Background(), "Advil")
	var statusErr *lookup.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, int32(1), hits.Load())
}

func TestIndications_MalformedBody(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}, lookup.WithMaxRetries(3))

	_, err := client.Indications(context.Background(), "Advil")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode label response")
	assert.Equal(t, int32(1), hits.Load())
}

func TestIndications_ServerErrorRetried(t *testing.T) {
	var calls atomic.Int32
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(advilLabel))
	}, lookup.WithMaxRetries(2))

	text, err := client.Indications(context.Background(), "Advil")
	require.NoError(t, err)
	assert.Contains(t, text, "relieves minor aches")
	assert.Equal(t, int32(3), hits.Load())
}

func TestIndications_ServerErrorExhausted(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, lookup.WithMaxRetries(1))

	_, err := client.Indications(context.Background(), "Advil")
	var statusErr *lookup.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, int32(2), hits.Load())
}

func TestIndications_Timeout(t *testing.T) {
	release := make(chan struct{})
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, lookup.WithTimeout(20*time.Millisecond), lookup.WithMaxRetries(1))
	defer close(release)

	_, err := client.Indications(context.Background(), "Advil")
	assert.ErrorIs(t, err, lookup.ErrTimeout)
	assert.Equal(t, int32(2), hits.Load(), "timeouts are retried")
}

func TestIndications_CallerCanceled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(advilLabel))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Indications(ctx, "Advil")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, lookup.ErrTimeout)
}

func TestIndications_EmptyName(t *testing.T) {
	client, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.Indications(context.Background(), "   ")
	assert.ErrorIs(t, err, lookup.ErrMedicineNameRequired)
	assert.Equal(t, int32(0), hits.Load())
}

func TestNewClient(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		client, err := newClient(nil)
		require.NoError(t, err)
		assert.Equal(t, lookup.DefaultBaseURL, client.config.BaseURL)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewClient(lookup.NewConfig(lookup.WithTimeout(0)))
		assert.ErrorIs(t, err, lookup.ErrInvalidTimeout)
	})

	t.Run("options", func(t *testing.T) {
		hc := &http.Client{}
		client, err := newClient(nil, WithHTTPClient(hc), WithLogger(nil))
		require.NoError(t, err)
		assert.Same(t, hc, client.httpClient)
		assert.NotNil(t, client.logger)
	})
}

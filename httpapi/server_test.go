package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/poiesic/remedymatch"
	"github.com/poiesic/remedymatch/core"
	"github.com/poiesic/remedymatch/lookup"
	"github.com/poiesic/remedymatch/lookup/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts ...Option) (*Server, *mock.MockLabelSource) {
	t.Helper()
	corpus, err := core.NewCorpus([]core.RemedyRecord{
		{Effect: "relieves headache pain", Remedy: "Peppermint oil"},
		{Effect: "Calms anxiety and promotes sleep", Remedy: "Lavender"},
	})
	require.NoError(t, err)

	src := mock.NewMockLabelSource(nil)
	src.IndicationsFunc = func(ctx context.Context, name string) (string, error) {
		switch name {
		case "Slowdrug":
			return "", fmt.Errorf("look up: %w", lookup.ErrTimeout)
		case "Brokendrug":
			return "", &lookup.StatusError{StatusCode: http.StatusBadGateway, Status: "502 Bad Gateway"}
		case "Panicdrug":
			panic("boom")
		case "Advil":
			return "Uses: temporarily relieves headache pain. Do not exceed the dose.", nil
		case "Bluepill":
			return "This drug is blue. It is round.", nil
		}
		return "", lookup.ErrNotFound
	}

	matcher, err := remedymatch.NewMatcher(src, corpus)
	require.NoError(t, err)
	server, err := NewServer(matcher, opts...)
	require.NoError(t, err)
	return server, src
}

func do(t *testing.T, h http.Handler, method, target string, header http.Header) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var body map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	}
	return rec, body
}

func TestGetMedicineEffect(t *testing.T) {
	server, _ := newTestServer(t)
	h := server.Handler()

	t.Run("found", func(t *testing.T) {
		rec, body := do(t, h, http.MethodGet, "/api/get_medicine_effect?medicine_name=Advil", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Uses: temporarily relieves headache pain.", body["effect"])

		remedies, ok := body["remedies"].([]any)
		require.True(t, ok)
		require.NotEmpty(t, remedies)
		first := remedies[0].(map[string]any)
		assert.Equal(t, "Peppermint oil", first["name"])
		assert.Equal(t, "relieves headache pain", first["effect"])
		assert.Greater(t, first["match_score"].(float64), 0.05)
	})

	t.Run("no remedies is an empty list", func(t *testing.T) {
		rec, body := do(t, h, http.MethodGet, "/api/get_medicine_effect?medicine_name=Bluepill", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "This drug is blue.", body["effect"])
		assert.Equal(t, []any{}, body["remedies"])
	})

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantError  string
	}{
		{name: "missing name", query: "", wantStatus: http.StatusBadRequest, wantError: "Please provide a medicine name."},
		{name: "empty name", query: "?medicine_name=", wantStatus: http.StatusBadRequest, wantError: "Please provide a medicine name."},
		{name: "not found", query: "?medicine_name=Nothing", wantStatus: http.StatusNotFound, wantError: "No data found for this medicine."},
		{name: "timeout", query: "?medicine_name=Slowdrug", wantStatus: http.StatusNotFound, wantError: "Request to FDA API timed out."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, http.MethodGet, "/api/get_medicine_effect"+tt.query, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantError, body["error"])
		})
	}

	t.Run("other failure", func(t *testing.T) {
		rec, body := do(t, h, http.MethodGet, "/api/get_medicine_effect?medicine_name=Brokendrug", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, body["error"], "API request failed: ")
		assert.Contains(t, body["error"], "502 Bad Gateway")
	})
}

func TestDescribeError(t *testing.T) {
	status, msg := describeError(remedymatch.ErrMedicineNameRequired)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, msgNameRequired, msg)

	status, msg = describeError(errors.New("dial tcp: refused"))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "API request failed: dial tcp: refused", msg)
}

func TestNoRouteAndPanic(t *testing.T) {
	server, _ := newTestServer(t)
	h := server.Handler()

	rec, body := do(t, h, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found.", body["error"])

	rec, body = do(t, h, http.MethodPost, "/api/get_medicine_effect?medicine_name=Advil", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found.", body["error"])

	rec, body = do(t, h, http.MethodGet, "/api/get_medicine_effect?medicine_name=Panicdrug", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error.", body["error"])
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)
	rec, body := do(t, server.Handler(), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(2), body["corpus_size"])
	assert.Len(t, body["fingerprint"], 16)
}

func TestCORS(t *testing.T) {
	origin := http.Header{"Origin": {"https://app.example.com"}}

	t.Run("wildcard", func(t *testing.T) {
		server, _ := newTestServer(t)
		rec, _ := do(t, server.Handler(), http.MethodGet, "/api/get_medicine_effect?medicine_name=Advil", origin)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("only api routes", func(t *testing.T) {
		server, _ := newTestServer(t)
		rec, _ := do(t, server.Handler(), http.MethodGet, "/healthz", origin)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		server, src := newTestServer(t)
		req := httptest.NewRequest(http.MethodOptions, "/api/get_medicine_effect", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "GET")
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
		assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
		assert.Equal(t, 0, src.CallCount())
	})

	t.Run("listed origin", func(t *testing.T) {
		server, _ := newTestServer(t, WithConfig(NewConfig(WithAllowOrigins("https://app.example.com"))))
		rec, _ := do(t, server.Handler(), http.MethodGet, "/api/get_medicine_effect?medicine_name=Advil", origin)
		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		server, _ := newTestServer(t, WithConfig(NewConfig(WithAllowOrigins("https://other.example.com"))))
		rec, _ := do(t, server.Handler(), http.MethodGet, "/api/get_medicine_effect?medicine_name=Advil", origin)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestNewServer(t *testing.T) {
	_, err := NewServer(nil)
	assert.ErrorIs(t, err, ErrMatcherRequired)

	matcher, err := remedymatch.NewMatcher(mock.NewMockLabelSource(nil), nil)
	require.NoError(t, err)
	_, err = NewServer(matcher, WithConfig(NewConfig(WithAllowOrigins())))
	assert.Error(t, err)

	s, err := NewServer(matcher, WithConfig(nil), WithLogger(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultAddr, s.config.Addr)
}

func TestServer_Serve(t *testing.T) {
	server, _ := newTestServer(t, WithConfig(NewConfig(WithShutdownTimeout(time.Second))))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_RunBadAddr(t *testing.T) {
	server, _ := newTestServer(t, WithConfig(NewConfig(WithAddr("not-an-address"))))
	err := server.Run(context.Background())
	assert.Error(t, err)
}

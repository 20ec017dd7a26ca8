package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fxconvert/internal/adapters/httpclient"
	"fxconvert/internal/metrics"
	"fxconvert/internal/rate"
	"fxconvert/internal/rate/handler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	mu sync.Mutex
	m  map[string]float64
}

func (c *mapCache) Get(_ context.Context, key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value float64, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

type testEnv struct {
	server        *httptest.Server
	upstreamCalls *atomic.Int32
}

// newTestEnv serves the full router against a fake provider answering with body.
func newTestEnv(t *testing.T, upstreamStatus int, upstreamBody string) testEnv {
	t.Helper()

	calls := new(atomic.Int32)
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(upstreamStatus)
		_, _ = io.WriteString(w, upstreamBody)
	}))
	t.Cleanup(upstream.Close)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	client := httpclient.NewExchangeRateClient(upstream.Client(), upstream.URL+"/v6/test-key")
	converter := rate.NewConverter(client, &mapCache{m: map[string]float64{}}, rate.WithMetrics(m), rate.WithInflightDedupe(true))
	validator := rate.NewValidator(map[string]struct{}{"USD": {}, "EUR": {}, "JPY": {}})

	srv := httptest.NewServer(NewRouter(handler.NewRateHandler(validator, converter, m), reg))
	t.Cleanup(srv.Close)
	return testEnv{server: srv, upstreamCalls: calls}
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

type errorBody struct {
	Detail struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"detail"`
}

func TestRouter_Convert_CachesResult(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"result":"success","conversion_rate":0.92}`)

	for _, path := range []string{"/rates?from=USD&to=EUR&value=100", "/api/v1/rates?from=usd&to=eur&value=100"} {
		resp, body := get(t, env.server.URL+path)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"result":92}`, string(body))
	}
	require.Equal(t, int32(1), env.upstreamCalls.Load())
}

func TestRouter_Convert_ValidationNeverCallsUpstream(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"result":"success","conversion_rate":0.92}`)

	cases := []struct {
		query string
		code  string
	}{
		{query: "from=USD&to=EUR", code: "INVALID_PARAMETERS"},
		{query: "from=USD&from=JPY&to=EUR&value=1", code: "INVALID_CURRENCY_CODE"},
		{query: "from=XXX&to=EUR&value=1", code: "CURRENCY_NOT_FOUND"},
		{query: "from=USD&to=EUR&value=ten", code: "INVALID_VALUE"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			resp, body := get(t, env.server.URL+"/rates?"+tc.query)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var eb errorBody
			require.NoError(t, json.Unmarshal(body, &eb))
			require.Equal(t, tc.code, eb.Detail.Code)
		})
	}
	require.Zero(t, env.upstreamCalls.Load())
}

func TestRouter_Convert_UpstreamFailures(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		body       string
		wantStatus int
	}{
		{name: "null rate", status: http.StatusOK, body: `{"result":"success","conversion_rate":null}`, wantStatus: http.StatusServiceUnavailable},
		{name: "api error", status: http.StatusOK, body: `{"result":"error","error-type":"invalid-key"}`, wantStatus: http.StatusInternalServerError},
		{name: "upstream 404", status: http.StatusNotFound, body: `{}`, wantStatus: http.StatusNotFound},
		{name: "garbage", status: http.StatusOK, body: `<html>`, wantStatus: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, tc.status, tc.body)

			resp, body := get(t, env.server.URL+"/rates?from=USD&to=EUR&value=1")
			require.Equal(t, tc.wantStatus, resp.StatusCode)
			var eb errorBody
			require.NoError(t, json.Unmarshal(body, &eb))
			require.Equal(t, "CURRENCY_SERVICE_ERROR", eb.Detail.Code)
			require.NotContains(t, eb.Detail.Message, "test-key")
		})
	}
}

func TestRouter_Convert_UpstreamUnreachable(t *testing.T) {
	reg := prometheus.NewRegistry()
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	client := httpclient.NewExchangeRateClient(http.DefaultClient, deadURL+"/v6/test-key")
	converter := rate.NewConverter(client, &mapCache{m: map[string]float64{}})
	validator := rate.NewValidator(map[string]struct{}{"USD": {}, "EUR": {}})
	srv := httptest.NewServer(NewRouter(handler.NewRateHandler(validator, converter, nil), reg))
	defer srv.Close()

	resp, body := get(t, srv.URL+"/rates?from=USD&to=EUR&value=1")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	var eb errorBody
	require.NoError(t, json.Unmarshal(body, &eb))
	require.Equal(t, "currency service unavailable, please try again later", eb.Detail.Message)
}

func TestRouter_SupportedCurrencies(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{}`)

	for _, path := range []string{"/rates/currencies", "/api/v1/rates/currencies"} {
		resp, body := get(t, env.server.URL+path)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.JSONEq(t, `{"codes":["EUR","JPY","USD"]}`, string(body))
	}
}

func TestRouter_Healthz(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{}`)

	resp, _ := get(t, env.server.URL+"/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Metrics(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{"result":"success","conversion_rate":0.92}`)

	get(t, env.server.URL+"/rates?from=USD&to=EUR&value=100")
	get(t, env.server.URL+"/rates?from=USD&to=EUR&value=100")

	resp, body := get(t, env.server.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `fxconvert_cache_lookups_total{result="hit"} 1`)
	require.Contains(t, string(body), `fxconvert_upstream_requests_total{outcome="success"} 1`)
}

func TestRouter_RequestID(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{}`)

	resp, _ := get(t, env.server.URL+"/rates/currencies")
	generated := resp.Header.Get(RequestIDHeader)
	require.Len(t, generated, 36)

	const given = "4f0c2c7e-5e2b-4c3a-9a55-0a6f3b1b8c11"
	req, err := http.NewRequest(http.MethodGet, env.server.URL+"/rates/currencies", nil)
	require.NoError(t, err)
	req.Header.Set(RequestIDHeader, given)
	echoed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer echoed.Body.Close()
	require.Equal(t, given, echoed.Header.Get(RequestIDHeader))
}

func TestRouter_Swagger(t *testing.T) {
	env := newTestEnv(t, http.StatusOK, `{}`)

	resp, body := get(t, env.server.URL+"/swagger/doc.json")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, strings.Contains(string(body), `"/rates"`), fmt.Sprintf("unexpected swagger doc: %.200s", body))
}

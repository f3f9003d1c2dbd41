package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-test/deep"
	"github.com/mbndr/logo"
	"github.com/paraleipsis/proxyprobe/internal/checker"
)

type testerFunc func(ctx context.Context, proxies []string) ([]checker.ProxyResult, error)

func (f testerFunc) TestAll(ctx context.Context, proxies []string) ([]checker.ProxyResult, error) {
	return f(ctx, proxies)
}

func echoTester(ctx context.Context, proxies []string) ([]checker.ProxyResult, error) {
	results := make([]checker.ProxyResult, len(proxies))
	for i, p := range proxies {
		results[i] = checker.ProxyResult{Proxy: p, Status: checker.NotWorking, ProxyType: checker.ProxyTypeNA}
	}
	return results, nil
}

func newTestServer(t *testing.T, tester Tester) *httptest.Server {
	t.Helper()

	s := New("", tester, logo.NewSimpleLogger(io.Discard, logo.DEBUG, "test", false))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return srv
}

func post(t *testing.T, url, body string) (int, string) {
	t.Helper()

	resp, err := http.Post(url+"/api/proxies/test", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.Header.Get("X-Request-Id") == "" {
		t.Fatal("missing request id")
	}

	return resp.StatusCode, strings.TrimSpace(string(data))
}

func TestTestHandler_Validation(t *testing.T) {
	srv := newTestServer(t, testerFunc(echoTester))

	cases := map[string]struct {
		body   string
		status int
		want   string
	}{
		"not json":     {`proxies`, 400, `{"error":"Proxies must be an array"}`},
		"missing":      {`{}`, 400, `{"error":"Proxies must be an array"}`},
		"string":       {`{"proxies":"1.2.3.4:80"}`, 400, `{"error":"Proxies must be an array"}`},
		"null":         {`{"proxies":null}`, 400, `{"error":"Proxies must be an array"}`},
		"empty":        {`{"proxies":[]}`, 400, `{"error":"A non-empty array of proxies is required"}`},
		"mixed values": {`{"proxies":["1.2.3.4:80",42]}`, 200, `[{"proxy":"1.2.3.4:80","status":"Not Working","proxyType":"N/A","latency":null,"httpStatus":null,"location":"","testedProtocols":null},{"proxy":"42","status":"Not Working","proxyType":"N/A","latency":null,"httpStatus":null,"location":"","testedProtocols":null}]`},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			status, body := post(t, srv.URL, c.body)
			if status != c.status || body != c.want {
				t.Fatalf("got %d %s", status, body)
			}
		})
	}
}

func TestTestHandler_Order(t *testing.T) {
	srv := newTestServer(t, testerFunc(echoTester))

	in := []string{"b:1", "a:2", "b:1"}
	payload, _ := json.Marshal(map[string][]string{"proxies": in})

	status, body := post(t, srv.URL, string(payload))
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}

	var results []checker.ProxyResult
	if err := json.Unmarshal([]byte(body), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := make([]string, len(results))
	for i, r := range results {
		got[i] = r.Proxy
	}
	if diff := deep.Equal(got, in); diff != nil {
		t.Fatal(diff)
	}
}

func TestTestHandler_TesterError(t *testing.T) {
	srv := newTestServer(t, testerFunc(func(context.Context, []string) ([]checker.ProxyResult, error) {
		return nil, errors.New("boom")
	}))

	status, body := post(t, srv.URL, `{"proxies":["1.2.3.4:80"]}`)
	if status != http.StatusInternalServerError || body != `{"error":"Proxy test failed","details":"boom"}` {
		t.Fatalf("got %d %s", status, body)
	}
}

func TestTestHandler_MethodAndRoutes(t *testing.T) {
	srv := newTestServer(t, testerFunc(echoTester))

	resp, err := http.Get(srv.URL + "/api/proxies/test")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	resp, err = http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(t, testerFunc(echoTester))

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["status"] != "ok" || got["version"] == "" {
		t.Fatalf("got %v", got)
	}
}

func TestServe_GracefulShutdown(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	s := New("", testerFunc(func(ctx context.Context, proxies []string) ([]checker.ProxyResult, error) {
		close(started)
		<-release
		return echoTester(ctx, proxies)
	}), logo.NewSimpleLogger(io.Discard, logo.INFO, "test", false))

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- s.Serve(ctx, l) }()

	type reply struct {
		status int
		err    error
	}
	replies := make(chan reply, 1)
	go func() {
		resp, err := http.Post("http://"+l.Addr().String()+"/api/proxies/test", "application/json", bytes.NewBufferString(`{"proxies":["1.2.3.4:80"]}`))
		if err != nil {
			replies <- reply{err: err}
			return
		}
		resp.Body.Close()
		replies <- reply{status: resp.StatusCode}
	}()

	<-started
	cancel()
	time.Sleep(50 * time.Millisecond)
	close(release)

	if r := <-replies; r.err != nil || r.status != http.StatusOK {
		t.Fatalf("in-flight request = %+v", r)
	}
	if err := <-served; err != nil {
		t.Fatalf("Serve: %v", err)
	}
}

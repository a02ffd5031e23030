package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartderm/internal/derm"
	"smartderm/internal/genai"
	"smartderm/internal/genai/genaitest"
	"smartderm/internal/httpapi"
	"smartderm/internal/pipeline"
	"smartderm/internal/session"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// newServer wires the real service and router against a fake upstream with
// millisecond backoff.
func newServer(t *testing.T, fake *genaitest.Server, attempts int) (*httptest.Server, *pipeline.MemoryPublisher) {
	t.Helper()
	pub := pipeline.NewMemoryPublisher()
	client := genai.New(genai.Options{BaseURL: fake.URL, APIKey: "test-key", Timeout: 5 * time.Second})
	svc := derm.New(client, derm.Config{Retry: pipeline.RetryPolicy{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}},
		derm.WithEventPublisher(pipeline.MultiPublisher{pub, httpapi.MetricsPublisher{}}))
	srv := httptest.NewServer(httpapi.NewMux(svc, nil, session.NewTracker()))
	t.Cleanup(srv.Close)
	return srv, pub
}

// clientSession replays the X-Session-ID header the server issued.
type clientSession struct {
	t   *testing.T
	url string
	id  string
}

func (c *clientSession) do(req *http.Request, out any) int {
	c.t.Helper()
	if c.id != "" {
		req.Header.Set("X-Session-ID", c.id)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil { c.t.Fatalf("do %s: %v", req.URL.Path, err) }
	defer resp.Body.Close()
	if id := resp.Header.Get("X-Session-ID"); id != "" {
		c.id = id
	}
	b, _ := io.ReadAll(resp.Body)
	if out != nil {
		if err := json.Unmarshal(b, out); err != nil { c.t.Fatalf("decode %s: %v (%s)", req.URL.Path, err, b) }
	}
	return resp.StatusCode
}

func (c *clientSession) postJSON(path string, body any, out any) int {
	c.t.Helper()
	b, _ := json.Marshal(body)
	req, err := http.NewRequest(http.MethodPost, c.url+path, bytes.NewReader(b))
	if err != nil { c.t.Fatalf("new req: %v", err) }
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *clientSession) analyze(data []byte, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("image", "rash.png")
	_, _ = fw.Write(data)
	_ = mw.Close()
	req, err := http.NewRequest(http.MethodPost, c.url+"/api/analyze", &buf)
	if err != nil { c.t.Fatalf("new req: %v", err) }
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, out)
}

func (c *clientSession) get(path string, out any) int {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.url+path, nil)
	if err != nil { c.t.Fatalf("new req: %v", err) }
	return c.do(req, out)
}

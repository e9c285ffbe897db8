package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// BackendURL is the base URL served by Backend's in-process transport.
const BackendURL = "http://storefront.test"

// Reply is a canned response.
type Reply struct {
	Status int
	Body   any
	// Err, when set, fails the round trip without a response.
	Err error
}

// Call is a request observed by Backend.
type Call struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Backend is a scriptable fake of the storefront API. It implements
// http.RoundTripper and serves requests in the caller's goroutine, so tests
// using it start no server and no background goroutines.
type Backend struct {
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	replies  map[string][]Reply
	calls    []Call
}

var _ http.RoundTripper = (*Backend)(nil)

// NewBackend returns an empty backend; unrouted requests get 404.
func NewBackend() *Backend {
	return &Backend{
		handlers: make(map[string]http.HandlerFunc),
		replies:  make(map[string][]Reply),
	}
}

func routeKey(method, path string) string {
	return method + " " + path
}

// Handle routes method+path to h.
func (b *Backend) Handle(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[routeKey(method, path)] = h
}

// Reply queues canned replies for method+path. Replies are consumed in order;
// the last one repeats.
func (b *Backend) Reply(method, path string, replies ...Reply) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[routeKey(method, path)] = append(b.replies[routeKey(method, path)], replies...)
}

// JSON queues a single JSON reply.
func (b *Backend) JSON(method, path string, status int, body any) {
	b.Reply(method, path, Reply{Status: status, Body: body})
}

// HTTPClient returns a client whose transport is the backend.
func (b *Backend) HTTPClient() *http.Client {
	return &http.Client{Transport: b}
}

// RoundTrip implements http.RoundTripper.
func (b *Backend) RoundTrip(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
	}

	key := routeKey(req.Method, req.URL.Path)
	b.mu.Lock()
	b.calls = append(b.calls, Call{
		Method: req.Method,
		Path:   req.URL.Path,
		Query:  req.URL.RawQuery,
		Header: req.Header.Clone(),
		Body:   body,
	})
	handler := b.handlers[key]
	reply, hasReply := b.nextReply(key)
	b.mu.Unlock()

	if hasReply && reply.Err != nil {
		return nil, reply.Err
	}

	rec := httptest.NewRecorder()
	inner := req.Clone(req.Context())
	inner.Body = io.NopCloser(bytes.NewReader(body))

	switch {
	case handler != nil:
		handler(rec, inner)
	case hasReply:
		WriteJSON(rec, reply.Status, reply.Body)
	default:
		WriteJSON(rec, http.StatusNotFound, map[string]string{"detail": "Not found."})
	}

	resp := rec.Result()
	resp.Request = req
	return resp, nil
}

// nextReply pops the next canned reply; callers hold b.mu.
func (b *Backend) nextReply(key string) (Reply, bool) {
	queue := b.replies[key]
	if len(queue) == 0 {
		return Reply{}, false
	}
	reply := queue[0]
	if len(queue) > 1 {
		b.replies[key] = queue[1:]
	}
	return reply, true
}

// Calls returns the observed requests for method+path, or all when method is empty.
func (b *Backend) Calls(method, path string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.calls {
		if method == "" || (c.Method == method && c.Path == path) {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times method+path was requested.
func (b *Backend) Count(method, path string) int {
	return len(b.Calls(method, path))
}

// Total returns the number of requests observed.
func (b *Backend) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

// WriteJSON writes body as JSON with status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if raw, ok := body.(string); ok {
		_, _ = io.WriteString(w, raw)
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}

// Bearer returns the bearer token of a recorded call, or "".
func (c Call) Bearer() string {
	const prefix = "Bearer "
	h := c.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}

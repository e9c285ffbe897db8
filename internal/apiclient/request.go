package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"sync"
)

const jsonContentType = "application/json"

// Request describes one logical API call. The client owns the retry flag; a
// Request value should not be reused across calls.
type Request struct {
	Method string
	Path   string
	// Route is the endpoint template used to tag metrics. Empty derives it
	// from Path with RouteOf.
	Route  string
	Query  url.Values
	Header http.Header

	// Body is JSON-encoded. Ignored when Multipart is set.
	Body any
	// Multipart switches the body to multipart/form-data.
	Multipart *Multipart
	// Progress receives upload progress as monotonically increasing percentages.
	Progress func(percent int)
	// NoAuthRetry disables the refresh-and-retry protocol for this call.
	NoAuthRetry bool
	// Anonymous omits the bearer token (login, register, refresh).
	Anonymous bool
	// KeepSession stops the client from expiring the session on a terminal
	// 401; the caller decides what to clear.
	KeepSession bool

	retried     bool
	payload     []byte
	contentType string
	encoded     bool
	progress    *progressTracker
}

// Retried reports whether the request was re-issued after a refresh.
func (r *Request) Retried() bool {
	return r.retried
}

func (r *Request) route() string {
	if r.Route != "" {
		return r.Route
	}
	return RouteOf(r.Path)
}

func (r *Request) isRefresh() bool {
	return strings.Contains(r.Path, RefreshPath)
}

// encode renders the body once so a retry re-sends identical bytes.
func (r *Request) encode() error {
	if r.encoded {
		return nil
	}
	switch {
	case r.Multipart != nil:
		payload, contentType, err := r.Multipart.encode()
		if err != nil {
			return err
		}
		r.payload, r.contentType = payload, contentType
	case r.Body != nil:
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		r.payload, r.contentType = payload, jsonContentType
	}
	if r.Progress != nil {
		r.progress = &progressTracker{report: r.Progress, last: -1}
	}
	r.encoded = true
	return nil
}

func (r *Request) body() io.Reader {
	if r.payload == nil {
		return nil
	}
	reader := io.Reader(bytes.NewReader(r.payload))
	if r.progress != nil {
		reader = &progressReader{r: reader, total: int64(len(r.payload)), tracker: r.progress}
	}
	return reader
}

// FilePart is a file attached to a multipart body.
type FilePart struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// Multipart is a multipart/form-data body. Nil field values are skipped;
// strings and numbers are sent as-is; other values are JSON-encoded.
type Multipart struct {
	Fields map[string]any
	Files  []FilePart
}

func (m *Multipart) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, key := range slices.Sorted(maps.Keys(m.Fields)) {
		value, ok, err := formValue(m.Fields[key])
		if err != nil {
			return nil, "", fmt.Errorf("encode form field %s: %w", key, err)
		}
		if !ok {
			continue
		}
		if err := w.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", key, err)
		}
	}

	for _, file := range m.Files {
		if err := writeFilePart(w, file); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, file FilePart) error {
	if file.Content == nil {
		return fmt.Errorf("form file %s has no content", file.Field)
	}
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename)}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header["Content-Type"] = []string{contentType}

	part, err := w.CreatePart(header)
	if err != nil {
		return fmt.Errorf("create form file %s: %w", file.Field, err)
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return fmt.Errorf("copy form file %s: %w", file.Field, err)
	}
	return nil
}

func formValue(v any) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}
	switch val := v.(type) {
	case string:
		return val, true, nil
	case fmt.Stringer:
		return val.String(), true, nil
	case bool, int, int32, int64, uint, uint32, uint64, float32, float64:
		return fmt.Sprint(val), true, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "", false, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", false, err
	}
	return string(b), true, nil
}

// BuildQuery converts params to query values, skipping nil and empty values and
// expanding slices into repeated keys.
func BuildQuery(params map[string]any) url.Values {
	values := url.Values{}
	for _, key := range slices.Sorted(maps.Keys(params)) {
		appendQueryValue(values, key, params[key])
	}
	return values
}

func appendQueryValue(values url.Values, key string, v any) {
	if v == nil {
		return
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return
		}
		appendQueryValue(values, key, rv.Elem().Interface())
		return
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			appendQueryValue(values, key, rv.Index(i).Interface())
		}
		return
	}
	s := fmt.Sprint(v)
	if s == "" {
		return
	}
	values.Add(key, s)
}

type progressTracker struct {
	mu     sync.Mutex
	report func(int)
	last   int
}

// update reports pct only when it advances past the last reported value.
func (t *progressTracker) update(pct int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if pct <= t.last {
		return
	}
	t.last = pct
	t.report(pct)
}

type progressReader struct {
	r       io.Reader
	total   int64
	read    int64
	tracker *progressTracker
}

func (p *progressReader) Read(b []byte) (int, error) {
	if p.read == 0 {
		p.tracker.update(0)
	}
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 {
		p.tracker.update(int(p.read * 100 / p.total))
	}
	if err == io.EOF {
		p.tracker.update(100)
	}
	return n, err
}

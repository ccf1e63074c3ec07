package backend

import (
	"bytes"
	"context"
	"course_admin_gateway/internal/config"
	"course_admin_gateway/internal/util"
	"course_admin_gateway/pkg/logger"
	"course_admin_gateway/pkg/monitoring"
	"course_admin_gateway/pkg/tracing"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// Client talks to the external course backend. It is safe for concurrent use.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	longTimeout time.Duration
}

func NewClient(cfg config.BackendConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		// deadlines come from the request context, not the client
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	longTimeout := cfg.LongTimeout
	if longTimeout <= 0 {
		longTimeout = 360 * time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		httpClient:  httpClient,
		timeout:     timeout,
		longTimeout: longTimeout,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// FormFile is one file part of a multipart request. Open is called once,
// while the body is being streamed.
type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type FormField struct {
	Name  string
	Value string
}

type Multipart struct {
	Fields []FormField
	Files  []FormFile
}

func (m *Multipart) Add(name, value string) {
	m.Fields = append(m.Fields, FormField{Name: name, Value: value})
}

type Request struct {
	Method string
	Path   string
	// Endpoint is the path template used for metrics and spans; defaults to Path.
	Endpoint  string
	Query     url.Values
	JSON      interface{}
	Multipart *Multipart
	Token     string
	// Long selects the long deadline used for form submissions carrying media.
	Long bool
	// EmptyOn lists statuses this call treats as success with no data.
	EmptyOn []int
	// Overrides replaces the derived message for specific statuses.
	Overrides map[int]string
}

type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Do sends req and returns the raw response for any status. Only transport
// failures and deadlines are returned as errors.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	timeout := c.timeout
	if req.Long {
		timeout = c.longTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = req.Path
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		// unblocks the multipart writer goroutine
		if closer, ok := body.(io.Closer); ok {
			closer.Close()
		}
		return nil, err
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", util.MimeJSON)
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	ctx, span := tracing.StartClientSpan(ctx, req.Method, endpoint, propagation.HeaderCarrier(httpReq.Header))
	httpReq = httpReq.WithContext(ctx)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		elapsed := time.Since(start)
		monitoring.ObserveUpstream(req.Method, endpoint, 0, elapsed)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &util.TimeoutError{Operation: req.Method + " " + endpoint, Timeout: timeout}
		} else {
			err = fmt.Errorf("backend %s %s: %w", req.Method, endpoint, err)
		}
		tracing.EndClientSpan(span, 0, err)
		logger.Log.Error("Backend call failed",
			zap.String("method", req.Method),
			zap.String("endpoint", endpoint),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	monitoring.ObserveUpstream(req.Method, endpoint, resp.StatusCode, elapsed)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = &util.TimeoutError{Operation: req.Method + " " + endpoint, Timeout: timeout}
		}
		tracing.EndClientSpan(span, resp.StatusCode, err)
		return nil, err
	}
	tracing.EndClientSpan(span, resp.StatusCode, nil)

	logger.Log.Debug("Backend call",
		zap.String("method", req.Method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))

	return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// Call sends req and decodes a successful body into out (which may be nil).
// Statuses listed in req.EmptyOn succeed and leave out untouched; any other
// non-2xx becomes a *util.UpstreamError.
func (c *Client) Call(ctx context.Context, req *Request, out interface{}) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		for _, s := range req.EmptyOn {
			if resp.Status == s {
				return nil
			}
		}
		return UpstreamError(req, resp)
	}
	return DecodeInto(req.Path, resp.Body, out)
}

// UpstreamError builds the error for a non-2xx response.
func UpstreamError(req *Request, resp *Response) error {
	msg := Message(Decode(resp.Body), resp.Status)
	if override, ok := req.Overrides[resp.Status]; ok {
		msg = override
	}
	logger.Log.Warn("Backend rejected request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.Status),
		zap.String("message", msg))
	return &util.UpstreamError{Status: resp.Status, Message: msg, Path: req.Path}
}

// DecodeInto unmarshals body into out, tolerating empty bodies and one level
// of {"data": ...} wrapping.
func DecodeInto(path string, body []byte, out interface{}) error {
	if out == nil {
		return nil
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '{' {
		if inner := wrappedPayload(trimmed); inner != nil {
			if err := json.Unmarshal(inner, out); err == nil {
				return nil
			}
		}
	}
	err := json.Unmarshal(trimmed, out)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if inner := unwrapEnvelope(trimmed); inner != nil {
			if innerErr := json.Unmarshal(inner, out); innerErr == nil {
				return nil
			}
		}
	}
	return &util.ParseError{Path: path, Err: err}
}

func encodeBody(req *Request) (io.Reader, string, error) {
	switch {
	case req.Multipart != nil:
		return streamMultipart(req.Multipart)
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), util.MimeJSON, nil
	}
	return nil, "", nil
}

// streamMultipart writes the form through a pipe so lecture videos are not
// held in memory.
func streamMultipart(m *Multipart) (io.Reader, string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeMultipart(mw, m)
		if closeErr := mw.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType(), nil
}

func writeMultipart(mw *multipart.Writer, m *Multipart) error {
	for _, f := range m.Fields {
		if err := mw.WriteField(f.Name, f.Value); err != nil {
			return err
		}
	}
	for _, f := range m.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.Field), escapeQuotes(f.Filename)))
		ct := f.ContentType
		if ct == "" {
			ct = util.MimeOctetStream
		}
		h.Set("Content-Type", ct)

		part, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		src, err := f.Open()
		if err != nil {
			return err
		}
		_, err = io.Copy(part, src)
		src.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func escapeQuotes(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}

package httpclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"sync"

	"github.com/aleister1102/docdiff/internal/common/errorwrapper"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
)

// maxErrorBodyLength bounds how much of a failing response is kept in the error
const maxErrorBodyLength = 1024

// HTTPClient is the outbound client shared by the remote extractor and the
// insights summarizer. Responses are read fully, bounded by MaxContentSize.
type HTTPClient struct {
	client  *http.Client
	config  HTTPClientConfig
	logger  zerolog.Logger
	retrier *retrier
	buffers sync.Pool
}

func NewHTTPClient(config HTTPClientConfig, logger zerolog.Logger) (*HTTPClient, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		TLSHandshakeTimeout: config.DialTimeout,
		DialContext:         (&net.Dialer{Timeout: config.DialTimeout}).DialContext,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: config.InsecureSkipVerify},
	}
	if config.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, errorwrapper.WrapError(err, "failed to enable HTTP/2")
		}
	}

	c := &HTTPClient{
		client: &http.Client{
			Transport:     transport,
			Timeout:       config.Timeout,
			CheckRedirect: redirectPolicy(config),
		},
		config: config,
		logger: logger.With().Str("component", "HTTPClient").Logger(),
	}
	c.buffers.New = func() any { return new(bytes.Buffer) }

	c.logger.Debug().
		Dur("timeout", config.Timeout).
		Bool("http2", config.EnableHTTP2).
		Bool("insecure_skip_verify", config.InsecureSkipVerify).
		Msg("HTTP client ready")
	return c, nil
}

func redirectPolicy(config HTTPClientConfig) func(*http.Request, []*http.Request) error {
	if !config.FollowRedirects {
		return func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	}
	if config.MaxRedirects <= 0 {
		return nil
	}
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) >= config.MaxRedirects {
			return fmt.Errorf("stopped after %d redirects", config.MaxRedirects)
		}
		return nil
	}
}

// Do sends req, retrying per the configured RetryPolicy.
// Non-2xx responses are returned without error; callers decide what they mean.
func (c *HTTPClient) Do(req *HTTPRequest) (*HTTPResponse, error) {
	if c.retrier == nil {
		return c.send(req)
	}
	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}
	return c.retrier.run(ctx, c.send, req)
}

func (c *HTTPClient) send(req *HTTPRequest) (*HTTPResponse, error) {
	ctx := req.Context
	if ctx == nil {
		ctx = context.Background()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create HTTP request")
	}
	httpReq.Header.Set("Accept", "*/*")
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}
	for _, headers := range []map[string]string{c.config.Headers, req.Headers} {
		for key, value := range headers {
			httpReq.Header.Set(key, value)
		}
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, errorwrapper.NewNetworkError(req.URL, "HTTP request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := c.readBody(resp.Body)
	if err != nil {
		return nil, errorwrapper.NewNetworkError(req.URL, "failed to read response body", err)
	}
	if c.config.MaxContentSize > 0 && len(body) > c.config.MaxContentSize {
		return nil, errorwrapper.NewHTTPErrorWithURL(resp.StatusCode,
			fmt.Sprintf("response body exceeds %d bytes", c.config.MaxContentSize), req.URL)
	}

	out := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    make(map[string]string, len(resp.Header)),
		Body:       body,
	}
	for key := range resp.Header {
		out.Headers[key] = resp.Header.Get(key)
	}
	return out, nil
}

// readBody reads at most one byte past MaxContentSize so oversized bodies are detectable
func (c *HTTPClient) readBody(r io.Reader) ([]byte, error) {
	if c.config.MaxContentSize > 0 {
		r = io.LimitReader(r, int64(c.config.MaxContentSize)+1)
	}

	buf := c.buffers.Get().(*bytes.Buffer)
	buf.Reset()
	defer c.buffers.Put(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// DoJSON sends payload (if non-nil) as JSON and decodes a 2xx JSON response into out.
// Non-2xx responses become *errorwrapper.HTTPError.
func (c *HTTPClient) DoJSON(ctx context.Context, method, target string, headers map[string]string, payload any, out any) error {
	req := &HTTPRequest{
		URL:     target,
		Method:  method,
		Headers: map[string]string{"Accept": "application/json"},
		Context: ctx,
	}
	for key, value := range headers {
		req.Headers[key] = value
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return errorwrapper.WrapError(err, "failed to encode request body")
		}
		req.Body = body
		req.Headers["Content-Type"] = "application/json"
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	if err := CheckStatus(resp, target); err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return errorwrapper.WrapError(fmt.Errorf("%w: %v", errorwrapper.ErrUpstreamFailure, err), "failed to decode JSON response")
	}
	return nil
}

// MultipartFile is one file part of a multipart upload
type MultipartFile struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
}

// PostMultipart uploads a file plus extra form fields and returns the raw response.
// Non-2xx responses become *errorwrapper.HTTPError.
func (c *HTTPClient) PostMultipart(ctx context.Context, target string, headers map[string]string, file MultipartFile, fields map[string]string) (*HTTPResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, errorwrapper.WrapError(err, "failed to write form field")
		}
	}

	partHeader := make(textproto.MIMEHeader)
	partHeader.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.FieldName, file.FileName))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	partHeader.Set("Content-Type", contentType)

	part, err := writer.CreatePart(partHeader)
	if err != nil {
		return nil, errorwrapper.WrapError(err, "failed to create file part")
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to write file part")
	}
	if err := writer.Close(); err != nil {
		return nil, errorwrapper.WrapError(err, "failed to finalize multipart body")
	}

	req := &HTTPRequest{
		URL:     target,
		Method:  http.MethodPost,
		Headers: map[string]string{"Content-Type": writer.FormDataContentType(), "Accept": "application/json"},
		Body:    body.Bytes(),
		Context: ctx,
	}
	for key, value := range headers {
		req.Headers[key] = value
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	if err := CheckStatus(resp, target); err != nil {
		return resp, err
	}
	return resp, nil
}

// CheckStatus converts a non-2xx response into an HTTPError carrying a truncated body
func CheckStatus(resp *HTTPResponse, target string) error {
	if resp.IsSuccess() {
		return nil
	}
	errorBody := resp.Body
	if len(errorBody) > maxErrorBodyLength {
		errorBody = errorBody[:maxErrorBodyLength]
	}
	return errorwrapper.NewHTTPErrorWithURL(resp.StatusCode, string(errorBody), target)
}

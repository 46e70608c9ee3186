package layoutadmin

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/samuel/go-metrics/metrics"
	"github.com/sprucehealth/layoutadmin/libs/errors"
	"github.com/sprucehealth/layoutadmin/libs/golog"
	"golang.org/x/time/rate"
)

const apiPrefix = "/admin/api"

// Backend is an interface for making calls against the admin API.
// This interface exists to enable mocking during testing if needed.
type Backend interface {
	Call(ctx context.Context, method, path string, params url.Values, body, v interface{}) error
	CallMultipart(ctx context.Context, method, path, boundary string, body io.Reader, v interface{}) error
}

// BackendConfiguration is the HTTP implementation of Backend.
type BackendConfiguration struct {
	HTTPClient  *http.Client
	BaseURL     string
	BearerToken string
	// Limiter throttles requests when set.
	Limiter *rate.Limiter
	Log     golog.Logger

	requests *metrics.Counter
	failures *metrics.Counter
	latency  metrics.Histogram
}

// NewBackend returns a backend for the admin API at baseURL. Request metrics
// are added to mr when it is not nil.
func NewBackend(baseURL, bearerToken string, httpClient *http.Client, mr metrics.Registry) *BackendConfiguration {
	b := &BackendConfiguration{
		HTTPClient:  httpClient,
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		BearerToken: bearerToken,
		Log:         golog.Default(),
		requests:    metrics.NewCounter(),
		failures:    metrics.NewCounter(),
		latency:     metrics.NewUnbiasedHistogram(),
	}
	if mr != nil {
		mr.Add("requests", b.requests)
		mr.Add("failures", b.failures)
		mr.Add("latency_us", b.latency)
	}
	return b
}

func (b *BackendConfiguration) Call(ctx context.Context, method, path string, params url.Values, body, v interface{}) error {
	var rd io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Trace(err)
		}
		rd = bytes.NewReader(data)
		contentType = "application/json"
	}
	if len(params) != 0 {
		path += "?" + params.Encode()
	}
	req, err := b.NewRequest(ctx, method, path, contentType, rd)
	if err != nil {
		return err
	}
	return b.Do(req, v)
}

func (b *BackendConfiguration) CallMultipart(ctx context.Context, method, path, boundary string, body io.Reader, v interface{}) error {
	req, err := b.NewRequest(ctx, method, path, "multipart/form-data; boundary="+boundary, body)
	if err != nil {
		return err
	}
	return b.Do(req, v)
}

// NewRequest is used by Call to generate an http.Request.
func (b *BackendConfiguration) NewRequest(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, b.BaseURL+apiPrefix+path, body)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if b.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+b.BearerToken)
	}
	return req, nil
}

// Do executes an API request and unmarshals the response into v. Responses
// with a status of 400 or above are returned as *Error.
func (b *BackendConfiguration) Do(req *http.Request, v interface{}) error {
	if b.Limiter != nil {
		if err := b.Limiter.Wait(req.Context()); err != nil {
			return errors.Trace(err)
		}
	}
	b.requests.Inc(1)
	st := time.Now()
	defer func() {
		b.latency.Update(time.Since(st).Nanoseconds() / 1e3)
	}()

	res, err := b.HTTPClient.Do(req)
	if err != nil {
		b.failures.Inc(1)
		return errors.Trace(err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		b.failures.Inc(1)
		return errors.Trace(err)
	}
	if b.Log != nil {
		b.Log.Debugf("%s %s -> %d", req.Method, req.URL.Path, res.StatusCode)
	}

	if res.StatusCode >= 400 {
		b.failures.Inc(1)
		e := &Error{}
		if err := json.Unmarshal(resBody, e); err != nil || e.Err.Message == "" {
			e.Err.Message = strings.TrimSpace(string(resBody))
		}
		e.Status = res.StatusCode
		return e
	}

	if v != nil && len(resBody) != 0 {
		if err := json.Unmarshal(resBody, v); err != nil {
			return errors.Annotatef(errors.Trace(err), "decoding response of %s %s", req.Method, req.URL.Path)
		}
	}
	return nil
}

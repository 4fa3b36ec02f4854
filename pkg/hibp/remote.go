package hibp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "https://api.pwnedpasswords.com"
	DefaultTimeout = 10 * time.Second
	userAgent      = "cybershield-hibp/1.0"
)

// RemoteSource queries the Pwned Passwords range API.
type RemoteSource struct {
	baseURL string
	padding bool
	http    *retryablehttp.Client
}

type RemoteOption func(*RemoteSource)

// WithBaseURL points the source at another range API, without the trailing /range.
func WithBaseURL(baseURL string) RemoteOption {
	return func(r *RemoteSource) {
		r.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithPadding asks the API to pad responses with fake records so response sizes leak nothing.
func WithPadding(padding bool) RemoteOption {
	return func(r *RemoteSource) {
		r.padding = padding
	}
}

// WithRetries sets how many times a failed request is retried. Lookups use 0.
func WithRetries(retries int) RemoteOption {
	return func(r *RemoteSource) {
		r.http.RetryMax = retries
	}
}

func WithTimeout(timeout time.Duration) RemoteOption {
	return func(r *RemoteSource) {
		if timeout > 0 {
			r.http.HTTPClient.Timeout = timeout
		}
	}
}

func NewRemoteSource(opts ...RemoteOption) *RemoteSource {
	r := &RemoteSource{
		baseURL: DefaultBaseURL,
		http:    initHttpClient(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func initHttpClient() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	// Too much garbage in the logs
	client.Logger = nil
	client.RetryMax = 0
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	// Hand back the last response so the status code ends up in the error
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client.HTTPClient = &http.Client{
		Timeout: DefaultTimeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			IdleConnTimeout:       10 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			// HTTP/2 only establishes one connection, the mirror is much faster on HTTP/1.1.
			ForceAttemptHTTP2:   false,
			MaxIdleConnsPerHost: runtime.GOMAXPROCS(0) + 1,
		},
	}

	return client
}

func (r *RemoteSource) Range(ctx context.Context, prefix string) ([]byte, error) {
	body, _, err := r.fetch(ctx, prefix)
	return body, err
}

// fetch also returns the response headers, the mirror reads the Cloudflare cache status from them.
func (r *RemoteSource) fetch(ctx context.Context, prefix string) ([]byte, http.Header, error) {
	if !validPrefix(prefix) {
		return nil, nil, ErrInvalidPrefix
	}

	req, err := retryablehttp.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/range/%s", r.baseURL, strings.ToUpper(prefix)),
		nil,
	)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if r.padding {
		req.Header.Set("Add-Padding", "true")
	}

	res, err := r.http.Do(req)
	if err != nil {
		return nil, nil, err
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Warn().Err(err).Msgf("error closing body for range %s", prefix)
		}
	}(res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, nil, fmt.Errorf("range %s request failed with status [%d] %s", prefix, res.StatusCode, res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, nil, err
	}

	return body, res.Header, nil
}

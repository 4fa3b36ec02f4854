package urlscan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const DefaultVirusTotalURL = "https://www.virustotal.com/vtapi/v2/url/report"

var ErrReputationStatus = errors.New("reputation service returned an error status")

// ReputationService looks up what threat intelligence knows about a URL.
type ReputationService interface {
	Report(ctx context.Context, rawURL string) (*Report, error)
}

// Report is the subset of a VirusTotal v2 URL report the scanner uses.
type Report struct {
	ResponseCode int    `json:"response_code"`
	Positives    int    `json:"positives"`
	Total        int    `json:"total"`
	ScanDate     string `json:"scan_date,omitempty"`
	Permalink    string `json:"permalink,omitempty"`
	Message      string `json:"verbose_msg,omitempty"`
}

// Known reports whether VirusTotal had the URL in its dataset.
func (r *Report) Known() bool {
	return r.ResponseCode == 1
}

type VirusTotal struct {
	apiKey   string
	endpoint string
	http     *retryablehttp.Client
}

func NewVirusTotal(apiKey string, endpoint string, timeout time.Duration) *VirusTotal {
	if endpoint == "" {
		endpoint = DefaultVirusTotalURL
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 0
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.HTTPClient.Timeout = timeout

	return &VirusTotal{apiKey: apiKey, endpoint: endpoint, http: client}
}

func (v *VirusTotal) Report(ctx context.Context, rawURL string) (*Report, error) {
	form := url.Values{"apikey": {v.apiKey}, "resource": {rawURL}}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := v.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: [%d] %s", ErrReputationStatus, res.StatusCode, res.Status)
	}

	var report Report
	if err = json.NewDecoder(res.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("decoding VirusTotal report: %w", err)
	}
	return &report, nil
}

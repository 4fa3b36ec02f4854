package urlscan

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReputation struct {
	report *Report
	err    error
	calls  int
}

func (f *fakeReputation) Report(_ context.Context, _ string) (*Report, error) {
	f.calls++
	return f.report, f.err
}

func TestScanner_Heuristics(t *testing.T) {
	scanner := NewScanner(nil)

	tests := []struct {
		name    string
		url     string
		verdict Verdict
		details string
		domain  string
	}{
		{"https clean", "https://www.gtbank.com/login", Safe, "URL appears to be safe based on basic checks (Enhanced scanning requires VirusTotal API)", "gtbank.com"},
		{"plain http", "http://example.com", Suspicious, "URL does not use HTTPS encryption (Enhanced scanning requires VirusTotal API)", "example.com"},
		{"keyword", "https://free-money.example.com.ng/claim", Suspicious, "URL contains potentially suspicious keywords (Enhanced scanning requires VirusTotal API)", "example.com.ng"},
		{"keyword case", "https://example.org/WINNER", Suspicious, "URL contains potentially suspicious keywords (Enhanced scanning requires VirusTotal API)", "example.org"},
		{"ip host", "https://192.168.0.1/", Safe, "URL appears to be safe based on basic checks (Enhanced scanning requires VirusTotal API)", "192.168.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := scanner.Scan(context.Background(), tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.verdict, res.Verdict)
			assert.Equal(t, tt.details, res.Details)
			assert.Equal(t, tt.domain, res.Domain)
			assert.Nil(t, res.Reputation)
		})
	}
}

func TestScanner_InvalidURL(t *testing.T) {
	scanner := NewScanner(&fakeReputation{})

	for _, raw := range []string{"", "example.com", "not a url", "https://", "://missing"} {
		res, err := scanner.Scan(context.Background(), raw)
		assert.ErrorIs(t, err, ErrInvalidURL, raw)
		assert.Equal(t, Invalid, res.Verdict, raw)
	}
}

func TestScanner_Reputation(t *testing.T) {
	tests := []struct {
		name    string
		rep     *fakeReputation
		verdict Verdict
		details string
	}{
		{
			name:    "positives",
			rep:     &fakeReputation{report: &Report{ResponseCode: 1, Positives: 4, Total: 90}},
			verdict: NotSafe,
			details: "This URL is not safe - 4 out of 90 security engines detected threats",
		},
		{
			name:    "clean overrides heuristics",
			rep:     &fakeReputation{report: &Report{ResponseCode: 1, Positives: 0, Total: 90}},
			verdict: Safe,
			details: "URL is safe - no threats detected by 90 security engines",
		},
		{
			name:    "unknown",
			rep:     &fakeReputation{report: &Report{ResponseCode: 0}},
			verdict: Suspicious,
			details: "URL submitted for analysis. URL does not use HTTPS encryption",
		},
		{
			name:    "bad status",
			rep:     &fakeReputation{err: fmt.Errorf("%w: [403]", ErrReputationStatus)},
			verdict: Suspicious,
			details: "URL does not use HTTPS encryption (VirusTotal scan unavailable)",
		},
		{
			name:    "transport",
			rep:     &fakeReputation{err: errors.New("dial tcp: timeout")},
			verdict: Suspicious,
			details: "URL does not use HTTPS encryption (Advanced threat analysis unavailable)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewScanner(tt.rep).Scan(context.Background(), "http://example.com/page")
			require.NoError(t, err)
			assert.Equal(t, tt.verdict, res.Verdict)
			assert.Equal(t, tt.details, res.Details)
			assert.Equal(t, 1, tt.rep.calls)
		})
	}
}

func TestVirusTotal_Report(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("apikey") != "vt-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		assert.Equal(t, "https://example.com", r.PostForm.Get("resource"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"response_code":1,"positives":2,"total":70,"permalink":"https://vt/x"}`)
	}))
	defer srv.Close()

	report, err := NewVirusTotal("vt-key", srv.URL, 5*time.Second).Report(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.True(t, report.Known())
	assert.Equal(t, 2, report.Positives)
	assert.Equal(t, 70, report.Total)

	_, err = NewVirusTotal("wrong", srv.URL, 5*time.Second).Report(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrReputationStatus)
}

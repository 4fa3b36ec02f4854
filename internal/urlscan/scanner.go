package urlscan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"
)

type Verdict string

const (
	Safe       Verdict = "safe"
	Suspicious Verdict = "suspicious"
	NotSafe    Verdict = "not safe"
	Invalid    Verdict = "invalid"
)

var ErrInvalidURL = errors.New("invalid URL format")

var suspiciousPatterns = []string{
	"scam", "phishing", "malware", "virus", "hack", "steal", "fake",
	"urgent", "winner", "prize", "click-here", "free-money",
}

// Result of a scan. Reputation is nil when no reputation service answered.
type Result struct {
	URL        string  `json:"scannedUrl"`
	Domain     string  `json:"domain"`
	Verdict    Verdict `json:"verdict"`
	Details    string  `json:"details"`
	Reputation *Report `json:"virusTotalResults"`
}

// Scanner combines local heuristics with an optional reputation service.
type Scanner struct {
	reputation ReputationService
}

// NewScanner accepts a nil reputation service, scans are then heuristic only.
func NewScanner(reputation ReputationService) *Scanner {
	return &Scanner{reputation: reputation}
}

// Scan never fails on reputation errors, those only degrade the details. It fails with
// ErrInvalidURL when raw is not an absolute URL.
func (s *Scanner) Scan(ctx context.Context, raw string) (Result, error) {
	raw = strings.TrimSpace(raw)
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Result{URL: raw, Verdict: Invalid}, ErrInvalidURL
	}

	res := Result{
		URL:     raw,
		Domain:  registrableDomain(parsed.Hostname()),
		Verdict: Safe,
		Details: "URL appears to be safe based on basic checks",
	}

	if !strings.EqualFold(parsed.Scheme, "https") {
		res.Verdict = Suspicious
		res.Details = "URL does not use HTTPS encryption"
	} else if hasSuspiciousPattern(raw) {
		res.Verdict = Suspicious
		res.Details = "URL contains potentially suspicious keywords"
	}

	if s.reputation == nil {
		log.Debug().Msg("reputation service not configured")
		res.Details += " (Enhanced scanning requires VirusTotal API)"
		return res, nil
	}

	report, err := s.reputation.Report(ctx, raw)
	switch {
	case errors.Is(err, ErrReputationStatus):
		log.Warn().Err(err).Msg("reputation service response not ok")
		res.Details += " (VirusTotal scan unavailable)"
		return res, nil
	case err != nil:
		log.Error().Err(err).Msg("reputation service error")
		res.Details += " (Advanced threat analysis unavailable)"
		return res, nil
	}

	res.Reputation = report
	switch {
	case report.Known() && report.Positives > 0:
		res.Verdict = NotSafe
		res.Details = fmt.Sprintf("This URL is not safe - %d out of %d security engines detected threats", report.Positives, report.Total)
	case report.Known():
		res.Verdict = Safe
		res.Details = fmt.Sprintf("URL is safe - no threats detected by %d security engines", report.Total)
	default:
		res.Details = "URL submitted for analysis. " + res.Details
	}

	return res, nil
}

func hasSuspiciousPattern(raw string) bool {
	lower := strings.ToLower(raw)
	for _, p := range suspiciousPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// registrableDomain is the eTLD+1 of host, or host itself for IPs and unknown suffixes.
func registrableDomain(host string) string {
	host = strings.ToLower(host)
	if net.ParseIP(host) != nil {
		return host
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

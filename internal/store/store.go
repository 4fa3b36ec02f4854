package store

import (
	"context"
	"errors"
	"time"
)

// Check types recorded by the API.
const (
	TypePassword             = "password"
	TypeURLScan              = "url_scan"
	TypeIdentityVerification = "identity_verification"
	TypeBusinessVerification = "business_verification"
)

const StatusSubmitted = "submitted"

var ErrInvalidRecord = errors.New("invalid record")

// SecurityCheck is one entry of a user's security history.
type SecurityCheck struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	URL       *string   `json:"url"`
	Verdict   string    `json:"verdict"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

type ScamReport struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Report    string    `json:"report"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists security checks and scam reports per user.
type Store interface {
	CreateSecurityCheck(ctx context.Context, check *SecurityCheck) error
	ListSecurityChecks(ctx context.Context, userID int64) ([]SecurityCheck, error)
	CreateScamReport(ctx context.Context, report *ScamReport) error
	ListScamReports(ctx context.Context, userID int64) ([]ScamReport, error)
	Close() error
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS scam_reports (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	report TEXT NOT NULL,
	type TEXT,
	status TEXT DEFAULT 'submitted',
	created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_scam_reports_user ON scam_reports(user_id);

CREATE TABLE IF NOT EXISTS security_checks (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	url TEXT,
	verdict TEXT,
	type TEXT,
	created_at TIMESTAMPTZ DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_security_checks_user ON security_checks(user_id);
`

// PostgresStore implements Store on PostgreSQL through the pgx database/sql driver.
type PostgresStore struct {
	db *sql.DB
}

// Connect opens and pings the database at dsn.
func Connect(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database url not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	log.Info().Msg("connected to database")
	return New(db), nil
}

func New(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InitSchema creates the tables if they don't exist.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateSecurityCheck(ctx context.Context, check *SecurityCheck) error {
	if check.UserID == 0 || check.Verdict == "" {
		return fmt.Errorf("%w: security check needs a user and a verdict", ErrInvalidRecord)
	}

	var url sql.NullString
	if check.URL != nil && *check.URL != "" {
		url = sql.NullString{String: *check.URL, Valid: true}
	}
	var typ sql.NullString
	if check.Type != "" {
		typ = sql.NullString{String: check.Type, Valid: true}
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO security_checks (user_id, url, verdict, type) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		check.UserID, url, check.Verdict, typ,
	).Scan(&check.ID, &check.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create security check: %w", err)
	}

	if !url.Valid {
		check.URL = nil
	}
	return nil
}

func (s *PostgresStore) ListSecurityChecks(ctx context.Context, userID int64) ([]SecurityCheck, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, url, verdict, type, created_at FROM security_checks WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list security checks: %w", err)
	}
	defer rows.Close()

	checks := make([]SecurityCheck, 0)
	for rows.Next() {
		var c SecurityCheck
		var url, verdict, typ sql.NullString
		if err = rows.Scan(&c.ID, &c.UserID, &url, &verdict, &typ, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan security check: %w", err)
		}
		if url.Valid {
			c.URL = &url.String
		}
		c.Verdict = verdict.String
		c.Type = typ.String
		checks = append(checks, c)
	}

	return checks, rows.Err()
}

func (s *PostgresStore) CreateScamReport(ctx context.Context, report *ScamReport) error {
	if report.UserID == 0 || report.Report == "" {
		return fmt.Errorf("%w: scam report needs a user and a description", ErrInvalidRecord)
	}
	if report.Status == "" {
		report.Status = StatusSubmitted
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO scam_reports (user_id, report, type, status) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		report.UserID, report.Report, report.Type, report.Status,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create scam report: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListScamReports(ctx context.Context, userID int64) ([]ScamReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, report, type, status, created_at FROM scam_reports WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scam reports: %w", err)
	}
	defer rows.Close()

	reports := make([]ScamReport, 0)
	for rows.Next() {
		var r ScamReport
		var typ, status sql.NullString
		if err = rows.Scan(&r.ID, &r.UserID, &r.Report, &typ, &status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scam report: %w", err)
		}
		r.Type = typ.String
		r.Status = status.String
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

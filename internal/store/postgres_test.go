package store_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alvinbaena/cybershield/internal/store"
)

func newMock(t *testing.T) (*store.PostgresStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return store.New(db), mock
}

func TestInitSchema(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS scam_reports`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.InitSchema(context.Background()); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateSecurityCheck_Password(t *testing.T) {
	s, mock := newMock(t)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO security_checks (user_id, url, verdict, type) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
	)).
		WithArgs(int64(7), nil, "very strong", "password").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, now))

	check := &store.SecurityCheck{UserID: 7, Verdict: "very strong", Type: store.TypePassword}
	if err := s.CreateSecurityCheck(context.Background(), check); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if check.ID != 11 || !check.CreatedAt.Equal(now) {
		t.Fatalf("want id=11 created_at=%v; got id=%d created_at=%v", now, check.ID, check.CreatedAt)
	}
	if check.URL != nil {
		t.Fatalf("want nil url, got %q", *check.URL)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateSecurityCheck_URL(t *testing.T) {
	s, mock := newMock(t)
	url := "https://example.com"

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO security_checks`)).
		WithArgs(int64(7), url, "safe", "url_scan").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(12, time.Now()))

	check := &store.SecurityCheck{UserID: 7, URL: &url, Verdict: "safe", Type: store.TypeURLScan}
	if err := s.CreateSecurityCheck(context.Background(), check); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if check.URL == nil || *check.URL != url {
		t.Fatalf("want url %q, got %v", url, check.URL)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateSecurityCheck_Invalid(t *testing.T) {
	s, mock := newMock(t)

	err := s.CreateSecurityCheck(context.Background(), &store.SecurityCheck{UserID: 7})
	if !errors.Is(err, store.ErrInvalidRecord) {
		t.Fatalf("want ErrInvalidRecord, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListSecurityChecks(t *testing.T) {
	s, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, user_id, url, verdict, type, created_at FROM security_checks WHERE user_id = $1`,
	)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "url", "verdict", "type", "created_at"}).
			AddRow(2, 7, "https://example.com", "suspicious", "url_scan", now).
			AddRow(1, 7, nil, "weak", "password", now))

	checks, err := s.ListSecurityChecks(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(checks) != 2 {
		t.Fatalf("want 2 checks, got %d", len(checks))
	}
	if checks[0].URL == nil || *checks[0].URL != "https://example.com" || checks[0].Verdict != "suspicious" {
		t.Fatalf("unexpected first check: %+v", checks[0])
	}
	if checks[1].URL != nil || checks[1].Type != "password" {
		t.Fatalf("unexpected second check: %+v", checks[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListSecurityChecks_Empty(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM security_checks`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "url", "verdict", "type", "created_at"}))

	checks, err := s.ListSecurityChecks(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if checks == nil || len(checks) != 0 {
		t.Fatalf("want an empty, non nil slice; got %v", checks)
	}
}

func TestCreateScamReport(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`INSERT INTO scam_reports (user_id, report, type, status) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
	)).
		WithArgs(int64(7), "Fake bank SMS asking for BVN", "sms", "submitted").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(5, time.Now()))

	report := &store.ScamReport{UserID: 7, Report: "Fake bank SMS asking for BVN", Type: "sms"}
	if err := s.CreateScamReport(context.Background(), report); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if report.ID != 5 || report.Status != store.StatusSubmitted {
		t.Fatalf("want id=5 status=submitted; got %+v", report)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateScamReport_DBError(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO scam_reports`)).
		WillReturnError(errors.New("connection reset"))

	err := s.CreateScamReport(context.Background(), &store.ScamReport{UserID: 7, Report: "x"})
	if err == nil {
		t.Fatal("want error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestListScamReports(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, user_id, report, type, status, created_at FROM scam_reports WHERE user_id = $1`,
	)).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "report", "type", "status", "created_at"}).
			AddRow(1, 7, "Phishing email", nil, "submitted", time.Now()))

	reports, err := s.ListScamReports(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(reports) != 1 || reports[0].Report != "Phishing email" || reports[0].Type != "" {
		t.Fatalf("unexpected reports: %+v", reports)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

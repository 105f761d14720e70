package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	params := newTestParams("pg@example.com")
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(params.ID, params.Name, params.Email, params.Phone,
			params.Company, params.Role, params.Purpose, params.Source,
			params.IPAddress, params.UserAgent, params.ConsentGiven,
			params.ConsentTimestamp, StatusNew).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := NewPostgresRepository(mock)
	lead, err := repo.Create(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Status != StatusNew {
		t.Errorf("expected status new, got %s", lead.Status)
	}
	if !lead.CreatedAt.Equal(now) {
		t.Errorf("expected created_at %s, got %s", now, lead.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	id := uuid.NewString()
	mock.ExpectQuery("SELECT (.+) FROM leads WHERE id").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	repo := NewPostgresRepository(mock)
	if _, err := repo.GetByID(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresListComputesPages(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	status := StatusNew
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM leads WHERE status").
		WithArgs(status).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(101))

	rows := pgxmock.NewRows([]string{
		"id", "name", "email", "phone", "company", "role", "purpose",
		"source", "ip_address", "user_agent", "consent_given",
		"consent_timestamp", "status", "notes", "created_at", "updated_at",
	}).AddRow(
		uuid.NewString(), "John Smith", "john@x.com", "+15550123456", "", "", "",
		SourceCVRequest, "", "", true, &now, StatusNew, "", now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM leads WHERE status (.+) ORDER BY created_at DESC").
		WithArgs(status, 100, 0).
		WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	// Limit above the cap gets clamped to 100.
	page, err := repo.List(context.Background(), ListFilter{Status: &status, Limit: 250})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 101 {
		t.Errorf("expected total 101, got %d", page.Total)
	}
	if page.Pages != 2 { // ceil(101/100)
		t.Errorf("expected 2 pages, got %d", page.Pages)
	}
	if page.Size != 100 {
		t.Errorf("expected size capped at 100, got %d", page.Size)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresUpdateNoChangesSkipsWrite(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	id := uuid.NewString()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewPostgresRepository(mock)
	changed, err := repo.Update(context.Background(), id, &UpdateLeadRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Error("empty update should report no changes")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresUpdateStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	id := uuid.NewString()
	status := StatusQualified
	mock.ExpectExec("UPDATE leads SET status = (.+) updated_at = NOW\\(\\)").
		WithArgs(status, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewPostgresRepository(mock)
	changed, err := repo.Update(context.Background(), id, &UpdateLeadRequest{Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Error("expected update to report changes")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresUpdateMissingRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	id := uuid.NewString()
	notes := "left voicemail"
	mock.ExpectExec("UPDATE leads SET notes").
		WithArgs(notes, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewPostgresRepository(mock)
	if _, err := repo.Update(context.Background(), id, &UpdateLeadRequest{Notes: &notes}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresDeleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	id := uuid.NewString()
	mock.ExpectExec("DELETE FROM leads").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostgresRepository(mock)
	if err := repo.Delete(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

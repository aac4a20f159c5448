package visitors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
)

func TestPostgresUpsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	defer mock.Close()

	visitor := &Visitor{
		ConversationID: "conv-1",
		Name:           "Ana Lopez",
		Email:          "ana@example.com",
		Phone:          "+34612345678",
		Company:        "Futurito Labs",
		VisitReason:    "Conocer los drones",
		RegisteredAt:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO visitors").
		WithArgs(visitor.ConversationID, visitor.Name, visitor.Email, visitor.Phone,
			visitor.Company, visitor.VisitReason, visitor.RegisteredAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPostgresRepository(mock)
	if err := repo.Upsert(context.Background(), visitor); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresUpsertRejectsInvalid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	defer mock.Close()

	repo := NewPostgresRepository(mock)
	err = repo.Upsert(context.Background(), &Visitor{ConversationID: "conv-1"})
	if !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
}

func TestPostgresGetByConversationID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	defer mock.Close()

	registered := time.Date(2026, 2, 10, 15, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{
		"conversation_id", "name", "email", "phone", "company", "visit_reason", "registered_at",
	}).AddRow("conv-1", "Ana Lopez", "ana@example.com", "+34612345678", "Futurito Labs", "Visita", registered)

	mock.ExpectQuery("SELECT conversation_id, name, email").
		WithArgs("conv-1").
		WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	got, err := repo.GetByConversationID(context.Background(), "conv-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Ana Lopez" || got.Email != "ana@example.com" {
		t.Errorf("unexpected visitor: %+v", got)
	}
	if !got.RegisteredAt.Equal(registered) {
		t.Errorf("registered_at = %v, want %v", got.RegisteredAt, registered)
	}
}

func TestPostgresGetNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT conversation_id, name, email").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"conversation_id", "name", "email", "phone", "company", "visit_reason", "registered_at",
		}))

	repo := NewPostgresRepository(mock)
	_, err = repo.GetByConversationID(context.Background(), "missing")
	if !errors.Is(err, ErrVisitorNotFound) {
		t.Fatalf("expected ErrVisitorNotFound, got %v", err)
	}
}

func TestPostgresList(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	defer mock.Close()

	now := time.Now().UTC()
	rows := pgxmock.NewRows([]string{
		"conversation_id", "name", "email", "phone", "company", "visit_reason", "registered_at",
	}).
		AddRow("conv-2", "Luis", "luis@example.com", "", "", "Reunion", now).
		AddRow("conv-1", "Ana", "ana@example.com", "", "", "Visita", now.Add(-time.Hour))

	mock.ExpectQuery("SELECT conversation_id, name, email").WillReturnRows(rows)

	repo := NewPostgresRepository(mock)
	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 visitors, got %d", len(got))
	}
	if got[0].ConversationID != "conv-2" {
		t.Errorf("expected newest first, got %s", got[0].ConversationID)
	}
}

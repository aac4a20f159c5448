package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/futurito/concierge-ai/internal/visitors"
	"github.com/futurito/concierge-ai/pkg/logging"
)

type scriptedCRM struct {
	personID  int
	dealID    int
	updatedID int
	err       error
	person    Person
	deal      Deal
}

func (s *scriptedCRM) CreatePerson(ctx context.Context, person Person) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.person = person
	return s.personID, nil
}

func (s *scriptedCRM) CreateDeal(ctx context.Context, deal Deal) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.deal = deal
	return s.dealID, nil
}

func (s *scriptedCRM) UpdateDeal(ctx context.Context, dealID int, deal Deal) error {
	if s.err != nil {
		return s.err
	}
	s.updatedID = dealID
	s.deal = deal
	return nil
}

func seedVisitor(t *testing.T) visitors.Repository {
	t.Helper()
	repo := visitors.NewInMemoryRepository()
	err := repo.Upsert(context.Background(), &visitors.Visitor{
		ConversationID: "conv-1",
		Name:           "Ana Lopez",
		Email:          "ana@example.com",
		Phone:          "+34612345678",
		VisitReason:    "Conocer los drones",
		RegisteredAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return repo
}

func TestUploadDeliversStoredVisitor(t *testing.T) {
	crm := &scriptedCRM{personID: 7, dealID: 42}
	handler := NewHandler(seedVisitor(t), NewHandoff(crm, 3, logging.New("error")), logging.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/crm/upload", strings.NewReader(`{"conversation_id":"conv-1"}`))
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.DealID != 42 {
		t.Errorf("deal_id = %d", resp.DealID)
	}
	if crm.person.Name != "Ana Lopez" || crm.person.Email != "ana@example.com" {
		t.Errorf("person = %+v", crm.person)
	}
	if crm.deal.Title != "Conocer los drones" || crm.deal.PipelineID != 3 || crm.deal.PersonID != 7 {
		t.Errorf("deal = %+v", crm.deal)
	}
}

func TestUploadRefreshesExistingDeal(t *testing.T) {
	crm := &scriptedCRM{personID: 7}
	handler := NewHandler(seedVisitor(t), NewHandoff(crm, 3, logging.New("error")), logging.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/crm/upload",
		strings.NewReader(`{"conversation_id":"conv-1","deal_id":42}`))
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp UploadResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.DealID != 42 {
		t.Errorf("deal_id = %d, want the refreshed deal", resp.DealID)
	}
	if crm.updatedID != 42 {
		t.Errorf("updated deal = %d, want 42", crm.updatedID)
	}
	if crm.deal.Title != "Conocer los drones" || crm.deal.PersonID != 7 {
		t.Errorf("deal = %+v", crm.deal)
	}
}

func TestUploadUnknownVisitor(t *testing.T) {
	handler := NewHandler(visitors.NewInMemoryRepository(),
		NewHandoff(&scriptedCRM{}, 3, logging.New("error")), logging.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/crm/upload", strings.NewReader(`{"conversation_id":"missing"}`))
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUploadCRMFailure(t *testing.T) {
	crm := &scriptedCRM{err: errors.New("pipedrive down")}
	handler := NewHandler(seedVisitor(t), NewHandoff(crm, 3, logging.New("error")), logging.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/crm/upload", strings.NewReader(`{"conversation_id":"conv-1"}`))
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestUploadMissingConversationID(t *testing.T) {
	handler := NewHandler(seedVisitor(t), NewHandoff(&scriptedCRM{}, 3, logging.New("error")), logging.New("error"))

	req := httptest.NewRequest(http.MethodPost, "/crm/upload", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

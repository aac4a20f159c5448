package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futurito/concierge-ai/internal/extraction"
	"github.com/futurito/concierge-ai/internal/profile"
	"github.com/futurito/concierge-ai/pkg/logging"
)

func TestCreatePerson(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/persons" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if got := r.URL.Query().Get("api_token"); got != "token-123" {
			t.Errorf("expected api token in query, got %q", got)
		}

		var person Person
		if err := json.NewDecoder(r.Body).Decode(&person); err != nil {
			t.Fatalf("decode person: %v", err)
		}
		if person.Name != "Ana Lopez" {
			t.Errorf("expected name Ana Lopez, got %q", person.Name)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": 42},
		})
	}))
	defer srv.Close()

	client := NewPipedriveClient("token-123")
	client.SetBaseURL(srv.URL)

	id, err := client.CreatePerson(context.Background(), Person{
		Name:  "Ana Lopez",
		Email: "ana@example.com",
		Phone: "+341111",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 42 {
		t.Errorf("expected person id 42, got %d", id)
	}
}

func TestCreateDealRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "invalid pipeline",
		})
	}))
	defer srv.Close()

	client := NewPipedriveClient("token-123")
	client.SetBaseURL(srv.URL)

	if _, err := client.CreateDeal(context.Background(), Deal{Title: "Visita"}); err == nil {
		t.Fatal("expected error when API rejects the deal")
	}
}

func TestUpdateDeal(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"id": 7},
		})
	}))
	defer srv.Close()

	client := NewPipedriveClient("token-123")
	client.SetBaseURL(srv.URL)

	if err := client.UpdateDeal(context.Background(), 7, Deal{Title: "Motivo actualizado"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/deals/7" {
		t.Errorf("expected path /deals/7, got %s", gotPath)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("expected PUT, got %s", gotMethod)
	}
}

type fakeCRM struct {
	persons   chan Person
	deals     chan Deal
	updatedID int
	fail      bool
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{
		persons: make(chan Person, 1),
		deals:   make(chan Deal, 1),
	}
}

func (f *fakeCRM) CreatePerson(ctx context.Context, person Person) (int, error) {
	if f.fail {
		return 0, context.DeadlineExceeded
	}
	f.persons <- person
	return 11, nil
}

func (f *fakeCRM) CreateDeal(ctx context.Context, deal Deal) (int, error) {
	f.deals <- deal
	return 99, nil
}

func (f *fakeCRM) UpdateDeal(ctx context.Context, dealID int, deal Deal) error {
	if f.fail {
		return context.DeadlineExceeded
	}
	f.updatedID = dealID
	f.deals <- deal
	return nil
}

func testRecord() *profile.Record {
	return &profile.Record{
		ConversationID: "conv-1",
		Fields: map[extraction.Field]extraction.Value{
			extraction.FieldName:        {Kind: extraction.KindScalar, Text: "Ana Lopez"},
			extraction.FieldEmail:       {Kind: extraction.KindMulti, List: []string{"ana@example.com"}},
			extraction.FieldVisitReason: {Kind: extraction.KindScalar, Text: "Demo de drones"},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestHandoffDeliver(t *testing.T) {
	fake := newFakeCRM()
	handoff := NewHandoff(fake, 6, logging.Default())

	dealID, err := handoff.Deliver(context.Background(), testRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dealID != 99 {
		t.Errorf("expected deal id 99, got %d", dealID)
	}

	person := <-fake.persons
	if person.Name != "Ana Lopez" || person.Email != "ana@example.com" {
		t.Errorf("unexpected person payload: %+v", person)
	}

	deal := <-fake.deals
	if deal.Title != "Demo de drones" {
		t.Errorf("expected deal title from visit reason, got %q", deal.Title)
	}
	if deal.PipelineID != 6 {
		t.Errorf("expected pipeline 6, got %d", deal.PipelineID)
	}
	if deal.PersonID != 11 {
		t.Errorf("expected person id 11, got %d", deal.PersonID)
	}
}

func TestHandoffDeliverCarriesEveryContact(t *testing.T) {
	fake := newFakeCRM()
	handoff := NewHandoff(fake, 6, logging.Default())

	record := testRecord()
	record.Fields[extraction.FieldEmail] = extraction.Value{
		Kind: extraction.KindMulti, List: []string{"ana@example.com", "ana@work.com"},
	}
	record.Fields[extraction.FieldPhone] = extraction.Value{
		Kind: extraction.KindMulti, List: []string{"+34612345678", "+34698765432"},
	}

	if _, err := handoff.Deliver(context.Background(), record); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	person := <-fake.persons
	if person.Email != "ana@example.com, ana@work.com" {
		t.Errorf("person email = %q, second address lost", person.Email)
	}
	if person.Phone != "+34612345678, +34698765432" {
		t.Errorf("person phone = %q, second number lost", person.Phone)
	}
}

func TestHandoffRefresh(t *testing.T) {
	fake := newFakeCRM()
	handoff := NewHandoff(fake, 6, logging.Default())

	if err := handoff.Refresh(context.Background(), testRecord(), 42); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	person := <-fake.persons
	if person.Name != "Ana Lopez" {
		t.Errorf("unexpected person payload: %+v", person)
	}

	deal := <-fake.deals
	if fake.updatedID != 42 {
		t.Errorf("expected update against deal 42, got %d", fake.updatedID)
	}
	if deal.Title != "Demo de drones" || deal.PersonID != 11 {
		t.Errorf("unexpected deal payload: %+v", deal)
	}
}

func TestHandoffDeliverAsyncSwallowsFailure(t *testing.T) {
	fake := newFakeCRM()
	fake.fail = true
	handoff := NewHandoff(fake, 6, logging.Default())

	// Must not panic or block the caller.
	handoff.DeliverAsync(testRecord())
	time.Sleep(50 * time.Millisecond)
}

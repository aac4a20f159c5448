package profile

import (
	"time"

	"github.com/futurito/concierge-ai/internal/extraction"
)

// Record is the finalized output of a completed profile. It is immutable
// once constructed: the accumulator hands out a private copy of the field
// map and never touches it again.
type Record struct {
	ConversationID string
	Fields         map[extraction.Field]extraction.Value
	CreatedAt      time.Time
}

// Get returns the flattened value for a field, or "" if absent.
func (r *Record) Get(field extraction.Field) string {
	value, ok := r.Fields[field]
	if !ok {
		return ""
	}
	return value.Flatten()
}

// Name returns the accumulated visitor name.
func (r *Record) Name() string { return r.Get(extraction.FieldName) }

// Email returns every accumulated email address, joined in extraction
// order. A visitor who corrected or added an address keeps both.
func (r *Record) Email() string { return r.Get(extraction.FieldEmail) }

// Phone returns every accumulated phone number joined in extraction order,
// or "" if none was given.
func (r *Record) Phone() string { return r.Get(extraction.FieldPhone) }

// Company returns the accumulated company name.
func (r *Record) Company() string { return r.Get(extraction.FieldCompany) }

// VisitReason returns the accumulated visit reason.
func (r *Record) VisitReason() string { return r.Get(extraction.FieldVisitReason) }

// Flattened returns every accumulated field as plain strings, keyed by
// field name, for persistence and CRM payloads.
func (r *Record) Flattened() map[string]string {
	out := make(map[string]string, len(r.Fields))
	for field, value := range r.Fields {
		out[string(field)] = value.Flatten()
	}
	return out
}

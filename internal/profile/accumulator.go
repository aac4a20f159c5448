package profile

import (
	"sync"
	"time"

	"github.com/futurito/concierge-ai/internal/extraction"
)

// requiredFields must all be present and non-empty before a profile is
// finalized.
var requiredFields = []extraction.Field{
	extraction.FieldName,
	extraction.FieldEmail,
	extraction.FieldVisitReason,
}

// Accumulator holds the per-conversation slot-filling state. Each
// conversation id owns an independent profile; merges for the same id are
// serialized while merges for different ids proceed in parallel.
type Accumulator struct {
	mu       sync.Mutex
	profiles map[string]*conversationProfile
}

type conversationProfile struct {
	mu     sync.Mutex
	fields map[extraction.Field]extraction.Value
}

// NewAccumulator creates an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{profiles: make(map[string]*conversationProfile)}
}

// Merge folds one partial field map into the conversation's profile.
// Scalar fields are overwritten unconditionally so a later correction
// always supersedes an earlier value; multi-valued fields append in order,
// duplicates included. Empty values are never merged in.
//
// When the merge leaves every required field present and non-empty, Merge
// builds a finalized Record from the full accumulated state, clears the
// profile, and returns the record. Otherwise it returns nil and the state
// persists for the next call.
func (a *Accumulator) Merge(conversationID string, partial extraction.PartialFields) *Record {
	entry := a.entry(conversationID)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	for field, value := range partial {
		if value.IsEmpty() {
			continue
		}
		switch field.Kind() {
		case extraction.KindMulti:
			existing := entry.fields[field]
			merged := make([]string, 0, len(existing.List)+len(value.List))
			merged = append(merged, existing.List...)
			merged = append(merged, value.List...)
			entry.fields[field] = extraction.Value{Kind: extraction.KindMulti, List: merged}
		default:
			entry.fields[field] = extraction.Value{Kind: extraction.KindScalar, Text: value.Text}
		}
	}

	if !complete(entry.fields) {
		return nil
	}

	record := &Record{
		ConversationID: conversationID,
		Fields:         copyFields(entry.fields),
		CreatedAt:      time.Now().UTC(),
	}
	// Reset to empty: the conversation may start filling a new profile.
	entry.fields = make(map[extraction.Field]extraction.Value)
	return record
}

// Snapshot returns a copy of the accumulated state for a conversation.
// An unknown conversation id yields an empty map.
func (a *Accumulator) Snapshot(conversationID string) map[extraction.Field]extraction.Value {
	a.mu.Lock()
	entry, ok := a.profiles[conversationID]
	a.mu.Unlock()
	if !ok {
		return map[extraction.Field]extraction.Value{}
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return copyFields(entry.fields)
}

// Clear drops the accumulated state for a conversation.
func (a *Accumulator) Clear(conversationID string) {
	a.mu.Lock()
	entry, ok := a.profiles[conversationID]
	a.mu.Unlock()
	if !ok {
		return
	}

	entry.mu.Lock()
	entry.fields = make(map[extraction.Field]extraction.Value)
	entry.mu.Unlock()
}

func (a *Accumulator) entry(conversationID string) *conversationProfile {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.profiles[conversationID]
	if !ok {
		entry = &conversationProfile{fields: make(map[extraction.Field]extraction.Value)}
		a.profiles[conversationID] = entry
	}
	return entry
}

func complete(fields map[extraction.Field]extraction.Value) bool {
	for _, field := range requiredFields {
		value, ok := fields[field]
		if !ok || value.IsEmpty() {
			return false
		}
	}
	return true
}

func copyFields(fields map[extraction.Field]extraction.Value) map[extraction.Field]extraction.Value {
	out := make(map[extraction.Field]extraction.Value, len(fields))
	for field, value := range fields {
		if value.Kind == extraction.KindMulti {
			list := make([]string, len(value.List))
			copy(list, value.List)
			out[field] = extraction.Value{Kind: extraction.KindMulti, List: list}
			continue
		}
		out[field] = value
	}
	return out
}

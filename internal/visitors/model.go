package visitors

import (
	"strings"
	"time"

	"github.com/futurito/concierge-ai/internal/extraction"
	"github.com/futurito/concierge-ai/internal/profile"
)

// Visitor is the durable form of a completed conversation profile.
type Visitor struct {
	ConversationID string    `json:"conversation_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Company        string    `json:"company,omitempty"`
	VisitReason    string    `json:"visit_reason"`
	RegisteredAt   time.Time `json:"registered_at"`
}

// FromRecord flattens a finalized record into a visitor row.
func FromRecord(record *profile.Record) *Visitor {
	return &Visitor{
		ConversationID: record.ConversationID,
		Name:           record.Name(),
		Email:          record.Email(),
		Phone:          record.Phone(),
		Company:        record.Company(),
		VisitReason:    record.VisitReason(),
		RegisteredAt:   record.CreatedAt,
	}
}

// ToRecord rebuilds a profile record from the stored row, for re-running
// side effects like a CRM upload.
func (v *Visitor) ToRecord() *profile.Record {
	fields := map[extraction.Field]extraction.Value{}
	if v.Name != "" {
		fields[extraction.FieldName] = extraction.Value{Kind: extraction.KindScalar, Text: v.Name}
	}
	if v.Email != "" {
		fields[extraction.FieldEmail] = extraction.Value{Kind: extraction.KindMulti, List: splitJoined(v.Email)}
	}
	if v.Phone != "" {
		fields[extraction.FieldPhone] = extraction.Value{Kind: extraction.KindMulti, List: splitJoined(v.Phone)}
	}
	if v.Company != "" {
		fields[extraction.FieldCompany] = extraction.Value{Kind: extraction.KindScalar, Text: v.Company}
	}
	if v.VisitReason != "" {
		fields[extraction.FieldVisitReason] = extraction.Value{Kind: extraction.KindScalar, Text: v.VisitReason}
	}
	return &profile.Record{
		ConversationID: v.ConversationID,
		Fields:         fields,
		CreatedAt:      v.RegisteredAt,
	}
}

// splitJoined undoes the ", " join a multi-valued field gets when it is
// flattened into a row column.
func splitJoined(joined string) []string {
	parts := strings.Split(joined, ", ")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks the row before persistence.
func (v *Visitor) Validate() error {
	if strings.TrimSpace(v.ConversationID) == "" {
		return ErrMissingConversationID
	}
	if v.Name == "" {
		return ErrInvalidName
	}
	if v.Email == "" {
		return ErrMissingEmail
	}
	return nil
}

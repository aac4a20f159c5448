package extraction

// Field identifies a slot of visitor information extracted from free text.
type Field string

const (
	FieldName        Field = "name"
	FieldPhone       Field = "phone"
	FieldEmail       Field = "email"
	FieldCompany     Field = "company"
	FieldVisitReason Field = "visit_reason"
)

// Kind distinguishes scalar fields (last value wins) from multi-valued
// fields (values accumulate as an ordered list).
type Kind int

const (
	KindScalar Kind = iota
	KindMulti
)

// Kind returns the cardinality of the field. The mapping is fixed at the
// schema level so merge logic can dispatch on a closed tag.
func (f Field) Kind() Kind {
	switch f {
	case FieldPhone, FieldEmail:
		return KindMulti
	default:
		return KindScalar
	}
}

// Fields lists every known field in a stable order.
func Fields() []Field {
	return []Field{FieldName, FieldPhone, FieldEmail, FieldCompany, FieldVisitReason}
}

// Value holds an extracted field value tagged with its cardinality.
// Scalar values use Text; multi-valued use List.
type Value struct {
	Kind Kind
	Text string
	List []string
}

// IsEmpty reports whether the value carries no usable content.
func (v Value) IsEmpty() bool {
	if v.Kind == KindMulti {
		return len(v.List) == 0
	}
	return v.Text == ""
}

// Flatten returns the value as a plain string for persistence or CRM
// payloads. Multi-valued fields are joined in extraction order.
func (v Value) Flatten() string {
	if v.Kind == KindMulti {
		if len(v.List) == 0 {
			return ""
		}
		out := v.List[0]
		for _, item := range v.List[1:] {
			out += ", " + item
		}
		return out
	}
	return v.Text
}

// PartialFields is the output of one extraction pass over one utterance.
// Fields with no match are absent, never mapped to an empty value.
type PartialFields map[Field]Value

package extraction

import (
	"reflect"
	"testing"
)

func TestExtractNoSignal(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"greeting", "hola, como estas?"},
		{"small talk", "todo bien por aqui, gracias"},
		{"empty", ""},
		{"whitespace only", "   "},
		{"short number", "quiero 3 de esos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input)
			if len(got) != 0 {
				t.Errorf("expected empty map, got %v", got)
			}
		})
	}
}

func TestExtractName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"mi nombre es", "hola, mi nombre es Ana", "Ana"},
		{"me llamo", "me llamo Carlos", "Carlos"},
		{"accented name", "mi nombre es Ana López", "Ana López"},
		{"last match wins", "me llamo Ana, mi nombre es Ana López", "Ana López"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input)
			value, ok := got[FieldName]
			if !ok {
				t.Fatalf("expected name field, got %v", got)
			}
			if value.Kind != KindScalar {
				t.Errorf("expected scalar kind, got %v", value.Kind)
			}
			if value.Text != tt.want {
				t.Errorf("expected %q, got %q", tt.want, value.Text)
			}
		})
	}
}

func TestExtractPhone(t *testing.T) {
	got := Extract("mi numero es +34 612 345 678")
	value, ok := got[FieldPhone]
	if !ok {
		t.Fatalf("expected phone field, got %v", got)
	}
	want := []string{"+34612345678"}
	if !reflect.DeepEqual(value.List, want) {
		t.Errorf("expected %v, got %v", want, value.List)
	}
}

func TestExtractPhoneKeepsSeparatorsExceptWhitespace(t *testing.T) {
	got := Extract("llamame al 555-123-4567")
	value, ok := got[FieldPhone]
	if !ok {
		t.Fatalf("expected phone field, got %v", got)
	}
	if len(value.List) != 1 || value.List[0] != "555-123-4567" {
		t.Errorf("expected [555-123-4567], got %v", value.List)
	}
}

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single email",
			input: "escribeme a ana.lopez@example.com cuando puedas",
			want:  []string{"ana.lopez@example.com"},
		},
		{
			name:  "multiple emails keep textual order",
			input: "usa ana@example.com o trabajo@empresa.mx",
			want:  []string{"ana@example.com", "trabajo@empresa.mx"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input)
			value, ok := got[FieldEmail]
			if !ok {
				t.Fatalf("expected email field, got %v", got)
			}
			if value.Kind != KindMulti {
				t.Errorf("expected multi kind, got %v", value.Kind)
			}
			if !reflect.DeepEqual(value.List, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, value.List)
			}
		})
	}
}

func TestExtractCompany(t *testing.T) {
	got := Extract("trabajo en Futurito Labs")
	value, ok := got[FieldCompany]
	if !ok {
		t.Fatalf("expected company field, got %v", got)
	}
	if value.Text != "Futurito Labs" {
		t.Errorf("expected %q, got %q", "Futurito Labs", value.Text)
	}
}

func TestExtractCompanyAcceptsLowercaseStart(t *testing.T) {
	got := Extract("trabajo en futurito labs")
	value, ok := got[FieldCompany]
	if !ok {
		t.Fatalf("expected company field, got %v", got)
	}
	if value.Text != "futurito labs" {
		t.Errorf("expected %q, got %q", "futurito labs", value.Text)
	}
}

func TestExtractVisitReason(t *testing.T) {
	got := Extract("quiero saber Precios de drones")
	value, ok := got[FieldVisitReason]
	if !ok {
		t.Fatalf("expected visit_reason field, got %v", got)
	}
	if value.Text != "Precios de drones" {
		t.Errorf("expected %q, got %q", "Precios de drones", value.Text)
	}
}

func TestExtractMultipleFieldsInOneUtterance(t *testing.T) {
	got := Extract("me llamo Ana, mi correo es ana@example.com y mi numero es 612 345 67 89")

	if _, ok := got[FieldName]; !ok {
		t.Error("expected name field")
	}
	if _, ok := got[FieldEmail]; !ok {
		t.Error("expected email field")
	}
	if _, ok := got[FieldPhone]; !ok {
		t.Error("expected phone field")
	}
	if _, ok := got[FieldCompany]; ok {
		t.Error("did not expect company field")
	}
}

func TestValueFlatten(t *testing.T) {
	scalar := Value{Kind: KindScalar, Text: "Ana"}
	if scalar.Flatten() != "Ana" {
		t.Errorf("expected Ana, got %q", scalar.Flatten())
	}

	multi := Value{Kind: KindMulti, List: []string{"a@b.co", "c@d.co"}}
	if multi.Flatten() != "a@b.co, c@d.co" {
		t.Errorf("expected joined list, got %q", multi.Flatten())
	}

	empty := Value{Kind: KindMulti}
	if !empty.IsEmpty() || empty.Flatten() != "" {
		t.Error("expected empty multi value to flatten to empty string")
	}
}

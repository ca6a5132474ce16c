package validator

import (
	"testing"
)

type sample struct {
	Text     string `json:"text" validate:"notblank"`
	Priority string `json:"priority" validate:"omitempty,oneof=Low Medium High"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

func TestValidate(t *testing.T) {
	v := New()
	tests := []struct {
		name   string
		in     sample
		fields []string
	}{
		{"valid", sample{Text: "ok", Priority: "High", Date: "2024-05-01"}, nil},
		{"blank text", sample{Text: "   "}, []string{"sample.text"}},
		{"bad priority and date", sample{Text: "x", Priority: "Urgent", Date: "01/05/2024"}, []string{"sample.priority", "sample.date"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&tt.in)
			if tt.fields == nil {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			fields, messages := FieldErrors(err)
			if len(fields) != len(tt.fields) || len(messages) != len(tt.fields) {
				t.Fatalf("fields = %v, messages = %v", fields, messages)
			}
			for i := range fields {
				if fields[i] != tt.fields[i] {
					t.Errorf("field %d = %q, want %q", i, fields[i], tt.fields[i])
				}
			}
		})
	}
}

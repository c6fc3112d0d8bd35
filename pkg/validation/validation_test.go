package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name  string  `validate:"required,min=2"`
	Email string  `validate:"omitempty,email"`
	Price float64 `validate:"gt=0"`
	Kind  string  `validate:"omitempty,oneof=a b"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name       string
		input      sample
		wantFields []string
	}{
		{"valid", sample{Name: "Ok", Price: 1}, nil},
		{"missing name", sample{Price: 1}, []string{"Name"}},
		{"bad email and price", sample{Name: "Ok", Email: "nope"}, []string{"Email", "Price"}},
		{"bad kind", sample{Name: "Ok", Price: 1, Kind: "c"}, []string{"Kind"}},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.wantFields == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %T %v", err, err)
			}
			if len(verrs) != len(tt.wantFields) {
				t.Fatalf("expected %d errors, got %v", len(tt.wantFields), verrs)
			}
			for i, f := range tt.wantFields {
				if verrs[i].Field != f {
					t.Errorf("error %d: expected field %s, got %s", i, f, verrs[i].Field)
				}
			}
		})
	}
}

func TestValidationErrors_Messages(t *testing.T) {
	err := New().Struct(sample{Name: "x", Price: 1})
	if !strings.Contains(err.Error(), "Name must be at least 2") {
		t.Errorf("unexpected message: %v", err)
	}

	details := Field("valid_until", "must be in the future").Details()
	fields, ok := details["fields"].(map[string]any)
	if !ok || fields["valid_until"] != "must be in the future" {
		t.Errorf("unexpected details: %v", details)
	}
}

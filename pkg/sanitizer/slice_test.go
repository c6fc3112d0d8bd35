package sanitizer

import (
	"reflect"
	"testing"
)

func TestNormalizeSpecializations(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "normalize and keep order",
			input: []string{"Booking Management", "event_coordination"},
			want:  []string{"booking_management", "event_coordination"},
		},
		{
			name:  "remove duplicates after normalization",
			input: []string{"Event Coordination", "event coordination", "EVENT_COORDINATION"},
			want:  []string{"event_coordination"},
		},
		{
			name:  "filter empty strings",
			input: []string{"portraits", "", "  ", "weddings"},
			want:  []string{"portraits", "weddings"},
		},
		{
			name:  "empty input",
			input: []string{},
			want:  []string{},
		},
		{
			name:  "nil input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSpecializations(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeSpecializations(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePortfolio(t *testing.T) {
	got := NormalizePortfolio([]string{" https://example.com/a ", "example.com/a/", "", "not a url"})
	want := []string{"https://example.com/a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizePortfolio() = %v, want %v", got, want)
	}
}

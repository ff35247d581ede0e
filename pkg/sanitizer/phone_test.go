package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid E.164 format",
			input: "+46701234567",
			want:  "+46701234567",
		},
		{
			name:  "national format with spaces and dash",
			input: "070-123 45 67",
			want:  "+46701234567",
		},
		{
			name:  "international with spaces",
			input: "+46 70 123 45 67",
			want:  "+46701234567",
		},
		{
			name:  "foreign number keeps its country",
			input: "+1 (212) 555-1234",
			want:  "+12125551234",
		},
		{
			name:  "leading and trailing spaces",
			input: "  +46701234567  ",
			want:  "+46701234567",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "garbage is returned trimmed",
			input: " not-a-phone ",
			want:  "not-a-phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"070-123 45 67", "+46701234567", "abc", ""}
	for _, in := range inputs {
		once := NormalizePhone(in)
		twice := NormalizePhone(once)
		if once != twice {
			t.Errorf("NormalizePhone not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"0701234567", true},
		{"+46701234567", true},
		{"12", false},
		{"", false},
		{"phone", false},
	}

	for _, tt := range tests {
		if got := IsValidPhone(tt.input); got != tt.want {
			t.Errorf("IsValidPhone(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

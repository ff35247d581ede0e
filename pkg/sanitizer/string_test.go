package sanitizer

import (
	"testing"

	"korskola/pkg/model"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  Anna Svensson  ",
			want:  "Anna Svensson",
		},
		{
			name:  "multiple spaces between words",
			input: "Anna    Svensson",
			want:  "Anna Svensson",
		},
		{
			name:  "tabs and newlines",
			input: "Anna\t\nSvensson",
			want:  "Anna Svensson",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "zero width and bom removed",
			input: "\ufeffAnna\u200b Svensson",
			want:  "Anna Svensson",
		},
		{
			name:  "preserve swedish letters",
			input: " Åsa Öberg-Ärlig ",
			want:  "Åsa Öberg-Ärlig",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Anna.Svensson@Example.SE "); got != "anna.svensson@example.se" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizePerson(t *testing.T) {
	p := &model.Person{
		FirstName:      "  Anna ",
		LastName:       "Svensson  ",
		Email:          " ANNA@EXAMPLE.SE",
		Phone:          "070-123 45 67",
		PersonalNumber: " 19900101 - 1234 ",
	}

	NormalizePerson(p)

	want := model.Person{
		FirstName:      "Anna",
		LastName:       "Svensson",
		Email:          "anna@example.se",
		Phone:          "+46701234567",
		PersonalNumber: "19900101-1234",
	}
	if *p != want {
		t.Errorf("NormalizePerson() = %+v, want %+v", *p, want)
	}

	NormalizePerson(nil)
}

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
			input: "+447946095812",
			want:  "+447946095812",
		},
		{
			name:  "with spaces",
			input: "+44 7946 095812",
			want:  "+447946095812",
		},
		{
			name:  "with parentheses and dashes",
			input: "+1 (212) 555-1234",
			want:  "+12125551234",
		},
		{
			name:  "national number uses first region",
			input: "(212) 555-1234",
			want:  "+12125551234",
		},
		{
			name:  "leading and trailing spaces",
			input: "  +919876543210  ",
			want:  "+919876543210",
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
			name:  "letters only",
			input: "call me",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizePhoneOrKeep(t *testing.T) {
	if got := NormalizePhoneOrKeep(" call me "); got != "call me" {
		t.Errorf("expected trimmed input to be kept, got %q", got)
	}
	if got := NormalizePhoneOrKeep("+1 212 555 1234"); got != "+12125551234" {
		t.Errorf("expected E.164 number, got %q", got)
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	inputs := []string{"+1 (212) 555-1234", "+44 7946 095812", "(212) 555-1234"}
	for _, input := range inputs {
		once := NormalizePhone(input)
		if twice := NormalizePhone(once); twice != once {
			t.Errorf("NormalizePhone not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

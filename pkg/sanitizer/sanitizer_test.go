package sanitizer

import (
	"reflect"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "basic trim",
			input: "  hello  ",
			want:  "hello",
		},
		{
			name:  "multiple spaces",
			input: "The    Midnight  Choir",
			want:  "The Midnight Choir",
		},
		{
			name:  "tabs and newlines",
			input: "Lisbon\t\nCoast",
			want:  "Lisbon Coast",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Bar™ ",
			want:  "Café & Bar™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := TrimAndNormalize(got); again != got {
				t.Errorf("TrimAndNormalize is not idempotent: %q then %q", got, again)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Ana@Example.COM ", "ana@example.com"},
		{"ana@example.com", "ana@example.com"},
		{"", ""},
		{"not-an-email", "not-an-email"},
	}
	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestBookingFields_Apply(t *testing.T) {
	raw := map[string]any{
		"name":           "  Ana   Lopez ",
		"email":          " ANA@example.com",
		"message":        "  Hello,\n\nwe would love to book you.  ",
		"event_location": "Lisbon\t Coliseum",
		"extra":          "  kept as is ",
		"event_date":     42.0,
	}

	got := BookingFields.Apply(raw)

	want := map[string]any{
		"name":           "Ana Lopez",
		"email":          "ana@example.com",
		"message":        "  Hello,\n\nwe would love to book you.  ",
		"event_location": "Lisbon Coliseum",
		"extra":          "  kept as is ",
		"event_date":     42.0,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Apply() = %#v, want %#v", got, want)
	}
	if raw["name"] != "  Ana   Lopez " {
		t.Errorf("Apply must not modify its input")
	}
}

func TestSanitizeList(t *testing.T) {
	got := SanitizeList([]any{" Intro ", "", "  ", "Night   Drive", 3.0}, TrimAndNormalize)
	want := []any{"Intro", "Night Drive", 3.0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SanitizeList() = %#v, want %#v", got, want)
	}
}

func TestAlbumFields_Tracks(t *testing.T) {
	got := AlbumFields.Apply(map[string]any{
		"title":  " Echoes ",
		"tracks": []any{" One", "Two ", ""},
	})
	if got["title"] != "Echoes" {
		t.Errorf("unexpected title %q", got["title"])
	}
	if !reflect.DeepEqual(got["tracks"], []any{"One", "Two"}) {
		t.Errorf("unexpected tracks %#v", got["tracks"])
	}
}

package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Website Redesign", "website-redesign"},
		{"punctuation collapses", "Q3 / Launch!!", "q3-launch"},
		{"already clean", "alpha", "alpha"},
		{"leading and trailing junk", "  (beta)  ", "beta"},
		{"digits kept", "Sprint 42", "sprint-42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

package domain

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"two words", "Wedding Cakes", "wedding-cakes"},
		{"single word", "Cupcakes", "cupcakes"},
		{"mixed case", "BiRtHdAy CaKeS", "birthday-cakes"},
		{"leading and trailing space", "  Wedding Cakes  ", "wedding-cakes"},
		{"whitespace run", "Wedding   Cakes", "wedding-cakes"},
		{"tab separator", "Wedding\tCakes", "wedding-cakes"},
		{"already a slug", "wedding-cakes", "wedding-cakes"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.in); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

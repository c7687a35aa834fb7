package sanitize_test

import (
	"testing"

	"github.com/rollcallhq/rollcall/internal/app/system/sanitize"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text unchanged", "Ayşe Yılmaz", "Ayşe Yılmaz"},
		{"whitespace trimmed", "  Ayşe  ", "Ayşe"},
		{"tags stripped", "<b>Ayşe</b>", "Ayşe"},
		{"script removed", "Ayşe<script>alert('x')</script>", "Ayşe"},
		{"phone untouched", "+90 555 123 4567", "+90 555 123 4567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitize.Text(tt.in); got != tt.want {
				t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
